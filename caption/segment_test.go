package caption

import (
	"strings"
	"testing"
)

func TestSuggestClipsBreaksAtSentenceEnd(t *testing.T) {
	cues := []Caption{
		cue(t, 0, 3, "we started the project"),
		cue(t, 3, 7, "and shipped it in a week."),
		cue(t, 7, 10, "the next part"),
		cue(t, 10, 14, "was much harder."),
	}
	clips := SuggestClips(cues, sec(6), sec(18))
	if len(clips) != 2 {
		t.Fatalf("want 2 clips, got %d", len(clips))
	}
	if clips[0].Range.End.Seconds() != 7 {
		t.Errorf("first clip must break after the sentence at 7s, got %s", clips[0].Range)
	}
	if !strings.HasSuffix(clips[0].Text, "week.") {
		t.Errorf("first clip text must end the sentence, got %q", clips[0].Text)
	}
	if clips[1].Range.Start.Seconds() != 7 {
		t.Errorf("second clip must start at 7s, got %s", clips[1].Range)
	}
}

func TestSuggestClipsRespectsMaxDuration(t *testing.T) {
	var cues []Caption
	for i := 0; i < 10; i++ {
		start := float64(i * 4)
		cues = append(cues, cue(t, start, start+4, "no sentence endings here"))
	}
	clips := SuggestClips(cues, sec(6), sec(18))
	for _, c := range clips {
		if c.Range.Duration().After(sec(18)) {
			t.Errorf("clip %d exceeds max duration: %s", c.Num, c.Range)
		}
	}
	if len(clips) < 2 {
		t.Errorf("40s of cues must split under an 18s cap, got %d clips", len(clips))
	}
}

func TestSuggestClipsPadsShortTail(t *testing.T) {
	cues := []Caption{
		cue(t, 0, 2, "short."),
		cue(t, 2, 4, "tail cue"),
	}
	clips := SuggestClips(cues, sec(6), sec(18))
	if len(clips) == 0 {
		t.Fatal("want at least one clip")
	}
	first := clips[0]
	if first.Range.Duration().Before(sec(6)) && len(clips) > 1 {
		t.Errorf("non-final clip below min duration: %s", first.Range)
	}
	if first.First != "short." {
		t.Errorf("First must keep the opening cue alone, got %q", first.First)
	}
}

func TestSuggestClipsEmpty(t *testing.T) {
	if got := SuggestClips(nil, sec(6), sec(18)); got != nil {
		t.Errorf("empty input: want nil, got %v", got)
	}
}

func TestSuggestClipsNumbersSequential(t *testing.T) {
	var cues []Caption
	for i := 0; i < 6; i++ {
		start := float64(i * 5)
		cues = append(cues, cue(t, start, start+5, "sentence ends here."))
	}
	clips := SuggestClips(cues, sec(4), sec(8))
	for i, c := range clips {
		if c.Num != i+1 {
			t.Errorf("clip %d numbered %d", i, c.Num)
		}
	}
}
