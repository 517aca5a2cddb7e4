package caption

import (
	"sort"
	"strings"

	"montage/timecode"
)

// ClipSuggestion is a clip-sized grouping of consecutive cues, produced when
// turning a transcript into editable timeline clips.
type ClipSuggestion struct {
	Num   int
	Range timecode.TimeRange
	Text  string
	First string // first cue's text alone, for previews
}

// SuggestClips groups consecutive cues into ranges between minDuration and
// maxDuration, preferring to break after sentence-final cues once the
// minimum is reached. Cues are processed in start order.
func SuggestClips(cues []Caption, minDuration, maxDuration timecode.Time) []ClipSuggestion {
	if len(cues) == 0 {
		return nil
	}
	sorted := make([]Caption, len(cues))
	copy(sorted, cues)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Range.Start.Before(sorted[j].Range.Start)
	})

	var clips []ClipSuggestion
	num := 1
	i := 0
	for i < len(sorted) {
		start := sorted[i].Range.Start
		texts := []string{sorted[i].Text}

		j := i + 1
		for j < len(sorted) {
			proposed, err := sorted[j].Range.End.Sub(start)
			if err != nil || proposed.After(maxDuration) {
				break
			}
			texts = append(texts, sorted[j].Text)
			j++

			sofar, _ := sorted[j-1].Range.End.Sub(start)
			if !sofar.Before(minDuration) && endsSentence(sorted[j-1].Text) {
				break
			}
		}

		end := sorted[j-1].Range.End
		dur, _ := end.Sub(start)
		if dur.Before(minDuration) && j < len(sorted) {
			// Pad short tails out to the minimum, pulling in any cue
			// that starts inside the extended range.
			end = start.Add(minDuration)
			for k := j; k < len(sorted) && sorted[k].Range.Start.Before(end); k++ {
				texts = append(texts, sorted[k].Text)
			}
		}

		clips = append(clips, ClipSuggestion{
			Num:   num,
			Range: timecode.TimeRange{Start: start, End: end},
			Text:  strings.Join(texts, " "),
			First: sorted[i].Text,
		})
		num++
		i = j
	}
	return clips
}

func endsSentence(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasSuffix(t, ".") || strings.HasSuffix(t, "!") || strings.HasSuffix(t, "?")
}
