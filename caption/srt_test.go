package caption

import (
	"errors"
	"testing"
)

func TestEncodeSRT(t *testing.T) {
	cues := []Caption{
		cue(t, 0, 2, "Hello"),
		cue(t, 2, 4.5, "World"),
	}
	want := "1\n00:00:00,000 --> 00:00:02,000\nHello\n\n" +
		"2\n00:00:02,000 --> 00:00:04,500\nWorld\n\n"
	if got := EncodeSRT(cues); got != want {
		t.Errorf("EncodeSRT:\nwant %q\ngot  %q", want, got)
	}
}

func TestSRTRoundTrip(t *testing.T) {
	in := []Caption{
		cue(t, 0, 2, "Hello"),
		cue(t, 2, 4, "two lines\nof text"),
		cue(t, 10.5, 12.25, "The end."),
	}
	out, errs := ParseSRT(EncodeSRT(in))
	if len(errs) != 0 {
		t.Fatalf("round trip errors: %v", errs)
	}
	if len(out) != len(in) {
		t.Fatalf("round trip count: want %d, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i].Range != in[i].Range {
			t.Errorf("cue %d range: want %s, got %s", i, in[i].Range, out[i].Range)
		}
		if out[i].Text != in[i].Text {
			t.Errorf("cue %d text: want %q, got %q", i, in[i].Text, out[i].Text)
		}
	}
}

func TestParseSRTSkipsMalformedBlocks(t *testing.T) {
	input := "1\n00:00:00,000 --> 00:00:02,000\nGood one\n\n" +
		"2\nnot a timing line\nBad block\n\n" +
		"3\n00:00:99,000 --> 00:00:05,000\nBad stamp\n\n" +
		"4\n00:00:06,000 --> 00:00:05,000\nReversed range\n\n" +
		"5\n00:00:08,000 --> 00:00:09,000\nAnother good one\n\n"

	cues, errs := ParseSRT(input)
	if len(cues) != 2 {
		t.Fatalf("want 2 parsed cues, got %d", len(cues))
	}
	if len(errs) != 3 {
		t.Fatalf("want 3 skipped blocks, got %d: %v", len(errs), errs)
	}
	for _, err := range errs {
		if !errors.Is(err, ErrMalformedEntry) {
			t.Errorf("skip error must wrap ErrMalformedEntry, got %v", err)
		}
	}
	if cues[0].Text != "Good one" || cues[1].Text != "Another good one" {
		t.Errorf("wrong cues survived: %q, %q", cues[0].Text, cues[1].Text)
	}
}

func TestParseSRTMissingTextIsSkipped(t *testing.T) {
	input := "1\n00:00:00,000 --> 00:00:02,000\n\n"
	cues, errs := ParseSRT(input)
	if len(cues) != 0 || len(errs) != 1 {
		t.Fatalf("textless block: want 0 cues 1 error, got %d cues %d errors", len(cues), len(errs))
	}
}

func TestParseSRTWindowsLineEndings(t *testing.T) {
	input := "1\r\n00:00:00,000 --> 00:00:01,000\r\nCRLF text\r\n\r\n"
	cues, errs := ParseSRT(input)
	if len(errs) != 0 || len(cues) != 1 {
		t.Fatalf("CRLF input: want 1 cue no errors, got %d cues %v", len(cues), errs)
	}
	if cues[0].Text != "CRLF text" {
		t.Errorf("CRLF text: got %q", cues[0].Text)
	}
}

func TestParseSRTEmptyInput(t *testing.T) {
	cues, errs := ParseSRT("")
	if len(cues) != 0 || len(errs) != 0 {
		t.Errorf("empty input: want nothing, got %d cues %d errors", len(cues), len(errs))
	}
}
