package caption

import (
	"fmt"
	"regexp"
	"strings"

	"montage/timecode"
)

// EncodeVTT serializes cues as WebVTT: the WEBVTT header, then numbered
// cues with "HH:MM:SS.mmm --> HH:MM:SS.mmm" timing lines.
func EncodeVTT(cues []Caption) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for i, c := range cues {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1, c.Range.Start.StampVTT(), c.Range.End.StampVTT(), c.Text)
	}
	return b.String()
}

var (
	// vttInlineTags also catches word-timing spans like <00:00:00.399>,
	// which auto-generated subtitles interleave with <c> styling tags.
	vttInlineTags  = regexp.MustCompile(`<[^>]*>`)
	vttTimingExtra = regexp.MustCompile(`\s+(align|line|position|size|vertical):\S+`)
)

// ParseVTT reads WebVTT text with the same collect-and-skip policy as
// ParseSRT. Inline word-timing spans and <c> styling tags, as emitted by
// auto-generated subtitles, are stripped from cue text.
func ParseVTT(data string) ([]Caption, []error) {
	cues, errs := parseCueBlocks(data, parseVTTTiming)
	cleaned := cues[:0]
	for _, c := range cues {
		c.Text = cleanVTTText(c.Text)
		if c.Text == "" {
			continue
		}
		cleaned = append(cleaned, c)
	}
	return cleaned, errs
}

func parseVTTTiming(line string) (timecode.TimeRange, bool) {
	// Cue settings after the end stamp ("align:start position:0%") are
	// allowed and ignored.
	line = vttTimingExtra.ReplaceAllString(line, "")
	start, end, ok := splitTimingLine(line)
	if !ok {
		return timecode.TimeRange{}, false
	}
	s, err1 := parseVTTStamp(start)
	e, err2 := parseVTTStamp(end)
	if err1 != nil || err2 != nil {
		return timecode.TimeRange{}, false
	}
	r, err := timecode.NewTimeRange(s, e)
	if err != nil {
		return timecode.TimeRange{}, false
	}
	return r, true
}

// parseVTTStamp accepts both HH:MM:SS.mmm and the short MM:SS.mmm form the
// VTT spec permits.
func parseVTTStamp(s string) (timecode.Time, error) {
	if strings.Count(s, ":") == 1 {
		s = "00:" + s
	}
	return timecode.ParseStampVTT(s)
}

func cleanVTTText(text string) string {
	text = vttInlineTags.ReplaceAllString(text, "")
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
