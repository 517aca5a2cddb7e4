package caption

import (
	"bufio"
	"fmt"
	"strings"

	"montage/timecode"
)

// EncodeSRT serializes cues in time order as SubRip text:
// index, "HH:MM:SS,mmm --> HH:MM:SS,mmm", text, blank line.
func EncodeSRT(cues []Caption) string {
	var b strings.Builder
	for i, c := range cues {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1, c.Range.Start.StampSRT(), c.Range.End.StampSRT(), c.Text)
	}
	return b.String()
}

// ParseSRT reads SubRip text. Malformed blocks are skipped, each reported as
// an error wrapping ErrMalformedEntry, with the well-formed captions still
// returned; a damaged file never loses its good cues.
func ParseSRT(data string) ([]Caption, []error) {
	return parseCueBlocks(data, parseSRTTiming)
}

func parseSRTTiming(line string) (timecode.TimeRange, bool) {
	start, end, ok := splitTimingLine(line)
	if !ok {
		return timecode.TimeRange{}, false
	}
	s, err1 := timecode.ParseStampSRT(start)
	e, err2 := timecode.ParseStampSRT(end)
	if err1 != nil || err2 != nil {
		return timecode.TimeRange{}, false
	}
	r, err := timecode.NewTimeRange(s, e)
	if err != nil {
		return timecode.TimeRange{}, false
	}
	return r, true
}

func splitTimingLine(line string) (start, end string, ok bool) {
	left, right, found := strings.Cut(line, "-->")
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(left), strings.TrimSpace(right), true
}

// parseCueBlocks walks blank-line-separated blocks, extracting a timing line
// and the text below it. Shared by the SRT and VTT readers; the timing
// parser is the only difference.
func parseCueBlocks(data string, timing func(string) (timecode.TimeRange, bool)) ([]Caption, []error) {
	var cues []Caption
	var errs []error

	scanner := bufio.NewScanner(strings.NewReader(data))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	var block []string
	blockNum := 0
	flush := func() {
		if len(block) == 0 {
			return
		}
		blockNum++
		lines := block
		block = nil

		// Header-only noise (WEBVTT line, NOTE blocks) is not a cue.
		if len(lines) == 1 && !strings.Contains(lines[0], "-->") {
			return
		}

		// The timing line is the first line containing "-->"; anything
		// above it is the optional cue index/identifier.
		timingIdx := -1
		for i, l := range lines {
			if strings.Contains(l, "-->") {
				timingIdx = i
				break
			}
		}
		if timingIdx < 0 || timingIdx > 1 {
			errs = append(errs, fmt.Errorf("%w: block %d has no timing line", ErrMalformedEntry, blockNum))
			return
		}
		r, ok := timing(lines[timingIdx])
		if !ok {
			errs = append(errs, fmt.Errorf("%w: block %d timing %q", ErrMalformedEntry, blockNum, lines[timingIdx]))
			return
		}
		text := strings.Join(lines[timingIdx+1:], "\n")
		if strings.TrimSpace(text) == "" {
			errs = append(errs, fmt.Errorf("%w: block %d has no text", ErrMalformedEntry, blockNum))
			return
		}
		cues = append(cues, New(r, text))
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		block = append(block, line)
	}
	flush()

	return cues, errs
}
