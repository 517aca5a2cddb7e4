package fcpxml

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"

	"montage/caption"
	"montage/keyframe"
	"montage/project"
	"montage/timecode"
	"montage/timeline"
)

// Options shape the exported library around the sequence.
type Options struct {
	LibraryLocation string
	EventName       string
	Width           int
	Height          int
}

func (o Options) withDefaults() Options {
	if o.EventName == "" {
		o.EventName = "montage"
	}
	if o.Width == 0 {
		o.Width = 1280
	}
	if o.Height == 0 {
		o.Height = 720
	}
	return o
}

// Export renders a project document as an FCPXML 1.13 library: sequence
// tracks become spine elements and lanes, caption cues become lane titles,
// and keyframed parameters become keyframe animations.
func Export(doc *project.Document, opts Options) (*Document, error) {
	opts = opts.withDefaults()
	seq := doc.Sequence
	rate := seq.Rate

	out := &Document{Version: "1.13"}
	reg := NewRegistry(out)

	formatID := reg.AddFormat(Format{
		Name:          formatName(rate, opts.Height),
		FrameDuration: rate.FrameDuration(),
		Width:         strconv.Itoa(opts.Width),
		Height:        strconv.Itoa(opts.Height),
		ColorSpace:    "1-1-1 (Rec. 709)",
	})

	var titleEffectID string
	needTitles := false
	for _, ct := range doc.Captions {
		if ct.Len() > 0 {
			needTitles = true
		}
	}
	for i := range seq.Tracks {
		for _, c := range seq.Tracks[i].Clips() {
			if c.Type == timeline.TextClip {
				needTitles = true
			}
		}
	}
	if needTitles {
		titleEffectID = reg.AddEffect(Effect{
			Name: "Text",
			UID:  ".../Titles.localized/Build In:Out.localized/Text.localized/Text.moti",
		})
	}

	var spine Spine
	for i := range seq.Tracks {
		track := &seq.Tracks[i]
		lane := ""
		if i > 0 {
			lane = strconv.Itoa(i)
		}
		for _, c := range track.Clips() {
			if err := placeClip(&spine, reg, c, lane, formatID, titleEffectID, rate); err != nil {
				return nil, err
			}
		}
	}

	captionLane := len(seq.Tracks)
	for _, ct := range doc.Captions {
		lane := strconv.Itoa(captionLane)
		captionLane++
		for i, cue := range ct.Captions() {
			spine.Titles = append(spine.Titles, cueTitle(cue, i, ct, lane, titleEffectID, rate))
		}
	}

	out.Library = Library{
		Location: opts.LibraryLocation,
		Events: []Event{{
			Name: opts.EventName,
			UID:  UID(opts.EventName),
			Projects: []Project{{
				Name: doc.Name,
				UID:  UID(doc.Name),
				Sequences: []Sequence{{
					Format:      formatID,
					Duration:    seq.Duration().Rational(rate),
					TCStart:     "0s",
					TCFormat:    "NDF",
					AudioLayout: "stereo",
					AudioRate:   "48k",
					Spine:       spine,
				}},
			}},
		}},
		SmartCollections: standardSmartCollections(),
	}
	return out, nil
}

func placeClip(spine *Spine, reg *Registry, c timeline.Clip, lane, formatID, titleEffectID string, rate timecode.FrameRate) error {
	offset := c.Placement.Start.Rational(rate)
	duration := c.Duration().Rational(rate)
	start := c.Source.Start.Rational(rate)
	params := animParams(c.Anim, rate)

	switch c.Type {
	case timeline.VideoClip:
		ref := reg.GetOrCreateAsset(c.Media, Asset{
			Name:     c.Name,
			Start:    "0s",
			HasVideo: "1",
			HasAudio: "1",
			Format:   formatID,
			Duration: c.Source.End.Rational(rate),
		})
		spine.AssetClips = append(spine.AssetClips, AssetClip{
			Ref: ref, Lane: lane, Offset: offset, Name: c.Name,
			Start: start, Duration: duration, Format: formatID,
			TCFormat: "NDF", Params: params,
		})
	case timeline.AudioClip:
		ref := reg.GetOrCreateAsset(c.Media, Asset{
			Name:          c.Name,
			Start:         "0s",
			HasAudio:      "1",
			AudioSources:  "1",
			AudioChannels: "2",
			Format:        formatID,
			Duration:      c.Source.End.Rational(rate),
		})
		spine.AssetClips = append(spine.AssetClips, AssetClip{
			Ref: ref, Lane: lane, Offset: offset, Name: c.Name,
			Start: start, Duration: duration,
			TCFormat: "NDF", Params: params,
		})
	case timeline.ImageClip:
		ref := reg.GetOrCreateAsset(c.Media, Asset{
			Name:     c.Name,
			Start:    "0s",
			HasVideo: "1",
			Format:   formatID,
			Duration: "0s", // stills carry no intrinsic duration
		})
		spine.Videos = append(spine.Videos, Video{
			Ref: ref, Lane: lane, Offset: offset, Name: c.Name,
			Duration: duration, Params: params,
		})
	case timeline.TextClip:
		styleID := TextStyleID(c.Name, lane+"@"+offset)
		spine.Titles = append(spine.Titles, Title{
			Ref: titleEffectID, Lane: lane, Offset: offset, Name: c.Name,
			Duration: duration, Params: params,
			Text: &TitleText{TextStyles: []TextStyleRef{{Ref: styleID, Text: c.Name}}},
			TextStyleDef: &TextStyleDef{
				ID:        styleID,
				TextStyle: TextStyle{Font: "Helvetica Neue", FontSize: "96", Alignment: "center"},
			},
		})
	case timeline.EffectClip:
		// Effect clips describe processing, not media; they have no
		// FCPXML spine counterpart.
		return nil
	default:
		return fmt.Errorf("cannot export clip type %s", c.Type)
	}
	return nil
}

func cueTitle(cue caption.Caption, index int, track *caption.Track, lane, titleEffectID string, rate timecode.FrameRate) Title {
	style := track.DefaultStyle
	if cue.Style != nil {
		style = *cue.Style
	}
	font := style.Font
	if font == "" {
		font = "Helvetica Neue"
	}
	size := style.Size
	if size <= 0 {
		size = 60
	}
	styleID := TextStyleID(cue.Text, fmt.Sprintf("%s_%d", track.Name, index))

	title := Title{
		Ref:      titleEffectID,
		Lane:     lane,
		Offset:   cue.Range.Start.Rational(rate),
		Name:     fmt.Sprintf("%s %d", track.Name, index+1),
		Duration: cue.Range.Duration().Rational(rate),
		Text:     &TitleText{TextStyles: []TextStyleRef{{Ref: styleID, Text: cue.Text}}},
		TextStyleDef: &TextStyleDef{
			ID: styleID,
			TextStyle: TextStyle{
				Font:      font,
				FontSize:  strconv.FormatFloat(size, 'f', -1, 64),
				FontColor: style.Color,
				Bold:      boolAttr(style.Bold),
				Italic:    boolAttr(style.Italic),
				Alignment: "center",
			},
		},
	}
	return title
}

func animParams(tracks []*keyframe.Track, rate timecode.FrameRate) []Param {
	var params []Param
	for _, kt := range tracks {
		if kt.Len() == 0 {
			continue
		}
		anim := &KeyframeAnimation{}
		for _, k := range kt.Keyframes() {
			anim.Keyframes = append(anim.Keyframes, Keyframe{
				Time:  k.At.Rational(rate),
				Value: strconv.FormatFloat(k.Value, 'f', -1, 64),
				Curve: curveAttr(k.Interp),
			})
		}
		params = append(params, Param{Name: kt.Param, KeyframeAnimation: anim})
	}
	return params
}

func curveAttr(i keyframe.Interp) string {
	switch i {
	case keyframe.Linear, keyframe.Hold:
		return "linear"
	default:
		return "smooth"
	}
}

func boolAttr(b bool) string {
	if b {
		return "1"
	}
	return ""
}

func formatName(rate timecode.FrameRate, height int) string {
	switch rate {
	case timecode.Rate23976:
		return fmt.Sprintf("FFVideoFormat%dp2398", height)
	case timecode.Rate25:
		return fmt.Sprintf("FFVideoFormat%dp25", height)
	case timecode.Rate2997:
		return fmt.Sprintf("FFVideoFormat%dp2997", height)
	default:
		return fmt.Sprintf("FFVideoFormat%dp%d", height, rate.Num/rate.Den)
	}
}

func standardSmartCollections() []SmartCollection {
	return []SmartCollection{
		{Name: "Projects", Match: "all", Clips: []MatchClip{{Rule: "is", Type: "project"}}},
		{Name: "All Video", Match: "any", Media: []MatchMedia{
			{Rule: "is", Type: "videoOnly"},
			{Rule: "is", Type: "videoWithAudio"},
		}},
		{Name: "Audio Only", Match: "all", Media: []MatchMedia{{Rule: "is", Type: "audioOnly"}}},
		{Name: "Stills", Match: "all", Media: []MatchMedia{{Rule: "is", Type: "stills"}}},
		{Name: "Favorites", Match: "all", Ratings: []MatchRatings{{Value: "favorites"}}},
	}
}

// WriteFile marshals the document with the standard FCPXML header.
func WriteFile(doc *Document, path string) error {
	body, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal fcpxml: %w", err)
	}
	content := xml.Header + "<!DOCTYPE fcpxml>\n\n" + string(body) + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write fcpxml: %w", err)
	}
	return nil
}
