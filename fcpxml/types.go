// Package fcpxml renders a timeline sequence as a Final Cut Pro XML
// document. The structs mirror the FCPXML 1.13 schema; all output goes
// through xml.MarshalIndent over these types, never string templates.
package fcpxml

import (
	"encoding/xml"
	"strconv"
	"strings"
)

type Document struct {
	XMLName   xml.Name  `xml:"fcpxml"`
	Version   string    `xml:"version,attr"`
	Resources Resources `xml:"resources"`
	Library   Library   `xml:"library"`
}

type Resources struct {
	Assets  []Asset  `xml:"asset,omitempty"`
	Formats []Format `xml:"format"`
	Effects []Effect `xml:"effect,omitempty"`
}

type Format struct {
	ID            string `xml:"id,attr"`
	Name          string `xml:"name,attr,omitempty"`
	FrameDuration string `xml:"frameDuration,attr,omitempty"`
	Width         string `xml:"width,attr,omitempty"`
	Height        string `xml:"height,attr,omitempty"`
	ColorSpace    string `xml:"colorSpace,attr,omitempty"`
}

// Asset is a media resource. Its UID must be deterministic per file name:
// once FCP imports a file under a UID, a different UID for the same file
// makes the library refuse the re-import.
type Asset struct {
	ID            string   `xml:"id,attr"`
	Name          string   `xml:"name,attr"`
	UID           string   `xml:"uid,attr"`
	Start         string   `xml:"start,attr"`
	HasVideo      string   `xml:"hasVideo,attr,omitempty"`
	Format        string   `xml:"format,attr"`
	HasAudio      string   `xml:"hasAudio,attr,omitempty"`
	AudioSources  string   `xml:"audioSources,attr,omitempty"`
	AudioChannels string   `xml:"audioChannels,attr,omitempty"`
	Duration      string   `xml:"duration,attr"`
	MediaRep      MediaRep `xml:"media-rep"`
}

type MediaRep struct {
	Kind string `xml:"kind,attr"`
	Sig  string `xml:"sig,attr"`
	Src  string `xml:"src,attr"`
}

// Effect is a Motion or built-in title effect referenced by <title> elements.
type Effect struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
	UID  string `xml:"uid,attr,omitempty"`
}

type Library struct {
	Location         string            `xml:"location,attr,omitempty"`
	Events           []Event           `xml:"event"`
	SmartCollections []SmartCollection `xml:"smart-collection,omitempty"`
}

type Event struct {
	Name     string    `xml:"name,attr"`
	UID      string    `xml:"uid,attr,omitempty"`
	Projects []Project `xml:"project"`
}

type Project struct {
	Name      string     `xml:"name,attr"`
	UID       string     `xml:"uid,attr,omitempty"`
	ModDate   string     `xml:"modDate,attr,omitempty"`
	Sequences []Sequence `xml:"sequence"`
}

type Sequence struct {
	Format      string `xml:"format,attr"`
	Duration    string `xml:"duration,attr"`
	TCStart     string `xml:"tcStart,attr"`
	TCFormat    string `xml:"tcFormat,attr"`
	AudioLayout string `xml:"audioLayout,attr"`
	AudioRate   string `xml:"audioRate,attr"`
	Spine       Spine  `xml:"spine"`
}

// Spine is the main timeline container. Its children marshal in
// chronological offset order regardless of element type, which is how FCP
// expects a spine to read.
type Spine struct {
	XMLName    xml.Name    `xml:"spine"`
	AssetClips []AssetClip `xml:"asset-clip,omitempty"`
	Gaps       []Gap       `xml:"gap,omitempty"`
	Titles     []Title     `xml:"title,omitempty"`
	Videos     []Video     `xml:"video,omitempty"`
}

func (s Spine) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	type ordered struct {
		offset  int64
		element interface{}
	}
	var elements []ordered
	for _, clip := range s.AssetClips {
		elements = append(elements, ordered{rationalMicros(clip.Offset), clip})
	}
	for _, video := range s.Videos {
		elements = append(elements, ordered{rationalMicros(video.Offset), video})
	}
	for _, title := range s.Titles {
		elements = append(elements, ordered{rationalMicros(title.Offset), title})
	}
	for _, gap := range s.Gaps {
		elements = append(elements, ordered{rationalMicros(gap.Offset), gap})
	}

	// Stable insertion sort: ties keep their declaration order.
	for i := 1; i < len(elements); i++ {
		for j := i; j > 0 && elements[j-1].offset > elements[j].offset; j-- {
			elements[j-1], elements[j] = elements[j], elements[j-1]
		}
	}

	for _, elem := range elements {
		if err := e.Encode(elem.element); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// rationalMicros parses "0s", "Ns" or "A/Bs" offsets into microseconds for
// sorting. Unparseable offsets sort first rather than failing the marshal.
func rationalMicros(offset string) int64 {
	body, ok := strings.CutSuffix(offset, "s")
	if !ok {
		return 0
	}
	num, den, found := strings.Cut(body, "/")
	a, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return 0
	}
	if !found {
		return a * 1e6
	}
	b, err := strconv.ParseInt(den, 10, 64)
	if err != nil || b == 0 {
		return 0
	}
	return a * 1e6 / b
}

type AssetClip struct {
	XMLName  xml.Name `xml:"asset-clip"`
	Ref      string   `xml:"ref,attr"`
	Lane     string   `xml:"lane,attr,omitempty"`
	Offset   string   `xml:"offset,attr"`
	Name     string   `xml:"name,attr"`
	Start    string   `xml:"start,attr,omitempty"`
	Duration string   `xml:"duration,attr"`
	Format   string   `xml:"format,attr,omitempty"`
	TCFormat string   `xml:"tcFormat,attr,omitempty"`
	Params   []Param  `xml:"param,omitempty"`
}

// Video places a stillable resource (images, title backgrounds) on the spine.
type Video struct {
	XMLName  xml.Name `xml:"video"`
	Ref      string   `xml:"ref,attr"`
	Lane     string   `xml:"lane,attr,omitempty"`
	Offset   string   `xml:"offset,attr"`
	Name     string   `xml:"name,attr"`
	Start    string   `xml:"start,attr,omitempty"`
	Duration string   `xml:"duration,attr"`
	Params   []Param  `xml:"param,omitempty"`
}

type Gap struct {
	XMLName  xml.Name `xml:"gap"`
	Name     string   `xml:"name,attr"`
	Offset   string   `xml:"offset,attr"`
	Duration string   `xml:"duration,attr"`
	Titles   []Title  `xml:"title,omitempty"`
}

type Title struct {
	XMLName      xml.Name      `xml:"title"`
	Ref          string        `xml:"ref,attr"`
	Lane         string        `xml:"lane,attr,omitempty"`
	Offset       string        `xml:"offset,attr"`
	Name         string        `xml:"name,attr"`
	Start        string        `xml:"start,attr,omitempty"`
	Duration     string        `xml:"duration,attr"`
	Params       []Param       `xml:"param,omitempty"`
	Text         *TitleText    `xml:"text,omitempty"`
	TextStyleDef *TextStyleDef `xml:"text-style-def,omitempty"`
}

type TitleText struct {
	TextStyles []TextStyleRef `xml:"text-style"`
}

type TextStyleRef struct {
	Ref  string `xml:"ref,attr"`
	Text string `xml:",chardata"`
}

type TextStyleDef struct {
	ID        string    `xml:"id,attr"`
	TextStyle TextStyle `xml:"text-style"`
}

type TextStyle struct {
	Font      string `xml:"font,attr"`
	FontSize  string `xml:"fontSize,attr"`
	FontColor string `xml:"fontColor,attr,omitempty"`
	Bold      string `xml:"bold,attr,omitempty"`
	Italic    string `xml:"italic,attr,omitempty"`
	Alignment string `xml:"alignment,attr,omitempty"`
}

type Param struct {
	Name              string             `xml:"name,attr"`
	Key               string             `xml:"key,attr,omitempty"`
	Value             string             `xml:"value,attr,omitempty"`
	KeyframeAnimation *KeyframeAnimation `xml:"keyframeAnimation,omitempty"`
}

type KeyframeAnimation struct {
	Keyframes []Keyframe `xml:"keyframe"`
}

type Keyframe struct {
	Time  string `xml:"time,attr"`
	Value string `xml:"value,attr"`
	Curve string `xml:"curve,attr,omitempty"`
}

type SmartCollection struct {
	Name     string       `xml:"name,attr"`
	Match    string       `xml:"match,attr"`
	Clips    []MatchClip  `xml:"match-clip,omitempty"`
	Media    []MatchMedia `xml:"match-media,omitempty"`
	Ratings  []MatchRatings `xml:"match-ratings,omitempty"`
}

type MatchClip struct {
	Rule string `xml:"rule,attr"`
	Type string `xml:"type,attr"`
}

type MatchMedia struct {
	Rule string `xml:"rule,attr"`
	Type string `xml:"type,attr"`
}

type MatchRatings struct {
	Value string `xml:"value,attr"`
}
