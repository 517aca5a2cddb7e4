package cmd

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"montage/timecode"
	"montage/timeline"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Edit a project's tracks, clips, and markers",
}

var (
	clipType     string
	clipStart    string
	clipIn       string
	clipOut      string
	clipSpeed    float64
	allowOverlap bool
	markerType   string
	markerLabel  string
)

var addTrackCmd = &cobra.Command{
	Use:   "add-track <project> <video|audio|text|effect> <name>",
	Short: "Append a track to the sequence",
	Args:  cobra.ExactArgs(3),
	RunE:  runAddTrack,
}

var addClipCmd = &cobra.Command{
	Use:   "add-clip <project> <track-index> <media>",
	Short: "Probe a media file and place it as a clip",
	Long: `Place a media file on a track. The source range defaults to the whole
file (probed with ffprobe) and the timeline position to the end of the
track. Times are given as timecode (HH:MM:SS:FF) or seconds.`,
	Args: cobra.ExactArgs(3),
	RunE: runAddClip,
}

var moveClipCmd = &cobra.Command{
	Use:   "move-clip <project> <clip-id> <track-index> <start>",
	Short: "Move a clip to a new track and start time",
	Args:  cobra.ExactArgs(4),
	RunE:  runMoveClip,
}

var resizeClipCmd = &cobra.Command{
	Use:   "resize-clip <project> <clip-id> <start> <end>",
	Short: "Trim a clip's timeline placement",
	Args:  cobra.ExactArgs(4),
	RunE:  runResizeClip,
}

var markerCmd = &cobra.Command{
	Use:   "marker <project> <time>",
	Short: "Add a marker at a time",
	Args:  cobra.ExactArgs(2),
	RunE:  runAddMarker,
}

var markersCmd = &cobra.Command{
	Use:   "markers <project>",
	Short: "List the sequence's markers",
	Args:  cobra.ExactArgs(1),
	RunE:  runListMarkers,
}

func init() {
	timelineCmd.AddCommand(addTrackCmd)
	timelineCmd.AddCommand(addClipCmd)
	timelineCmd.AddCommand(moveClipCmd)
	timelineCmd.AddCommand(resizeClipCmd)
	timelineCmd.AddCommand(markerCmd)
	timelineCmd.AddCommand(markersCmd)

	addClipCmd.Flags().StringVar(&clipType, "type", "video", "Clip type (video|image|audio|text|effect)")
	addClipCmd.Flags().StringVar(&clipStart, "start", "", "Timeline start (default: end of track)")
	addClipCmd.Flags().StringVar(&clipIn, "in", "", "Source in point (default: 0)")
	addClipCmd.Flags().StringVar(&clipOut, "out", "", "Source out point (default: media duration)")
	addClipCmd.Flags().Float64Var(&clipSpeed, "speed", 1, "Playback speed factor")
	addClipCmd.Flags().BoolVar(&allowOverlap, "allow-overlap", false, "Permit overlapping placements")
	moveClipCmd.Flags().BoolVar(&allowOverlap, "allow-overlap", false, "Permit overlapping placements")

	markerCmd.Flags().StringVar(&markerType, "type", "comment", "Marker type (comment|chapter|todo|sync|edit|cue)")
	markerCmd.Flags().StringVar(&markerLabel, "label", "", "Marker label")
}

// parseTime accepts either a frame-accurate timecode or decimal seconds.
func parseTime(s string, rate timecode.FrameRate) (timecode.Time, error) {
	if t, err := timecode.ParseTimecode(s, rate); err == nil {
		return t, nil
	}
	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return timecode.Time{}, fmt.Errorf("cannot parse time %q: use HH:MM:SS:FF or seconds", s)
	}
	return timecode.FromSeconds(seconds)
}

func trackByIndex(seq *timeline.Sequence, arg string) (*timeline.Track, error) {
	i, err := strconv.Atoi(arg)
	if err != nil || i < 0 || i >= len(seq.Tracks) {
		return nil, fmt.Errorf("no track at index %q (project has %d)", arg, len(seq.Tracks))
	}
	return &seq.Tracks[i], nil
}

func overlapPolicy() timeline.OverlapPolicy {
	if allowOverlap {
		return timeline.AllowOverlap
	}
	return timeline.RejectOverlap
}

func runAddTrack(cmd *cobra.Command, args []string) error {
	doc, err := loadProject(args[0])
	if err != nil {
		return err
	}
	var kind timeline.TrackKind
	switch args[1] {
	case "video":
		kind = timeline.VideoTrack
	case "audio":
		kind = timeline.AudioTrack
	case "text":
		kind = timeline.TextTrack
	case "effect":
		kind = timeline.EffectTrack
	default:
		return fmt.Errorf("unknown track kind %q", args[1])
	}
	id := doc.Sequence.AddTrack(kind, args[2])
	if err := doc.Save(args[0]); err != nil {
		return err
	}
	fmt.Printf("Added %s track %q (%s)\n", args[1], args[2], id)
	return nil
}

func runAddClip(cmd *cobra.Command, args []string) error {
	doc, err := loadProject(args[0])
	if err != nil {
		return err
	}
	seq := doc.Sequence
	track, err := trackByIndex(seq, args[1])
	if err != nil {
		return err
	}
	mediaPath := args[2]

	typ, err := timeline.ParseClipType(clipType)
	if err != nil {
		return err
	}

	in := timecode.Time{}
	if clipIn != "" {
		if in, err = parseTime(clipIn, seq.Rate); err != nil {
			return err
		}
	}
	var out timecode.Time
	if clipOut != "" {
		if out, err = parseTime(clipOut, seq.Rate); err != nil {
			return err
		}
	} else {
		// Text and effect clips have no probeable media, so they need an
		// explicit out point.
		if typ == timeline.TextClip || typ == timeline.EffectClip {
			return fmt.Errorf("--out is required for %s clips", clipType)
		}
		info, err := mediaService().Probe(cmd.Context(), mediaPath)
		if err != nil {
			return err
		}
		out = info.Duration
	}
	source, err := timecode.NewTimeRange(in, out)
	if err != nil {
		return err
	}

	start := track.End()
	if clipStart != "" {
		if start, err = parseTime(clipStart, seq.Rate); err != nil {
			return err
		}
	}

	clip := timeline.NewClip(baseName(mediaPath), typ, mediaPath, start, source)
	if clipSpeed > 0 && clipSpeed != 1 {
		clip.Speed = clipSpeed
		end := start.Add(scaledDuration(source.Duration(), clipSpeed))
		clip.Placement, err = timecode.NewTimeRange(start, end)
		if err != nil {
			return err
		}
	}
	if err := seq.AddClip(track.ID, clip, overlapPolicy()); err != nil {
		return err
	}
	if err := doc.Save(args[0]); err != nil {
		return err
	}
	fmt.Printf("Placed %s at %s (clip %s)\n", clip.Name, clip.Placement.Start.Timecode(seq.Rate), clip.ID)
	return nil
}

// scaledDuration maps a source duration into timeline time at speed.
func scaledDuration(d timecode.Time, speed float64) timecode.Time {
	scaled, err := d.Scale(1 / speed)
	if err != nil {
		return d
	}
	return scaled
}

func runMoveClip(cmd *cobra.Command, args []string) error {
	doc, err := loadProject(args[0])
	if err != nil {
		return err
	}
	seq := doc.Sequence
	clipID, err := uuid.Parse(args[1])
	if err != nil {
		return fmt.Errorf("bad clip id %q: %w", args[1], err)
	}
	track, err := trackByIndex(seq, args[2])
	if err != nil {
		return err
	}
	start, err := parseTime(args[3], seq.Rate)
	if err != nil {
		return err
	}
	if err := seq.MoveClip(clipID, track.ID, start, overlapPolicy()); err != nil {
		return err
	}
	if err := doc.Save(args[0]); err != nil {
		return err
	}
	fmt.Printf("Moved clip to %s on track %q\n", start.Timecode(seq.Rate), track.Name)
	return nil
}

func runResizeClip(cmd *cobra.Command, args []string) error {
	doc, err := loadProject(args[0])
	if err != nil {
		return err
	}
	seq := doc.Sequence
	clipID, err := uuid.Parse(args[1])
	if err != nil {
		return fmt.Errorf("bad clip id %q: %w", args[1], err)
	}
	start, err := parseTime(args[2], seq.Rate)
	if err != nil {
		return err
	}
	end, err := parseTime(args[3], seq.Rate)
	if err != nil {
		return err
	}
	if err := seq.ResizeClip(clipID, start, end); err != nil {
		return err
	}
	if err := doc.Save(args[0]); err != nil {
		return err
	}
	fmt.Printf("Resized clip to %s -> %s\n", start.Timecode(seq.Rate), end.Timecode(seq.Rate))
	return nil
}

func runAddMarker(cmd *cobra.Command, args []string) error {
	doc, err := loadProject(args[0])
	if err != nil {
		return err
	}
	seq := doc.Sequence
	at, err := parseTime(args[1], seq.Rate)
	if err != nil {
		return err
	}
	typ, err := timeline.ParseMarkerType(markerType)
	if err != nil {
		return err
	}
	seq.AddMarker(timeline.NewMarker(typ, at, markerLabel))
	if err := doc.Save(args[0]); err != nil {
		return err
	}
	fmt.Printf("Added %s marker at %s\n", markerTypeLabel(typ), at.Timecode(seq.Rate))
	return nil
}

func runListMarkers(cmd *cobra.Command, args []string) error {
	doc, err := loadProject(args[0])
	if err != nil {
		return err
	}
	seq := doc.Sequence
	for _, m := range seq.Markers {
		locked := ""
		if m.Locked {
			locked = " (locked)"
		}
		fmt.Printf("%s  %-8s %s%s\n", m.At.Timecode(seq.Rate), markerTypeLabel(m.Type), m.Label, locked)
	}
	fmt.Printf("%d markers\n", len(seq.Markers))
	return nil
}
