package cmd

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"montage/caption"
	"montage/timecode"
)

var captionsCmd = &cobra.Command{
	Use:   "captions",
	Short: "Import, export, and reshape caption tracks",
}

var (
	captionLang  string
	captionTrack int
	suggestMin   float64
	suggestMax   float64
)

var captionsImportCmd = &cobra.Command{
	Use:   "import <project> <file.srt|file.vtt>",
	Short: "Read a subtitle file into a new caption track",
	Args:  cobra.ExactArgs(2),
	RunE:  runCaptionsImport,
}

var captionsExportCmd = &cobra.Command{
	Use:   "export <project> <out.srt|out.vtt>",
	Short: "Write a caption track as SRT or WebVTT",
	Args:  cobra.ExactArgs(2),
	RunE:  runCaptionsExport,
}

var captionsShiftCmd = &cobra.Command{
	Use:   "shift <project> <seconds>",
	Short: "Shift every cue of a caption track by a signed offset",
	Args:  cobra.ExactArgs(2),
	RunE:  runCaptionsShift,
}

var captionsSuggestCmd = &cobra.Command{
	Use:   "suggest <project>",
	Short: "Propose clip boundaries from caption sentence structure",
	Args:  cobra.ExactArgs(1),
	RunE:  runCaptionsSuggest,
}

func init() {
	captionsCmd.AddCommand(captionsImportCmd)
	captionsCmd.AddCommand(captionsExportCmd)
	captionsCmd.AddCommand(captionsShiftCmd)
	captionsCmd.AddCommand(captionsSuggestCmd)

	captionsImportCmd.Flags().StringVar(&captionLang, "lang", "en", "Language tag for the new track")
	captionsExportCmd.Flags().IntVar(&captionTrack, "track", 0, "Caption track index")
	captionsShiftCmd.Flags().IntVar(&captionTrack, "track", 0, "Caption track index")
	captionsSuggestCmd.Flags().IntVar(&captionTrack, "track", 0, "Caption track index")
	captionsSuggestCmd.Flags().Float64Var(&suggestMin, "min", 3, "Minimum clip seconds")
	captionsSuggestCmd.Flags().Float64Var(&suggestMax, "max", 15, "Maximum clip seconds")
}

func runCaptionsImport(cmd *cobra.Command, args []string) error {
	doc, err := loadProject(args[0])
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}

	var cues []caption.Caption
	var problems []error
	switch {
	case strings.HasSuffix(args[1], ".vtt"):
		cues, problems = caption.ParseVTT(string(data))
	default:
		cues, problems = caption.ParseSRT(string(data))
	}
	if len(cues) == 0 {
		return fmt.Errorf("no usable cues in %s (%d malformed)", args[1], len(problems))
	}
	for _, p := range problems {
		log.Warn("skipped cue", "file", args[1], "reason", p)
	}

	track := caption.NewTrack(baseName(args[1]), captionLang)
	for _, c := range cues {
		track.Add(c)
	}
	doc.AddCaptionTrack(track)
	if err := doc.Save(args[0]); err != nil {
		return err
	}
	fmt.Printf("Imported %d cues into track %q (%d skipped)\n", track.Len(), track.Name, len(problems))
	return nil
}

func runCaptionsExport(cmd *cobra.Command, args []string) error {
	doc, err := loadProject(args[0])
	if err != nil {
		return err
	}
	if captionTrack < 0 || captionTrack >= len(doc.Captions) {
		return fmt.Errorf("no caption track at index %d (project has %d)", captionTrack, len(doc.Captions))
	}
	track := doc.Captions[captionTrack]

	var encoded string
	if cmd.Name() == "vtt" || strings.HasSuffix(args[1], ".vtt") {
		encoded = caption.EncodeVTT(track.Captions())
	} else {
		encoded = caption.EncodeSRT(track.Captions())
	}
	if err := os.WriteFile(args[1], []byte(encoded), 0644); err != nil {
		return err
	}
	fmt.Printf("Wrote %d cues to %s\n", track.Len(), args[1])
	return nil
}

func runCaptionsShift(cmd *cobra.Command, args []string) error {
	doc, err := loadProject(args[0])
	if err != nil {
		return err
	}
	if captionTrack < 0 || captionTrack >= len(doc.Captions) {
		return fmt.Errorf("no caption track at index %d (project has %d)", captionTrack, len(doc.Captions))
	}
	seconds, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("bad offset %q: %w", args[1], err)
	}
	delta, err := timecode.FromSeconds(math.Abs(seconds))
	if err != nil {
		return err
	}
	if seconds < 0 {
		if err := doc.Captions[captionTrack].ShiftEarlier(delta); err != nil {
			return err
		}
	} else {
		doc.Captions[captionTrack].Shift(delta)
	}
	if err := doc.Save(args[0]); err != nil {
		return err
	}
	fmt.Printf("Shifted track %d by %+.3fs\n", captionTrack, seconds)
	return nil
}

func runCaptionsSuggest(cmd *cobra.Command, args []string) error {
	doc, err := loadProject(args[0])
	if err != nil {
		return err
	}
	if captionTrack < 0 || captionTrack >= len(doc.Captions) {
		return fmt.Errorf("no caption track at index %d (project has %d)", captionTrack, len(doc.Captions))
	}
	track := doc.Captions[captionTrack]
	min, err := timecode.FromSeconds(suggestMin)
	if err != nil {
		return err
	}
	max, err := timecode.FromSeconds(suggestMax)
	if err != nil {
		return err
	}
	suggestions := caption.SuggestClips(track.Captions(), min, max)
	rate := doc.Sequence.Rate
	for _, s := range suggestions {
		fmt.Printf("%3d  %s -> %s  %s\n", s.Num,
			s.Range.Start.Timecode(rate), s.Range.End.Timecode(rate), s.First)
	}
	fmt.Printf("%d clips suggested\n", len(suggestions))
	return nil
}
