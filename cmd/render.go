package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"montage/media"
	"montage/timeline"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the timeline with ffmpeg",
}

var (
	renderCodec string
	renderCRF   int
	renderW     int
	renderH     int
)

var renderPreviewCmd = &cobra.Command{
	Use:   "preview <project> <out.mp4>",
	Short: "Stream-copy the video track clips into a quick preview",
	Args:  cobra.ExactArgs(2),
	RunE:  runRenderPreview,
}

var renderExportCmd = &cobra.Command{
	Use:   "export <project> <out.mp4>",
	Short: "Transcode the video track clips into a delivery file",
	Args:  cobra.ExactArgs(2),
	RunE:  runRenderExport,
}

func init() {
	renderCmd.AddCommand(renderPreviewCmd)
	renderCmd.AddCommand(renderExportCmd)

	renderExportCmd.Flags().StringVar(&renderCodec, "codec", "libx264", "Video codec")
	renderExportCmd.Flags().IntVar(&renderCRF, "crf", 18, "Constant rate factor")
	renderExportCmd.Flags().IntVar(&renderW, "width", 0, "Scale to width (0 keeps source)")
	renderExportCmd.Flags().IntVar(&renderH, "height", 0, "Scale to height (0 keeps source)")
}

// videoTrackMedia collects the media files of the first video track's clips
// in timeline order, which is the order a concat render plays them.
func videoTrackMedia(seq *timeline.Sequence) ([]string, error) {
	for i := range seq.Tracks {
		t := &seq.Tracks[i]
		if t.Kind != timeline.VideoTrack {
			continue
		}
		var files []string
		for _, c := range t.Clips() {
			if c.Media == "" {
				continue
			}
			if _, err := os.Stat(c.Media); err != nil {
				return nil, fmt.Errorf("media for clip %q not found: %s", c.Name, c.Media)
			}
			files = append(files, c.Media)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("video track %q has no clips with media", t.Name)
		}
		return files, nil
	}
	return nil, fmt.Errorf("project has no video track")
}

func runRenderPreview(cmd *cobra.Command, args []string) error {
	doc, err := loadProject(args[0])
	if err != nil {
		return err
	}
	files, err := videoTrackMedia(doc.Sequence)
	if err != nil {
		return err
	}
	if err := mediaService().RenderPreview(cmd.Context(), files, args[1]); err != nil {
		return err
	}
	fmt.Printf("Rendered preview of %d clips to %s\n", len(files), args[1])
	return nil
}

func runRenderExport(cmd *cobra.Command, args []string) error {
	doc, err := loadProject(args[0])
	if err != nil {
		return err
	}
	files, err := videoTrackMedia(doc.Sequence)
	if err != nil {
		return err
	}
	opts := media.ExportOptions{Codec: renderCodec, Width: renderW, Height: renderH, CRF: renderCRF}
	err = mediaService().Export(cmd.Context(), files, args[1], doc.Sequence.Duration(), opts,
		func(fraction float64) {
			fmt.Printf("\rRendering... %3.0f%%", fraction*100)
		})
	fmt.Println()
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d clips to %s\n", len(files), args[1])
	return nil
}
