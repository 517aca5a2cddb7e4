package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"montage/transcribe"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <project> <audio>",
	Short: "Transcribe audio into a new caption track",
	Args:  cobra.ExactArgs(2),
	RunE:  runTranscribe,
}

var transcribeLang string

func init() {
	transcribeCmd.Flags().StringVar(&transcribeLang, "lang", "", "Language hint (e.g. en)")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	doc, err := loadProject(args[0])
	if err != nil {
		return err
	}
	client := transcribe.NewClient(cfg.TranscriberURL, log)
	track, err := client.Transcribe(cmd.Context(), args[1], transcribe.Options{Language: transcribeLang})
	if err != nil {
		return err
	}
	doc.AddCaptionTrack(track)
	if err := doc.Save(args[0]); err != nil {
		return err
	}
	fmt.Printf("Transcribed %d cues into track %q\n", track.Len(), track.Name)
	return nil
}
