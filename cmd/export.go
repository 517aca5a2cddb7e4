package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"montage/fcpxml"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a project to interchange formats",
}

var (
	exportWidth  int
	exportHeight int
	exportEvent  string
)

var exportFCPXMLCmd = &cobra.Command{
	Use:   "fcpxml <project> <out.fcpxml>",
	Short: "Write the project as Final Cut Pro XML",
	Args:  cobra.ExactArgs(2),
	RunE:  runExportFCPXML,
}

var exportSRTCmd = &cobra.Command{
	Use:   "srt <project> <out.srt>",
	Short: "Write a caption track as SRT",
	Args:  cobra.ExactArgs(2),
	RunE:  runCaptionsExport,
}

var exportVTTCmd = &cobra.Command{
	Use:   "vtt <project> <out.vtt>",
	Short: "Write a caption track as WebVTT",
	Args:  cobra.ExactArgs(2),
	RunE:  runCaptionsExport,
}

func init() {
	exportCmd.AddCommand(exportFCPXMLCmd)
	exportCmd.AddCommand(exportSRTCmd)
	exportCmd.AddCommand(exportVTTCmd)

	exportFCPXMLCmd.Flags().IntVar(&exportWidth, "width", 1280, "Sequence width")
	exportFCPXMLCmd.Flags().IntVar(&exportHeight, "height", 720, "Sequence height")
	exportFCPXMLCmd.Flags().StringVar(&exportEvent, "event", "montage", "Event name in the library")
	exportSRTCmd.Flags().IntVar(&captionTrack, "track", 0, "Caption track index")
	exportVTTCmd.Flags().IntVar(&captionTrack, "track", 0, "Caption track index")
}

func runExportFCPXML(cmd *cobra.Command, args []string) error {
	doc, err := loadProject(args[0])
	if err != nil {
		return err
	}
	outputFile := args[1]
	if !strings.HasSuffix(strings.ToLower(outputFile), ".fcpxml") {
		outputFile += ".fcpxml"
	}

	xmlDoc, err := fcpxml.Export(doc, fcpxml.Options{
		EventName: exportEvent,
		Width:     exportWidth,
		Height:    exportHeight,
	})
	if err != nil {
		return fmt.Errorf("error generating FCPXML: %w", err)
	}
	if err := fcpxml.WriteFile(xmlDoc, outputFile); err != nil {
		return fmt.Errorf("error writing FCPXML: %w", err)
	}
	fmt.Printf("Successfully exported '%s' to '%s'\n", doc.Name, outputFile)
	return nil
}
