package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"montage/project"
	"montage/timecode"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Create and inspect project files",
}

var projectName string
var projectRate string

var projectNewCmd = &cobra.Command{
	Use:   "new <file>",
	Short: "Create an empty project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectNew,
}

var projectInfoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Summarize a project's tracks, clips, markers, and captions",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectInfo,
}

func init() {
	projectCmd.AddCommand(projectNewCmd)
	projectCmd.AddCommand(projectInfoCmd)

	projectNewCmd.Flags().StringVarP(&projectName, "name", "n", "Untitled", "Project name")
	projectNewCmd.Flags().StringVarP(&projectRate, "rate", "r", "", "Frame rate (default from config)")
}

func runProjectNew(cmd *cobra.Command, args []string) error {
	rateStr := projectRate
	if rateStr == "" {
		rateStr = cfg.FrameRate
	}
	rate, err := timecode.ParseFrameRate(rateStr)
	if err != nil {
		return err
	}
	doc := project.NewDocument(projectName, rate)
	if err := doc.Save(args[0]); err != nil {
		return err
	}
	fmt.Printf("Created project %q (%.3f fps) at %s\n", projectName, rate.FPS(), args[0])
	return nil
}

func runProjectInfo(cmd *cobra.Command, args []string) error {
	doc, err := loadProject(args[0])
	if err != nil {
		return err
	}
	seq := doc.Sequence
	fmt.Printf("Project:  %s\n", doc.Name)
	fmt.Printf("Rate:     %.3f fps\n", seq.Rate.FPS())
	fmt.Printf("Duration: %s\n", seq.Duration().Timecode(seq.Rate))
	fmt.Printf("Tracks:   %d\n", len(seq.Tracks))
	for i := range seq.Tracks {
		t := &seq.Tracks[i]
		flags := ""
		if t.Muted {
			flags += " muted"
		}
		if t.Locked {
			flags += " locked"
		}
		fmt.Printf("  [%d] %-6s %-20s %d clips%s\n", i, trackKindLabel(t.Kind), t.Name, len(t.Clips()), flags)
		for _, c := range t.Clips() {
			fmt.Printf("      %s %s  %s -> %s\n",
				clipTypeLabel(c.Type), c.Name,
				c.Placement.Start.Timecode(seq.Rate), c.Placement.End.Timecode(seq.Rate))
		}
	}
	if len(seq.Markers) > 0 {
		fmt.Printf("Markers:  %d\n", len(seq.Markers))
		for _, m := range seq.Markers {
			fmt.Printf("  %s %-8s %s\n", m.At.Timecode(seq.Rate), markerTypeLabel(m.Type), m.Label)
		}
	}
	for _, track := range doc.Captions {
		fmt.Printf("Captions: %s (%s), %d cues\n", track.Name, track.Language, track.Len())
	}
	return nil
}
