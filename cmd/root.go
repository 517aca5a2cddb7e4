package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"montage/logger"
	"montage/media"
	"montage/project"
)

var (
	configPath string
	cfg        *project.Config
	log        *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "montage",
	Short: "A timeline-first toolkit for assembling video edits",
	Long: `Montage manages video edit projects from the command line: timeline and
clip layout, captions, markers, keyframed animation, transcription, and
export to FCPXML or rendered media.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = project.LoadConfig(configPath)
		if err != nil {
			return err
		}
		log, err = logger.New(cfg.LogMode)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Sync()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/montage/config.yaml)")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(captionsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(transcribeCmd)
	rootCmd.AddCommand(titlecardCmd)
}

func loadProject(path string) (*project.Document, error) {
	doc, err := project.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open project %s: %w", path, err)
	}
	return doc, nil
}

func mediaService() *media.Service {
	return media.NewService(cfg.FFmpegPath, cfg.FFprobePath, log)
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
