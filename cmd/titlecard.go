package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"montage/titlecard"
)

var titlecardCmd = &cobra.Command{
	Use:   "titlecard <title>",
	Short: "Render a title card PNG with a headless browser",
	Args:  cobra.ExactArgs(1),
	RunE:  runTitlecard,
}

var (
	cardSubtitle   string
	cardBackground string
	cardFont       string
	cardOutput     string
)

func init() {
	titlecardCmd.Flags().StringVar(&cardSubtitle, "subtitle", "", "Subtitle line")
	titlecardCmd.Flags().StringVar(&cardBackground, "background", "", "CSS background (color or gradient)")
	titlecardCmd.Flags().StringVar(&cardFont, "font", "", "Font family")
	titlecardCmd.Flags().StringVarP(&cardOutput, "output", "o", "titlecard.png", "Output PNG")
}

func runTitlecard(cmd *cobra.Command, args []string) error {
	session, err := titlecard.NewSession(log)
	if err != nil {
		return err
	}
	defer session.Close()

	card := titlecard.Card{
		Title:      args[0],
		Subtitle:   cardSubtitle,
		Background: cardBackground,
		Font:       cardFont,
		Width:      cfg.TitleCard.Width,
		Height:     cfg.TitleCard.Height,
	}
	if err := session.Render(card, cardOutput); err != nil {
		return err
	}
	fmt.Printf("Saved title card: %s\n", cardOutput)
	return nil
}
