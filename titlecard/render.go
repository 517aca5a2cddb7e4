package titlecard

import (
	"fmt"
	"html"
	"os"
	"strings"
)

// Card describes one title card. Colors are CSS values so callers can use
// names, hex, or gradients for the background.
type Card struct {
	Title      string
	Subtitle   string
	Font       string // CSS font-family, defaults to Helvetica Neue
	TextColor  string // defaults to white
	Background string // defaults to black
	FontSize   int    // title size in px, defaults to 96
	Width      int    // defaults to 1920
	Height     int    // defaults to 1080
}

func (c Card) withDefaults() Card {
	if c.Font == "" {
		c.Font = "Helvetica Neue"
	}
	if c.TextColor == "" {
		c.TextColor = "#ffffff"
	}
	if c.Background == "" {
		c.Background = "#000000"
	}
	if c.FontSize <= 0 {
		c.FontSize = 96
	}
	if c.Width <= 0 {
		c.Width = 1920
	}
	if c.Height <= 0 {
		c.Height = 1080
	}
	return c
}

// HTML builds the full-page document for a card. Kept separate from the
// browser so layout changes are testable without Chrome.
func HTML(c Card) string {
	c = c.withDefaults()
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><style>\n")
	fmt.Fprintf(&b, `html, body {
  margin: 0;
  width: %dpx;
  height: %dpx;
  background: %s;
  overflow: hidden;
}
.card {
  width: 100%%;
  height: 100%%;
  display: flex;
  flex-direction: column;
  justify-content: center;
  align-items: center;
  text-align: center;
  font-family: '%s', sans-serif;
  color: %s;
}
.title {
  font-size: %dpx;
  font-weight: 700;
  line-height: 1.15;
  max-width: 88%%;
}
.subtitle {
  font-size: %dpx;
  font-weight: 400;
  opacity: 0.75;
  margin-top: 0.6em;
  max-width: 88%%;
}
`, c.Width, c.Height, c.Background, c.Font, c.TextColor, c.FontSize, c.FontSize*4/10)
	b.WriteString("</style></head><body><div class=\"card\">\n")
	fmt.Fprintf(&b, "<div class=\"title\">%s</div>\n", html.EscapeString(c.Title))
	if c.Subtitle != "" {
		fmt.Fprintf(&b, "<div class=\"subtitle\">%s</div>\n", html.EscapeString(c.Subtitle))
	}
	b.WriteString("</div></body></html>\n")
	return b.String()
}

// Render draws the card and writes it as a PNG.
func (s *Session) Render(c Card, outputPath string) error {
	c = c.withDefaults()
	png, err := s.capture(HTML(c), c.Width, c.Height)
	if err != nil {
		return fmt.Errorf("failed to render title card %q: %w", c.Title, err)
	}
	if err := os.WriteFile(outputPath, png, 0644); err != nil {
		return fmt.Errorf("failed to save title card: %w", err)
	}
	s.Log.Info("rendered title card", "title", c.Title, "output", outputPath)
	return nil
}
