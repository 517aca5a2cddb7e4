package titlecard

import (
	"strings"
	"testing"
)

func TestHTMLEscapesText(t *testing.T) {
	doc := HTML(Card{Title: `Q3 <Review> & "Outlook"`, Subtitle: "a < b"})
	if strings.Contains(doc, "<Review>") {
		t.Error("title not escaped")
	}
	if !strings.Contains(doc, "Q3 &lt;Review&gt; &amp; &#34;Outlook&#34;") {
		t.Errorf("escaped title missing:\n%s", doc)
	}
	if !strings.Contains(doc, "a &lt; b") {
		t.Error("subtitle not escaped")
	}
}

func TestHTMLDefaults(t *testing.T) {
	doc := HTML(Card{Title: "Untitled"})
	for _, want := range []string{
		"width: 1920px",
		"height: 1080px",
		"background: #000000",
		"font-family: 'Helvetica Neue'",
		"font-size: 96px",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("default missing %q", want)
		}
	}
	if strings.Contains(doc, "subtitle\">") {
		t.Error("empty subtitle should not emit a subtitle div")
	}
}

func TestHTMLCustomCard(t *testing.T) {
	doc := HTML(Card{
		Title:      "Chapter One",
		Subtitle:   "In which things begin",
		Background: "linear-gradient(#1a1a2e, #16213e)",
		FontSize:   120,
		Width:      1280,
		Height:     720,
	})
	for _, want := range []string{
		"width: 1280px",
		"font-size: 120px",
		"font-size: 48px", // subtitle scales off the title
		"linear-gradient(#1a1a2e, #16213e)",
		"In which things begin",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("missing %q", want)
		}
	}
}
