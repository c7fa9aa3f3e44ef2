package page

import (
	"strings"

	"github.com/rotisserie/eris"
)

// NavigationFragment names the include spliced in after the opening body tag.
const NavigationFragment = "topnav"

// Metadata is the non-rendered head block consumed by browsers and crawlers.
type Metadata struct {
	Title          string
	Charset        string
	Description    string
	Keywords       string
	Author         string
	RefreshSeconds int
	Viewport       string
}

// Paragraph is a single styled line of the closing panel.
type Paragraph struct {
	Text  string
	Style string
}

// Banner is the heading section with its decorative masks.
type Banner struct {
	Heading      string
	HeadingStyle string
	Masks        []string
}

// Definition holds every constant the page is built from. It is loaded once
// at process start and never mutated afterwards.
type Definition struct {
	Lang        string
	Metadata    Metadata
	Stylesheets []string
	BodyStyle   string
	Fragment    string
	Banner      Banner
	Paragraphs  []Paragraph
}

// Document is the result of one assembly: the definition plus the resolved
// navigation markup.
type Document struct {
	Definition Definition
	// Navigation is inserted verbatim. Empty when the fragment was omitted.
	Navigation string
}

// DefaultDefinition returns the Predictive Learning landing page.
func DefaultDefinition() Definition {
	return Definition{
		Lang: "en-US",
		Metadata: Metadata{
			Title:          "W3 course on HTML",
			Charset:        "UTF-8",
			Description:    "Web tutorial",
			Keywords:       "HTML,CSS,XML,JavaScript",
			Author:         "Bruno Henriques",
			RefreshSeconds: 30,
			Viewport:       "width=device-width, initial-scale=1.0",
		},
		Stylesheets: []string{
			"new_styles.css",
			"https://cdnjs.cloudflare.com/ajax/libs/font-awesome/4.7.0/css/font-awesome.min.css",
		},
		BodyStyle: "font-family:lucida grande;color:#aaaaaa;",
		Fragment:  NavigationFragment,
		Banner: Banner{
			Heading:      "Predictive Learning",
			HeadingStyle: "padding:2%;",
			Masks:        []string{"top_panel_mask1", "top_panel_mask2", "top_panel_mask3", "top_panel_mask4"},
		},
		Paragraphs: []Paragraph{
			{Text: "Data Science Projects by Bruno Henriques", Style: "font-size:3vw;"},
			{Text: "explore data patterns, construct robust models, predict future trends", Style: "font-size:2vw;"},
		},
	}
}

// Clone returns a deep copy so callers cannot mutate shared slices.
func (d Definition) Clone() Definition {
	out := d
	out.Stylesheets = append([]string(nil), d.Stylesheets...)
	out.Banner.Masks = append([]string(nil), d.Banner.Masks...)
	out.Paragraphs = append([]Paragraph(nil), d.Paragraphs...)
	return out
}

// Validate checks the invariants the renderer relies on.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Metadata.Title) == "" {
		return eris.New("page title is required")
	}
	if strings.TrimSpace(d.Metadata.Charset) == "" {
		return eris.New("page charset is required")
	}
	if d.Metadata.RefreshSeconds < 0 {
		return eris.Errorf("refresh interval must not be negative, got %d", d.Metadata.RefreshSeconds)
	}
	if strings.TrimSpace(d.Fragment) == "" {
		return eris.New("navigation fragment name is required")
	}
	for i, mask := range d.Banner.Masks {
		if strings.TrimSpace(mask) == "" {
			return eris.Errorf("banner mask %d has an empty id", i+1)
		}
	}
	return nil
}
