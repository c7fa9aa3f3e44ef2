// Package definition loads page definitions from YAML files.
package definition

import (
	"bytes"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"predictive/app/internal/domain/page"
)

type fileMetadata struct {
	Title          *string `yaml:"title"`
	Charset        *string `yaml:"charset"`
	Description    *string `yaml:"description"`
	Keywords       *string `yaml:"keywords"`
	Author         *string `yaml:"author"`
	RefreshSeconds *int    `yaml:"refresh_seconds"`
	Viewport       *string `yaml:"viewport"`
}

type fileBanner struct {
	Heading      *string  `yaml:"heading"`
	HeadingStyle *string  `yaml:"heading_style"`
	Masks        []string `yaml:"masks"`
}

type fileParagraph struct {
	Text  string `yaml:"text"`
	Style string `yaml:"style"`
}

// file mirrors page.Definition with optional fields; anything left out keeps
// the built-in value.
type file struct {
	Lang        *string         `yaml:"lang"`
	Metadata    fileMetadata    `yaml:"metadata"`
	Stylesheets []string        `yaml:"stylesheets"`
	BodyStyle   *string         `yaml:"body_style"`
	Fragment    *string         `yaml:"fragment"`
	Banner      fileBanner      `yaml:"banner"`
	Paragraphs  []fileParagraph `yaml:"paragraphs"`
}

// Load returns the built-in definition when path is empty, otherwise the
// built-in definition overlaid with the YAML document at path.
func Load(path string) (page.Definition, error) {
	if path == "" {
		return page.DefaultDefinition(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return page.Definition{}, eris.Wrapf(err, "reading page definition %s", path)
	}

	def, err := Parse(data)
	if err != nil {
		return page.Definition{}, eris.Wrapf(err, "loading page definition %s", path)
	}

	return def, nil
}

// Parse overlays the YAML document onto the built-in definition and validates the result.
func Parse(data []byte) (page.Definition, error) {
	def := page.DefaultDefinition()

	var doc file
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && err != io.EOF {
		return page.Definition{}, eris.Wrap(err, "decoding page definition")
	}

	setString(&def.Lang, doc.Lang)
	setString(&def.BodyStyle, doc.BodyStyle)
	setString(&def.Fragment, doc.Fragment)

	setString(&def.Metadata.Title, doc.Metadata.Title)
	setString(&def.Metadata.Charset, doc.Metadata.Charset)
	setString(&def.Metadata.Description, doc.Metadata.Description)
	setString(&def.Metadata.Keywords, doc.Metadata.Keywords)
	setString(&def.Metadata.Author, doc.Metadata.Author)
	setString(&def.Metadata.Viewport, doc.Metadata.Viewport)
	if doc.Metadata.RefreshSeconds != nil {
		def.Metadata.RefreshSeconds = *doc.Metadata.RefreshSeconds
	}

	if doc.Stylesheets != nil {
		def.Stylesheets = doc.Stylesheets
	}

	setString(&def.Banner.Heading, doc.Banner.Heading)
	setString(&def.Banner.HeadingStyle, doc.Banner.HeadingStyle)
	if doc.Banner.Masks != nil {
		def.Banner.Masks = doc.Banner.Masks
	}

	if doc.Paragraphs != nil {
		def.Paragraphs = make([]page.Paragraph, 0, len(doc.Paragraphs))
		for _, p := range doc.Paragraphs {
			def.Paragraphs = append(def.Paragraphs, page.Paragraph{Text: p.Text, Style: p.Style})
		}
	}

	if err := def.Validate(); err != nil {
		return page.Definition{}, eris.Wrap(err, "validating page definition")
	}

	return def, nil
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}
