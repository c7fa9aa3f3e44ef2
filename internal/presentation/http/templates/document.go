package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Document renders the complete landing page. Definition values are escaped;
// the navigation fragment is written verbatim directly after the opening
// body tag.
func Document(data DocumentData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		def := data.Definition
		meta := def.Metadata
		m := &markup{w: w}

		m.raw("<!DOCTYPE html>\n<html")
		if def.Lang != "" {
			m.attr("lang", def.Lang)
		}
		m.raw(">\n<head>\n")

		m.raw("  <meta")
		m.attr("charset", meta.Charset)
		m.raw(">\n")

		m.raw("  <title>")
		m.text(meta.Title)
		m.raw("</title>\n")

		for _, href := range def.Stylesheets {
			m.raw("  <link rel=\"stylesheet\"")
			m.attr("href", href)
			m.raw(">\n")
		}

		namedMeta(m, "description", meta.Description)
		namedMeta(m, "keywords", meta.Keywords)
		namedMeta(m, "author", meta.Author)
		if meta.RefreshSeconds > 0 {
			m.raw("  <meta http-equiv=\"refresh\"")
			m.attr("content", itoa(meta.RefreshSeconds))
			m.raw(">\n")
		}
		namedMeta(m, "viewport", meta.Viewport)

		m.raw("</head>\n<body")
		if def.BodyStyle != "" {
			m.attr("style", def.BodyStyle)
		}
		m.raw(">\n")

		if data.Navigation != "" {
			m.component(ctx, RawHTML(data.Navigation))
			m.raw("\n")
		}

		m.raw("<div class=\"top_panel\">\n\t<h1")
		if def.Banner.HeadingStyle != "" {
			m.attr("style", def.Banner.HeadingStyle)
		}
		m.raw(">")
		m.text(def.Banner.Heading)
		m.raw("</h1>\n")
		for _, mask := range def.Banner.Masks {
			m.raw("\t<div")
			m.attr("id", mask)
			m.raw("> </div>\n")
		}
		m.raw("</div>\n")

		m.raw("<div class=\"bottom_panel\">\n")
		for _, p := range def.Paragraphs {
			m.raw("\t<p")
			if p.Style != "" {
				m.attr("style", p.Style)
			}
			m.raw(">")
			m.text(p.Text)
			m.raw("</p>\n")
		}
		m.raw("</div>\n</body>\n</html>\n")

		return m.err
	})
}

func namedMeta(m *markup, name, content string) {
	if content == "" {
		return
	}
	m.raw("  <meta")
	m.attr("name", name)
	m.attr("content", content)
	m.raw(">\n")
}
