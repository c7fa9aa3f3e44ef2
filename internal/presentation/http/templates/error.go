package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// ErrorPage renders a minimal standalone error document.
func ErrorPage(data ErrorPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		m := &markup{w: w}
		m.raw("<!DOCTYPE html>\n<html lang=\"en-US\">\n<head>\n  <meta charset=\"UTF-8\">\n  <title>")
		m.text(data.Title)
		m.raw("</title>\n  <link rel=\"stylesheet\" href=\"/new_styles.css\">\n</head>\n<body>\n<div class=\"bottom_panel\">\n\t<h1>")
		m.text(data.StatusLabel)
		m.raw("</h1>\n\t<p>")
		m.text(data.Message)
		m.raw("</p>\n\t<p><a href=\"/\">Back to the front page</a></p>\n</div>\n</body>\n</html>\n")

		return m.err
	})
}
