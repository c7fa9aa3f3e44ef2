package include

import (
	"bytes"
	"io"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"

	"predictive/app/internal/domain/page"
)

var fragmentNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// Elements owned by the surrounding document. A fragment that carries them
// would produce a second head block or a second charset declaration.
var documentElements = map[string]struct{}{
	"html":  {},
	"head":  {},
	"body":  {},
	"title": {},
	"meta":  {},
}

// ValidateName rejects names that could escape the provider's namespace.
func ValidateName(name string) error {
	if !fragmentNamePattern.MatchString(name) {
		return eris.Wrapf(page.ErrIncludeInvalid, "fragment name %q is not a bare identifier", name)
	}
	return nil
}

// Validate tokenises fragment and rejects server-side directives and
// document-level elements. The fragment itself is returned unchanged by the
// providers; validation never rewrites markup.
func Validate(name, fragment string) error {
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != nil && err != io.EOF {
				return eris.Wrapf(page.ErrIncludeInvalid, "tokenising fragment %s: %v", name, err)
			}
			return nil
		case html.CommentToken:
			raw := z.Raw()
			if bytes.HasPrefix(raw, []byte("<?")) {
				return eris.Wrapf(page.ErrIncludeInvalid, "fragment %s contains a server-side directive", name)
			}
			text := strings.TrimSpace(string(z.Text()))
			if strings.HasPrefix(text, "#include") || strings.HasPrefix(text, "#exec") {
				return eris.Wrapf(page.ErrIncludeInvalid, "fragment %s contains a server-side include", name)
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			tagName, _ := z.TagName()
			if _, ok := documentElements[strings.ToLower(string(tagName))]; ok {
				return eris.Wrapf(page.ErrIncludeInvalid, "fragment %s contains document element <%s>", name, tagName)
			}
		}
	}
}
