package http

import (
	"context"
	"embed"
	"io/fs"
	stdhttp "net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
)

//go:embed static/*
var staticFiles embed.FS

// Stylesheet is the local stylesheet the page links by relative path.
const Stylesheet = "new_styles.css"

const stylesheetContentType = "text/css; charset=utf-8"

type assetResponse struct {
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}

func loadStylesheet() ([]byte, error) {
	data, err := fs.ReadFile(staticFiles, "static/"+Stylesheet)
	if err != nil {
		return nil, eris.Wrapf(err, "reading embedded asset %s", Stylesheet)
	}
	return data, nil
}

// registerStaticRoutes serves the embedded stylesheet through the Huma
// middleware chain so it gets the same headers, limits and access log as the page.
func (s *Server) registerStaticRoutes() error {
	stylesheet, err := loadStylesheet()
	if err != nil {
		return err
	}

	handler := func(_ context.Context, _ *struct{}) (*assetResponse, error) {
		return &assetResponse{
			ContentType:  stylesheetContentType,
			CacheControl: "public, max-age=3600",
			Body:         stylesheet,
		}, nil
	}

	for _, method := range []string{stdhttp.MethodGet, stdhttp.MethodHead} {
		huma.Register(s.api, huma.Operation{
			OperationID: "stylesheet-" + method,
			Method:      method,
			Path:        "/" + Stylesheet,
			Summary:     "Page stylesheet",
			Hidden:      true,
		}, handler)
	}
	return nil
}
