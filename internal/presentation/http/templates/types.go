package templates

import "predictive/app/internal/domain/page"

// DocumentData bundles the page definition with the navigation markup to splice in.
type DocumentData struct {
	Definition page.Definition
	Navigation string
}

// ErrorPageData holds information for rendering an error view.
type ErrorPageData struct {
	Title       string
	StatusLabel string
	Message     string
}
