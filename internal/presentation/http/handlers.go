package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"predictive/app/internal/domain/page"
	"predictive/app/internal/presentation/http/templates"
)

const (
	htmlContentType      = "text/html; charset=utf-8"
	errorFallbackMessage = "We couldn't load this page right now."
)

type htmlResponse struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Location    string `header:"Location"`
	Body        []byte
}

type healthResponse struct {
	Status int
	Body   struct {
		Status  string `json:"status"`
		Include string `json:"include"`
		Source  string `json:"source,omitempty"`
	}
}

func (s *Server) registerPageRoute() {
	huma.Get(s.api, "/", s.pageHandler, htmlOperation(
		"Predictive Learning landing page",
		stdhttp.StatusInternalServerError,
		stdhttp.StatusBadGateway,
	))
}

func (s *Server) registerLegacyRoute() {
	huma.Get(s.api, "/index.php", s.legacyHandler, htmlOperation(
		"Redirect the legacy page address",
		stdhttp.StatusMovedPermanently,
	))
}

func (s *Server) registerHealthRoute() {
	huma.Get(s.api, "/healthz", s.healthHandler, func(op *huma.Operation) {
		op.Summary = "Health check"
	})
}

func (s *Server) pageHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	doc, err := s.pages.Assemble(ctx)
	if err != nil {
		status, message := classifyError(err)
		s.recordError(ctx, err, "assembling page", nil)
		return s.renderErrorResponse(ctx, status, message)
	}

	body, err := renderComponent(ctx, templates.Document(templates.DocumentData{
		Definition: doc.Definition,
		Navigation: doc.Navigation,
	}))
	if err != nil {
		s.recordError(ctx, err, "rendering page", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}

	return newHTMLResponse(stdhttp.StatusOK, body), nil
}

func (s *Server) legacyHandler(_ context.Context, _ *struct{}) (*htmlResponse, error) {
	response := newHTMLResponse(stdhttp.StatusMovedPermanently, nil)
	response.Location = "/"
	return response, nil
}

func (s *Server) healthHandler(ctx context.Context, _ *struct{}) (*healthResponse, error) {
	resp := &healthResponse{Status: stdhttp.StatusOK}
	resp.Body.Status = "ok"
	resp.Body.Include = "ok"
	resp.Body.Source = s.includeSource

	if err := s.pages.CheckInclude(ctx); err != nil {
		s.recordError(ctx, err, "checking include provider", nil)
		resp.Status = stdhttp.StatusServiceUnavailable
		resp.Body.Status = "degraded"
		resp.Body.Include = "error"
	}

	return resp, nil
}

func newHTMLResponse(status int, body []byte) *htmlResponse {
	return &htmlResponse{
		Status:      status,
		ContentType: htmlContentType,
		Body:        body,
	}
}

func htmlOperation(summary string, statuses ...int) func(op *huma.Operation) {
	return func(op *huma.Operation) {
		if summary != "" {
			op.Summary = summary
		}
		if op.Responses == nil {
			op.Responses = map[string]*huma.Response{}
		}

		statusCodes := append([]int{stdhttp.StatusOK}, statuses...)
		for _, status := range statusCodes {
			op.Responses[strconv.Itoa(status)] = &huma.Response{
				Description: stdhttp.StatusText(status),
				Content: map[string]*huma.MediaType{
					htmlContentType: {
						Schema: &huma.Schema{Type: "string"},
					},
				},
			}
		}
	}
}

func classifyError(err error) (int, string) {
	switch {
	case err == nil:
		return stdhttp.StatusInternalServerError, errorFallbackMessage
	case eris.Is(err, page.ErrIncludeNotFound):
		return stdhttp.StatusBadGateway, "The site navigation is unavailable right now. Please try again shortly."
	default:
		return stdhttp.StatusInternalServerError, errorFallbackMessage
	}
}

func (s *Server) renderErrorResponse(ctx context.Context, status int, message string) (*htmlResponse, error) {
	label := fmt.Sprintf("%d %s", status, stdhttp.StatusText(status))
	component := templates.ErrorPage(templates.ErrorPageData{
		Title:       label + " • Predictive Learning",
		StatusLabel: label,
		Message:     message,
	})

	body, err := renderComponent(ctx, component)
	if err != nil {
		s.recordError(ctx, err, "rendering error page", logrus.Fields{"status": status})
		fallback := []byte(fmt.Sprintf("<html><body><h1>%s</h1><p>%s</p></body></html>", label, message))
		return newHTMLResponse(status, fallback), nil
	}

	return newHTMLResponse(status, body), nil
}

func (s *Server) recordError(ctx context.Context, err error, message string, fields logrus.Fields) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if fields != nil {
			entry = entry.WithFields(fields)
		}
		if requestID := RequestIDFromContext(ctx); requestID != "" {
			entry = entry.WithField("request_id", requestID)
		}
		entry.Error(message)
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	if s.sentry != nil {
		s.sentry.CaptureException(err)
	}
}
