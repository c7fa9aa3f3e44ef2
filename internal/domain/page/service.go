package page

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// Service assembles the page document.
type Service interface {
	// Assemble resolves the navigation fragment once and returns the document to render.
	Assemble(ctx context.Context) (*Document, error)
	// CheckInclude reports whether the fragment provider is reachable.
	CheckInclude(ctx context.Context) error
}

// ServiceOptions configures the page service.
type ServiceOptions struct {
	Definition Definition
	Provider   FragmentProvider
	Policy     FailurePolicy
	Logger     *logrus.Logger
	SentryHub  *sentry.Hub
}

type service struct {
	definition Definition
	provider   FragmentProvider
	policy     FailurePolicy
	logger     *logrus.Logger
	sentryHub  *sentry.Hub
}

var _ Service = (*service)(nil)

// NewService wires the page service with its dependencies.
func NewService(opts ServiceOptions) (Service, error) {
	if opts.Provider == nil {
		return nil, eris.New("fragment provider is required")
	}

	if err := opts.Definition.Validate(); err != nil {
		return nil, eris.Wrap(err, "validating page definition")
	}

	policy := opts.Policy
	if policy == "" {
		policy = PolicyOmit
	}
	if _, err := ParseFailurePolicy(string(policy)); err != nil {
		return nil, err
	}

	return &service{
		definition: opts.Definition.Clone(),
		provider:   opts.Provider,
		policy:     policy,
		logger:     opts.Logger,
		sentryHub:  opts.SentryHub,
	}, nil
}

func (s *service) Assemble(ctx context.Context) (*Document, error) {
	doc := &Document{Definition: s.definition.Clone()}
	name := s.definition.Fragment

	fragment, err := s.provider.Fragment(ctx, name)
	if err == nil {
		doc.Navigation = fragment
		return doc, nil
	}

	fields := logrus.Fields{"fragment": name, "policy": string(s.policy)}

	if eris.Is(err, ErrIncludeNotFound) && s.policy == PolicyOmit {
		if s.logger != nil {
			s.logger.WithFields(fields).WithField("error", err.Error()).Warn("include fragment missing, rendering without it")
		}
		return doc, nil
	}

	s.recordError(fields, err, "resolving include fragment")
	return nil, eris.Wrapf(err, "resolving include fragment: %s", name)
}

func (s *service) CheckInclude(ctx context.Context) error {
	if err := s.provider.Ping(ctx); err != nil {
		return eris.Wrap(err, "pinging fragment provider")
	}
	return nil
}

func (s *service) recordError(fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Error(message)
	}

	if s.sentryHub != nil {
		s.sentryHub.CaptureException(err)
	}
}
