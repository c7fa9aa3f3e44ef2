package page

import (
	"context"

	"github.com/rotisserie/eris"
)

var (
	// ErrIncludeNotFound indicates the named fragment does not exist in the provider.
	ErrIncludeNotFound = eris.New("include fragment not found")
	// ErrIncludeInvalid indicates the fragment name or content cannot be spliced into the page.
	ErrIncludeInvalid = eris.New("include fragment invalid")
)

// FragmentProvider resolves named include fragments. Implementations must be
// safe for concurrent use.
type FragmentProvider interface {
	Fragment(ctx context.Context, name string) (string, error)
	Ping(ctx context.Context) error
}

// FailurePolicy decides what an unresolvable include does to the response.
type FailurePolicy string

const (
	// PolicyOmit logs a warning and renders the page without the fragment.
	PolicyOmit FailurePolicy = "omit"
	// PolicyFail propagates the failure to the caller.
	PolicyFail FailurePolicy = "fail"
)

// ParseFailurePolicy maps a configuration value to a FailurePolicy.
func ParseFailurePolicy(value string) (FailurePolicy, error) {
	switch FailurePolicy(value) {
	case PolicyOmit, PolicyFail:
		return FailurePolicy(value), nil
	case "":
		return PolicyOmit, nil
	default:
		return "", eris.Errorf("unknown include failure policy: %s", value)
	}
}
