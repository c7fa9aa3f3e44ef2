package include

import (
	"testing"

	"github.com/rotisserie/eris"

	"predictive/app/internal/domain/page"
)

func TestValidateAcceptsNavigationMarkup(t *testing.T) {
	t.Parallel()

	if err := Validate("topnav", sampleNav); err != nil {
		t.Fatalf("expected navigation markup to validate, got %v", err)
	}

	if err := Validate("topnav", ""); err != nil {
		t.Fatalf("expected empty fragment to validate, got %v", err)
	}

	if err := Validate("topnav", "<!-- navigation --><nav></nav>"); err != nil {
		t.Fatalf("expected plain comments to validate, got %v", err)
	}
}

func TestValidateRejectsDirectivesAndDocumentElements(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"php":         `<?php include('topnav.php'); ?>`,
		"ssi include": `<!--#include virtual="/menu.html" -->`,
		"ssi exec":    `<!-- #exec cmd="ls" -->`,
		"meta":        `<meta charset="UTF-8"><nav></nav>`,
		"body":        `<body><nav></nav></body>`,
		"title":       `<title>Other</title>`,
	}

	for label, fragment := range cases {
		if err := Validate("topnav", fragment); !eris.Is(err, page.ErrIncludeInvalid) {
			t.Errorf("%s: expected ErrIncludeInvalid, got %v", label, err)
		}
	}
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"topnav", "top_nav", "nav-2"} {
		if err := ValidateName(name); err != nil {
			t.Errorf("expected %q to be valid, got %v", name, err)
		}
	}

	for _, name := range []string{"", "-nav", "a/b", `a\b`, "topnav.php"} {
		if err := ValidateName(name); err == nil {
			t.Errorf("expected %q to be rejected", name)
		}
	}
}
