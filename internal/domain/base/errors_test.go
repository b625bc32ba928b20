package base

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

var errSomethingSpecific = errors.New("something specific")

func TestError_IsMatchesKindAndCause(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Violation(errSomethingSpecific, "rule broken"))

	if !errors.Is(err, ErrRuleViolation) {
		t.Fatalf("expected ErrRuleViolation to match")
	}
	if !errors.Is(err, errSomethingSpecific) {
		t.Fatalf("expected cause to match")
	}
	if errors.Is(err, ErrValidation) {
		t.Fatalf("rule violation must not match ErrValidation")
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Required("title", "title must not be empty"), KindValidation},
		{"not found", NotFound("task", uuid.New()), KindNotFound},
		{"forbidden", Forbidden("managers only"), KindForbidden},
		{"conflict", Conflict("task", "version mismatch"), KindConflict},
		{"plain sentinel", fmt.Errorf("x: %w", ErrNotFound), KindNotFound},
		{"unknown", errors.New("boom"), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestRequireText(t *testing.T) {
	if err := RequireText("name", "   ", 100); err == nil {
		t.Fatalf("expected error for blank value")
	}

	long := ""
	for i := 0; i < 101; i++ {
		long += "あ"
	}
	err := RequireText("name", long, 100)
	var de *Error
	if !errors.As(err, &de) || de.Code != "TOO_LONG" {
		t.Fatalf("expected TOO_LONG, got %v", err)
	}

	// 100 文字ちょうど（マルチバイト）は通る
	if err := RequireText("name", long[:len(long)-len("あ")], 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInvalidEnum_CarriesRejectedValue(t *testing.T) {
	err := InvalidEnum("priority", "urgent")
	if err.RejectedValue == nil || *err.RejectedValue != "urgent" {
		t.Fatalf("expected rejected value to be kept")
	}
	if err.Error() != "priority: unsupported priority value (rejected: urgent)" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
