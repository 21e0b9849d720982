package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{NotFoundError("booking %d not found", 4), KindNotFound},
		{ValidationError("price must be positive"), KindValidation},
		{ConflictError("dates overlap an existing booking"), KindConflict},
		{ForbiddenTransitionError("cannot move completed to pending"), KindForbiddenTransition},
		{ForbiddenError("missing required permission(s): MANAGE_USERS"), KindForbidden},
		{UnauthenticatedError("account no longer exists"), KindUnauthenticated},
	}

	for _, c := range cases {
		if got := KindOf(c.err); got != c.want {
			t.Errorf("KindOf(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}

func TestKindOfWrapped(t *testing.T) {
	inner := NotFoundError("property 9 not found")
	wrapped := fmt.Errorf("loading listing: %w", inner)

	if got := KindOf(wrapped); got != KindNotFound {
		t.Fatalf("KindOf should unwrap, got %q", got)
	}
}

func TestKindOfForeignError(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != "" {
		t.Fatalf("foreign errors should report empty kind, got %q", got)
	}
}
