package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	malformed := NewError(Malformed, "update", errors.New("syntax error"))
	transient := fmt.Errorf("saving: %w", NewError(Transient, "query", context.DeadlineExceeded))

	if !IsMalformed(malformed) || IsTransient(malformed) {
		t.Error("malformed error misclassified")
	}
	if !IsTransient(transient) || IsMalformed(transient) {
		t.Error("wrapped transient error misclassified")
	}
	if !errors.Is(transient, context.DeadlineExceeded) {
		t.Error("catalog errors should unwrap to their cause")
	}
	if IsMalformed(errors.New("other")) || IsTransient(nil) {
		t.Error("foreign errors have no kind")
	}
}
