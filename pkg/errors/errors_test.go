package errors

import (
	"fmt"
	"testing"
)

func TestAsUnwrapsWrappedError(t *testing.T) {
	t.Parallel()

	base := New(CodeStock, "only 2 left")
	wrapped := fmt.Errorf("placing order: %w", base)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeStock {
		t.Fatalf("unexpected code: %s", typed.Code())
	}
}

func TestPublicMessagePrefersCodedMessage(t *testing.T) {
	t.Parallel()

	if got := PublicMessage(New(CodeRemote, "email already registered")); got != "email already registered" {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := PublicMessage(fmt.Errorf("plain")); got != "something went wrong" {
		t.Fatalf("expected generic fallback, got %q", got)
	}
	if got := PublicMessage(New(CodeInternal, "stack details leak")); got != "something went wrong" {
		t.Fatalf("internal messages must not leak, got %q", got)
	}
}

func TestMetadataNeverRetryable(t *testing.T) {
	t.Parallel()

	for _, code := range []Code{CodeValidation, CodeUnauthorized, CodeNotFound, CodeConflict, CodeStock, CodeRemote, CodeDependency, CodeInternal} {
		if MetadataFor(code).Retryable {
			t.Fatalf("code %s marked retryable", code)
		}
	}
}
