package payroll

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_IsMatchesKindSentinel(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrapped: %w", Persistence(OpArchive, errors.New("boom")))

	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected errors.Is to match ErrPersistence")
	}
	if errors.Is(err, ErrValidation) {
		t.Fatalf("did not expect validation match")
	}
	if KindOf(err) != KindPersistence {
		t.Fatalf("unexpected kind: %q", KindOf(err))
	}
}

func TestError_NestedKinds(t *testing.T) {
	t.Parallel()

	err := Delivery(OpPreview, NotFound("view", ErrArtifactNotFound))

	if KindOf(err) != KindDelivery {
		t.Fatalf("expected outermost kind delivery, got %q", KindOf(err))
	}
	if !errors.Is(err, ErrNotFound) || !errors.Is(err, ErrArtifactNotFound) {
		t.Fatalf("expected wrapped not found to be reachable: %v", err)
	}
}

func TestKeepOrWrap(t *testing.T) {
	t.Parallel()

	classified := Validation(OpSend, ErrInvalidRecipient)
	if got := keepOrWrap(KindDelivery, OpSend, classified); got != error(classified) {
		t.Fatalf("expected classified error to be kept, got %v", got)
	}
	if got := keepOrWrap(KindDelivery, OpSend, errors.New("dial")); KindOf(got) != KindDelivery {
		t.Fatalf("expected unclassified error to be wrapped as delivery, got %v", got)
	}
	if keepOrWrap(KindDelivery, OpSend, nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}
