package operators

import (
	"context"
	"errors"
	"testing"
)

func TestAuthorizeAndRevokeToggle(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)
	ctx := context.Background()

	if err := svc.Authorize(ctx, "holder-1", "operator-1"); err != nil {
		t.Fatalf("authorize: %v", err)
	}

	authorized, err := svc.IsAuthorizedFor(ctx, "operator-1", "holder-1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !authorized {
		t.Fatalf("expected operator to be authorized")
	}

	if err := svc.Authorize(ctx, "holder-1", "operator-1"); !errors.Is(err, ErrAlreadyAuthorized) {
		t.Fatalf("expected already authorized, got %v", err)
	}

	if err := svc.Revoke(ctx, "holder-1", "operator-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	authorized, _ = svc.IsAuthorizedFor(ctx, "operator-1", "holder-1")
	if authorized {
		t.Fatalf("expected authorization to be removed")
	}

	if err := svc.Revoke(ctx, "holder-1", "operator-1"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected not authorized, got %v", err)
	}
}

func TestRevokeWithoutAuthorization(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)

	if err := svc.Revoke(context.Background(), "holder-1", "operator-1"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected not authorized, got %v", err)
	}
}

func TestAuthorizationIsPerHolder(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)
	ctx := context.Background()

	if err := svc.Authorize(ctx, "holder-1", "operator-1"); err != nil {
		t.Fatalf("authorize: %v", err)
	}

	authorized, _ := svc.IsAuthorizedFor(ctx, "operator-1", "holder-2")
	if authorized {
		t.Fatalf("authorization must not leak across holders")
	}
}

func TestEmptyIdentitiesRejected(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)
	ctx := context.Background()

	if err := svc.Authorize(ctx, "", "operator-1"); !errors.Is(err, ErrEmptyIdentity) {
		t.Fatalf("expected empty identity error, got %v", err)
	}
	if err := svc.Revoke(ctx, "holder-1", ""); !errors.Is(err, ErrEmptyIdentity) {
		t.Fatalf("expected empty identity error, got %v", err)
	}
}
