package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/iho/sarraf/internal/domain"
	"github.com/iho/sarraf/internal/infrastructure/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	resolver := auth.NewTokenResolver("test-secret", time.Hour)

	actor := domain.Actor{ID: "emp-1", Name: "Karim", Role: domain.RoleEmployee}

	token, err := resolver.Issue(actor)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	resolved, err := resolver.Resolve(token)
	if err != nil {
		t.Fatalf("failed to resolve token: %v", err)
	}

	if resolved != actor {
		t.Errorf("expected %+v, got %+v", actor, resolved)
	}
}

func TestResolveExpiredToken(t *testing.T) {
	resolver := auth.NewTokenResolver("test-secret", -time.Minute)

	token, err := resolver.Issue(domain.Actor{ID: "emp-1", Role: domain.RoleEmployee})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	if _, err := resolver.Resolve(token); !errors.Is(err, domain.ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestResolveWrongSecret(t *testing.T) {
	issuer := auth.NewTokenResolver("secret-a", time.Hour)
	verifier := auth.NewTokenResolver("secret-b", time.Hour)

	token, err := issuer.Issue(domain.Actor{ID: "emp-1", Role: domain.RoleEmployee})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	if _, err := verifier.Resolve(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestResolveGarbage(t *testing.T) {
	resolver := auth.NewTokenResolver("test-secret", time.Hour)

	if _, err := resolver.Resolve("not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
