package token

import (
	"errors"
	"testing"
	"time"

	"github.com/kinovera/festival/api/internal/model"
)

func newTestService(t *testing.T, mins int) *Service {
	t.Helper()
	svc, err := NewService(Config{
		Secret:         "test-secret-at-least-32-bytes-long!!",
		Issuer:         "festival-api-test",
		ExpirationMins: mins,
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService(t, 60)

	signed, err := svc.Generate("user_account:abc", "admin@example.com", "Admin", model.RoleAdmin)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := svc.Validate(signed)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.Account != "user_account:abc" {
		t.Errorf("unexpected account: %s", claims.Account)
	}
	if claims.Role != model.RoleAdmin {
		t.Errorf("unexpected role: %s", claims.Role)
	}
	if claims.Issuer != "festival-api-test" {
		t.Errorf("unexpected issuer: %s", claims.Issuer)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	svc := newTestService(t, 60)
	other, err := NewService(Config{Secret: "a-completely-different-secret-value", Issuer: "festival-api-test"})
	if err != nil {
		t.Fatal(err)
	}

	signed, err := other.Generate("user_account:abc", "", "", model.RoleEditor)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Validate(signed); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := newTestService(t, 60)
	svc.expiration = -time.Minute

	signed, err := svc.Generate("user_account:abc", "", "", model.RoleEditor)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Validate(signed); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := newTestService(t, 60)
	if _, err := svc.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	other, err := NewService(Config{Secret: "test-secret-at-least-32-bytes-long!!", Issuer: "someone-else"})
	if err != nil {
		t.Fatal(err)
	}
	signed, err := other.Generate("user_account:abc", "", "", model.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}

	svc := newTestService(t, 60)
	if _, err := svc.Validate(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}
