package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kinovera/festival/api/internal/model"
	"github.com/kinovera/festival/api/pkg/token"
)

type stubValidator struct {
	claims *token.Claims
	err    error
}

func (s *stubValidator) Validate(tokenString string) (*token.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func editorClaims() *token.Claims {
	return &token.Claims{Account: "user_account:ed", Role: model.RoleEditor}
}

func TestAuthMissingHeader(t *testing.T) {
	handler := Auth(&stubValidator{claims: editorClaims()})(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthBadScheme(t *testing.T) {
	handler := Auth(&stubValidator{claims: editorClaims()})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthInvalidToken(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"expired", token.ErrTokenExpired},
		{"bad signature", token.ErrInvalidSignature},
		{"garbage", token.ErrInvalidToken},
		{"other", errors.New("surprise")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Auth(&stubValidator{err: tt.err})(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer whatever")

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthPutsClaimsInContext(t *testing.T) {
	var account, role string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account = GetAccountID(r.Context())
		role = GetRole(r.Context())
	})
	handler := Auth(&stubValidator{claims: editorClaims()})(inner)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	if account != "user_account:ed" {
		t.Errorf("unexpected account: %s", account)
	}
	if role != model.RoleEditor {
		t.Errorf("unexpected role: %s", role)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name  string
		role  string
		check func(string) bool
		want  int
	}{
		{"editor can manage content", model.RoleEditor, model.CanManageContent, http.StatusOK},
		{"editor cannot assign roles", model.RoleEditor, model.CanAssignRoles, http.StatusForbidden},
		{"admin can assign roles", model.RoleAdmin, model.CanAssignRoles, http.StatusOK},
		{"jury cannot manage content", model.RoleJury, model.CanManageContent, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Chain(okHandler(),
				Auth(&stubValidator{claims: &token.Claims{Account: "user_account:x", Role: tt.role}}),
				RequireRole(tt.check),
			)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer good-token")

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	handler := RequireRole(model.CanManageContent)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without auth context, got %d", rec.Code)
	}
}
