package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/pkg/auth"
	"github.com/shashiranjanraj/shopfront/pkg/logger"
	"github.com/shashiranjanraj/shopfront/pkg/response"
)

// Verifier checks a bearer token for the expected principal kind.
type Verifier interface {
	Verify(token string, expected auth.Kind) (uint, error)
}

// PrincipalCheck confirms the principal behind a verified token still exists
// and may act. gorm.ErrRecordNotFound, services.ErrNotFound and
// services.ErrUnauthorized reject the request with 401; any other error is a
// 500.
type PrincipalCheck func(ctx context.Context, id uint) error

// Principal is the authenticated caller stored in the request context.
type Principal struct {
	ID   uint
	Kind auth.Kind
}

type principalKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromCtx returns the caller, if any.
func PrincipalFromCtx(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// UserIDFromCtx returns the id of an authenticated user.
func UserIDFromCtx(ctx context.Context) (uint, bool) {
	p, ok := PrincipalFromCtx(ctx)
	if !ok || p.Kind != auth.KindUser {
		return 0, false
	}
	return p.ID, true
}

// AdminIDFromCtx returns the id of an authenticated admin.
func AdminIDFromCtx(ctx context.Context) (uint, bool) {
	p, ok := PrincipalFromCtx(ctx)
	if !ok || p.Kind != auth.KindAdmin {
		return 0, false
	}
	return p.ID, true
}

// RequireUser rejects requests without a valid user token.
func RequireUser(v Verifier, check PrincipalCheck) func(http.Handler) http.Handler {
	return authenticate(v, auth.KindUser, check, true)
}

// RequireAdmin rejects requests without a valid admin token.
func RequireAdmin(v Verifier, check PrincipalCheck) func(http.Handler) http.Handler {
	return authenticate(v, auth.KindAdmin, check, true)
}

// OptionalAdmin attaches an admin principal when a valid admin token is
// present and lets every other request through untouched.
func OptionalAdmin(v Verifier, check PrincipalCheck) func(http.Handler) http.Handler {
	return authenticate(v, auth.KindAdmin, check, false)
}

func authenticate(v Verifier, kind auth.Kind, check PrincipalCheck, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearer(r)
			if token == "" {
				if required {
					w.Header().Set("WWW-Authenticate", "Bearer")
					response.Unauthorized(w)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			id, err := v.Verify(token, kind)
			if err == nil && check != nil {
				err = check(r.Context(), id)
				if err != nil && !rejected(err) {
					logger.WithCtx(r.Context()).Error("auth: principal check failed", "kind", kind, "error", err)
					response.Error(w, http.StatusInternalServerError, "Internal Server Error")
					return
				}
			}
			if err != nil {
				logger.WithCtx(r.Context()).Debug("auth: rejected token", "kind", kind, "error", err)
				if required {
					w.Header().Set("WWW-Authenticate", "Bearer")
					response.Error(w, http.StatusUnauthorized, "Could not validate credentials")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithPrincipal(r.Context(), Principal{ID: id, Kind: kind})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// rejected reports whether a principal check error means the caller is gone
// or barred, as opposed to the check itself failing.
func rejected(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, services.ErrNotFound) ||
		errors.Is(err, services.ErrUnauthorized)
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
