package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/DogWalkGo/pkg/logger"
)

type identityKey struct{}

// Identity is the authenticated caller attached to a request. Its absence
// means the request is anonymous.
type Identity struct {
	UserID   int64
	Username string
	Role     string
}

// IdentityResolver loads the caller's identity from a request. It returns
// nil and no error for anonymous requests.
type IdentityResolver interface {
	Resolve(r *http.Request) (*Identity, error)
}

// Challenge answers a request that needs an identity it does not have.
type Challenge func(w http.ResponseWriter, r *http.Request, reason string)

// Reason reported when no session is present.
const ReasonNotLoggedIn = "not logged in"

// Authenticate resolves the caller's identity and stores it in the request
// context. It never rejects: a resolver error is logged and the request
// continues as anonymous.
func Authenticate(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := resolver.Resolve(r)
			if err != nil {
				logger.FromContext(r.Context()).WarnContext(r.Context(), "session lookup failed, treating request as anonymous",
					slog.String("error", err.Error()),
				)
				id = nil
			}
			if id == nil {
				next.ServeHTTP(w, r)
				return
			}

			trace.SpanFromContext(r.Context()).SetAttributes(
				attribute.Int64("enduser.id", id.UserID),
				attribute.String("enduser.role", id.Role),
			)
			ctx := WithIdentity(r.Context(), *id)
			ctx = logger.WithUser(ctx, id.UserID, id.Role)
			ctx = logger.NewContext(ctx, logger.FromContext(ctx).With(
				slog.Int64("user_id", id.UserID),
				slog.String("role", id.Role),
			))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuthenticated passes authenticated requests through and answers
// anonymous ones with challenge.
func RequireAuthenticated(challenge Challenge) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IdentityFromContext(r.Context()); !ok {
				challenge(w, r, ReasonNotLoggedIn)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole rejects authenticated callers whose role is not listed with a
// 403. Anonymous callers get the API challenge.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				APIChallenge(w, r, ReasonNotLoggedIn)
				return
			}
			if _, ok := allowed[id.Role]; !ok {
				writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// APIChallenge answers with 401 and a JSON body.
func APIChallenge(w http.ResponseWriter, _ *http.Request, reason string) {
	writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", reason)
}

// PageChallenge redirects the browser to the login page with the reason.
func PageChallenge(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, "/?error="+url.QueryEscape(reason), http.StatusSeeOther)
}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller's identity, if authenticated.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}
