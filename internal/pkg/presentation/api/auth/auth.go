package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/open-policy-agent/opa/v1/rego"
	"go.opentelemetry.io/otel"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
)

type rolesContextKey struct{ name string }

var rolesCtxKey = &rolesContextKey{"roles"}

var tracer = otel.Tracer("cartosync/authz")

// NewAuthenticator prepares the authorization policy and returns a middleware
// that evaluates every request's bearer token against it. The policy binds
// x = data.cartosync.authz.allow and answers either false or an object with
// the caller's roles.
func NewAuthenticator(ctx context.Context, logger *slog.Logger, policies io.Reader) (func(http.Handler) http.Handler, error) {
	module, err := io.ReadAll(policies)
	if err != nil {
		return nil, fmt.Errorf("unable to read authz policies: %s", err.Error())
	}

	query, err := rego.New(
		rego.Query("x = data.cartosync.authz.allow"),
		rego.Module("cartosync.rego", string(module)),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, err
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var err error

			_, span := tracer.Start(r.Context(), "check-auth")
			defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

			token := r.Header.Get("Authorization")
			if token == "" || !strings.HasPrefix(token, "Bearer ") {
				err = errors.New("authorization header missing")
				logger.Info(err.Error())
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			input := map[string]any{
				"token": token[7:],
			}

			results, err := query.Eval(r.Context(), rego.EvalInput(input))
			if err != nil {
				logger.Error("opa eval failed", "err", err.Error())
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}

			if len(results) == 0 {
				err = errors.New("opa query could not be satisfied")
				logger.Error("auth failed", "err", err.Error())
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}

			binding := results[0].Bindings["x"]

			// a failed authz comes back as a single bool
			allowed, ok := binding.(bool)
			if ok && !allowed {
				err = errors.New("authorization failed")
				logger.Warn(err.Error())
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			result, ok := binding.(map[string]any)
			if !ok {
				err = errors.New("unexpected result type")
				logger.Error("opa error", "err", err.Error())
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}

			anyRoles, ok := result["roles"].([]any)
			if !ok {
				err = errors.New("bad response from authz policy engine")
				logger.Error("opa error", "err", err.Error())
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}

			roles := make([]string, 0, len(anyRoles))
			for _, role := range anyRoles {
				s, ok := role.(string)
				if !ok {
					logger.Error("rego response type error")
					http.Error(w, "rego error", http.StatusInternalServerError)
					return
				}
				roles = append(roles, s)
			}

			if len(roles) == 0 {
				err = errors.New("authorization failed")
				logger.Warn(err.Error())
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAllowedRoles(r.Context(), roles)))
		})
	}, nil
}

// GetAllowedRolesFromContext extracts the caller's roles, if any, from the
// provided context.
func GetAllowedRolesFromContext(ctx context.Context) []string {
	roles, ok := ctx.Value(rolesCtxKey).([]string)
	if !ok {
		return []string{}
	}
	return roles
}

func WithAllowedRoles(ctx context.Context, roles []string) context.Context {
	return context.WithValue(ctx, rolesCtxKey, roles)
}
