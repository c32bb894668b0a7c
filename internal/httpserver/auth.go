package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/platform/httpx"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/platform/observability"
	"go.uber.org/zap"
)

type authContextKey string

const operatorContextKey authContextKey = "auth.operator"

// Operator is the authenticated staff member driving the console.
type Operator struct {
	UID   string
	Email string
	Roles []string
	Token string
}

// Authenticator resolves an incoming bearer token into an Operator.
type Authenticator interface {
	Authenticate(r *http.Request, token string) (*Operator, error)
}

// ErrUnauthorized is returned when authentication fails.
var ErrUnauthorized = errors.New("unauthorized")

// AuthError carries a reason code for a failed authentication attempt.
type AuthError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return e.Reason + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error { return e.Err }

// NewAuthError constructs an AuthError with the provided reason.
func NewAuthError(reason string, err error) error {
	return &AuthError{Reason: reason, Err: err}
}

const (
	// ReasonMissingToken indicates an auth attempt without credentials.
	ReasonMissingToken = "missing_token"
	// ReasonTokenInvalid indicates a malformed or invalid token.
	ReasonTokenInvalid = "token_invalid"
	// ReasonTokenExpired indicates an expired token the client can refresh.
	ReasonTokenExpired = "token_expired"
)

// PassthroughAuthenticator accepts any non-empty bearer token. Local
// development only.
func PassthroughAuthenticator() Authenticator {
	return passthroughAuthenticator{}
}

type passthroughAuthenticator struct{}

func (passthroughAuthenticator) Authenticate(_ *http.Request, token string) (*Operator, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, NewAuthError(ReasonMissingToken, ErrUnauthorized)
	}
	return &Operator{UID: "dev-operator", Token: token}, nil
}

// RequireAuth validates the bearer token on every request and attaches the
// Operator to the context. Failures answer with a JSON 401 envelope.
func RequireAuth(authenticator Authenticator) func(http.Handler) http.Handler {
	if authenticator == nil {
		authenticator = PassthroughAuthenticator()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := parseBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				writeUnauthorized(w, r, ReasonMissingToken, ErrUnauthorized)
				return
			}

			operator, err := authenticator.Authenticate(r, token)
			if err != nil || operator == nil {
				reason := ReasonTokenInvalid
				var authErr *AuthError
				if errors.As(err, &authErr) && authErr.Reason != "" {
					reason = authErr.Reason
				}
				if err == nil {
					err = ErrUnauthorized
				}
				writeUnauthorized(w, r, reason, err)
				return
			}

			ctx := context.WithValue(r.Context(), operatorContextKey, operator)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OperatorFromContext retrieves the authenticated operator if present.
func OperatorFromContext(ctx context.Context) (*Operator, bool) {
	operator, ok := ctx.Value(operatorContextKey).(*Operator)
	return operator, ok
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, reason string, err error) {
	observability.FromContext(r.Context()).Warn("auth failure",
		zap.String("reason", reason),
		zap.Error(err),
	)
	httpx.WriteError(r.Context(), w, httpx.NewError("unauthorized", "Authentication required.", http.StatusUnauthorized).
		WithDetails(map[string]any{"reason": reason}))
}
