package accounts

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
)

// DefaultAuthScheme is the Authorization scheme we accept by default.
const DefaultAuthScheme = "Bearer"

// IdentityResolver turns an Authorization header into the live account it
// belongs to. A token that verifies but points at a deleted account resolves
// to nothing, so deleted users never come back as ghosts.
type IdentityResolver struct {
	tokens TokenService
	users  Users
	scheme string
	logger Logger
}

func NewIdentityResolver(tokens TokenService, users Users) *IdentityResolver {
	return &IdentityResolver{
		tokens: tokens,
		users:  users,
		scheme: DefaultAuthScheme,
		logger: defLogger{},
	}
}

func (r *IdentityResolver) WithLogger(logger Logger) *IdentityResolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

func (r *IdentityResolver) WithAuthScheme(scheme string) *IdentityResolver {
	if scheme != "" {
		r.scheme = scheme
	}
	return r
}

// Resolve extracts the bearer token, validates it, and loads the account the
// subject claim points at.
func (r *IdentityResolver) Resolve(ctx context.Context, authorizationHeader string) (*User, error) {
	raw, err := r.extractToken(authorizationHeader)
	if err != nil {
		return nil, err
	}

	claims, err := r.tokens.Validate(raw)
	if err != nil {
		// Expired and malformed stay distinguishable in logs only; the caller
		// sees a single rejection either way.
		r.logger.Debug("token rejected", "error", err)
		return nil, ErrCredentialsInvalid
	}

	user, err := r.users.GetByID(ctx, claims.UserID())
	if err != nil {
		if errors.IsNotFound(err) || repository.IsRecordNotFound(err) {
			r.logger.Debug("token subject no longer maps to an account", "sub", claims.UserID())
			return nil, ErrCredentialsInvalid
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load account during resolution")
	}

	return user, nil
}

func (r *IdentityResolver) extractToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingCredentials
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], r.scheme) {
		return "", ErrMissingCredentials
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrMissingCredentials
	}

	return token, nil
}

// Protected guards a route, storing the resolved account in the request
// context and router locals for downstream handlers.
func (r *IdentityResolver) Protected(errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	if errorHandler == nil {
		errorHandler = defaultResolverErrHandler
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			user, err := r.Resolve(c.Context(), c.Header(router.HeaderAuthorization))
			if err != nil {
				return errorHandler(c, err)
			}

			c.Locals(UserLocalsKey, user)
			c.SetContext(WithContext(c.Context(), user))

			return next(c)
		}
	}
}

func defaultResolverErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = ErrCredentialsInvalid
	}

	return c.JSON(richErr.Code, map[string]any{
		"error": map[string]any{
			"message":   richErr.Message,
			"text_code": richErr.TextCode,
			"category":  richErr.Category,
		},
	})
}
