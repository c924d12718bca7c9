package accounts

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
)

// loginDecoyHash is a real hash of a throwaway password, compared against
// when the login email is unknown.
var loginDecoyHash, _ = HashPassword("login-decoy-timing-pad")

// Accounts implements the account lifecycle: registration, login, token
// refresh, profile updates, and terminal deletion.
type Accounts struct {
	repo      RepositoryManager
	tokens    TokenService
	logger    Logger
	useHashid bool
}

func NewAccounts(repo RepositoryManager, tokens TokenService) *Accounts {
	return &Accounts{
		repo:   repo,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (s *Accounts) WithLogger(logger Logger) *Accounts {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithDeterministicIDs derives registration ids from the normalized email
// instead of random uuids.
func (s *Accounts) WithDeterministicIDs() *Accounts {
	s.useHashid = true
	return s
}

// TokenService returns the TokenService instance used by this service
func (s *Accounts) TokenService() TokenService {
	return s.tokens
}

// RegisterAccountInput carries the attributes of a new account.
type RegisterAccountInput struct {
	Email    string
	Password string
	FullName string
}

// Register hashes the password and creates the account. The plaintext never
// touches the store or the logs.
func (s *Accounts) Register(ctx context.Context, input RegisterAccountInput) (*User, error) {
	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:        NormalizeEmail(input.Email),
		PasswordHash: hash,
		FullName:     input.FullName,
		IsActive:     true,
	}

	if s.useHashid {
		if id, err := hashid.NewUUID(user.Email); err == nil {
			user.ID = id
		}
	}

	record, err := s.repo.Users().Register(ctx, user)
	if err != nil {
		if errors.Is(err, ErrEmailRegistered) {
			s.logger.Info("registration rejected, email taken", "email", user.Email)
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to register account")
	}

	return record, nil
}

// Login verifies the credentials and returns a signed access token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *Accounts) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) || repository.IsRecordNotFound(err) {
			// Burn the same bcrypt work as a real account so the miss is not
			// observable through response timing.
			_ = ComparePasswordAndHash(password, loginDecoyHash)
			return "", ErrInvalidCredentials
		}
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to look up account during login")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			return "", ErrInvalidCredentials
		}
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to verify password")
	}

	if !user.IsActive {
		return "", ErrAccountInactive
	}

	token, err := s.tokens.Generate(userIdentity{user})
	if err != nil {
		return "", err
	}

	return token, nil
}

// Refresh re-issues an access token for the already resolved account. The
// previous token stays valid until it expires, there is no rotation state.
func (s *Accounts) Refresh(ctx context.Context, user *User) (string, error) {
	if user == nil {
		return "", ErrCredentialsInvalid
	}

	if !user.IsActive {
		return "", ErrAccountInactive
	}

	return s.tokens.Generate(userIdentity{user})
}

// UpdateProfileInput carries the optional profile changes. Nil fields are
// left untouched.
type UpdateProfileInput struct {
	Email    *string
	FullName *string
	Password *string
}

// UpdateProfile mutates the authenticated user's own record. A password
// change re-hashes, an email change re-normalizes and can collide with an
// existing account. Only the columns named by the input are written, so an
// explicit empty full_name clears the field and an empty input is a no-op.
func (s *Accounts) UpdateProfile(ctx context.Context, user *User, input UpdateProfileInput) (*User, error) {
	if user == nil {
		return nil, ErrCredentialsInvalid
	}

	record := *user
	var columns []string

	if input.Email != nil {
		record.Email = NormalizeEmail(*input.Email)
		columns = append(columns, "email")
	}

	if input.FullName != nil {
		record.FullName = *input.FullName
		columns = append(columns, "full_name")
	}

	if input.Password != nil {
		hash, err := HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		record.PasswordHash = hash
		columns = append(columns, "password_hash")
	}

	if len(columns) == 0 {
		return user, nil
	}

	updated, err := s.repo.Users().UpdateColumns(ctx, &record, columns)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrEmailRegistered
		}
		if errors.IsNotFound(err) || repository.IsRecordNotFound(err) {
			return nil, ErrCredentialsInvalid
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update profile")
	}

	return updated, nil
}

// DeleteAccount removes the user's own record for good. Tokens issued before
// the delete fail resolution once the row is gone.
func (s *Accounts) DeleteAccount(ctx context.Context, user *User) error {
	if user == nil {
		return ErrCredentialsInvalid
	}

	if err := s.repo.Users().HardDelete(ctx, user.ID); err != nil {
		if errors.IsNotFound(err) || repository.IsRecordNotFound(err) {
			return ErrCredentialsInvalid
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete account")
	}

	return nil
}

type userIdentity struct {
	user *User
}

func (i userIdentity) ID() string {
	return i.user.ID.String()
}

func (i userIdentity) Email() string {
	return i.user.Email
}

var _ Identity = userIdentity{}
