// Package auth is the account backend: password sign up and sign in, opaque
// access tokens, and per-visitor clients that remember their token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"artgallery-storefront/internal/domain"
	userrepo "artgallery-storefront/internal/repository/user"
	tokenrepo "artgallery-storefront/internal/repository/token"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = domain.Validation("Invalid email or password.")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Session is a signed-in user plus the access token that identifies them.
type Session struct {
	User        *domain.User
	AccessToken string
	ExpiresAt   time.Time
}

type Service struct {
	users       userrepo.Repository
	tokens      *tokenManager
	validate    *validator.Validate
	logger      *zap.Logger
	accessTTL   time.Duration
	passwordMin int
}

func New(users userrepo.Repository, tokens tokenrepo.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:       users,
		tokens:      newTokenManager(tokens),
		validate:    validator.New(),
		logger:      logger.Named("auth"),
		accessTTL:   48 * time.Hour,
		passwordMin: 8,
	}
}

// SignUp registers a regular user and signs them in.
func (s *Service) SignUp(ctx context.Context, fullName, email, password string) (*Session, error) {
	acct, err := s.register(ctx, fullName, email, password, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, acct)
}

// EnsureAccount creates an account with the given role unless the email is
// already registered. Seeding uses it to provision admins and collectors.
func (s *Service) EnsureAccount(ctx context.Context, fullName, email, password string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.Validation("unknown role")
	}
	acct, err := s.register(ctx, fullName, email, password, role)
	if errors.Is(err, domain.ErrAlreadyExists) {
		existing, gerr := s.users.GetByEmail(ctx, email)
		if gerr != nil {
			return nil, gerr
		}
		return existing.User(), nil
	}
	if err != nil {
		return nil, err
	}
	return acct.User(), nil
}

func (s *Service) register(ctx context.Context, fullName, email, password string, role domain.Role) (*userrepo.Account, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(strings.ToLower(email))
	if fullName == "" {
		return nil, domain.Validation("Full name is required.")
	}
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, domain.Validation("Please enter a valid email address.")
	}
	password = strings.TrimSpace(password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	acct, err := s.users.Create(ctx, userrepo.Account{
		Email:        email,
		PasswordHash: string(hashed),
		FullName:     fullName,
		Role:         role,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("account created", zap.String("user_id", acct.ID), zap.String("role", string(acct.Role)))
	return acct, nil
}

// SignIn validates credentials and issues an access token.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	password = strings.TrimSpace(password)
	acct, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, acct)
}

// SignOut revokes token. Unknown tokens are already signed out.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if err := s.tokens.Revoke(ctx, token); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

// Lookup returns the user bound to a valid access token.
func (s *Service) Lookup(ctx context.Context, token string) (*domain.User, error) {
	meta, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, ErrInvalidToken
	}
	acct, err := s.users.GetByID(ctx, meta.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return acct.User(), nil
}

func (s *Service) issue(ctx context.Context, acct *userrepo.Account) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(ctx, acct.ID, kindAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &Session{User: acct.User(), AccessToken: token, ExpiresAt: expiresAt}, nil
}

func validatePassword(p string, min int) error {
	trimmed := strings.TrimSpace(p)
	if len(trimmed) < min {
		return domain.Validation(fmt.Sprintf("Password must be at least %d characters.", min))
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return domain.Validation("Password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number.")
	}
	return nil
}
