package services

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/formlite/formlite/internal/auth"
)

// AuthStore abstracts the account collection used by AuthService. Emails
// passed to FindUserByEmail are already trimmed and lowercased.
type AuthStore interface {
	FindUserByEmail(email string) (*Account, error)
	AddUser(u *Account) error
}

// TokenSigner issues a session token for an authenticated identity.
type TokenSigner func(userID, email string) (string, error)

const minPasswordLength = 6

// One run of non-space-non-@, an "@", another run, a dot, another run.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthService struct {
	store     AuthStore
	now       func() time.Time
	idGen     func(prefix string, n int) string
	signToken TokenSigner
}

// AuthResult is returned by both Register and Login: the bearer token plus
// the public account view. The digest never leaves the service.
type AuthResult struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

func NewAuthService(store AuthStore, signer TokenSigner) *AuthService {
	return &AuthService{
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
		idGen:     func(prefix string, n int) string { return prefix + shortID(n) },
		signToken: signer,
	}
}

// Register creates an account and issues a session token.
func (s *AuthService) Register(name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, NewInvalidError("name, email and password are required")
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return nil, NewInvalidError("password must be at least 6 characters")
	}
	if !emailPattern.MatchString(email) {
		return nil, NewInvalidError("invalid email address")
	}
	existing, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewConflictError("an account with this email already exists")
	}
	acct := &Account{
		ID:        s.idGen("u", 7),
		Name:      name,
		Email:     email,
		Digest:    auth.Digest(password),
		CreatedAt: s.now(),
	}
	if err := s.store.AddUser(acct); err != nil {
		return nil, err
	}
	return s.result(acct)
}

// Login checks the credential pair and issues a session token. An unknown
// email and a wrong password produce the same error so accounts cannot be
// enumerated.
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, NewInvalidError("email and password are required")
	}
	u, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil || auth.Digest(password) != u.Digest {
		return nil, NewUnauthorizedError("Invalid email or password")
	}
	return s.result(u)
}

func (s *AuthService) result(acct *Account) (*AuthResult, error) {
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(acct.ID, acct.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token: token,
		User:  PublicUser{ID: acct.ID, Name: acct.Name, Email: acct.Email},
	}, nil
}
