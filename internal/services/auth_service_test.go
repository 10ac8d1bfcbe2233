package services

import (
	"errors"
	"testing"
	"time"
)

type authStubStore struct {
	users map[string]*Account
}

func newAuthStubStore() *authStubStore {
	return &authStubStore{users: map[string]*Account{}}
}

func (s *authStubStore) FindUserByEmail(email string) (*Account, error) {
	if u, ok := s.users[email]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, nil
}

func (s *authStubStore) AddUser(u *Account) error {
	if _, ok := s.users[u.Email]; ok {
		return errors.New("duplicate user")
	}
	copy := *u
	s.users[u.Email] = &copy
	return nil
}

func newTestAuthService(store AuthStore) *AuthService {
	svc := NewAuthService(store, func(uid, email string) (string, error) {
		return "token:" + uid + ":" + email, nil
	})
	svc.now = func() time.Time { return time.Unix(0, 0) }
	svc.idGen = func(prefix string, n int) string { return prefix + "1234567" }
	return svc
}

func TestAuthRegisterAndLogin(t *testing.T) {
	store := newAuthStubStore()
	svc := newTestAuthService(store)

	res, err := svc.Register("Ana", "Ana@X.com", "secret1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.User.ID == "" || res.Token == "" {
		t.Fatalf("expected id and token in result: %+v", res)
	}
	if res.User.Email != "ana@x.com" {
		t.Fatalf("email not lowercased: %q", res.User.Email)
	}
	stored := store.users["ana@x.com"]
	if stored == nil {
		t.Fatal("account not stored under normalized email")
	}
	if stored.Digest == "secret1" {
		t.Fatal("plaintext password stored as digest")
	}

	loginRes, err := svc.Login("ana@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if loginRes.Token == "" || loginRes.User.Name != "Ana" {
		t.Fatalf("unexpected login result: %+v", loginRes)
	}
}

func TestAuthRegisterValidation(t *testing.T) {
	cases := []struct {
		name, email, password string
	}{
		{"", "ana@x.com", "secret1"},
		{"Ana", "", "secret1"},
		{"Ana", "ana@x.com", ""},
		{"Ana", "ana@x.com", "12345"}, // length 5 rejected
		{"Ana", "bad-email", "secret1"},
		{"Ana", "a@b", "secret1"},
		{"Ana", "a b@c.co", "secret1"},
	}
	for _, c := range cases {
		svc := newTestAuthService(newAuthStubStore())
		_, err := svc.Register(c.name, c.email, c.password)
		se, ok := AsServiceError(err)
		if !ok || se.Code != ErrorInvalid {
			t.Errorf("Register(%q,%q,%q) = %v, want validation error", c.name, c.email, c.password, err)
		}
	}

	// Exactly 6 characters is accepted.
	svc := newTestAuthService(newAuthStubStore())
	if _, err := svc.Register("Ana", "a@b.co", "123456"); err != nil {
		t.Fatalf("6-character password rejected: %v", err)
	}
}

func TestAuthRegisterConflictIsCaseInsensitive(t *testing.T) {
	store := newAuthStubStore()
	svc := newTestAuthService(store)
	if _, err := svc.Register("Ana", "X@Y.com", "secret1"); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	_, err := svc.Register("Bob", "x@y.com", "secret2")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestAuthLoginFailuresAreIndistinguishable(t *testing.T) {
	store := newAuthStubStore()
	svc := newTestAuthService(store)
	if _, err := svc.Register("Ana", "ana@x.com", "secret1"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	_, wrongPassword := svc.Login("ana@x.com", "wrong-password")
	_, unknownEmail := svc.Login("nobody@x.com", "secret1")
	for _, err := range []error{wrongPassword, unknownEmail} {
		se, ok := AsServiceError(err)
		if !ok || se.Code != ErrorUnauthorized {
			t.Fatalf("expected unauthorized error, got %v", err)
		}
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("login failures distinguishable: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestAuthLoginValidation(t *testing.T) {
	svc := newTestAuthService(newAuthStubStore())
	for _, c := range [][2]string{{"", "secret1"}, {"ana@x.com", ""}, {"", ""}} {
		_, err := svc.Login(c[0], c[1])
		se, ok := AsServiceError(err)
		if !ok || se.Code != ErrorInvalid {
			t.Errorf("Login(%q,%q) = %v, want validation error", c[0], c[1], err)
		}
	}
}
