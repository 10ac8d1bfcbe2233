package api

import "github.com/formlite/formlite/internal/services"

// Store is the full persistence surface the API needs. Implementations
// must serialize mutations; see the memory store and the sqlite store.
type Store interface {
	// Accounts. Emails are stored and looked up in lowercase.
	FindUserByEmail(email string) (*services.Account, error)
	AddUser(u *services.Account) error

	// Forms and their append-only response logs.
	InsertForm(f *services.Form) error
	GetForm(id string) (*services.Form, error)
	ListFormsByOwner(ownerID string) ([]*services.Form, error)
	AppendResponse(formID string, r *services.Response) error
}

var _ Store = (*memoryStore)(nil)

// A Store can back both services directly.
var (
	_ services.AuthStore = Store(nil)
	_ services.FormStore = Store(nil)
)
