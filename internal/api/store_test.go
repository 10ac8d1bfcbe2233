package api

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/formlite/formlite/internal/services"
)

func TestMemoryStoreUsers(t *testing.T) {
	s := NewMemoryStore()

	u, err := s.FindUserByEmail("ana@x.com")
	if err != nil || u != nil {
		t.Fatalf("expected no user, got %v, %v", u, err)
	}

	acct := &services.Account{ID: "u1", Name: "Ana", Email: "ana@x.com", Digest: "123", CreatedAt: time.Unix(0, 0)}
	if err := s.AddUser(acct); err != nil {
		t.Fatalf("AddUser returned error: %v", err)
	}
	if err := s.AddUser(acct); err == nil {
		t.Fatal("duplicate AddUser accepted")
	}

	got, err := s.FindUserByEmail("ana@x.com")
	if err != nil || got == nil || got.ID != "u1" {
		t.Fatalf("FindUserByEmail = %v, %v", got, err)
	}
	// The store hands out copies.
	got.Name = "mutated"
	again, _ := s.FindUserByEmail("ana@x.com")
	if again.Name != "Ana" {
		t.Fatal("store returned a shared pointer")
	}
}

func TestMemoryStoreFormsAndResponses(t *testing.T) {
	s := NewMemoryStore()
	for i, owner := range []string{"a", "b", "a"} {
		f := &services.Form{ID: fmt.Sprintf("f%d", i+1), OwnerID: owner, Title: fmt.Sprintf("T%d", i+1), Active: true}
		if err := s.InsertForm(f); err != nil {
			t.Fatalf("InsertForm returned error: %v", err)
		}
	}

	forms, err := s.ListFormsByOwner("a")
	if err != nil {
		t.Fatalf("ListFormsByOwner returned error: %v", err)
	}
	if len(forms) != 2 || forms[0].ID != "f1" || forms[1].ID != "f3" {
		t.Fatalf("unexpected listing: %+v", forms)
	}

	if err := s.AppendResponse("f1", &services.Response{ID: "r1"}); err != nil {
		t.Fatalf("AppendResponse returned error: %v", err)
	}
	if err := s.AppendResponse("missing", &services.Response{ID: "r2"}); err == nil {
		t.Fatal("AppendResponse to missing form accepted")
	}
	f, err := s.GetForm("f1")
	if err != nil || f == nil {
		t.Fatalf("GetForm = %v, %v", f, err)
	}
	if len(f.Responses) != 1 || f.Responses[0].ID != "r1" {
		t.Fatalf("response not appended: %+v", f.Responses)
	}
}

func TestMemoryStoreConcurrentAppends(t *testing.T) {
	s := NewMemoryStore()
	if err := s.InsertForm(&services.Form{ID: "f1", OwnerID: "a", Active: true}); err != nil {
		t.Fatal(err)
	}

	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.AppendResponse("f1", &services.Response{ID: fmt.Sprintf("r%d", i)})
		}(i)
	}
	wg.Wait()

	f, err := s.GetForm("f1")
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Responses) != n {
		t.Fatalf("expected %d responses, got %d", n, len(f.Responses))
	}
}
