package store

import (
	"context"
	"net/http"
	"testing"
)

func TestMemoryFetchMissing(t *testing.T) {
	s := NewMemory()

	got, err := s.Fetch(context.Background(), "data/contacts.json", "main")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.Exists {
		t.Fatalf("expected missing file, got %+v", got)
	}
}

func TestMemoryRevisions(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	created, err := s.Write(ctx, WriteRequest{Path: "f.json", Branch: "main", Content: []byte("v1"), Message: "create"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// git hash-object of "v1"
	if created.Revision != "28c218c44b49222f91536daf5b4d9871638edc8e" {
		t.Fatalf("unexpected blob id %s", created.Revision)
	}

	got, err := s.Fetch(ctx, "f.json", "main")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !got.Exists || got.Revision != created.Revision || string(got.Content) != "v1" {
		t.Fatalf("unexpected fetch result %+v", got)
	}

	t.Run("other branch is separate", func(t *testing.T) {
		other, err := s.Fetch(ctx, "f.json", "dev")
		if err != nil {
			t.Fatalf("fetch: %v", err)
		}
		if other.Exists {
			t.Fatal("file must not leak across branches")
		}
	})

	t.Run("missing revision is rejected", func(t *testing.T) {
		_, err := s.Write(ctx, WriteRequest{Path: "f.json", Branch: "main", Content: []byte("v2")})
		assertStatus(t, err, http.StatusUnprocessableEntity)
	})

	updated, err := s.Write(ctx, WriteRequest{Path: "f.json", Branch: "main", Content: []byte("v2"), Revision: created.Revision})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	t.Run("stale revision is rejected", func(t *testing.T) {
		_, err := s.Write(ctx, WriteRequest{Path: "f.json", Branch: "main", Content: []byte("v3"), Revision: created.Revision})
		assertStatus(t, err, http.StatusConflict)
		if !IsConflict(err) {
			t.Fatal("expected IsConflict")
		}

		got, err := s.Fetch(ctx, "f.json", "main")
		if err != nil {
			t.Fatalf("fetch: %v", err)
		}
		if got.Revision != updated.Revision || string(got.Content) != "v2" {
			t.Fatalf("rejected write changed the file: %+v", got)
		}
	})

	t.Run("fetch returns a copy", func(t *testing.T) {
		got, err := s.Fetch(ctx, "f.json", "main")
		if err != nil {
			t.Fatalf("fetch: %v", err)
		}
		got.Content[0] = 'X'

		again, _ := s.Fetch(ctx, "f.json", "main")
		if string(again.Content) != "v2" {
			t.Fatalf("stored content was mutated: %q", again.Content)
		}
	})
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	remoteErr, ok := err.(*RemoteStoreError)
	if !ok {
		t.Fatalf("expected *RemoteStoreError, got %T (%v)", err, err)
	}
	if remoteErr.StatusCode != status {
		t.Fatalf("expected status %d, got %d", status, remoteErr.StatusCode)
	}
}
