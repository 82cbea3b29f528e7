package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/deppfellow/contactbook/internal/config"
)

// fakeContentsAPI mimics the parts of the GitHub Contents API the store uses.
type fakeContentsAPI struct {
	mu       sync.Mutex
	files    map[string]memoryFile // keyed by ref + ":" + path
	auth     []string
	messages []string
	status   int // when set, every request fails with it
}

type fakePutBody struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha"`
}

func newFakeContentsAPI(t *testing.T) (*fakeContentsAPI, *GitHub) {
	t.Helper()

	api := &fakeContentsAPI{files: make(map[string]memoryFile)}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client, err := NewGitHub(config.RemoteConfig{
		Token:  "secret",
		Owner:  "octo",
		Repo:   "book",
		APIURL: srv.URL,
	}, srv.Client())
	if err != nil {
		t.Fatalf("new github store: %v", err)
	}
	return api, client
}

func (f *fakeContentsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.auth = append(f.auth, r.Header.Get("Authorization"))
	w.Header().Set("Content-Type", "application/json")

	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
		return
	}

	const prefix = "/repos/octo/book/contents/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		return
	}
	path := strings.TrimPrefix(r.URL.Path, prefix)

	switch r.Method {
	case http.MethodGet:
		file, ok := f.files[r.URL.Query().Get("ref")+":"+path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		// GitHub wraps base64 content at 60 columns.
		encoded := base64.StdEncoding.EncodeToString(file.content)
		if len(encoded) > 60 {
			encoded = encoded[:60] + "\n" + encoded[60:]
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type":     "file",
			"encoding": "base64",
			"path":     path,
			"sha":      string(file.revision),
			"content":  encoded,
		})

	case http.MethodPut:
		var body fakePutBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		key := body.Branch + ":" + path
		current, exists := f.files[key]
		switch {
		case exists && body.SHA == "":
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"Invalid request.\n\n\"sha\" wasn't supplied."}`))
			return
		case exists && body.SHA != string(current.revision):
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"contacts.json does not match"}`))
			return
		}

		content, err := base64.StdEncoding.DecodeString(body.Content)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		revision := blobRevision(content)
		f.files[key] = memoryFile{revision: revision, content: content}
		f.messages = append(f.messages, body.Message)

		status := http.StatusOK
		if !exists {
			status = http.StatusCreated
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": map[string]any{"sha": string(revision), "path": path},
			"commit":  map[string]any{"sha": "c0ffee", "message": body.Message},
		})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeContentsAPI) authHeaders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.auth...)
}

func (f *fakeContentsAPI) commitMessages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages...)
}

func TestGitHubFetchMissing(t *testing.T) {
	api, s := newFakeContentsAPI(t)

	got, err := s.Fetch(context.Background(), "data/contacts.json", "main")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.Exists {
		t.Fatalf("expected missing file, got %+v", got)
	}
	if auth := api.authHeaders(); len(auth) != 1 || auth[0] != "Bearer secret" {
		t.Fatalf("expected bearer auth, got %v", auth)
	}
}

func TestGitHubWriteThenFetch(t *testing.T) {
	ctx := context.Background()
	api, s := newFakeContentsAPI(t)

	content := []byte(`{"count":0,"contacts":[],"note":"long enough to be wrapped by the fake api"}`)
	created, err := s.Write(ctx, WriteRequest{
		Path:    "data/contacts.json",
		Branch:  "main",
		Content: content,
		Message: "Add contact: Ada (+15551234567)",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Revision.IsZero() || created.Commit != "c0ffee" {
		t.Fatalf("unexpected write result %+v", created)
	}
	if msgs := api.commitMessages(); len(msgs) != 1 || msgs[0] != "Add contact: Ada (+15551234567)" {
		t.Fatalf("commit message not forwarded: %v", msgs)
	}

	got, err := s.Fetch(ctx, "data/contacts.json", "main")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !got.Exists || got.Revision != created.Revision || string(got.Content) != string(content) {
		t.Fatalf("unexpected fetch result %+v", got)
	}

	t.Run("stale revision", func(t *testing.T) {
		if _, err := s.Write(ctx, WriteRequest{
			Path: "data/contacts.json", Branch: "main", Content: []byte("{}"), Revision: "deadbeef",
		}); !IsConflict(err) {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("missing revision", func(t *testing.T) {
		_, err := s.Write(ctx, WriteRequest{Path: "data/contacts.json", Branch: "main", Content: []byte("{}")})
		assertStatus(t, err, http.StatusUnprocessableEntity)
	})

	t.Run("update with current revision", func(t *testing.T) {
		updated, err := s.Write(ctx, WriteRequest{
			Path: "data/contacts.json", Branch: "main", Content: []byte("{}"), Revision: created.Revision,
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Revision == created.Revision {
			t.Fatal("expected a new revision")
		}
	})
}

func TestGitHubRemoteError(t *testing.T) {
	api, s := newFakeContentsAPI(t)
	api.mu.Lock()
	api.status = http.StatusUnauthorized
	api.mu.Unlock()

	_, err := s.Fetch(context.Background(), "data/contacts.json", "main")
	remoteErr, ok := err.(*RemoteStoreError)
	if !ok {
		t.Fatalf("expected *RemoteStoreError, got %T (%v)", err, err)
	}
	if remoteErr.Op != http.MethodGet || remoteErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected error %+v", remoteErr)
	}
	if !strings.Contains(remoteErr.Body, "Bad credentials") {
		t.Fatalf("expected response body in error, got %q", remoteErr.Body)
	}
}
