package store

import (
	"context"
	"crypto/sha1" //nolint: gosec // git object ids, not a security boundary
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"sync"
)

type memoryKey struct {
	branch string
	path   string
}

type memoryFile struct {
	revision Revision
	content  []byte
}

// Memory is an in-process BlobStore with the same revision rules as the
// GitHub Contents API. Revisions are git blob ids of the content.
type Memory struct {
	mu      sync.Mutex
	files   map[memoryKey]memoryFile
	commits int
}

var _ BlobStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{files: make(map[memoryKey]memoryFile)}
}

func (s *Memory) Fetch(_ context.Context, path, ref string) (FetchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[memoryKey{branch: ref, path: path}]
	if !ok {
		return FetchResult{Exists: false}, nil
	}
	return FetchResult{
		Exists:   true,
		Revision: f.revision,
		Content:  append([]byte(nil), f.content...),
	}, nil
}

func (s *Memory) Write(_ context.Context, req WriteRequest) (WriteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{branch: req.Branch, path: req.Path}
	current, exists := s.files[key]
	switch {
	case exists && req.Revision.IsZero():
		return WriteResult{}, &RemoteStoreError{
			Op:         http.MethodPut,
			StatusCode: http.StatusUnprocessableEntity,
			Body:       `{"message":"Invalid request.\n\n\"sha\" wasn't supplied."}`,
		}
	case exists && req.Revision != current.revision,
		!exists && !req.Revision.IsZero():
		return WriteResult{}, &RemoteStoreError{
			Op:         http.MethodPut,
			StatusCode: http.StatusConflict,
			Body:       fmt.Sprintf(`{"message":"%s does not match %s"}`, req.Path, req.Revision),
		}
	}

	content := append([]byte(nil), req.Content...)
	revision := blobRevision(content)
	s.files[key] = memoryFile{revision: revision, content: content}
	s.commits++

	return WriteResult{Revision: revision, Commit: "memory-" + strconv.Itoa(s.commits)}, nil
}

// blobRevision computes the git blob id of content.
func blobRevision(content []byte) Revision {
	h := sha1.New() //nolint: gosec // see import
	fmt.Fprintf(h, "blob %d\x00", len(content))
	h.Write(content)
	return Revision(hex.EncodeToString(h.Sum(nil)))
}
