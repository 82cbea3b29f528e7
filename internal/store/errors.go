package store

import (
	"errors"
	"fmt"
	"net/http"
)

// RemoteStoreError is any non-success answer of the remote store other than
// "not found" on a read.
type RemoteStoreError struct {
	// Op is the HTTP method of the failed call (GET or PUT).
	Op         string
	StatusCode int
	Body       string
}

func (e *RemoteStoreError) Error() string {
	return fmt.Sprintf("remote store %s failed: %d %s", e.Op, e.StatusCode, e.Body)
}

// IsConflict reports whether err is a write rejected because the named
// revision is no longer current.
func IsConflict(err error) bool {
	var remoteErr *RemoteStoreError
	return errors.As(err, &remoteErr) && remoteErr.StatusCode == http.StatusConflict
}
