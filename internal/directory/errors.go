package directory

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrDecode is wrapped by every error caused by an unexpected response shape.
var ErrDecode = errors.New("unexpected response shape")

// RequestFailedError is returned when the upstream answers with a non-2xx
// status after transport retries.
type RequestFailedError struct {
	Op         string
	URL        string
	StatusCode int
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("%s failed: %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
}

// StatusCode extracts the upstream status from err, or 0 if err is not a
// RequestFailedError.
func StatusCode(err error) int {
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf.StatusCode
	}
	return 0
}
