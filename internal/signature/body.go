package signature

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// PreserveRequestBody reads the whole body and puts an equivalent reader back
// on r so later consumers see the original bytes. A limit above zero caps the
// read; larger bodies fail with ErrBodyTooLarge and are not restored.
func PreserveRequestBody(r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	reader := io.Reader(r.Body)
	if limit > 0 {
		reader = io.LimitReader(r.Body, limit+1)
	}

	body, err := io.ReadAll(reader)
	_ = r.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	if limit > 0 && int64(len(body)) > limit {
		return nil, ErrBodyTooLarge
	}

	RestoreBody(r, body)
	return body, nil
}

// RestoreBody replaces r.Body with a fresh reader over body.
func RestoreBody(r *http.Request, body []byte) {
	r.Body = io.NopCloser(bytes.NewReader(body))
	r.ContentLength = int64(len(body))
	r.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
}
