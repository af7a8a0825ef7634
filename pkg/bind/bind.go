// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/forkful/forkful/config"
	"github.com/forkful/forkful/pkg/validate"
)

const defaultBodyLimit = 4 << 20

// bodyLimit returns the configured request body cap (MAX_BODY_BYTES,
// default 4 MB). Multipart uploads carry their own, larger cap.
func bodyLimit() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", ""), 10, 64)
	if err != nil || n <= 0 {
		return defaultBodyLimit
	}
	return n
}

// JSON decodes r.Body into dest and runs struct-tag validation.
// Returns (errs, nil) on validation failures and (nil, err) when the body
// is malformed or exceeds the size cap.
func JSON(r *http.Request, dest interface{}) (map[string]string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, bodyLimit())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", tooLarge.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
