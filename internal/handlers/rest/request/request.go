package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const maxBodyBytes = 1 << 20

var (
	ErrInvalidBody    = errors.New("invalid JSON body")
	ErrInvalidIfMatch = errors.New("If-Match must be a quoted order version")
	ErrVersionsDiffer = errors.New("If-Match and body version differ")
)

// DecodeJSON decodes a bounded request body. An empty body leaves dst untouched
// when allowEmpty is set.
func DecodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	err := decoder.Decode(dst)
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return nil
}

// ExpectedVersion merges the If-Match header with an optional body version.
// Both may be absent, in which case the write is unconditional.
func ExpectedVersion(r *http.Request, bodyVersion *int64) (*int64, error) {
	raw := strings.TrimSpace(r.Header.Get("If-Match"))
	if raw == "" || raw == "*" {
		return bodyVersion, nil
	}

	raw = strings.TrimPrefix(raw, "W/")
	version, err := strconv.ParseInt(strings.Trim(raw, `"`), 10, 64)
	if err != nil || version < 1 {
		return nil, ErrInvalidIfMatch
	}

	if bodyVersion != nil && *bodyVersion != version {
		return nil, ErrVersionsDiffer
	}
	return &version, nil
}
