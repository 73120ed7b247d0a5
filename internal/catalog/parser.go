package catalog

import (
	"encoding/json"
	"time"
)

// ParseError reports a malformed catalog payload.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "parse instrument catalog: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse decodes the decompressed catalog payload, a single JSON array of
// instrument objects, into a new snapshot. The payload is consumed whole:
// on any decode failure nothing is returned, never a partial catalog.
func Parse(data []byte) (*Catalog, error) {
	var instruments []InstrumentModel
	if err := json.Unmarshal(data, &instruments); err != nil {
		return nil, &ParseError{Err: err}
	}
	return New(instruments, time.Now()), nil
}
