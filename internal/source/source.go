// Package source supplies raw record batches from the three supported
// acquisition paths: a synthetic demo generator, a bulk-downloaded file, and
// a user-provided file or upload. The core pipeline performs no I/O itself;
// it consumes the batches produced here.
package source

import (
	"errors"
	"fmt"
)

// Kind names an acquisition source.
type Kind string

const (
	KindDemo   Kind = "demo"
	KindFile   Kind = "file"
	KindUpload Kind = "upload"
)

// UnavailableError reports that a source's underlying file does not exist or
// cannot be read. It is recoverable: callers may fall back to an empty
// dataset or prompt for a different source.
type UnavailableError struct {
	Kind    Kind
	Locator string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %s: %v", e.Kind, e.Locator, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// IsUnavailable reports whether err is a recoverable source-unavailable
// condition.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}
