package source

import (
	"bytes"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/niveshke/esg-explorer/internal/dataset"
)

// LoadFile reads a CSV file from disk into a raw batch. A missing or
// unreadable file is an UnavailableError, not a crash; a structurally
// malformed file (no header, broken CSV framing) is a plain load error.
func LoadFile(path string) (*dataset.RawBatch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &UnavailableError{Kind: KindFile, Locator: path, Err: err}
	}
	defer f.Close()

	batch, err := dataset.ReadBatch(f)
	if err != nil {
		return nil, eris.Wrapf(err, "source: parse %s", path)
	}

	zap.L().Debug("file batch loaded",
		zap.String("path", path),
		zap.Int("rows", len(batch.Rows)),
	)
	return batch, nil
}

// LoadUpload reads an in-memory upload into a raw batch. The bytes double as
// the cache identity for the upload.
func LoadUpload(name string, data []byte) (*dataset.RawBatch, error) {
	batch, err := dataset.ReadBatch(bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrapf(err, "source: parse upload %s", name)
	}
	return batch, nil
}

// ReadAll is a small helper for callers holding an io.Reader upload.
func ReadAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "source: read upload")
	}
	return data, nil
}
