package fileutil

import (
	"io"

	"github.com/cockroachdb/errors"
)

// ErrTooLarge indicates that content exceeded the caller's size limit.
var ErrTooLarge = errors.New("content exceeds size limit")

// ReadAllWithLimit reads r to EOF, failing with ErrTooLarge once more than
// limit bytes have been seen. A limit <= 0 disables the check.
func ReadAllWithLimit(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		data, err := io.ReadAll(r)
		return data, errors.Wrap(err, "reading")
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading")
	}
	if int64(len(data)) > limit {
		return nil, errors.Wrapf(ErrTooLarge, "limit is %d bytes", limit)
	}

	return data, nil
}
