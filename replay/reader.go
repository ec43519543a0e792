package replay

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

var ErrUnsupportedVersion = errors.New("unsupported replay version")

type Reader struct {
	zr     *zstd.Decoder
	dec    *cbor.Decoder
	header Header
}

func NewReader(r io.Reader) (*Reader, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}

	reader := &Reader{
		zr:  zr,
		dec: decMode.NewDecoder(zr),
	}

	if err := reader.dec.Decode(&reader.header); err != nil {
		zr.Close()
		return nil, fmt.Errorf("failed to read replay header: %w", err)
	}

	if reader.header.Version != FormatVersion {
		zr.Close()
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, reader.header.Version)
	}

	return reader, nil
}

func (r *Reader) Header() Header {
	return r.header
}

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}

		return Record{}, fmt.Errorf("failed to read record: %w", err)
	}

	return rec, nil
}

func (r *Reader) Close() {
	r.zr.Close()
}
