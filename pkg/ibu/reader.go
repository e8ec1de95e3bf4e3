package ibu

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/eunmann/ibu/pkg/compression"
)

// RecordSource is a readable sequence of records with known dimensions.
// *Reader implements it; Writer.Ingest consumes it.
type RecordSource interface {
	// Header returns the source's declared dimensions.
	Header() Header
	// Next returns the next record, or io.EOF after the last one.
	Next() (Record, error)
}

// Reader decodes a byte stream into a validated header plus a forward-only
// sequence of records. The sequence is single-pass: re-reading requires a
// fresh Reader over a fresh stream.
type Reader struct {
	r         io.Reader
	header    Header
	buf       [RecordSize]byte
	bytesRead uint64
	closer    io.Closer
}

// NewReader constructs a reader over r, consuming and validating the 32-byte
// header immediately. The Reader owns the stream position exclusively while
// iterating.
func NewReader(r io.Reader) (*Reader, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrInvalidHeader, err)
	}
	h, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}
	return &Reader{r: r, header: h, bytesRead: HeaderSize}, nil
}

// OpenReader opens the file at path, transparently decompressing gzip or zstd
// streams, and returns a Reader positioned at the first record.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	cr, err := compression.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	r, err := NewReader(cr)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// Close the decompressor before the file so codec resources are released.
	if c, ok := cr.(io.Closer); ok {
		r.closer = multiCloser{c, f}
	} else {
		r.closer = f
	}
	return r, nil
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var firstErr error
	for _, c := range m {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Header returns the already-decoded header.
func (r *Reader) Header() Header {
	return r.header
}

// Next returns the next record. A clean zero-byte read at a record boundary
// ends the sequence with io.EOF; a 1-23 byte trailing read is a truncation
// error. Records whose packed fields exceed the header's declared widths are
// rejected.
func (r *Reader) Next() (Record, error) {
	n, err := io.ReadFull(r.r, r.buf[:])
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Record{}, fmt.Errorf("%w at byte %d (%d trailing bytes)", ErrTruncatedRecord, r.bytesRead, n)
		}
		return Record{}, fmt.Errorf("read record at byte %d: %w", r.bytesRead, err)
	}
	rec, err := DecodeRecord(r.buf[:])
	if err != nil {
		return Record{}, err
	}
	if err := r.header.CheckRecord(rec); err != nil {
		return Record{}, fmt.Errorf("record at byte %d: %w", r.bytesRead, err)
	}
	r.bytesRead += RecordSize
	return rec, nil
}

// Close releases the underlying file when the Reader was constructed via
// OpenReader. It is a no-op for readers over caller-owned streams.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	c := r.closer
	r.closer = nil
	return c.Close()
}
