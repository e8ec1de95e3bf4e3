// Package compression provides transparent decompression for byte streams by
// sniffing the leading magic bytes, plus matching writers. It exists so the
// format readers can accept plain, gzip, or zstd inputs through one path.
package compression

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Format identifies a stream compression codec.
type Format int

const (
	// None is an uncompressed stream.
	None Format = iota
	// Gzip is RFC 1952.
	Gzip
	// Zstd is RFC 8878.
	Zstd
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Detect returns the codec indicated by the first bytes of a stream. Fewer
// than 4 bytes of prefix may misreport zstd as None; callers should pass at
// least 4 when available.
func Detect(prefix []byte) Format {
	switch {
	case bytes.HasPrefix(prefix, gzipMagic):
		return Gzip
	case bytes.HasPrefix(prefix, zstdMagic):
		return Zstd
	default:
		return None
	}
}

// NewReader wraps r in a transparently-decompressing reader. Uncompressed
// input passes through unchanged (modulo buffering).
func NewReader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	prefix, err := br.Peek(4)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("sniff stream: %w", err)
	}

	switch Detect(prefix) {
	case Gzip:
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		return gr, nil
	case Zstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		return zr.IOReadCloser(), nil
	default:
		return br, nil
	}
}

// nopWriteCloser adapts a plain writer to the WriteCloser the compressed
// paths return.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewWriter wraps w in a compressing writer for the given format. The caller
// must Close the result to flush codec trailers; closing does not close w.
func NewWriter(w io.Writer, format Format) (io.WriteCloser, error) {
	switch format {
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		return zw, nil
	default:
		return nopWriteCloser{w}, nil
	}
}
