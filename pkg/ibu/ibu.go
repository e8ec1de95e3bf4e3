// Package ibu implements a compact binary container format for fixed-width
// genomic records (barcode, UMI, auxiliary index) together with streaming and
// memory-mapped I/O engines.
//
// A file is a 32-byte header followed by zero or more 24-byte records. All
// multi-byte fields are little-endian; this byte order is part of the wire
// contract and does not depend on the host.
//
// Header layout (32 bytes):
//
//	magic:        u32  (0x21554249, "IBU!")
//	version:      u32  (currently 2)
//	bc_len:       u32  (barcode length in bases, 1-32)
//	umi_len:      u32  (UMI length in bases, 0-32)
//	flags:        u64  (bit 0 = sorted, bits 1-63 reserved and must be zero)
//	record_count: u64  (0 means unknown; advisory only)
//
// Record layout (24 bytes):
//
//	barcode: u64  (2-bit packed bases, right-aligned)
//	umi:     u64  (2-bit packed bases, right-aligned)
//	index:   u64  (opaque caller-defined payload)
//
// Reader and Writer cover the general streaming case over any byte source or
// sink. MmapReader maps a whole local file and exposes the record region as a
// zero-copy []Record, with ProcessParallel dispatching contiguous chunks
// across workers.
package ibu

import (
	"errors"
	"fmt"
	"io"
)

const (
	// Magic identifies ibu files.
	Magic uint32 = 0x21554249 // "IBU!"
	// Version is the current format version. Readers reject any other value.
	Version uint32 = 2

	// HeaderSize is the encoded header size in bytes.
	HeaderSize = 32
	// RecordSize is the encoded record size in bytes.
	RecordSize = 24

	// MaxBarcodeLen is the maximum barcode length in bases. Each base takes
	// 2 bits of a 64-bit field.
	MaxBarcodeLen = 32
	// MaxUMILen is the maximum UMI length in bases.
	MaxUMILen = 32
)

// Load reads an entire file into memory: the decoded header plus all records
// in file order. The path may point at a gzip- or zstd-compressed stream.
//
// The header's record count is used as a preallocation hint only; the
// authoritative end of data is the stream itself.
func Load(path string) (Header, []Record, error) {
	r, err := OpenReader(path)
	if err != nil {
		return Header{}, nil, err
	}
	defer r.Close()

	hint := r.Header().RecordCount
	if hint > 1<<24 {
		hint = 1 << 24
	}
	records := make([]Record, 0, hint)
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Header{}, nil, fmt.Errorf("load %s: %w", path, err)
		}
		records = append(records, rec)
	}
	return r.Header(), records, nil
}
