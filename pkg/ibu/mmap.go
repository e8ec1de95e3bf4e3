package ibu

import (
	"encoding/binary"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// MmapFile is a read-only memory mapping of a whole file.
type MmapFile struct {
	data []byte
}

// OpenMmap opens the file at path and maps it into memory.
func OpenMmap(path string) (*MmapFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	size := info.Size()
	if size == 0 {
		return &MmapFile{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}
	return &MmapFile{data: data}, nil
}

// Close unmaps the file.
func (m *MmapFile) Close() error {
	if m.data == nil {
		return nil
	}
	data := m.data
	m.data = nil
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	return nil
}

// Data returns the raw mapped bytes.
func (m *MmapFile) Data() []byte {
	return m.data
}

// Size returns the mapped length in bytes.
func (m *MmapFile) Size() int64 {
	return int64(len(m.data))
}

// hostLittleEndian reports whether the host stores integers little-endian.
// The wire format is little-endian, so on matching hosts the record region
// can be aliased directly as []Record.
var hostLittleEndian = func() bool {
	var x uint16 = 1
	return *(*byte)(unsafe.Pointer(&x)) == 1
}()

// MmapReader is the maximum-throughput read path for local files. It maps the
// whole file, validates the header, and exposes the record region as a
// contiguous []Record without a decode pass.
//
// On little-endian hosts the record view aliases the mapping directly
// (Record is three uint64s with no padding, matching the wire layout). On
// big-endian hosts the records are byte-swapped into an owned slice during
// construction; the API is identical, only the zero-copy property is lost.
//
// The mapping is read-only and safe for concurrent readers. It must outlive
// every record slice handed out; Close only after all processing completes.
type MmapReader struct {
	mmap    *MmapFile
	header  Header
	records []Record
}

// NewMmapReader maps the file at path and validates its shape. The total file
// size must decompose as HeaderSize + k*RecordSize for some k >= 0,
// independent of whatever record count the header claims.
func NewMmapReader(path string) (*MmapReader, error) {
	m, err := OpenMmap(path)
	if err != nil {
		return nil, err
	}

	if m.Size() < HeaderSize {
		m.Close()
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidHeader, m.Size())
	}
	header, err := DecodeHeader(m.Data()[:HeaderSize])
	if err != nil {
		m.Close()
		return nil, err
	}

	body := m.Data()[HeaderSize:]
	if len(body)%RecordSize != 0 {
		m.Close()
		return nil, fmt.Errorf("%w: %d body bytes", ErrInvalidMapSize, len(body))
	}
	k := len(body) / RecordSize

	var records []Record
	switch {
	case k == 0:
	case hostLittleEndian:
		records = unsafe.Slice((*Record)(unsafe.Pointer(&body[0])), k)
	default:
		records = make([]Record, k)
		for i := range records {
			off := i * RecordSize
			records[i] = Record{
				Barcode: binary.LittleEndian.Uint64(body[off : off+8]),
				UMI:     binary.LittleEndian.Uint64(body[off+8 : off+16]),
				Index:   binary.LittleEndian.Uint64(body[off+16 : off+24]),
			}
		}
	}

	return &MmapReader{mmap: m, header: header, records: records}, nil
}

// Close releases the mapping. Record slices obtained from this reader are
// invalid afterwards.
func (r *MmapReader) Close() error {
	r.records = nil
	return r.mmap.Close()
}

// Len returns the number of records in the body.
func (r *MmapReader) Len() int {
	return len(r.records)
}

// Header returns the decoded header.
func (r *MmapReader) Header() Header {
	return r.header
}

// Records returns the full record region in file order. The slice borrows the
// mapping and must not be retained past Close.
func (r *MmapReader) Records() []Record {
	return r.records
}

// Slice returns records in [start, end). The slice borrows the mapping.
func (r *MmapReader) Slice(start, end int) ([]Record, error) {
	if start < 0 || end > len(r.records) || start >= end {
		return nil, fmt.Errorf("%w: [%d, %d) of %d", ErrBounds, start, end, len(r.records))
	}
	return r.records[start:end], nil
}
