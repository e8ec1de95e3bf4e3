package ibu

import (
	"encoding/binary"
	"fmt"
)

// Header flag bits. Bits 1-63 are reserved for future extension and must be
// zero; decoding rejects them so that files written by a newer format are not
// silently misread.
const (
	// FlagSorted is a caller-asserted hint that records appear in sorted
	// order. The engine never verifies it.
	FlagSorted uint64 = 1 << 0

	knownFlags = FlagSorted
)

// Header describes the identity and shape of an ibu file.
//
// BCLen and UMILen are fixed at stream creation. RecordCount is 0 while the
// total is unknown; Writer.Finish patches it on seekable sinks. The count is
// advisory only: the authoritative end of data is the byte length of the body.
type Header struct {
	Magic       uint32
	Version     uint32
	BCLen       uint32
	UMILen      uint32
	Flags       uint64
	RecordCount uint64
}

// NewHeader returns a header for the given barcode and UMI lengths, stamped
// with the current magic and version.
func NewHeader(bcLen, umiLen uint32) Header {
	return Header{
		Magic:   Magic,
		Version: Version,
		BCLen:   bcLen,
		UMILen:  umiLen,
	}
}

// SetSorted sets the sorted flag.
func (h *Header) SetSorted() {
	h.Flags |= FlagSorted
}

// Sorted reports whether the sorted flag is set.
func (h Header) Sorted() bool {
	return h.Flags&FlagSorted != 0
}

// Validate checks the header invariants: magic, version, length bounds, and
// reserved-bit cleanliness. It is called by DecodeHeader and may be used
// standalone on a freshly constructed header before writing.
func (h Header) Validate() error {
	if h.Magic != Magic {
		return fmt.Errorf("%w: expected %#x, found %#x", ErrMagicMismatch, Magic, h.Magic)
	}
	if h.Version != Version {
		return fmt.Errorf("%w: expected %d, found %d", ErrVersionMismatch, Version, h.Version)
	}
	if h.BCLen == 0 || h.BCLen > MaxBarcodeLen {
		return fmt.Errorf("%w: %d (must be 1-%d)", ErrBarcodeLength, h.BCLen, MaxBarcodeLen)
	}
	if h.UMILen > MaxUMILen {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrUMILength, h.UMILen, MaxUMILen)
	}
	if h.Flags&^knownFlags != 0 {
		return fmt.Errorf("%w: flags %#x", ErrReservedFlags, h.Flags)
	}
	return nil
}

// CheckRecord verifies that the record's packed barcode and UMI fit within
// the widths this header declares. Bits beyond 2*len must be zero.
func (h Header) CheckRecord(r Record) error {
	if r.Barcode>>(2*h.BCLen) != 0 {
		return fmt.Errorf("%w: barcode %#x exceeds %d bases", ErrRecordWidth, r.Barcode, h.BCLen)
	}
	if r.UMI>>(2*h.UMILen) != 0 {
		return fmt.Errorf("%w: umi %#x exceeds %d bases", ErrRecordWidth, r.UMI, h.UMILen)
	}
	return nil
}

// EncodeHeader writes a header to a fresh 32-byte slice.
func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint32(buf[4:8], h.Version)
	binary.LittleEndian.PutUint32(buf[8:12], h.BCLen)
	binary.LittleEndian.PutUint32(buf[12:16], h.UMILen)
	binary.LittleEndian.PutUint64(buf[16:24], h.Flags)
	binary.LittleEndian.PutUint64(buf[24:32], h.RecordCount)
	return buf
}

// DecodeHeader reads and validates a header from a byte slice.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrInvalidHeader, len(buf))
	}
	h := Header{
		Magic:       binary.LittleEndian.Uint32(buf[0:4]),
		Version:     binary.LittleEndian.Uint32(buf[4:8]),
		BCLen:       binary.LittleEndian.Uint32(buf[8:12]),
		UMILen:      binary.LittleEndian.Uint32(buf[12:16]),
		Flags:       binary.LittleEndian.Uint64(buf[16:24]),
		RecordCount: binary.LittleEndian.Uint64(buf[24:32]),
	}
	if err := h.Validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}
