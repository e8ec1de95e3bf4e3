package ibu

import "encoding/binary"

// Record is one packed observation: a 2-bit-packed barcode and UMI plus an
// opaque caller-defined index. Records are immutable values; whether the
// packed fields fit a stream's declared widths is checked at encode/decode
// boundaries via Header.CheckRecord, not carried on the record itself.
//
// The in-memory layout matches the 24-byte wire layout exactly on
// little-endian hosts, which is what makes the mmap zero-copy view valid.
type Record struct {
	Barcode uint64
	UMI     uint64
	Index   uint64
}

// NewRecord constructs a record.
func NewRecord(barcode, umi, index uint64) Record {
	return Record{Barcode: barcode, UMI: umi, Index: index}
}

// Less orders records by barcode, then UMI, then index.
func (r Record) Less(other Record) bool {
	if r.Barcode != other.Barcode {
		return r.Barcode < other.Barcode
	}
	if r.UMI != other.UMI {
		return r.UMI < other.UMI
	}
	return r.Index < other.Index
}

// AppendRecord appends the 24-byte encoding of r to buf.
func AppendRecord(buf []byte, r Record) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, r.Barcode)
	buf = binary.LittleEndian.AppendUint64(buf, r.UMI)
	buf = binary.LittleEndian.AppendUint64(buf, r.Index)
	return buf
}

// EncodeRecord writes a record to a fresh 24-byte slice.
func EncodeRecord(r Record) []byte {
	return AppendRecord(make([]byte, 0, RecordSize), r)
}

// DecodeRecord reads a record from a byte slice. Any 24-byte pattern is
// bit-valid; the only failure mode is insufficient bytes.
func DecodeRecord(buf []byte) (Record, error) {
	if len(buf) < RecordSize {
		return Record{}, ErrTruncatedRecord
	}
	return Record{
		Barcode: binary.LittleEndian.Uint64(buf[0:8]),
		UMI:     binary.LittleEndian.Uint64(buf[8:16]),
		Index:   binary.LittleEndian.Uint64(buf[16:24]),
	}, nil
}
