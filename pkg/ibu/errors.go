package ibu

import "errors"

var (
	// ErrInvalidHeader indicates a header buffer that is too short to decode.
	ErrInvalidHeader = errors.New("invalid file header")
	// ErrMagicMismatch indicates the magic number doesn't match.
	ErrMagicMismatch = errors.New("magic number mismatch")
	// ErrVersionMismatch indicates an unsupported format version.
	ErrVersionMismatch = errors.New("unsupported format version")
	// ErrBarcodeLength indicates a barcode length outside 1-32.
	ErrBarcodeLength = errors.New("invalid barcode length")
	// ErrUMILength indicates a UMI length outside 0-32.
	ErrUMILength = errors.New("invalid umi length")
	// ErrReservedFlags indicates reserved flag bits that are not zero.
	// Rejected on read to catch forward-incompatible writers.
	ErrReservedFlags = errors.New("reserved header bits set")
	// ErrTruncatedRecord indicates a partial record at the end of a stream.
	ErrTruncatedRecord = errors.New("truncated record")
	// ErrRecordWidth indicates a packed barcode or UMI value that exceeds the
	// width declared by the header.
	ErrRecordWidth = errors.New("record exceeds declared field width")
	// ErrInvalidMapSize indicates a mapped file whose size is not
	// HeaderSize + k*RecordSize.
	ErrInvalidMapSize = errors.New("file size is not a whole number of records")
	// ErrBounds indicates an out-of-bounds record range.
	ErrBounds = errors.New("record range out of bounds")
	// ErrWriterFinished indicates a write attempted after Finish.
	ErrWriterFinished = errors.New("write after finish")
	// ErrHeaderMismatch indicates an ingest source whose declared dimensions
	// differ from the destination writer's.
	ErrHeaderMismatch = errors.New("incompatible header dimensions")
)
