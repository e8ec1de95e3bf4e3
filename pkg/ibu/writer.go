package ibu

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// defaultWriteBuffer holds 48K records between flushes, mirroring the read
// side's batch size.
const defaultWriteBuffer = 48 * 1024 * RecordSize

// Writer emits a well-formed byte stream: header once, then records.
//
// Records are staged in an internal record-aligned buffer and flushed in large
// writes. Finish flushes, and on seekable sinks patches the header's record
// count with the true running total. After Finish (or IntoInner) further
// writes fail with ErrWriterFinished.
type Writer struct {
	w         io.Writer
	header    Header
	hasHeader bool
	headerPos int64
	buf       []byte
	count     uint64
	finished  bool
	closer    io.Closer
}

// NewWriter validates header, writes it to w immediately, and returns a
// Writer tracking a running record count from zero.
func NewWriter(w io.Writer, header Header) (*Writer, error) {
	if err := header.Validate(); err != nil {
		return nil, err
	}

	// Remember where the header lands so Finish can seek back to it even
	// when the sink already holds other data.
	var headerPos int64
	if s, ok := w.(io.Seeker); ok {
		if pos, err := s.Seek(0, io.SeekCurrent); err == nil {
			headerPos = pos
		}
	}

	if _, err := w.Write(EncodeHeader(header)); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	return &Writer{
		w:         w,
		header:    header,
		hasHeader: true,
		headerPos: headerPos,
		buf:       make([]byte, 0, defaultWriteBuffer),
	}, nil
}

// NewHeadlessWriter returns a Writer that skips header emission entirely, for
// appending to an existing body or composing a larger stream under external
// header management. Records are validated against header's dimensions; the
// running counter still tracks records written through this instance.
func NewHeadlessWriter(w io.Writer, header Header) *Writer {
	return &Writer{
		w:      w,
		header: header,
		buf:    make([]byte, 0, defaultWriteBuffer),
	}
}

// CreateFile creates the file at path and returns a Writer over it. The file
// is seekable, so Finish patches the record count. Close releases the file.
func CreateFile(path string, header Header) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	w, err := NewWriter(f, header)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	w.closer = f
	return w, nil
}

// Header returns the dimensions this writer validates against.
func (w *Writer) Header() Header {
	return w.header
}

// RecordsWritten returns the running record count.
func (w *Writer) RecordsWritten() uint64 {
	return w.count
}

func (w *Writer) flush() error {
	if len(w.buf) == 0 {
		return nil
	}
	n, err := w.w.Write(w.buf)
	if err != nil {
		// Keep the counter honest: staged records that never reached the
		// sink are discarded and removed from the count, so a later Finish
		// on a recovered sink cannot patch an overcount.
		staged := uint64(len(w.buf) / RecordSize)
		written := uint64(n / RecordSize)
		w.count -= staged - written
		w.buf = w.buf[:0]
		return fmt.Errorf("flush records: %w", err)
	}
	w.buf = w.buf[:0]
	return nil
}

// WriteRecord validates the record against the header dimensions and appends
// its 24 bytes.
func (w *Writer) WriteRecord(rec Record) error {
	if w.finished {
		return ErrWriterFinished
	}
	if err := w.header.CheckRecord(rec); err != nil {
		return err
	}
	if len(w.buf)+RecordSize > cap(w.buf) {
		if err := w.flush(); err != nil {
			return err
		}
	}
	w.buf = AppendRecord(w.buf, rec)
	w.count++
	return nil
}

// WriteBatch validates and appends a sequence of records in one pass. The
// whole batch is validated before any byte is staged, so a width violation
// leaves the stream and the counter untouched.
func (w *Writer) WriteBatch(records []Record) error {
	if w.finished {
		return ErrWriterFinished
	}
	for i, rec := range records {
		if err := w.header.CheckRecord(rec); err != nil {
			return fmt.Errorf("batch record %d: %w", i, err)
		}
	}
	for _, rec := range records {
		if len(w.buf)+RecordSize > cap(w.buf) {
			if err := w.flush(); err != nil {
				return err
			}
		}
		w.buf = AppendRecord(w.buf, rec)
		w.count++
	}
	return nil
}

// Ingest appends all records from src, validating each against this writer's
// dimensions. It fails before consuming anything when src's declared
// dimensions differ, and propagates src's own decode errors.
func (w *Writer) Ingest(src RecordSource) error {
	if w.finished {
		return ErrWriterFinished
	}
	sh := src.Header()
	if sh.BCLen != w.header.BCLen || sh.UMILen != w.header.UMILen {
		return fmt.Errorf("%w: source %d/%d, destination %d/%d",
			ErrHeaderMismatch, sh.BCLen, sh.UMILen, w.header.BCLen, w.header.UMILen)
	}
	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("ingest source: %w", err)
		}
		if err := w.WriteRecord(rec); err != nil {
			return err
		}
	}
}

// Finish flushes buffered records and, when the sink is seekable and this
// writer emitted a header, seeks back and patches the header's record count
// before returning the position to the end of the stream. On non-seekable
// sinks the count stays 0; callers needing it must track it out-of-band.
// No further writes are permitted afterwards.
func (w *Writer) Finish() error {
	if w.finished {
		return nil
	}
	if err := w.flush(); err != nil {
		return err
	}
	w.finished = true

	s, ok := w.w.(io.WriteSeeker)
	if !ok || !w.hasHeader {
		return nil
	}

	w.header.RecordCount = w.count
	if _, err := s.Seek(w.headerPos, io.SeekStart); err != nil {
		return fmt.Errorf("seek to header: %w", err)
	}
	if _, err := s.Write(EncodeHeader(w.header)); err != nil {
		return fmt.Errorf("patch record count: %w", err)
	}
	if _, err := s.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}
	return nil
}

// IntoInner releases the underlying sink to the caller. Pending records are
// flushed but the header is not patched; call Finish first for an accurate
// on-disk count. The Writer is consumed either way.
func (w *Writer) IntoInner() (io.Writer, error) {
	if !w.finished {
		if err := w.flush(); err != nil {
			return nil, err
		}
		w.finished = true
	}
	return w.w, nil
}

// Close finishes the writer and releases the underlying file when the Writer
// was constructed via CreateFile.
func (w *Writer) Close() error {
	err := w.Finish()
	if w.closer != nil {
		c := w.closer
		w.closer = nil
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
