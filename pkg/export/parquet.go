// Package export converts ibu record streams into analysis-friendly formats.
// Barcode and UMI fields are decoded back to base text so downstream tools do
// not need to know the 2-bit packing.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/eunmann/ibu/pkg/ibu"
	"github.com/eunmann/ibu/pkg/seq"
)

// Row is one exported record.
type Row struct {
	Barcode string `parquet:"barcode,dict"`
	UMI     string `parquet:"umi,dict"`
	Index   uint64 `parquet:"index"`
}

// ToParquet drains src and writes one Parquet row per record to w, decoding
// packed fields using the source header's declared lengths. Returns the
// number of rows written.
func ToParquet(w io.Writer, src ibu.RecordSource) (uint64, error) {
	header := src.Header()
	pw := parquet.NewGenericWriter[Row](w)

	var count uint64
	buf := make([]Row, 0, 4096)
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if _, err := pw.Write(buf); err != nil {
			return fmt.Errorf("write parquet rows: %w", err)
		}
		buf = buf[:0]
		return nil
	}

	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, fmt.Errorf("read record: %w", err)
		}
		buf = append(buf, Row{
			Barcode: seq.Unpack(rec.Barcode, int(header.BCLen)),
			UMI:     seq.Unpack(rec.UMI, int(header.UMILen)),
			Index:   rec.Index,
		})
		count++
		if len(buf) == cap(buf) {
			if err := flush(); err != nil {
				return count, err
			}
		}
	}
	if err := flush(); err != nil {
		return count, err
	}
	if err := pw.Close(); err != nil {
		return count, fmt.Errorf("close parquet writer: %w", err)
	}
	return count, nil
}
