package ibu

import (
	"errors"
	"testing"
)

func TestRecordRoundTrip(t *testing.T) {
	records := []Record{
		{},
		NewRecord(0x1234, 0x5678, 42),
		NewRecord(^uint64(0), ^uint64(0), ^uint64(0)),
	}
	for _, r := range records {
		encoded := EncodeRecord(r)
		if len(encoded) != RecordSize {
			t.Fatalf("encoded size = %d, want %d", len(encoded), RecordSize)
		}
		decoded, err := DecodeRecord(encoded)
		if err != nil {
			t.Fatalf("DecodeRecord failed: %v", err)
		}
		if decoded != r {
			t.Errorf("decoded = %+v, want %+v", decoded, r)
		}
	}
}

func TestDecodeRecordTooShort(t *testing.T) {
	_, err := DecodeRecord(make([]byte, RecordSize-1))
	if !errors.Is(err, ErrTruncatedRecord) {
		t.Errorf("DecodeRecord(short) = %v, want ErrTruncatedRecord", err)
	}
}

func TestRecordLess(t *testing.T) {
	ordered := []Record{
		NewRecord(0, 0, 0),
		NewRecord(0, 0, 1),
		NewRecord(0, 1, 0),
		NewRecord(0, 1, 1),
		NewRecord(1, 0, 0),
		NewRecord(1, 0, 1),
		NewRecord(1, 1, 0),
		NewRecord(1, 1, 1),
	}
	for i := 1; i < len(ordered); i++ {
		if !ordered[i-1].Less(ordered[i]) {
			t.Errorf("%+v should sort before %+v", ordered[i-1], ordered[i])
		}
		if ordered[i].Less(ordered[i-1]) {
			t.Errorf("%+v should not sort before %+v", ordered[i], ordered[i-1])
		}
	}
}
