package ibu

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := NewHeader(16, 12)
	h.SetSorted()
	h.RecordCount = 12345

	encoded := EncodeHeader(h)
	if len(encoded) != HeaderSize {
		t.Fatalf("encoded size = %d, want %d", len(encoded), HeaderSize)
	}

	decoded, err := DecodeHeader(encoded)
	if err != nil {
		t.Fatalf("DecodeHeader failed: %v", err)
	}
	if decoded != h {
		t.Errorf("decoded = %+v, want %+v", decoded, h)
	}
	if !decoded.Sorted() {
		t.Error("sorted flag lost in round trip")
	}
}

func TestDecodeHeaderTooShort(t *testing.T) {
	_, err := DecodeHeader(make([]byte, HeaderSize-1))
	if !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("DecodeHeader(short) = %v, want ErrInvalidHeader", err)
	}
}

func TestDecodeHeaderMagicMismatch(t *testing.T) {
	// The magic check must fail independently of the remaining 28 bytes.
	for _, fill := range []byte{0x00, 0x42, 0xFF} {
		buf := make([]byte, HeaderSize)
		for i := range buf {
			buf[i] = fill
		}
		binary.LittleEndian.PutUint32(buf[0:4], Magic+1)

		_, err := DecodeHeader(buf)
		if !errors.Is(err, ErrMagicMismatch) {
			t.Errorf("fill %#x: err = %v, want ErrMagicMismatch", fill, err)
		}
	}
}

func TestDecodeHeaderVersionMismatch(t *testing.T) {
	for _, version := range []uint32{0, 1, Version + 1, 999} {
		h := NewHeader(16, 12)
		h.Version = version
		buf := EncodeHeader(h)

		_, err := DecodeHeader(buf)
		if !errors.Is(err, ErrVersionMismatch) {
			t.Errorf("version %d: err = %v, want ErrVersionMismatch", version, err)
		}
	}
}

func TestHeaderValidateLengthBounds(t *testing.T) {
	tests := []struct {
		name    string
		bcLen   uint32
		umiLen  uint32
		wantErr error
	}{
		{"max lengths", 32, 32, nil},
		{"typical", 16, 12, nil},
		{"umi absent", 16, 0, nil},
		{"barcode zero", 0, 12, ErrBarcodeLength},
		{"barcode too long", 33, 12, ErrBarcodeLength},
		{"umi too long", 16, 33, ErrUMILength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewHeader(tt.bcLen, tt.umiLen).Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestHeaderRejectsReservedFlags(t *testing.T) {
	for _, flags := range []uint64{1 << 1, 1 << 17, 1 << 63, FlagSorted | 1<<5} {
		h := NewHeader(16, 12)
		h.Flags = flags
		if err := h.Validate(); !errors.Is(err, ErrReservedFlags) {
			t.Errorf("flags %#x: err = %v, want ErrReservedFlags", flags, err)
		}

		_, err := DecodeHeader(EncodeHeader(h))
		if !errors.Is(err, ErrReservedFlags) {
			t.Errorf("decode flags %#x: err = %v, want ErrReservedFlags", flags, err)
		}
	}
}

func TestCheckRecordWidths(t *testing.T) {
	h := NewHeader(4, 2)

	// 4 bases = 8 bits, 2 bases = 4 bits.
	if err := h.CheckRecord(NewRecord(0xFF, 0xF, 1<<63)); err != nil {
		t.Errorf("in-range record rejected: %v", err)
	}
	if err := h.CheckRecord(NewRecord(0x100, 0, 0)); !errors.Is(err, ErrRecordWidth) {
		t.Errorf("wide barcode: err = %v, want ErrRecordWidth", err)
	}
	if err := h.CheckRecord(NewRecord(0, 0x10, 0)); !errors.Is(err, ErrRecordWidth) {
		t.Errorf("wide umi: err = %v, want ErrRecordWidth", err)
	}

	// Full-width fields leave no bits to check.
	full := NewHeader(32, 32)
	if err := full.CheckRecord(NewRecord(^uint64(0), ^uint64(0), 0)); err != nil {
		t.Errorf("full-width record rejected: %v", err)
	}
}
