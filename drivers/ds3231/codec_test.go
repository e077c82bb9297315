package ds3231

import (
	"testing"
	"time"
)

func TestBCD(t *testing.T) {
	for v := uint8(0); v < 100; v++ {
		if got := bcdToBin(binToBCD(v)); got != v {
			t.Fatalf("bcd round trip %d -> %d", v, got)
		}
	}
	if binToBCD(59) != 0x59 {
		t.Fatalf("binToBCD(59) = 0x%02x", binToBCD(59))
	}
}

func TestDecodeHour(t *testing.T) {
	cases := []struct {
		reg  byte
		want uint8
	}{
		{0x23, 23},               // 24 h
		{0x00, 0},                // 24 h midnight
		{0x40 | 0x12, 0},         // 12 AM
		{0x40 | 0x20 | 0x12, 12}, // 12 PM
		{0x40 | 0x20 | 0x11, 23}, // 11 PM
		{0x40 | 0x09, 9},         // 9 AM
	}
	for _, c := range cases {
		if got := decodeHour(c.reg); got != c.want {
			t.Fatalf("decodeHour(0x%02x) = %d, want %d", c.reg, got, c.want)
		}
	}
}

func TestEncodeDecodeTime(t *testing.T) {
	var buf [7]byte
	for _, want := range []time.Time{
		time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2099, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2100, 3, 1, 6, 7, 8, 0, time.UTC),
	} {
		if err := encodeTime(want, buf[:]); err != nil {
			t.Fatalf("encodeTime(%v): %v", want, err)
		}
		got, err := decodeTime(buf[:])
		if err != nil {
			t.Fatalf("decodeTime: %v", err)
		}
		if !got.Equal(want) {
			t.Fatalf("round trip %v -> %v", want, got)
		}
	}
}

func TestDecodeTimeRejectsGarbage(t *testing.T) {
	// 31 February.
	bad := []byte{0x00, 0x00, 0x00, 0x01, 0x31, 0x02, 0x21}
	if _, err := decodeTime(bad); err != ErrInvalidTime {
		t.Fatalf("err = %v, want ErrInvalidTime", err)
	}
	// Month 0 (erased registers read back as zero).
	zero := make([]byte, 7)
	if _, err := decodeTime(zero); err != ErrInvalidTime {
		t.Fatalf("err = %v, want ErrInvalidTime", err)
	}
}

func TestDecodeTemp(t *testing.T) {
	cases := []struct {
		msb, lsb byte
		want     int16
	}{
		{0x15, 0x80, 86},  // 21.50
		{0x19, 0x40, 101}, // 25.25
		{0xFF, 0xC0, -1},  // -0.25
		{0xF5, 0x40, -43}, // -10.75
	}
	for _, c := range cases {
		if got := decodeTemp(c.msb, c.lsb); got != c.want {
			t.Fatalf("decodeTemp(0x%02x,0x%02x) = %d, want %d", c.msb, c.lsb, got, c.want)
		}
	}
}
