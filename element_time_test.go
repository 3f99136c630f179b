package iec104

import (
	"testing"
	"time"
)

// TestIeCP56Time2a_RoundTrip covers spec.md §8 property 2, the regression
// guard for the v0.9-class bug: milliseconds in the low two bytes (LSB
// first), minute byte's bit 7 carrying IV rather than minute data.
func TestIeCP56Time2a_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
	}{
		{"epoch-ish 2000", time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"mid-range with millis", time.Date(2026, time.July, 29, 14, 37, 59, 123_000_000, time.UTC)},
		{"end of range", time.Date(2099, time.December, 31, 23, 59, 59, 999_000_000, time.UTC)},
		{"minute boundary", time.Date(2030, time.June, 15, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &IeCP56Time2a{Time: tt.t}
			buf := in.Encode(nil)
			if len(buf) != 7 {
				t.Fatalf("Encode() produced %d bytes, want 7", len(buf))
			}

			out := &IeCP56Time2a{}
			if err := out.Decode(buf); err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !out.Time.Equal(tt.t) {
				t.Errorf("round trip = %s, want %s", out.Time, tt.t)
			}
			if out.Invalid {
				t.Error("Invalid = true, want false")
			}
		})
	}
}

func TestIeCP56Time2a_MillisecondByteOrder(t *testing.T) {
	// 61234ms into the minute is impossible (max 59999) — use 1234ms to pin
	// down the LSB-first byte order the v0.9 regression note calls out.
	in := &IeCP56Time2a{Time: time.Date(2026, time.January, 1, 10, 20, 1, 234_000_000, time.UTC)}
	buf := in.Encode(nil)
	// second=1 -> 1000ms, +234ms = 1234 = 0x04D2. LSB first: 0xD2, 0x04.
	if buf[0] != 0xd2 || buf[1] != 0x04 {
		t.Errorf("millisecond bytes = %#02x %#02x, want 0xd2 0x04", buf[0], buf[1])
	}
}

func TestIeCP56Time2a_InvalidFlagBit(t *testing.T) {
	in := &IeCP56Time2a{Invalid: true}
	buf := in.Encode(nil)
	if buf[2] != 0x80 {
		t.Errorf("minute byte = %#02x, want 0x80 (IV set, minute 0)", buf[2])
	}

	out := &IeCP56Time2a{}
	if err := out.Decode(buf); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !out.Invalid {
		t.Error("Invalid = false, want true")
	}
	if !out.Time.IsZero() {
		t.Errorf("Time = %s, want zero", out.Time)
	}
}

func TestIeCP56Time2a_MinuteDoesNotLeakIntoFlagBit(t *testing.T) {
	// minute=59 must not set bit7 (which is IV), confirming the historical
	// bug (minute value and IV flag overlapping) is fixed.
	in := &IeCP56Time2a{Time: time.Date(2026, time.January, 1, 10, 59, 0, 0, time.UTC)}
	buf := in.Encode(nil)
	if buf[2]&0x80 != 0 {
		t.Errorf("minute byte %#02x incorrectly sets IV flag for minute=59", buf[2])
	}
	if buf[2]&0x3f != 59 {
		t.Errorf("minute byte %#02x does not carry minute=59", buf[2])
	}
}

func TestIeCP24Time2a_RoundTrip(t *testing.T) {
	in := &IeCP24Time2a{Minute: 42, Milliseconds: 5500, Invalid: false}
	buf := in.Encode(nil)
	out := &IeCP24Time2a{}
	if err := out.Decode(buf); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if *out != *in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestIeCP16Time2a_RoundTrip(t *testing.T) {
	in := &IeCP16Time2a{Milliseconds: 12345}
	buf := in.Encode(nil)
	out := &IeCP16Time2a{}
	if err := out.Decode(buf); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if out.Milliseconds != in.Milliseconds {
		t.Errorf("Milliseconds = %d, want %d", out.Milliseconds, in.Milliseconds)
	}
}
