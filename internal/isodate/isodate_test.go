package isodate

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestRecordTimestampRoundTrip(t *testing.T) {
	ts := NewRecordTimestamp(time.Date(2026, 8, 24, 12, 30, 45, 0, time.UTC))

	encoded := ts.Encode()
	if len(encoded) != RecordTimestampLength {
		t.Fatalf("Encode() returned %d bytes, want %d", len(encoded), RecordTimestampLength)
	}

	var decoded RecordTimestamp
	if err := decoded.Decode(encoded); err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if diff := cmp.Diff(*ts, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if got := decoded.Time(); got.Year() != 2026 || got.Second() != 45 {
		t.Errorf("Time() = %v, want 2026-08-24 12:30:45", got)
	}
}

func TestRecordTimestampYearBias(t *testing.T) {
	ts := NewRecordTimestamp(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if got := ts.Encode()[0]; got != 126 {
		t.Errorf("encoded year byte = %d, want 126", got)
	}
}

func TestRecordTimestampOffset(t *testing.T) {
	// UTC+2 is 8 quarter hours east.
	loc := time.FixedZone("EET", 2*60*60)
	ts := NewRecordTimestamp(time.Date(2026, 8, 24, 12, 0, 0, 0, loc))
	if ts.Offset != 8 {
		t.Errorf("Offset = %d, want 8", ts.Offset)
	}

	var decoded RecordTimestamp
	if err := decoded.Decode(ts.Encode()); err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	_, secs := decoded.Time().Zone()
	if secs != 2*60*60 {
		t.Errorf("decoded zone offset = %d seconds, want 7200", secs)
	}
}

func TestRecordTimestampInvalidFields(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"short", []byte{126, 8, 24}},
		{"month zero", []byte{126, 0, 24, 0, 0, 0, 0}},
		{"month thirteen", []byte{126, 13, 24, 0, 0, 0, 0}},
		{"day zero", []byte{126, 8, 0, 0, 0, 0, 0}},
		{"hour", []byte{126, 8, 24, 24, 0, 0, 0}},
		{"minute", []byte{126, 8, 24, 0, 60, 0, 0}},
		{"second", []byte{126, 8, 24, 0, 0, 60, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ts RecordTimestamp
			if err := ts.Decode(tc.data); err == nil {
				t.Errorf("Decode(%v) succeeded, want error", tc.data)
			}
		})
	}
}

func TestRecordTimestampNotRecorded(t *testing.T) {
	var ts RecordTimestamp
	if err := ts.Decode(make([]byte, RecordTimestampLength)); err != nil {
		t.Fatalf("Decode() of zeroed field failed: %v", err)
	}
	if !ts.IsZero() {
		t.Error("zeroed field should decode to the zero timestamp")
	}
	for i, b := range ts.Encode() {
		if b != 0 {
			t.Errorf("Encode() byte %d = %d, want 0", i, b)
		}
	}
}

func TestVolumeTimestampRoundTrip(t *testing.T) {
	ts := NewVolumeTimestamp(time.Date(2026, 8, 24, 12, 30, 45, 990_000_000, time.UTC))

	encoded := ts.Encode()
	if len(encoded) != VolumeTimestampLength {
		t.Fatalf("Encode() returned %d bytes, want %d", len(encoded), VolumeTimestampLength)
	}
	if got := string(encoded[:16]); got != "2026082412304599" {
		t.Errorf("digit string = %q, want %q", got, "2026082412304599")
	}

	var decoded VolumeTimestamp
	if err := decoded.Decode(encoded); err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if diff := cmp.Diff(*ts, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestVolumeTimestampInvalid(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"non-digit", "2026X82412304599"},
		{"month", "2026132412304599"},
		{"day", "2026080012304599"},
		{"hour", "2026082425304599"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ts VolumeTimestamp
			if err := ts.Decode(append([]byte(tc.data), 0)); err == nil {
				t.Errorf("Decode(%q) succeeded, want error", tc.data)
			}
		})
	}
}

func TestVolumeTimestampNotRecorded(t *testing.T) {
	data := append([]byte("0000000000000000"), 0)
	var ts VolumeTimestamp
	if err := ts.Decode(data); err != nil {
		t.Fatalf("Decode() of all-zero digits failed: %v", err)
	}
	if !ts.IsZero() {
		t.Error("all-zero digits should decode to the zero timestamp")
	}
}

func TestFromTimeSelectsForm(t *testing.T) {
	now := time.Now()
	if got := FromTime(false, now).Length(); got != RecordTimestampLength {
		t.Errorf("short form Length() = %d, want %d", got, RecordTimestampLength)
	}
	if got := FromTime(true, now).Length(); got != VolumeTimestampLength {
		t.Errorf("long form Length() = %d, want %d", got, VolumeTimestampLength)
	}
}
