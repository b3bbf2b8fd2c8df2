// Package isodate implements the two binary timestamp forms used by
// ISO9660 and its System Use extensions: the 7-byte form recorded in
// directory records and the 17-byte digit-string form recorded in
// volume descriptors.
package isodate

import (
	"fmt"
	"time"
)

// Lengths of the two encoded forms.
const (
	RecordTimestampLength = 7
	VolumeTimestampLength = 17
)

// Timestamp is one encoded ISO9660 date in either form.
type Timestamp interface {
	Decode(data []byte) error
	Encode() []byte
	Length() int
	Time() time.Time
}

// New returns an empty timestamp of the requested form.
func New(long bool) Timestamp {
	if long {
		return &VolumeTimestamp{}
	}
	return &RecordTimestamp{}
}

// FromTime returns a timestamp of the requested form holding t.
func FromTime(long bool, t time.Time) Timestamp {
	if long {
		return NewVolumeTimestamp(t)
	}
	return NewRecordTimestamp(t)
}

// RecordTimestamp is the 7-byte directory-record form: years since
// 1900, month, day, hour, minute, second, and a GMT offset counted in
// 15-minute intervals from -48 (west) to +52 (east).
type RecordTimestamp struct {
	Year   int // full year, not the on-disk 1900 bias
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
	Offset int8
}

// NewRecordTimestamp converts t into the directory-record form.
func NewRecordTimestamp(t time.Time) *RecordTimestamp {
	_, secs := t.Zone()
	return &RecordTimestamp{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
		Offset: int8(secs / (15 * 60)),
	}
}

func (ts *RecordTimestamp) Decode(data []byte) error {
	if len(data) < RecordTimestampLength {
		return fmt.Errorf("insufficient data for directory-record timestamp: %d bytes", len(data))
	}

	// A fully zeroed field means "not recorded".
	if allZero(data[:RecordTimestampLength]) {
		*ts = RecordTimestamp{}
		return nil
	}

	ts.Year = 1900 + int(data[0])
	ts.Month = int(data[1])
	if ts.Month < 1 || ts.Month > 12 {
		return fmt.Errorf("invalid month %d in directory-record timestamp", ts.Month)
	}
	ts.Day = int(data[2])
	if ts.Day < 1 || ts.Day > 31 {
		return fmt.Errorf("invalid day %d in directory-record timestamp", ts.Day)
	}
	ts.Hour = int(data[3])
	if ts.Hour > 23 {
		return fmt.Errorf("invalid hour %d in directory-record timestamp", ts.Hour)
	}
	ts.Minute = int(data[4])
	if ts.Minute > 59 {
		return fmt.Errorf("invalid minute %d in directory-record timestamp", ts.Minute)
	}
	ts.Second = int(data[5])
	if ts.Second > 59 {
		return fmt.Errorf("invalid second %d in directory-record timestamp", ts.Second)
	}
	ts.Offset = int8(data[6])

	return nil
}

// IsZero reports whether the timestamp is the "not recorded" value.
func (ts *RecordTimestamp) IsZero() bool {
	return *ts == RecordTimestamp{}
}

func (ts *RecordTimestamp) Encode() []byte {
	if ts.IsZero() {
		return make([]byte, RecordTimestampLength)
	}
	return []byte{
		byte(ts.Year - 1900),
		byte(ts.Month),
		byte(ts.Day),
		byte(ts.Hour),
		byte(ts.Minute),
		byte(ts.Second),
		byte(ts.Offset),
	}
}

func (ts *RecordTimestamp) Length() int {
	return RecordTimestampLength
}

func (ts *RecordTimestamp) Time() time.Time {
	loc := time.FixedZone("", int(ts.Offset)*15*60)
	return time.Date(ts.Year, time.Month(ts.Month), ts.Day, ts.Hour, ts.Minute, ts.Second, 0, loc)
}

// VolumeTimestamp is the 17-byte volume-descriptor form: sixteen
// ASCII digits (YYYYMMDDHHMMSScc, cc being hundredths of a second)
// followed by the same GMT offset byte the short form uses.
type VolumeTimestamp struct {
	Year       int
	Month      int
	Day        int
	Hour       int
	Minute     int
	Second     int
	Hundredths int
	Offset     int8
}

// NewVolumeTimestamp converts t into the volume-descriptor form.
func NewVolumeTimestamp(t time.Time) *VolumeTimestamp {
	_, secs := t.Zone()
	return &VolumeTimestamp{
		Year:       t.Year(),
		Month:      int(t.Month()),
		Day:        t.Day(),
		Hour:       t.Hour(),
		Minute:     t.Minute(),
		Second:     t.Second(),
		Hundredths: t.Nanosecond() / 10_000_000,
		Offset:     int8(secs / (15 * 60)),
	}
}

func (ts *VolumeTimestamp) Decode(data []byte) error {
	if len(data) < VolumeTimestampLength {
		return fmt.Errorf("insufficient data for volume-descriptor timestamp: %d bytes", len(data))
	}

	// Sixteen ASCII zeros mean "not recorded".
	if allDigitZero(data[:16]) {
		*ts = VolumeTimestamp{Offset: int8(data[16])}
		return nil
	}

	fields := []struct {
		name  string
		start int
		width int
		dst   *int
		min   int
		max   int
	}{
		{"year", 0, 4, &ts.Year, 0, 9999},
		{"month", 4, 2, &ts.Month, 1, 12},
		{"day", 6, 2, &ts.Day, 1, 31},
		{"hour", 8, 2, &ts.Hour, 0, 23},
		{"minute", 10, 2, &ts.Minute, 0, 59},
		{"second", 12, 2, &ts.Second, 0, 59},
		{"hundredths", 14, 2, &ts.Hundredths, 0, 99},
	}

	for _, f := range fields {
		v, err := parseDigits(data[f.start : f.start+f.width])
		if err != nil {
			return fmt.Errorf("invalid %s in volume-descriptor timestamp: %w", f.name, err)
		}
		if v < f.min || v > f.max {
			return fmt.Errorf("invalid %s %d in volume-descriptor timestamp", f.name, v)
		}
		*f.dst = v
	}

	ts.Offset = int8(data[16])

	return nil
}

func (ts *VolumeTimestamp) Encode() []byte {
	s := fmt.Sprintf("%04d%02d%02d%02d%02d%02d%02d",
		ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute, ts.Second, ts.Hundredths)
	out := make([]byte, 0, VolumeTimestampLength)
	out = append(out, s...)
	out = append(out, byte(ts.Offset))
	return out
}

func (ts *VolumeTimestamp) Length() int {
	return VolumeTimestampLength
}

func (ts *VolumeTimestamp) Time() time.Time {
	loc := time.FixedZone("", int(ts.Offset)*15*60)
	return time.Date(ts.Year, time.Month(ts.Month), ts.Day, ts.Hour, ts.Minute, ts.Second,
		ts.Hundredths*10_000_000, loc)
}

// IsZero reports whether the timestamp is the "not recorded" value,
// whatever the offset byte says.
func (ts *VolumeTimestamp) IsZero() bool {
	return *ts == VolumeTimestamp{Offset: ts.Offset}
}

func allDigitZero(data []byte) bool {
	for _, b := range data {
		if b != '0' {
			return false
		}
	}
	return true
}

func allZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}

func parseDigits(data []byte) (int, error) {
	v := 0
	for _, c := range data {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("non-digit byte 0x%02x", c)
		}
		v = v*10 + int(c-'0')
	}
	return v, nil
}
