package rockridge

import (
	"fmt"
	"math/bits"
	"time"

	"github.com/deploymenttheory/go-iso9660/internal/isodate"
	"github.com/deploymenttheory/go-iso9660/internal/types"
)

// TFRecord carries up to seven optional timestamps, selected by flag
// bits and stored in flag-bit order. The long-form flag switches
// every timestamp from the 7-byte directory-record form to the
// 17-byte volume-descriptor form.
type TFRecord struct {
	Flags uint8

	Creation        isodate.Timestamp
	Access          isodate.Timestamp
	Modification    isodate.Timestamp
	AttributeChange isodate.Timestamp
	Backup          isodate.Timestamp
	Expiration      isodate.Timestamp
	Effective       isodate.Timestamp
}

// tfSlots returns the timestamp slots in flag-bit order.
func (r *TFRecord) tfSlots() []*isodate.Timestamp {
	return []*isodate.Timestamp{
		&r.Creation, &r.Access, &r.Modification, &r.AttributeChange,
		&r.Backup, &r.Expiration, &r.Effective,
	}
}

// NewTFRecord builds a TF entry holding t in every slot the flags
// select.
func NewTFRecord(flags uint8, t time.Time) *TFRecord {
	r := &TFRecord{Flags: flags}
	long := flags&types.TFFlagLongForm != 0
	for i, slot := range r.tfSlots() {
		if flags&(1<<i) != 0 {
			*slot = isodate.FromTime(long, t)
		}
	}
	return r
}

// DecodeTF decodes a TF entry from data.
func DecodeTF(data []byte) (*TFRecord, error) {
	suLen, err := decodeHeader(data, types.SignatureTF)
	if err != nil {
		return nil, err
	}
	if suLen < 5 {
		return nil, fmt.Errorf("%w: TF declares %d bytes, want at least 5", ErrInvalidLength, suLen)
	}

	r := &TFRecord{Flags: data[4]}
	long := r.Flags&types.TFFlagLongForm != 0
	stampLen := isodate.RecordTimestampLength
	if long {
		stampLen = isodate.VolumeTimestampLength
	}

	offset := 5
	for i, slot := range r.tfSlots() {
		if r.Flags&(1<<i) == 0 {
			continue
		}
		if offset+stampLen > suLen {
			return nil, fmt.Errorf("%w: TF timestamp at offset %d", ErrTruncated, offset)
		}
		ts := isodate.New(long)
		if err := ts.Decode(data[offset : offset+stampLen]); err != nil {
			return nil, fmt.Errorf("TF timestamp: %w", err)
		}
		*slot = ts
		offset += stampLen
	}
	if offset != suLen {
		return nil, fmt.Errorf("%w: TF declares %d bytes, timestamps need %d", ErrInvalidLength, suLen, offset)
	}

	return r, nil
}

func (r *TFRecord) Encode() []byte {
	out := make([]byte, 0, r.Length())
	hdr := make([]byte, 5)
	putHeader(hdr, types.SignatureTF, r.Length())
	hdr[4] = r.Flags
	out = append(out, hdr...)
	for i, slot := range r.tfSlots() {
		if r.Flags&(1<<i) != 0 && *slot != nil {
			out = append(out, (*slot).Encode()...)
		}
	}
	return out
}

func (r *TFRecord) Length() int {
	return tfLength(r.Flags)
}

// tfLength computes the entry length for a flag set without building
// the entry.
func tfLength(flags uint8) int {
	stampLen := isodate.RecordTimestampLength
	if flags&types.TFFlagLongForm != 0 {
		stampLen = isodate.VolumeTimestampLength
	}
	return 5 + stampLen*bits.OnesCount8(flags&0x7F)
}
