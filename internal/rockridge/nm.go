package rockridge

import (
	"fmt"

	"github.com/deploymenttheory/go-iso9660/internal/types"
)

// NMRecord carries the POSIX name of a directory record. A name too
// long for the directory record is split: the inline NM is flagged as
// continued and the remainder lives in an NM inside the continuation
// area.
type NMRecord struct {
	Flags uint8
	Name  string
}

// NewNMRecord returns an NM entry for name.
func NewNMRecord(name string) *NMRecord {
	return &NMRecord{Name: name}
}

// DecodeNM decodes an NM entry from data.
func DecodeNM(data []byte) (*NMRecord, error) {
	suLen, err := decodeHeader(data, types.SignatureNM)
	if err != nil {
		return nil, err
	}
	if suLen < 5 {
		return nil, fmt.Errorf("%w: NM declares %d bytes, want at least 5", ErrInvalidLength, suLen)
	}

	flags := data[4]
	switch flags & 0x7 {
	case 0, types.NMFlagContinue, types.NMFlagCurrent, types.NMFlagParent:
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrInvalidNameFlags, flags)
	}

	nameLen := suLen - 5
	if nameLen != 0 && flags&(types.NMFlagCurrent|types.NMFlagParent|1<<5) != 0 {
		return nil, fmt.Errorf("%w: flags 0x%02x with %d name bytes", ErrInvalidNameFlags, flags, nameLen)
	}

	return &NMRecord{Flags: flags, Name: string(data[5 : 5+nameLen])}, nil
}

// SetContinued marks the name as continuing in a later NM entry.
func (r *NMRecord) SetContinued() {
	r.Flags |= types.NMFlagContinue
}

// Continued reports whether the name continues in a later NM entry.
func (r *NMRecord) Continued() bool {
	return r.Flags&types.NMFlagContinue != 0
}

func (r *NMRecord) Encode() []byte {
	out := make([]byte, 0, r.Length())
	hdr := make([]byte, 5)
	putHeader(hdr, types.SignatureNM, r.Length())
	hdr[4] = r.Flags
	out = append(out, hdr...)
	out = append(out, r.Name...)
	return out
}

func (r *NMRecord) Length() int {
	return 5 + len(r.Name)
}
