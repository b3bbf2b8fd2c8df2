package rockridge

import (
	"fmt"

	"github.com/deploymenttheory/go-iso9660/internal/types"
)

// Default POSIX modes used when constructing new entries, matching
// what genisoimage records.
const (
	defaultDirMode     = 0o40555
	defaultSymlinkMode = 0o120555
	defaultFileMode    = 0o100444
)

// PXRecord carries POSIX file attributes: mode, link count, owner
// and group, and (Rock Ridge 1.12 only) a serial number. Every field
// is stored in both byte orders on disk.
type PXRecord struct {
	Mode         uint32
	Links        uint32
	UID          uint32
	GID          uint32
	SerialNumber uint32

	// HasSerial selects the 44-byte 1.12 form over the 36-byte 1.09
	// form for length computation and encoding.
	HasSerial bool
}

// NewPXRecord builds the PX entry for a fresh directory record.
func NewPXRecord(isDir, isSymlink bool, version types.RockRidgeVersion) *PXRecord {
	mode := uint32(defaultFileMode)
	switch {
	case isDir:
		mode = defaultDirMode
	case isSymlink:
		mode = defaultSymlinkMode
	}
	return &PXRecord{
		Mode:      mode,
		Links:     1,
		HasSerial: version == types.RockRidge112,
	}
}

// DecodePX decodes a PX entry from data. The declared length selects
// between the 1.09 and 1.12 forms.
func DecodePX(data []byte) (*PXRecord, error) {
	suLen, err := decodeHeader(data, types.SignaturePX)
	if err != nil {
		return nil, err
	}
	if suLen != types.PXRecordLength109 && suLen != types.PXRecordLength112 {
		return nil, fmt.Errorf("%w: PX declares %d bytes, want %d or %d",
			ErrInvalidLength, suLen, types.PXRecordLength109, types.PXRecordLength112)
	}

	r := &PXRecord{HasSerial: suLen == types.PXRecordLength112}
	fields := []*uint32{&r.Mode, &r.Links, &r.UID, &r.GID}
	if r.HasSerial {
		fields = append(fields, &r.SerialNumber)
	}
	offset := 4
	for _, f := range fields {
		v, err := decodeBothUint32(data[offset : offset+8])
		if err != nil {
			return nil, fmt.Errorf("PX field at offset %d: %w", offset, err)
		}
		*f = v
		offset += 8
	}

	return r, nil
}

func (r *PXRecord) Encode() []byte {
	out := make([]byte, r.Length())
	putHeader(out, types.SignaturePX, r.Length())
	fields := []uint32{r.Mode, r.Links, r.UID, r.GID}
	if r.HasSerial {
		fields = append(fields, r.SerialNumber)
	}
	offset := 4
	for _, f := range fields {
		putBothUint32(out[offset:offset+8], f)
		offset += 8
	}
	return out
}

func (r *PXRecord) Length() int {
	if r.HasSerial {
		return types.PXRecordLength112
	}
	return types.PXRecordLength109
}

// PNRecord carries the device number of a block or character special
// file, split into 32-bit halves.
type PNRecord struct {
	DeviceHigh uint32
	DeviceLow  uint32
}

// DecodePN decodes a PN entry from data.
func DecodePN(data []byte) (*PNRecord, error) {
	suLen, err := decodeHeader(data, types.SignaturePN)
	if err != nil {
		return nil, err
	}
	if err := checkLength(types.SignaturePN, suLen, types.PNRecordLength); err != nil {
		return nil, err
	}

	r := &PNRecord{}
	if r.DeviceHigh, err = decodeBothUint32(data[4:12]); err != nil {
		return nil, fmt.Errorf("PN device high: %w", err)
	}
	if r.DeviceLow, err = decodeBothUint32(data[12:20]); err != nil {
		return nil, fmt.Errorf("PN device low: %w", err)
	}
	return r, nil
}

func (r *PNRecord) Encode() []byte {
	out := make([]byte, types.PNRecordLength)
	putHeader(out, types.SignaturePN, types.PNRecordLength)
	putBothUint32(out[4:12], r.DeviceHigh)
	putBothUint32(out[12:20], r.DeviceLow)
	return out
}

func (r *PNRecord) Length() int {
	return types.PNRecordLength
}

// SFRecord describes a sparse file: the virtual size of the fully
// populated file as two 32-bit halves, and the depth of the block
// table that maps the populated regions.
type SFRecord struct {
	VirtualSizeHigh uint32
	VirtualSizeLow  uint32
	TableDepth      uint8
}

// NewSFRecord builds an SF entry for a sparse file of the given
// virtual size.
func NewSFRecord(virtualSize uint64, tableDepth uint8) *SFRecord {
	return &SFRecord{
		VirtualSizeHigh: uint32(virtualSize >> 32),
		VirtualSizeLow:  uint32(virtualSize),
		TableDepth:      tableDepth,
	}
}

// DecodeSF decodes an SF entry from data.
func DecodeSF(data []byte) (*SFRecord, error) {
	suLen, err := decodeHeader(data, types.SignatureSF)
	if err != nil {
		return nil, err
	}
	if err := checkLength(types.SignatureSF, suLen, types.SFRecordLength); err != nil {
		return nil, err
	}

	r := &SFRecord{TableDepth: data[20]}
	if r.VirtualSizeHigh, err = decodeBothUint32(data[4:12]); err != nil {
		return nil, fmt.Errorf("SF size high: %w", err)
	}
	if r.VirtualSizeLow, err = decodeBothUint32(data[12:20]); err != nil {
		return nil, fmt.Errorf("SF size low: %w", err)
	}
	return r, nil
}

// VirtualSize returns the 64-bit virtual file size.
func (r *SFRecord) VirtualSize() uint64 {
	return uint64(r.VirtualSizeHigh)<<32 | uint64(r.VirtualSizeLow)
}

func (r *SFRecord) Encode() []byte {
	out := make([]byte, types.SFRecordLength)
	putHeader(out, types.SignatureSF, types.SFRecordLength)
	putBothUint32(out[4:12], r.VirtualSizeHigh)
	putBothUint32(out[12:20], r.VirtualSizeLow)
	out[20] = r.TableDepth
	return out
}

func (r *SFRecord) Length() int {
	return types.SFRecordLength
}
