package iso9660

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-iso9660/internal/isodate"
)

// Directory record file flags.
// Reference: ECMA-119 9.1.6
const (
	FileFlagHidden      = 1 << 0
	FileFlagDirectory   = 1 << 1
	FileFlagAssociated  = 1 << 2
	FileFlagRecord      = 1 << 3
	FileFlagProtection  = 1 << 4
	FileFlagMultiExtent = 1 << 7
)

// minDirectoryRecordSize is the fixed part of a directory record up
// to and including the one-byte identifier length.
const minDirectoryRecordSize = 34

// DirectoryRecord is one decoded ISO9660 directory record, including
// the System Use area that follows the file identifier.
type DirectoryRecord struct {
	Length             uint8
	ExtendedAttrLength uint8
	Extent             uint32
	DataLength         uint32
	RecordingTime      isodate.RecordTimestamp
	Flags              uint8
	FileUnitSize       uint8
	InterleaveGap      uint8
	VolumeSequence     uint16
	Identifier         string
	SystemUse          []byte
}

// DecodeDirectoryRecord decodes one directory record from the start
// of data.
func DecodeDirectoryRecord(data []byte) (*DirectoryRecord, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty directory record")
	}
	length := data[0]
	if length < minDirectoryRecordSize {
		return nil, fmt.Errorf("directory record declares %d bytes, want at least %d", length, minDirectoryRecordSize)
	}
	if int(length) > len(data) {
		return nil, fmt.Errorf("directory record declares %d bytes, %d available", length, len(data))
	}

	r := &DirectoryRecord{
		Length:             length,
		ExtendedAttrLength: data[1],
	}

	var err error
	if r.Extent, err = decodeBothUint32(data[2:10]); err != nil {
		return nil, fmt.Errorf("directory record extent: %w", err)
	}
	if r.DataLength, err = decodeBothUint32(data[10:18]); err != nil {
		return nil, fmt.Errorf("directory record data length: %w", err)
	}
	if err = r.RecordingTime.Decode(data[18:25]); err != nil {
		return nil, fmt.Errorf("directory record timestamp: %w", err)
	}

	r.Flags = data[25]
	r.FileUnitSize = data[26]
	r.InterleaveGap = data[27]
	if r.VolumeSequence, err = decodeBothUint16(data[28:32]); err != nil {
		return nil, fmt.Errorf("directory record volume sequence: %w", err)
	}

	idLen := int(data[32])
	if minDirectoryRecordSize-1+idLen > int(length) {
		return nil, fmt.Errorf("directory record identifier of %d bytes exceeds record length %d", idLen, length)
	}
	r.Identifier = string(data[33 : 33+idLen])

	// An even identifier length implies a pad byte before the System
	// Use area; 33 + idLen is then odd.
	suStart := 33 + idLen
	if idLen%2 == 0 {
		suStart++
	}
	if suStart < int(length) {
		r.SystemUse = append([]byte(nil), data[suStart:length]...)
	}

	return r, nil
}

// IsDirectory reports whether the record describes a directory.
func (r *DirectoryRecord) IsDirectory() bool {
	return r.Flags&FileFlagDirectory != 0
}

// IsDot reports whether the record is the "." entry of its
// directory, encoded as a single zero identifier byte.
func (r *DirectoryRecord) IsDot() bool {
	return r.Identifier == "\x00"
}

// IsDotDot reports whether the record is the ".." entry, encoded as
// a single 0x01 identifier byte.
func (r *DirectoryRecord) IsDotDot() bool {
	return r.Identifier == "\x01"
}

// ExtentLocation returns the logical block of the record's extent.
// It satisfies the relocation-link target interface of the Rock
// Ridge layer.
func (r *DirectoryRecord) ExtentLocation() uint32 {
	return r.Extent
}

// decodeBothUint32 reads an ECMA-119 both-byte-order 32-bit field
// and verifies the two copies agree.
func decodeBothUint32(data []byte) (uint32, error) {
	le := binary.LittleEndian.Uint32(data[0:4])
	be := binary.BigEndian.Uint32(data[4:8])
	if le != be {
		return 0, fmt.Errorf("both-byte-order field mismatch: le=%d be=%d", le, be)
	}
	return le, nil
}

// decodeBothUint16 reads an ECMA-119 both-byte-order 16-bit field
// and verifies the two copies agree.
func decodeBothUint16(data []byte) (uint16, error) {
	le := binary.LittleEndian.Uint16(data[0:2])
	be := binary.BigEndian.Uint16(data[2:4])
	if le != be {
		return 0, fmt.Errorf("both-byte-order field mismatch: le=%d be=%d", le, be)
	}
	return le, nil
}
