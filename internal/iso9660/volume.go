// Package iso9660 implements a minimal read-only ISO9660 volume
// reader: enough of the primary volume descriptor and directory
// structure to reach the System Use areas where Rock Ridge metadata
// lives. Interpretation of that metadata belongs to the rockridge
// package.
package iso9660

import (
	"fmt"
	"io"
	"strings"

	"github.com/deploymenttheory/go-iso9660/internal/isodate"
)

// SectorSize is the ISO9660 logical sector size.
const SectorSize = 2048

// pvdSector is where the primary volume descriptor lives.
const pvdSector = 16

// Volume descriptor types.
// Reference: ECMA-119 8.1.1
const (
	volumeDescriptorBoot          = 0
	volumeDescriptorPrimary       = 1
	volumeDescriptorSupplementary = 2
	volumeDescriptorPartition     = 3
	volumeDescriptorTerminator    = 255
)

const standardIdentifier = "CD001"

// Volume is an open ISO9660 volume.
type Volume struct {
	r io.ReaderAt

	systemIdentifier string
	volumeIdentifier string
	spaceSize        uint32
	blockSize        uint16
	root             *DirectoryRecord

	created  isodate.VolumeTimestamp
	modified isodate.VolumeTimestamp
}

// Open reads and validates the primary volume descriptor.
func Open(r io.ReaderAt) (*Volume, error) {
	buf := make([]byte, SectorSize)
	if _, err := r.ReadAt(buf, pvdSector*SectorSize); err != nil {
		return nil, fmt.Errorf("failed to read primary volume descriptor: %w", err)
	}

	if buf[0] != volumeDescriptorPrimary {
		return nil, fmt.Errorf("unexpected volume descriptor type %d at sector %d", buf[0], pvdSector)
	}
	if string(buf[1:6]) != standardIdentifier {
		return nil, fmt.Errorf("bad standard identifier %q, want %q", buf[1:6], standardIdentifier)
	}

	v := &Volume{
		r:                r,
		systemIdentifier: strings.TrimRight(string(buf[8:40]), " "),
		volumeIdentifier: strings.TrimRight(string(buf[40:72]), " "),
	}

	var err error
	if v.spaceSize, err = decodeBothUint32(buf[80:88]); err != nil {
		return nil, fmt.Errorf("volume space size: %w", err)
	}
	if v.blockSize, err = decodeBothUint16(buf[128:132]); err != nil {
		return nil, fmt.Errorf("logical block size: %w", err)
	}
	if v.blockSize == 0 {
		return nil, fmt.Errorf("zero logical block size")
	}

	if v.root, err = DecodeDirectoryRecord(buf[156:190]); err != nil {
		return nil, fmt.Errorf("root directory record: %w", err)
	}

	if err = v.created.Decode(buf[813:830]); err != nil {
		return nil, fmt.Errorf("volume creation timestamp: %w", err)
	}
	if err = v.modified.Decode(buf[830:847]); err != nil {
		return nil, fmt.Errorf("volume modification timestamp: %w", err)
	}

	return v, nil
}

// SystemIdentifier returns the PVD system identifier, trimmed.
func (v *Volume) SystemIdentifier() string { return v.systemIdentifier }

// VolumeIdentifier returns the PVD volume identifier, trimmed.
func (v *Volume) VolumeIdentifier() string { return v.volumeIdentifier }

// SpaceSize returns the volume size in logical blocks.
func (v *Volume) SpaceSize() uint32 { return v.spaceSize }

// BlockSize returns the logical block size in bytes.
func (v *Volume) BlockSize() uint16 { return v.blockSize }

// Created returns the volume creation timestamp.
func (v *Volume) Created() isodate.VolumeTimestamp { return v.created }

// Modified returns the volume modification timestamp.
func (v *Volume) Modified() isodate.VolumeTimestamp { return v.modified }

// RootDirectoryRecord returns the root directory record from the
// PVD.
func (v *Volume) RootDirectoryRecord() *DirectoryRecord {
	return v.root
}

// ReadDirectory decodes every directory record in the extent run
// starting at extent and spanning size bytes, skipping the zero fill
// that pads records to sector boundaries.
func (v *Volume) ReadDirectory(extent, size uint32) ([]*DirectoryRecord, error) {
	data := make([]byte, size)
	if _, err := v.r.ReadAt(data, int64(extent)*int64(v.blockSize)); err != nil {
		return nil, fmt.Errorf("failed to read directory extent %d: %w", extent, err)
	}

	var records []*DirectoryRecord
	offset := 0
	for offset < len(data) {
		if data[offset] == 0 {
			// Records never straddle a sector; a zero length byte
			// means the rest of this sector is padding.
			offset = (offset/int(v.blockSize) + 1) * int(v.blockSize)
			continue
		}
		rec, err := DecodeDirectoryRecord(data[offset:])
		if err != nil {
			return nil, fmt.Errorf("directory record at offset %d: %w", offset, err)
		}
		records = append(records, rec)
		offset += int(rec.Length)
	}

	return records, nil
}

// ReadContinuationArea returns the bytes a CE entry names: length
// bytes at the given offset within the given extent.
func (v *Volume) ReadContinuationArea(extent, offset, length uint32) ([]byte, error) {
	data := make([]byte, length)
	pos := int64(extent)*int64(v.blockSize) + int64(offset)
	if _, err := v.r.ReadAt(data, pos); err != nil {
		return nil, fmt.Errorf("failed to read continuation area at extent %d offset %d: %w", extent, offset, err)
	}
	return data, nil
}
