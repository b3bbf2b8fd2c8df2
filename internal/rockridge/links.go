package rockridge

import (
	"fmt"

	"github.com/deploymenttheory/go-iso9660/internal/types"
)

// linkRecord backs CL and PL: a dual-endian logical block number
// with a two-phase lifecycle. A freshly laid-out link is unresolved
// until the extent allocator assigns the target's final block number;
// a link decoded from disk is resolved from the start. Resolution
// happens exactly once.
type linkRecord struct {
	blockNum uint32
	resolved bool
}

func decodeLink(data []byte, sig types.Signature, fixedLen int) (linkRecord, error) {
	suLen, err := decodeHeader(data, sig)
	if err != nil {
		return linkRecord{}, err
	}
	if err := checkLength(sig, suLen, fixedLen); err != nil {
		return linkRecord{}, err
	}
	v, err := decodeBothUint32(data[4:12])
	if err != nil {
		return linkRecord{}, fmt.Errorf("%s block number: %w", sig, err)
	}
	return linkRecord{blockNum: v, resolved: true}, nil
}

func (l *linkRecord) encode(sig types.Signature, fixedLen int) []byte {
	out := make([]byte, fixedLen)
	putHeader(out, sig, fixedLen)
	putBothUint32(out[4:12], l.blockNum)
	return out
}

// BlockNumber returns the linked block number, failing while the
// link is unresolved.
func (l *linkRecord) BlockNumber() (uint32, error) {
	if !l.resolved {
		return 0, ErrLinkUnresolved
	}
	return l.blockNum, nil
}

// resolve records the allocator-assigned block number.
func (l *linkRecord) resolve(blockNum uint32) error {
	if l.resolved {
		return ErrLinkResolved
	}
	l.blockNum = blockNum
	l.resolved = true
	return nil
}

// CLRecord is the child link of a directory record whose subtree was
// relocated: it names the logical block of the relocated copy.
type CLRecord struct {
	linkRecord
}

// NewCLRecord returns an unresolved child link. The block number is
// assigned after extents are final.
func NewCLRecord() *CLRecord {
	return &CLRecord{}
}

// DecodeCL decodes a CL entry from data.
func DecodeCL(data []byte) (*CLRecord, error) {
	l, err := decodeLink(data, types.SignatureCL, types.CLRecordLength)
	if err != nil {
		return nil, err
	}
	return &CLRecord{linkRecord: l}, nil
}

func (r *CLRecord) Encode() []byte {
	return r.encode(types.SignatureCL, types.CLRecordLength)
}

func (r *CLRecord) Length() int {
	return types.CLRecordLength
}

// PLRecord is the parent link inside a relocated directory: it names
// the logical block of the directory the subtree was moved from.
type PLRecord struct {
	linkRecord
}

// NewPLRecord returns an unresolved parent link.
func NewPLRecord() *PLRecord {
	return &PLRecord{}
}

// DecodePL decodes a PL entry from data.
func DecodePL(data []byte) (*PLRecord, error) {
	l, err := decodeLink(data, types.SignaturePL, types.PLRecordLength)
	if err != nil {
		return nil, err
	}
	return &PLRecord{linkRecord: l}, nil
}

func (r *PLRecord) Encode() []byte {
	return r.encode(types.SignaturePL, types.PLRecordLength)
}

func (r *PLRecord) Length() int {
	return types.PLRecordLength
}
