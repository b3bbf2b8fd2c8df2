package rockridge

import (
	"fmt"

	"github.com/deploymenttheory/go-iso9660/internal/types"
)

// lengthAccumulator is the running byte counter the layout algorithm
// writes against. Both the primary directory record and a
// continuation area implement it, so placement code is written once.
type lengthAccumulator interface {
	CurrentLength() int
	Add(n int)
}

// recordLength counts the bytes of the primary directory record
// during layout.
type recordLength struct {
	n int
}

func (l *recordLength) CurrentLength() int { return l.n }
func (l *recordLength) Add(n int)          { l.n += n }

// Continuation is the payload of a continuation area: the same bag
// of System Use entries a directory record holds, stored in a
// separate extent. The extent number is either the one read from
// disk or the one the allocator assigns before writing; never both.
type Continuation struct {
	recordSet

	origExtent     uint32
	assignedExtent uint32
	hasOrig        bool
	hasAssigned    bool

	offset uint32
	length int
}

// ExtentLocation returns the logical block holding the continuation
// area, preferring an allocator assignment over the on-disk origin.
func (c *Continuation) ExtentLocation() (uint32, error) {
	switch {
	case c.hasAssigned:
		return c.assignedExtent, nil
	case c.hasOrig:
		return c.origExtent, nil
	default:
		return 0, ErrNoExtentAssigned
	}
}

// SetExtentLocation records the allocator-assigned logical block.
// Once assigned, the on-disk origin no longer applies.
func (c *Continuation) SetExtentLocation(extent uint32) {
	c.assignedExtent = extent
	c.hasAssigned = true
	c.hasOrig = false
}

// Offset returns the byte offset of the continuation area within its
// extent.
func (c *Continuation) Offset() uint32 {
	return c.offset
}

// SetOffset records the byte offset within the assigned extent.
func (c *Continuation) SetOffset(offset uint32) {
	c.offset = offset
}

// CurrentLength returns the accumulated byte length of the
// continuation area.
func (c *Continuation) CurrentLength() int {
	return c.length
}

// Add grows the accumulated byte length.
func (c *Continuation) Add(n int) {
	c.length += n
}

// Parse populates the continuation payload from the bytes of its
// area. SP entries are never legal here.
func (c *Continuation) Parse(data []byte, bytesToSkip int) error {
	return c.recordSet.parse(data, bytesToSkip, false)
}

// Record serializes the continuation payload in canonical order.
func (c *Continuation) Record() ([]byte, error) {
	return c.recordSet.encode()
}

// CERecord points at a continuation area: extent, byte offset within
// the extent, and byte length, each stored in both byte orders. The
// record owns the continuation payload it names.
type CERecord struct {
	Continuation *Continuation
}

// NewCERecord returns a CE entry backed by an empty continuation
// area awaiting extent assignment.
func NewCERecord() *CERecord {
	return &CERecord{Continuation: &Continuation{}}
}

// DecodeCE decodes a CE entry from data. The continuation payload
// itself lives elsewhere; the caller reads the named area and hands
// it to Continuation.Parse.
func DecodeCE(data []byte) (*CERecord, error) {
	suLen, err := decodeHeader(data, types.SignatureCE)
	if err != nil {
		return nil, err
	}
	if err := checkLength(types.SignatureCE, suLen, types.CERecordLength); err != nil {
		return nil, err
	}

	extent, err := decodeBothUint32(data[4:12])
	if err != nil {
		return nil, fmt.Errorf("CE extent: %w", err)
	}
	offset, err := decodeBothUint32(data[12:20])
	if err != nil {
		return nil, fmt.Errorf("CE offset: %w", err)
	}
	length, err := decodeBothUint32(data[20:28])
	if err != nil {
		return nil, fmt.Errorf("CE length: %w", err)
	}

	cont := &Continuation{
		origExtent: extent,
		hasOrig:    true,
		offset:     offset,
		length:     int(length),
	}
	return &CERecord{Continuation: cont}, nil
}

// Encode fails until the continuation area has an extent, which the
// external allocator assigns after layout.
func (r *CERecord) Encode() ([]byte, error) {
	extent, err := r.Continuation.ExtentLocation()
	if err != nil {
		return nil, err
	}

	out := make([]byte, types.CERecordLength)
	putHeader(out, types.SignatureCE, types.CERecordLength)
	putBothUint32(out[4:12], extent)
	putBothUint32(out[12:20], r.Continuation.Offset())
	putBothUint32(out[20:28], uint32(r.Continuation.CurrentLength()))
	return out, nil
}

func (r *CERecord) Length() int {
	return types.CERecordLength
}
