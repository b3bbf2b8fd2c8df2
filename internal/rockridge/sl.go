package rockridge

import (
	"fmt"
	"strings"

	"github.com/deploymenttheory/go-iso9660/internal/types"
)

// SLComponentKind classifies one symlink path component.
type SLComponentKind uint8

const (
	// SLComponentLiteral carries the component bytes verbatim.
	SLComponentLiteral SLComponentKind = iota
	// SLComponentCurrent is ".", recorded with a flag bit and no payload.
	SLComponentCurrent
	// SLComponentParent is "..", recorded with a flag bit and no payload.
	SLComponentParent
	// SLComponentRoot is "/", recorded with a flag bit and no payload.
	SLComponentRoot
)

// SLComponent is one component of a symlink target path. A literal
// component split across SL entries carries the continue flag on
// every piece but the last.
type SLComponent struct {
	Kind      SLComponentKind
	Continued bool
	Data      string
}

// Text returns the path text the component contributes.
func (c SLComponent) Text() string {
	switch c.Kind {
	case SLComponentCurrent:
		return "."
	case SLComponentParent:
		return ".."
	case SLComponentRoot:
		return "/"
	default:
		return c.Data
	}
}

// encodedLength is the on-disk cost of the component: two bytes of
// framing plus the literal bytes, if any.
func (c SLComponent) encodedLength() int {
	if c.Kind == SLComponentLiteral {
		return 2 + len(c.Data)
	}
	return 2
}

func (c SLComponent) flags() uint8 {
	switch c.Kind {
	case SLComponentCurrent:
		return types.SLFlagCurrent
	case SLComponentParent:
		return types.SLFlagParent
	case SLComponentRoot:
		return types.SLFlagRoot
	default:
		if c.Continued {
			return types.SLFlagContinue
		}
		return 0
	}
}

// SLRecord carries symlink path components. A single target path may
// span several SL entries; the entry-level continue flag marks all
// but the last.
type SLRecord struct {
	Flags      uint8
	Components []SLComponent
}

// DecodeSL decodes an SL entry from data, leaving split components
// unmerged so the entry re-encodes byte for byte.
func DecodeSL(data []byte) (*SLRecord, error) {
	suLen, err := decodeHeader(data, types.SignatureSL)
	if err != nil {
		return nil, err
	}
	if suLen < 5 {
		return nil, fmt.Errorf("%w: SL declares %d bytes, want at least 5", ErrInvalidLength, suLen)
	}

	r := &SLRecord{Flags: data[4]}
	offset := 5
	pendingLiteral := false
	for offset < suLen {
		if offset+2 > suLen {
			return nil, fmt.Errorf("%w: SL component header at offset %d", ErrTruncated, offset)
		}
		flags := data[offset]
		length := int(data[offset+1])
		offset += 2
		if offset+length > suLen {
			return nil, fmt.Errorf("%w: SL component of %d bytes at offset %d", ErrTruncated, length, offset)
		}

		comp := SLComponent{Continued: flags&types.SLFlagContinue != 0}
		switch flags {
		case 0, types.SLFlagContinue:
			comp.Kind = SLComponentLiteral
			comp.Data = string(data[offset : offset+length])
		case types.SLFlagCurrent, types.SLFlagParent, types.SLFlagRoot:
			if length != 0 {
				return nil, fmt.Errorf("%w: location component with %d payload bytes", ErrInvalidComponentFlags, length)
			}
			if pendingLiteral {
				return nil, fmt.Errorf("%w: location component continues a literal", ErrInvalidComponentFlags)
			}
			switch flags {
			case types.SLFlagCurrent:
				comp.Kind = SLComponentCurrent
			case types.SLFlagParent:
				comp.Kind = SLComponentParent
			default:
				comp.Kind = SLComponentRoot
			}
		default:
			return nil, fmt.Errorf("%w: 0x%02x", ErrInvalidComponentFlags, flags)
		}

		pendingLiteral = comp.Continued
		r.Components = append(r.Components, comp)
		offset += length
	}

	return r, nil
}

// AddComponent appends a component, refusing to grow the entry past
// the one-byte length limit.
func (r *SLRecord) AddComponent(c SLComponent) error {
	if r.CurrentLength()+c.encodedLength() > types.MaxSystemUseEntrySize {
		return fmt.Errorf("%w: %d components, %d bytes", ErrComponentTooLong,
			len(r.Components), r.CurrentLength()+c.encodedLength())
	}
	r.Components = append(r.Components, c)
	return nil
}

// CurrentLength is the encoded length of the entry as built so far.
func (r *SLRecord) CurrentLength() int {
	n := 5
	for _, c := range r.Components {
		n += c.encodedLength()
	}
	return n
}

func (r *SLRecord) Encode() []byte {
	out := make([]byte, 0, r.CurrentLength())
	hdr := make([]byte, 5)
	putHeader(hdr, types.SignatureSL, r.CurrentLength())
	hdr[4] = r.Flags
	out = append(out, hdr...)
	for _, c := range r.Components {
		if c.Kind == SLComponentLiteral {
			out = append(out, c.flags(), byte(len(c.Data)))
			out = append(out, c.Data...)
		} else {
			out = append(out, c.flags(), 0)
		}
	}
	return out
}

func (r *SLRecord) Length() int {
	return r.CurrentLength()
}

// slComponentsForPath breaks a target path into typed components.
// "." and ".." map to their flag-bit forms; a leading separator maps
// to the root component.
func slComponentsForPath(path string) []SLComponent {
	parts := strings.Split(path, "/")
	comps := make([]SLComponent, 0, len(parts))
	for i, part := range parts {
		switch {
		case i == 0 && part == "":
			comps = append(comps, SLComponent{Kind: SLComponentRoot})
		case part == ".":
			comps = append(comps, SLComponent{Kind: SLComponentCurrent})
		case part == "..":
			comps = append(comps, SLComponent{Kind: SLComponentParent})
		default:
			comps = append(comps, SLComponent{Kind: SLComponentLiteral, Data: part})
		}
	}
	return comps
}

// slComponentLength is the on-disk cost of one path component when
// estimating a whole target path.
func slComponentLength(c SLComponent) int {
	return c.encodedLength()
}

// slPathLength is the encoded length of a single SL entry holding
// every component of path.
func slPathLength(path string) int {
	n := 5
	for _, c := range slComponentsForPath(path) {
		n += c.encodedLength()
	}
	return n
}
