package rockridge

import (
	"fmt"

	"github.com/deploymenttheory/go-iso9660/internal/types"
)

// ExtentLocator is anything with a final logical block address; the
// directory-record layer satisfies it. Relocation links hold one as
// a non-owning reference and read it exactly once, after the extent
// allocator has run.
type ExtentLocator interface {
	ExtentLocation() uint32
}

// recordSet is the bag of System Use entries attached to one
// directory record. The primary Rock Ridge entry and the
// continuation payload share it; each singleton slot appears at most
// once, while a symlink target may span several SL entries in path
// order.
type recordSet struct {
	sp *SPRecord
	rr *RRRecord
	ce *CERecord
	px *PXRecord
	er *ERRecord
	es *ESRecord
	pn *PNRecord
	sl []*SLRecord
	nm *NMRecord
	cl *CLRecord
	pl *PLRecord
	tf *TFRecord
	sf *SFRecord
	re *RERecord
}

// parse walks a System Use area and dispatches each entry to its
// codec. bytesToSkip is the foreign-format prefix declared by the
// volume's SP entry; isRootFirst permits an SP entry here.
func (s *recordSet) parse(data []byte, bytesToSkip int, isRootFirst bool) error {
	if bytesToSkip > len(data) {
		return fmt.Errorf("%w: %d bytes to skip, %d available", ErrTruncated, bytesToSkip, len(data))
	}

	offset := bytesToSkip
	left := len(data) - bytesToSkip
	for left > 0 {
		if left == 1 {
			// A single trailing byte is even-length padding.
			if data[offset] != 0 {
				return fmt.Errorf("%w: 0x%02x", ErrInvalidPadByte, data[offset])
			}
			break
		}
		if left < 4 {
			return fmt.Errorf("%w: %d bytes left in system use area", ErrTruncated, left)
		}

		sig := types.Signature(data[offset : offset+2])
		suLen := int(data[offset+2])
		if data[offset+3] != types.SUEntryVersion {
			return fmt.Errorf("%w: %d for %s entry", ErrInvalidVersion, data[offset+3], sig)
		}
		if suLen < 4 || suLen > left {
			return fmt.Errorf("%w: %s entry declares %d bytes, %d left", ErrTruncated, sig, suLen, left)
		}

		if err := s.parseOne(sig, data[offset:offset+suLen], left, isRootFirst); err != nil {
			return err
		}

		offset += suLen
		left -= suLen
	}

	return nil
}

// parseOne decodes a single entry into its slot, rejecting a second
// entry for any singleton slot.
func (s *recordSet) parseOne(sig types.Signature, entry []byte, left int, isRootFirst bool) error {
	var err error
	switch sig {
	case types.SignatureSP:
		if !isRootFirst {
			return ErrMisplacedSP
		}
		if left < types.SPRecordLength {
			return fmt.Errorf("%w: %d bytes left for SP entry", ErrTruncated, left)
		}
		if s.sp != nil {
			return fmt.Errorf("%w: SP", ErrDuplicateRecord)
		}
		s.sp, err = DecodeSP(entry)
	case types.SignatureRR:
		if s.rr != nil {
			return fmt.Errorf("%w: RR", ErrDuplicateRecord)
		}
		s.rr, err = DecodeRR(entry)
	case types.SignatureCE:
		if s.ce != nil {
			return fmt.Errorf("%w: CE", ErrDuplicateRecord)
		}
		s.ce, err = DecodeCE(entry)
	case types.SignaturePX:
		if s.px != nil {
			return fmt.Errorf("%w: PX", ErrDuplicateRecord)
		}
		s.px, err = DecodePX(entry)
	case types.SignatureER:
		if s.er != nil {
			return fmt.Errorf("%w: ER", ErrDuplicateRecord)
		}
		s.er, err = DecodeER(entry)
	case types.SignatureES:
		if s.es != nil {
			return fmt.Errorf("%w: ES", ErrDuplicateRecord)
		}
		s.es, err = DecodeES(entry)
	case types.SignaturePN:
		if s.pn != nil {
			return fmt.Errorf("%w: PN", ErrDuplicateRecord)
		}
		s.pn, err = DecodePN(entry)
	case types.SignatureSL:
		var rec *SLRecord
		if rec, err = DecodeSL(entry); err == nil {
			s.sl = append(s.sl, rec)
		}
	case types.SignatureNM:
		if s.nm != nil {
			return fmt.Errorf("%w: NM", ErrDuplicateRecord)
		}
		s.nm, err = DecodeNM(entry)
	case types.SignatureCL:
		if s.cl != nil {
			return fmt.Errorf("%w: CL", ErrDuplicateRecord)
		}
		s.cl, err = DecodeCL(entry)
	case types.SignaturePL:
		if s.pl != nil {
			return fmt.Errorf("%w: PL", ErrDuplicateRecord)
		}
		s.pl, err = DecodePL(entry)
	case types.SignatureTF:
		if s.tf != nil {
			return fmt.Errorf("%w: TF", ErrDuplicateRecord)
		}
		s.tf, err = DecodeTF(entry)
	case types.SignatureSF:
		if s.sf != nil {
			return fmt.Errorf("%w: SF", ErrDuplicateRecord)
		}
		s.sf, err = DecodeSF(entry)
	case types.SignatureRE:
		if s.re != nil {
			return fmt.Errorf("%w: RE", ErrDuplicateRecord)
		}
		s.re, err = DecodeRE(entry)
	case types.SignaturePD:
		// Padding carries nothing.
	case types.SignatureST:
		if len(entry) != types.STRecordLength {
			return fmt.Errorf("%w: ST declares %d bytes, want %d", ErrInvalidLength, len(entry), types.STRecordLength)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSignature, string(sig))
	}
	return err
}

// encode serializes the populated entries in canonical order: SP,
// RR, NM, PX, SL (in path order), TF, CL, PL, RE, CE, ER. Conforming
// readers depend on this order byte for byte.
func (s *recordSet) encode() ([]byte, error) {
	var out []byte
	if s.sp != nil {
		out = append(out, s.sp.Encode()...)
	}
	if s.rr != nil {
		out = append(out, s.rr.Encode()...)
	}
	if s.nm != nil {
		out = append(out, s.nm.Encode()...)
	}
	if s.px != nil {
		out = append(out, s.px.Encode()...)
	}
	for _, sl := range s.sl {
		out = append(out, sl.Encode()...)
	}
	if s.tf != nil {
		out = append(out, s.tf.Encode()...)
	}
	if s.cl != nil {
		out = append(out, s.cl.Encode()...)
	}
	if s.pl != nil {
		out = append(out, s.pl.Encode()...)
	}
	if s.re != nil {
		out = append(out, s.re.Encode()...)
	}
	if s.ce != nil {
		ce, err := s.ce.Encode()
		if err != nil {
			return nil, err
		}
		out = append(out, ce...)
	}
	if s.er != nil {
		out = append(out, s.er.Encode()...)
	}
	return out, nil
}

// Entry is the Rock Ridge extension of one directory record: the
// inline System Use entries plus, when present, the continuation
// payload its CE entry owns.
type Entry struct {
	recordSet

	version     types.RockRidgeVersion
	bytesToSkip int

	// Non-owning references to the directory records a relocation
	// points at, read once extents are final.
	childLink  ExtentLocator
	parentLink ExtentLocator
}

// Parse decodes the System Use area of one directory record.
// isRootFirst must be true only for the first directory record of
// the root directory, the single place an SP entry is legal.
// bytesToSkip is the foreign-format prefix the volume's SP entry
// declared.
func Parse(data []byte, isRootFirst bool, bytesToSkip int) (*Entry, error) {
	e := &Entry{version: types.RockRidge109, bytesToSkip: bytesToSkip}
	if err := e.recordSet.parse(data, bytesToSkip, isRootFirst); err != nil {
		return nil, err
	}
	if e.px != nil && e.px.HasSerial {
		e.version = types.RockRidge112
	}
	return e, nil
}

// Record serializes the primary entry in canonical order. The
// continuation payload, if any, is serialized separately via
// ContinuationData().Record() into its own extent.
func (e *Entry) Record() ([]byte, error) {
	return e.recordSet.encode()
}

// Version reports the Rock Ridge revision the entry follows.
func (e *Entry) Version() types.RockRidgeVersion {
	return e.version
}

// HasContinuation reports whether the entry spilled into a
// continuation area.
func (e *Entry) HasContinuation() bool {
	return e.ce != nil
}

// ContinuationData returns the continuation payload, or nil when
// everything fit inline.
func (e *Entry) ContinuationData() *Continuation {
	if e.ce == nil {
		return nil
	}
	return e.ce.Continuation
}
