package rockridge

import (
	"fmt"
	"time"

	"github.com/deploymenttheory/go-iso9660/internal/types"
)

// layoutTimeFlags is the timestamp set recorded for new entries:
// creation, access, modification and attribute change, in the short
// form.
const layoutTimeFlags = types.TFFlagCreation | types.TFFlagAccess |
	types.TFFlagModification | types.TFFlagAttributeChange

// LayoutRequest carries the POSIX facts an entry is built from.
type LayoutRequest struct {
	// FirstOfRoot marks the first directory record of the root
	// directory, which carries the SP and ER registration entries.
	FirstOfRoot bool

	// Name is the POSIX name to record; empty means no NM entry.
	Name string

	// IsDir selects the directory default mode.
	IsDir bool

	// SymlinkTarget is the link target path; empty means the entry
	// is not a symlink.
	SymlinkTarget string

	// Version is the Rock Ridge revision to write, 1.09 or 1.12.
	Version types.RockRidgeVersion

	// Relocation flags for deep-directory handling.
	RelocatedChild  bool
	Relocated       bool
	RelocatedParent bool

	// CurrentRecordLength is the directory record's length before
	// any System Use entries are appended.
	CurrentRecordLength int

	// Timestamp fills the TF entry; the current time when zero.
	Timestamp time.Time
}

// New lays out a Rock Ridge entry for one directory record. Every
// requested field is placed inline while the record stays within the
// ISO9660 limit; once the unconstrained estimate exceeds it, a CE
// entry is reserved up front and overflow fields are placed in the
// continuation area instead. The returned length is the final
// directory-record length, padded to an even number of bytes.
//
// The continuation area, if created, has no extent yet: the caller's
// allocator assigns one via ContinuationData().SetExtentLocation
// before the entry can be serialized.
func New(req LayoutRequest) (*Entry, int, error) {
	if req.Version != types.RockRidge109 && req.Version != types.RockRidge112 {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnsupportedVersion, req.Version)
	}

	now := req.Timestamp
	if now.IsZero() {
		now = time.Now()
	}

	e := &Entry{version: req.Version}
	isSymlink := req.SymlinkTarget != ""
	px := NewPXRecord(req.IsDir, isSymlink, req.Version)

	// Step 1: the hypothetical all-inline length. Exceeding the
	// directory-record limit reserves a continuation up front.
	estimate := req.CurrentRecordLength
	if req.FirstOfRoot {
		estimate += types.SPRecordLength
	}
	if req.Version == types.RockRidge109 {
		estimate += types.RRRecordLength
	}
	if req.Name != "" {
		estimate += 5 + len(req.Name)
	}
	estimate += px.Length()
	if isSymlink {
		estimate += slPathLength(req.SymlinkTarget)
	}
	estimate += tfLength(layoutTimeFlags)
	if req.RelocatedChild {
		estimate += types.CLRecordLength
	}
	if req.Relocated {
		estimate += types.RERecordLength
	}
	if req.RelocatedParent {
		estimate += types.PLRecordLength
	}
	if req.FirstOfRoot {
		estimate += NewRRIPERRecord().Length()
	}

	drLen := &recordLength{n: req.CurrentRecordLength}
	if estimate > types.MaxDirectoryRecordSize {
		e.ce = NewCERecord()
		drLen.Add(types.CERecordLength)
	}

	// place puts one record inline if it fits the remaining budget,
	// otherwise in the continuation. The continuation exists whenever
	// a spill can happen: the estimate bounds the inline total.
	place := func(length int, assign func(*recordSet)) {
		if drLen.CurrentLength()+length > types.MaxDirectoryRecordSize {
			assign(&e.ce.Continuation.recordSet)
			e.ce.Continuation.Add(length)
		} else {
			assign(&e.recordSet)
			drLen.Add(length)
		}
	}

	// markPresent flags a field family on whichever RR entry is
	// active, wherever the field itself landed.
	markPresent := func(sig types.Signature) {
		rr := e.rr
		if rr == nil && e.ce != nil {
			rr = e.ce.Continuation.rr
		}
		if rr != nil {
			_ = rr.MarkPresent(sig)
		}
	}

	if req.FirstOfRoot {
		sp := &SPRecord{}
		place(sp.Length(), func(s *recordSet) { s.sp = sp })
	}

	if req.Version == types.RockRidge109 {
		rr := &RRRecord{}
		place(rr.Length(), func(s *recordSet) { s.rr = rr })
	}

	if req.Name != "" {
		placeName(e, drLen, req.Name)
		markPresent(types.SignatureNM)
	}

	place(px.Length(), func(s *recordSet) { s.px = px })
	markPresent(types.SignaturePX)

	if isSymlink {
		placeSymlink(e, drLen, req.SymlinkTarget)
		markPresent(types.SignatureSL)
	}

	tf := NewTFRecord(layoutTimeFlags, now)
	place(tf.Length(), func(s *recordSet) { s.tf = tf })
	markPresent(types.SignatureTF)

	if req.RelocatedChild {
		cl := NewCLRecord()
		place(cl.Length(), func(s *recordSet) { s.cl = cl })
	}

	if req.Relocated {
		re := &RERecord{}
		place(re.Length(), func(s *recordSet) { s.re = re })
	}

	if req.RelocatedParent {
		pl := NewPLRecord()
		place(pl.Length(), func(s *recordSet) { s.pl = pl })
	}

	if req.FirstOfRoot {
		er := NewRRIPERRecord()
		place(er.Length(), func(s *recordSet) { s.er = er })
	}

	// Directory records are even-length.
	drLen.Add(drLen.CurrentLength() % 2)

	return e, drLen.CurrentLength(), nil
}

// placeName records the alternate name, splitting it two ways when
// it does not fit inline: a truncated inline NM flagged as continued
// and the remainder in the continuation area. Only one continuation
// NM is supported; a name that would need a second is not
// representable and the caller's estimate never produces one.
func placeName(e *Entry, drLen *recordLength, name string) {
	nmLen := 5 + len(name)
	if drLen.CurrentLength()+nmLen <= types.MaxDirectoryRecordSize {
		e.nm = NewNMRecord(name)
		drLen.Add(nmLen)
		return
	}

	lenHere := types.MaxDirectoryRecordSize - drLen.CurrentLength() - 5
	if lenHere < 0 {
		// No room even for the NM framing; an empty inline prefix
		// flagged as continued is still emitted, like genisoimage.
		lenHere = 0
	}

	inline := NewNMRecord(name[:lenHere])
	inline.SetContinued()
	e.nm = inline
	drLen.Add(inline.Length())

	rest := NewNMRecord(name[lenHere:])
	e.ce.Continuation.nm = rest
	e.ce.Continuation.Add(rest.Length())
}

// placeSymlink records the target path as one or more SL entries.
// Components are appended to the current entry while it stays under
// the one-byte length limit; a component that partly fits is split
// at the byte boundary with the continue flag on the leading piece,
// and the overflow entry always starts in the continuation area.
// Placement never moves back inline once it has spilled.
func placeSymlink(e *Entry, drLen *recordLength, target string) {
	cur := &SLRecord{}
	var acc lengthAccumulator
	if drLen.CurrentLength()+5+2+1 < types.MaxDirectoryRecordSize {
		e.sl = append(e.sl, cur)
		acc = drLen
	} else {
		e.ce.Continuation.sl = append(e.ce.Continuation.sl, cur)
		acc = e.ce.Continuation
	}
	acc.Add(5)

	for _, comp := range slComponentsForPath(target) {
		textLen := len(comp.Text())
		switch {
		case cur.CurrentLength()+2+textLen < types.MaxSystemUseEntrySize:
			_ = cur.AddComponent(comp)
			acc.Add(comp.encodedLength())

		case comp.Kind == SLComponentLiteral && cur.CurrentLength()+2+1 < types.MaxSystemUseEntrySize:
			// Split at the byte boundary that exactly fills this
			// entry; the remainder starts a new entry in the
			// continuation area.
			lenHere := types.MaxSystemUseEntrySize - cur.CurrentLength() - 2
			head := SLComponent{Kind: SLComponentLiteral, Continued: true, Data: comp.Data[:lenHere]}
			_ = cur.AddComponent(head)
			acc.Add(head.encodedLength())
			cur.Flags |= types.SLFlagContinue

			rest := SLComponent{Kind: SLComponentLiteral, Data: comp.Data[lenHere:]}
			cur = &SLRecord{Components: []SLComponent{rest}}
			e.ce.Continuation.sl = append(e.ce.Continuation.sl, cur)
			acc = e.ce.Continuation
			acc.Add(5 + rest.encodedLength())

		default:
			// Nothing fits; the whole component opens a new entry in
			// the continuation area.
			cur.Flags |= types.SLFlagContinue
			cur = &SLRecord{Components: []SLComponent{comp}}
			e.ce.Continuation.sl = append(e.ce.Continuation.sl, cur)
			acc = e.ce.Continuation
			acc.Add(5 + comp.encodedLength())
		}
	}
}
