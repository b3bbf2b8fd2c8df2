package rockridge

import (
	"fmt"
	"strings"
)

// Accessors that read a field from wherever it actually lives:
// the primary entry first, then the continuation payload. Callers
// must not assume the primary slot is populated.

// continuation returns the continuation payload, or nil.
func (e *Entry) continuation() *Continuation {
	if e.ce == nil {
		return nil
	}
	return e.ce.Continuation
}

// Name reassembles the POSIX name: the inline NM content followed by
// the continuation's, when the name was split.
func (e *Entry) Name() string {
	var b strings.Builder
	if e.nm != nil {
		b.WriteString(e.nm.Name)
	}
	if c := e.continuation(); c != nil && c.nm != nil {
		b.WriteString(c.nm.Name)
	}
	return b.String()
}

// IsSymlink reports whether any SL entries are present, inline or in
// the continuation.
func (e *Entry) IsSymlink() bool {
	if len(e.sl) > 0 {
		return true
	}
	c := e.continuation()
	return c != nil && len(c.sl) > 0
}

// SymlinkPath reassembles the link target from every SL entry,
// inline entries first, joining components with the separator except
// after the root component and across split component pieces.
func (e *Entry) SymlinkPath() (string, error) {
	if !e.IsSymlink() {
		return "", ErrNotSymlink
	}

	records := e.sl
	if c := e.continuation(); c != nil {
		records = append(records[:len(records):len(records)], c.sl...)
	}

	var b strings.Builder
	needSep := false
	for _, rec := range records {
		for _, comp := range rec.Components {
			if needSep {
				b.WriteByte('/')
			}
			text := comp.Text()
			b.WriteString(text)
			needSep = !comp.Continued && text != "/"
		}
	}
	return b.String(), nil
}

// pxRecord locates the PX entry wherever it lives.
func (e *Entry) pxRecord() (*PXRecord, error) {
	if e.px != nil {
		return e.px, nil
	}
	if c := e.continuation(); c != nil && c.px != nil {
		return c.px, nil
	}
	return nil, fmt.Errorf("%w: PX", ErrMissingRecord)
}

// PosixAttributes returns the PX entry wherever it lives.
func (e *Entry) PosixAttributes() (*PXRecord, error) {
	return e.pxRecord()
}

// Timestamps returns the TF entry wherever it lives, or nil.
func (e *Entry) Timestamps() *TFRecord {
	if e.tf != nil {
		return e.tf
	}
	if c := e.continuation(); c != nil {
		return c.tf
	}
	return nil
}

// DeviceNumber returns the PN entry wherever it lives, or nil.
func (e *Entry) DeviceNumber() *PNRecord {
	if e.pn != nil {
		return e.pn
	}
	if c := e.continuation(); c != nil {
		return c.pn
	}
	return nil
}

// SharingProtocol returns the SP entry, or nil. Only the first
// directory record of root carries one.
func (e *Entry) SharingProtocol() *SPRecord {
	return e.sp
}

// FileLinks returns the POSIX link count.
func (e *Entry) FileLinks() (uint32, error) {
	px, err := e.pxRecord()
	if err != nil {
		return 0, err
	}
	return px.Links, nil
}

// AddToFileLinks increments the POSIX link count by one.
func (e *Entry) AddToFileLinks() error {
	px, err := e.pxRecord()
	if err != nil {
		return err
	}
	px.Links++
	return nil
}

// RemoveFromFileLinks decrements the POSIX link count by one.
func (e *Entry) RemoveFromFileLinks() error {
	px, err := e.pxRecord()
	if err != nil {
		return err
	}
	px.Links--
	return nil
}

// CopyFileLinks copies the POSIX link count from src.
func (e *Entry) CopyFileLinks(src *Entry) error {
	srcPX, err := src.pxRecord()
	if err != nil {
		return err
	}
	dstPX, err := e.pxRecord()
	if err != nil {
		return err
	}
	dstPX.Links = srcPX.Links
	return nil
}

// HasChildLink reports whether a CL entry is present anywhere.
func (e *Entry) HasChildLink() bool {
	if e.cl != nil {
		return true
	}
	c := e.continuation()
	return c != nil && c.cl != nil
}

// IsRelocated reports whether an RE entry is present anywhere.
func (e *Entry) IsRelocated() bool {
	if e.re != nil {
		return true
	}
	c := e.continuation()
	return c != nil && c.re != nil
}

// clRecord locates the CL entry wherever it lives.
func (e *Entry) clRecord() (*CLRecord, error) {
	if e.cl != nil {
		return e.cl, nil
	}
	if c := e.continuation(); c != nil && c.cl != nil {
		return c.cl, nil
	}
	return nil, fmt.Errorf("%w: CL", ErrMissingRecord)
}

// plRecord locates the PL entry wherever it lives.
func (e *Entry) plRecord() (*PLRecord, error) {
	if e.pl != nil {
		return e.pl, nil
	}
	if c := e.continuation(); c != nil && c.pl != nil {
		return c.pl, nil
	}
	return nil, fmt.Errorf("%w: PL", ErrMissingRecord)
}

// ChildLinkBlockNumber returns the logical block of the relocated
// child. It fails until the allocator has resolved the link.
func (e *Entry) ChildLinkBlockNumber() (uint32, error) {
	cl, err := e.clRecord()
	if err != nil {
		return 0, err
	}
	return cl.BlockNumber()
}

// ParentLinkBlockNumber returns the logical block of the original
// parent. It fails until the allocator has resolved the link.
func (e *Entry) ParentLinkBlockNumber() (uint32, error) {
	pl, err := e.plRecord()
	if err != nil {
		return 0, err
	}
	return pl.BlockNumber()
}

// SetChildLink attaches the directory record the CL entry will point
// at. Its extent is read during UpdateChildLink, after the extent
// allocator has run.
func (e *Entry) SetChildLink(target ExtentLocator) {
	e.childLink = target
}

// SetParentLink attaches the directory record the PL entry will
// point at.
func (e *Entry) SetParentLink(target ExtentLocator) {
	e.parentLink = target
}

// UpdateChildLink resolves the CL entry from the attached child's
// final extent location. It runs once, after extent assignment.
func (e *Entry) UpdateChildLink() error {
	if e.childLink == nil {
		return fmt.Errorf("%w: child", ErrNoLinkTarget)
	}
	cl, err := e.clRecord()
	if err != nil {
		return err
	}
	return cl.resolve(e.childLink.ExtentLocation())
}

// UpdateParentLink resolves the PL entry from the attached parent's
// final extent location. It runs once, after extent assignment.
func (e *Entry) UpdateParentLink() error {
	if e.parentLink == nil {
		return fmt.Errorf("%w: parent", ErrNoLinkTarget)
	}
	pl, err := e.plRecord()
	if err != nil {
		return err
	}
	return pl.resolve(e.parentLink.ExtentLocation())
}
