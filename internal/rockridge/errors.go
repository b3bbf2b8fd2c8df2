package rockridge

import "errors"

// Structural errors: the bytes on disk do not form a well-formed
// System Use area.
var (
	// ErrTruncated reports a System Use area or entry shorter than
	// its own framing requires.
	ErrTruncated = errors.New("system use area truncated")

	// ErrInvalidLength reports an entry whose declared length does
	// not match its type.
	ErrInvalidLength = errors.New("invalid length on rock ridge entry")

	// ErrInvalidVersion reports an entry version other than 1.
	ErrInvalidVersion = errors.New("invalid system use entry version")

	// ErrUnknownSignature reports an entry signature this
	// implementation does not model.
	ErrUnknownSignature = errors.New("unknown system use entry signature")

	// ErrInvalidPadByte reports a non-zero final pad byte.
	ErrInvalidPadByte = errors.New("invalid pad byte in system use area")

	// ErrInvalidCheckBytes reports an SP entry without the 0xBE 0xEF
	// check bytes.
	ErrInvalidCheckBytes = errors.New("invalid check bytes on SP entry")

	// ErrEndianMismatch reports a dual-endian field whose big-endian
	// copy is not the byte swap of the little-endian copy.
	ErrEndianMismatch = errors.New("big-endian copy does not match little-endian value")

	// ErrInvalidComponentFlags reports an SL component with an
	// unrecognized or contradictory flag combination.
	ErrInvalidComponentFlags = errors.New("invalid symlink component flags")

	// ErrInvalidNameFlags reports an NM entry with an unrecognized or
	// contradictory flag combination.
	ErrInvalidNameFlags = errors.New("invalid alternate name flags")
)

// Protocol-state errors: the caller used the API outside its
// lifecycle, or asked for something the entry does not carry.
var (
	// ErrDuplicateRecord reports a second entry for a slot that
	// holds at most one.
	ErrDuplicateRecord = errors.New("duplicate system use entry")

	// ErrUnsupportedVersion reports a Rock Ridge version other than
	// 1.09 or 1.12.
	ErrUnsupportedVersion = errors.New("unsupported rock ridge version")

	// ErrMissingRecord reports a query for a record held neither
	// inline nor in the continuation area.
	ErrMissingRecord = errors.New("rock ridge entry not present")

	// ErrNotSymlink reports a symlink path query on an entry with no
	// SL records anywhere.
	ErrNotSymlink = errors.New("entry is not a symlink")

	// ErrNoExtentAssigned reports serialization of a continuation
	// area before the allocator assigned it an extent.
	ErrNoExtentAssigned = errors.New("no extent assigned to continuation area")

	// ErrLinkUnresolved reports a block-number query on a relocation
	// link that has not been resolved yet.
	ErrLinkUnresolved = errors.New("relocation link not yet resolved")

	// ErrLinkResolved reports a second resolution of a relocation
	// link.
	ErrLinkResolved = errors.New("relocation link already resolved")

	// ErrNoLinkTarget reports a link update with no target directory
	// record attached.
	ErrNoLinkTarget = errors.New("no relocation link target set")

	// ErrComponentTooLong reports a symlink component that would push
	// an SL entry past the one-byte length limit.
	ErrComponentTooLong = errors.New("symlink entry would exceed 255 bytes")
)

// Caller-contract errors.
var (
	// ErrMisplacedSP reports an SP entry anywhere other than the
	// first directory record of the root directory.
	ErrMisplacedSP = errors.New("SP entry outside the first directory record of root")
)
