package types

// SUSP / Rock Ridge Constants
// Reference: IEEE P1281 (SUSP) and IEEE P1282 (RRIP) draft standards

// SUEntryVersion is the version carried by every System Use entry.
// Both SUSP 1.12 and RRIP 1.09/1.12 fix this at 1.
const SUEntryVersion = 1

// Signature identifies a System Use entry type. Every entry begins
// with a two-byte signature, a one-byte length covering the whole
// entry, and a one-byte version.
type Signature string

const (
	// SignatureSP marks the SUSP sharing-protocol indicator.
	// Only legal in the first directory record of the root directory.
	// Reference: SUSP 5.3
	SignatureSP Signature = "SP"

	// SignatureST terminates a System Use area.
	// Reference: SUSP 5.4
	SignatureST Signature = "ST"

	// SignatureCE points at a continuation area in another extent.
	// Reference: SUSP 5.1
	SignatureCE Signature = "CE"

	// SignaturePD is padding; it carries no payload.
	// Reference: SUSP 5.2
	SignaturePD Signature = "PD"

	// SignatureER identifies the extension specification in use.
	// Reference: SUSP 5.5
	SignatureER Signature = "ER"

	// SignatureES selects among several registered extensions.
	// Reference: SUSP 5.6
	SignatureES Signature = "ES"

	// SignatureRR is the Rock Ridge 1.09 field-presence bitmap.
	SignatureRR Signature = "RR"

	// SignaturePX carries POSIX file attributes.
	// Reference: RRIP 4.1.1
	SignaturePX Signature = "PX"

	// SignaturePN carries POSIX device numbers.
	// Reference: RRIP 4.1.2
	SignaturePN Signature = "PN"

	// SignatureSL carries symbolic link components.
	// Reference: RRIP 4.1.3
	SignatureSL Signature = "SL"

	// SignatureNM carries the alternate (POSIX) name.
	// Reference: RRIP 4.1.4
	SignatureNM Signature = "NM"

	// SignatureCL is the child link of a relocated directory.
	// Reference: RRIP 4.1.5.1
	SignatureCL Signature = "CL"

	// SignaturePL is the parent link of a relocated directory.
	// Reference: RRIP 4.1.5.2
	SignaturePL Signature = "PL"

	// SignatureRE marks a relocated directory entry.
	// Reference: RRIP 4.1.5.3
	SignatureRE Signature = "RE"

	// SignatureTF carries file timestamps.
	// Reference: RRIP 4.1.6
	SignatureTF Signature = "TF"

	// SignatureSF describes a sparse file.
	// Reference: RRIP 4.1.7
	SignatureSF Signature = "SF"
)

// Fixed entry lengths, including the four header bytes.
const (
	SPRecordLength  = 7
	RRRecordLength  = 5
	CERecordLength  = 28
	ESRecordLength  = 5
	PNRecordLength  = 20
	CLRecordLength  = 12
	PLRecordLength  = 12
	SFRecordLength  = 21
	RERecordLength  = 4
	STRecordLength  = 4
	PXRecordLength109 = 36
	PXRecordLength112 = 44
)

// SP check bytes, chosen by SUSP to be recognizable.
const (
	SPCheckByte1 = 0xBE
	SPCheckByte2 = 0xEF
)

// RR field-presence bits. Set when the corresponding optional entry
// is recorded for a directory record, whether inline or in a
// continuation area.
const (
	RRFlagPX = 1 << 0
	RRFlagPN = 1 << 1
	RRFlagSL = 1 << 2
	RRFlagNM = 1 << 3
	RRFlagCL = 1 << 4
	RRFlagPL = 1 << 5
	RRFlagRE = 1 << 6
	RRFlagTF = 1 << 7
)

// NM flag bits.
const (
	NMFlagContinue = 1 << 0
	NMFlagCurrent  = 1 << 1
	NMFlagParent   = 1 << 2
)

// SL component flag bits. The three location bits are exclusive and
// require a zero-length component.
const (
	SLFlagContinue = 1 << 0
	SLFlagCurrent  = 1 << 1
	SLFlagParent   = 1 << 2
	SLFlagRoot     = 1 << 3
)

// TF flag bits. Bit 7 switches every timestamp in the entry from the
// 7-byte directory-record form to the 17-byte volume-descriptor form.
const (
	TFFlagCreation        = 1 << 0
	TFFlagAccess          = 1 << 1
	TFFlagModification    = 1 << 2
	TFFlagAttributeChange = 1 << 3
	TFFlagBackup          = 1 << 4
	TFFlagExpiration      = 1 << 5
	TFFlagEffective       = 1 << 6
	TFFlagLongForm        = 1 << 7
)

// RockRidgeVersion selects the RRIP revision a directory record is
// written against. 1.09 emits the RR bitmap entry and a 36-byte PX;
// 1.12 omits RR and extends PX to 44 bytes with a serial number.
type RockRidgeVersion string

const (
	RockRidge109 RockRidgeVersion = "1.09"
	RockRidge112 RockRidgeVersion = "1.12"
)

// MaxDirectoryRecordSize is the largest directory record ISO9660
// permits before the final even-length padding.
const MaxDirectoryRecordSize = 254

// MaxSystemUseEntrySize bounds any single System Use entry, whose
// length field is one byte.
const MaxSystemUseEntrySize = 255
