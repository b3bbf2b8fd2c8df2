package rockridge

import (
	"fmt"

	"github.com/deploymenttheory/go-iso9660/internal/types"
)

// SPRecord is the SUSP sharing-protocol indicator. It declares that
// the volume uses SUSP and how many bytes of every System Use area
// belong to a foreign format and must be skipped before parsing.
type SPRecord struct {
	BytesToSkip uint8
}

// DecodeSP decodes an SP entry from data, which must begin at the
// signature.
func DecodeSP(data []byte) (*SPRecord, error) {
	suLen, err := decodeHeader(data, types.SignatureSP)
	if err != nil {
		return nil, err
	}
	if err := checkLength(types.SignatureSP, suLen, types.SPRecordLength); err != nil {
		return nil, err
	}
	if data[4] != types.SPCheckByte1 || data[5] != types.SPCheckByte2 {
		return nil, fmt.Errorf("%w: 0x%02x 0x%02x", ErrInvalidCheckBytes, data[4], data[5])
	}
	return &SPRecord{BytesToSkip: data[6]}, nil
}

func (r *SPRecord) Encode() []byte {
	out := make([]byte, types.SPRecordLength)
	putHeader(out, types.SignatureSP, types.SPRecordLength)
	out[4] = types.SPCheckByte1
	out[5] = types.SPCheckByte2
	out[6] = r.BytesToSkip
	return out
}

func (r *SPRecord) Length() int {
	return types.SPRecordLength
}

// RRRecord is the Rock Ridge 1.09 field-presence bitmap, one bit per
// optional field family recorded for the directory record.
type RRRecord struct {
	Flags uint8
}

// DecodeRR decodes an RR entry from data.
func DecodeRR(data []byte) (*RRRecord, error) {
	suLen, err := decodeHeader(data, types.SignatureRR)
	if err != nil {
		return nil, err
	}
	if err := checkLength(types.SignatureRR, suLen, types.RRRecordLength); err != nil {
		return nil, err
	}
	return &RRRecord{Flags: data[4]}, nil
}

// MarkPresent sets the presence bit for the named field family.
func (r *RRRecord) MarkPresent(sig types.Signature) error {
	bit, ok := rrFlagBits[sig]
	if !ok {
		return fmt.Errorf("%w: no RR presence bit for %s", ErrUnknownSignature, sig)
	}
	r.Flags |= bit
	return nil
}

var rrFlagBits = map[types.Signature]uint8{
	types.SignaturePX: types.RRFlagPX,
	types.SignaturePN: types.RRFlagPN,
	types.SignatureSL: types.RRFlagSL,
	types.SignatureNM: types.RRFlagNM,
	types.SignatureCL: types.RRFlagCL,
	types.SignaturePL: types.RRFlagPL,
	types.SignatureRE: types.RRFlagRE,
	types.SignatureTF: types.RRFlagTF,
}

func (r *RRRecord) Encode() []byte {
	out := make([]byte, types.RRRecordLength)
	putHeader(out, types.SignatureRR, types.RRRecordLength)
	out[4] = r.Flags
	return out
}

func (r *RRRecord) Length() int {
	return types.RRRecordLength
}

// ESRecord selects one of several registered extensions by its
// sequence number in the ER entries of the volume.
type ESRecord struct {
	Sequence uint8
}

// DecodeES decodes an ES entry from data.
func DecodeES(data []byte) (*ESRecord, error) {
	suLen, err := decodeHeader(data, types.SignatureES)
	if err != nil {
		return nil, err
	}
	if err := checkLength(types.SignatureES, suLen, types.ESRecordLength); err != nil {
		return nil, err
	}
	return &ESRecord{Sequence: data[4]}, nil
}

func (r *ESRecord) Encode() []byte {
	out := make([]byte, types.ESRecordLength)
	putHeader(out, types.SignatureES, types.ESRecordLength)
	out[4] = r.Sequence
	return out
}

func (r *ESRecord) Length() int {
	return types.ESRecordLength
}

// RERecord marks a directory entry as the relocated copy of a deeply
// nested directory. It has no payload.
type RERecord struct{}

// DecodeRE decodes an RE entry from data.
func DecodeRE(data []byte) (*RERecord, error) {
	suLen, err := decodeHeader(data, types.SignatureRE)
	if err != nil {
		return nil, err
	}
	if err := checkLength(types.SignatureRE, suLen, types.RERecordLength); err != nil {
		return nil, err
	}
	return &RERecord{}, nil
}

func (r *RERecord) Encode() []byte {
	out := make([]byte, types.RERecordLength)
	putHeader(out, types.SignatureRE, types.RERecordLength)
	return out
}

func (r *RERecord) Length() int {
	return types.RERecordLength
}
