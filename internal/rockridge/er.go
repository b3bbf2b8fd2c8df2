package rockridge

import (
	"fmt"

	"github.com/deploymenttheory/go-iso9660/internal/types"
)

// The RRIP registration strings recorded in the ER entry of the
// first root directory record.
const (
	RRIPExtensionID         = "RRIP_1991A"
	RRIPExtensionDescriptor = "THE ROCK RIDGE INTERCHANGE PROTOCOL PROVIDES SUPPORT FOR POSIX FILE SYSTEM SEMANTICS"
	RRIPExtensionSource     = "PLEASE CONTACT DISC PUBLISHER FOR SPECIFICATION SOURCE.  SEE PUBLISHER IDENTIFIER IN PRIMARY VOLUME DESCRIPTOR FOR CONTACT INFORMATION."
)

// erExtensionVersion is the version of the extension specification,
// distinct from the SUSP entry version.
const erExtensionVersion = 1

// ERRecord identifies the extension specification the volume's
// System Use entries conform to, as three registration strings with
// explicit lengths.
type ERRecord struct {
	ID         string
	Descriptor string
	Source     string
}

// NewRRIPERRecord returns the ER entry for the Rock Ridge 1.09
// registration.
func NewRRIPERRecord() *ERRecord {
	return &ERRecord{
		ID:         RRIPExtensionID,
		Descriptor: RRIPExtensionDescriptor,
		Source:     RRIPExtensionSource,
	}
}

// DecodeER decodes an ER entry from data.
func DecodeER(data []byte) (*ERRecord, error) {
	suLen, err := decodeHeader(data, types.SignatureER)
	if err != nil {
		return nil, err
	}
	if suLen < 8 {
		return nil, fmt.Errorf("%w: ER declares %d bytes, want at least 8", ErrInvalidLength, suLen)
	}

	lenID := int(data[4])
	lenDes := int(data[5])
	lenSrc := int(data[6])
	if suLen != 8+lenID+lenDes+lenSrc {
		return nil, fmt.Errorf("%w: ER declares %d bytes, strings need %d",
			ErrInvalidLength, suLen, 8+lenID+lenDes+lenSrc)
	}

	offset := 8
	r := &ERRecord{}
	r.ID = string(data[offset : offset+lenID])
	offset += lenID
	r.Descriptor = string(data[offset : offset+lenDes])
	offset += lenDes
	r.Source = string(data[offset : offset+lenSrc])

	return r, nil
}

func (r *ERRecord) Encode() []byte {
	out := make([]byte, 0, r.Length())
	hdr := make([]byte, 8)
	putHeader(hdr, types.SignatureER, r.Length())
	hdr[4] = byte(len(r.ID))
	hdr[5] = byte(len(r.Descriptor))
	hdr[6] = byte(len(r.Source))
	hdr[7] = erExtensionVersion
	out = append(out, hdr...)
	out = append(out, r.ID...)
	out = append(out, r.Descriptor...)
	out = append(out, r.Source...)
	return out
}

func (r *ERRecord) Length() int {
	return 8 + len(r.ID) + len(r.Descriptor) + len(r.Source)
}
