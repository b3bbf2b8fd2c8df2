package rockridge

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-iso9660/internal/types"
)

func TestSPRoundTrip(t *testing.T) {
	encoded := (&SPRecord{BytesToSkip: 3}).Encode()
	assert.Equal(t, []byte{'S', 'P', 7, 1, 0xBE, 0xEF, 3}, encoded)

	decoded, err := DecodeSP(encoded)
	require.NoError(t, err)
	assert.Equal(t, uint8(3), decoded.BytesToSkip)
}

func TestSPInvalid(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want error
	}{
		{"check bytes", []byte{'S', 'P', 7, 1, 0xBE, 0xEE, 0}, ErrInvalidCheckBytes},
		{"length", []byte{'S', 'P', 8, 1, 0xBE, 0xEF, 0, 0}, ErrInvalidLength},
		{"version", []byte{'S', 'P', 7, 2, 0xBE, 0xEF, 0}, ErrInvalidVersion},
		{"signature", []byte{'S', 'Q', 7, 1, 0xBE, 0xEF, 0}, ErrUnknownSignature},
		{"truncated", []byte{'S', 'P', 7, 1}, ErrTruncated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeSP(tc.data)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRRMarkPresent(t *testing.T) {
	rr := &RRRecord{}
	require.NoError(t, rr.MarkPresent(types.SignaturePX))
	require.NoError(t, rr.MarkPresent(types.SignatureNM))
	require.NoError(t, rr.MarkPresent(types.SignatureTF))
	assert.Equal(t, uint8(types.RRFlagPX|types.RRFlagNM|types.RRFlagTF), rr.Flags)

	assert.ErrorIs(t, rr.MarkPresent(types.SignatureSP), ErrUnknownSignature)

	decoded, err := DecodeRR(rr.Encode())
	require.NoError(t, err)
	assert.Equal(t, rr.Flags, decoded.Flags)
}

func TestPXRoundTrip109(t *testing.T) {
	px := &PXRecord{Mode: 0o100644, Links: 2, UID: 1000, GID: 100}
	encoded := px.Encode()
	require.Len(t, encoded, types.PXRecordLength109)

	decoded, err := DecodePX(encoded)
	require.NoError(t, err)
	assert.False(t, decoded.HasSerial)
	if diff := cmp.Diff(px, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPXRoundTrip112(t *testing.T) {
	px := &PXRecord{Mode: 0o40755, Links: 3, UID: 0, GID: 0, SerialNumber: 77, HasSerial: true}
	encoded := px.Encode()
	require.Len(t, encoded, types.PXRecordLength112)

	decoded, err := DecodePX(encoded)
	require.NoError(t, err)
	assert.True(t, decoded.HasSerial)
	assert.Equal(t, uint32(77), decoded.SerialNumber)
}

func TestPXDefaults(t *testing.T) {
	cases := []struct {
		name      string
		isDir     bool
		isSymlink bool
		mode      uint32
	}{
		{"directory", true, false, 0o40555},
		{"symlink", false, true, 0o120555},
		{"file", false, false, 0o100444},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			px := NewPXRecord(tc.isDir, tc.isSymlink, types.RockRidge109)
			assert.Equal(t, tc.mode, px.Mode)
			assert.Equal(t, uint32(1), px.Links)
		})
	}

	assert.True(t, NewPXRecord(false, false, types.RockRidge112).HasSerial)
	assert.Equal(t, types.PXRecordLength112, NewPXRecord(false, false, types.RockRidge112).Length())
}

// Every dual-endian field must carry matching copies; a corrupted
// big-endian half is rejected, not silently preferred.
func TestDualEndianMismatch(t *testing.T) {
	cases := []struct {
		name   string
		data   func() []byte
		decode func([]byte) error
	}{
		{"PX", func() []byte { return (&PXRecord{Mode: 1}).Encode() },
			func(b []byte) error { _, err := DecodePX(b); return err }},
		{"PN", func() []byte { return (&PNRecord{DeviceHigh: 9}).Encode() },
			func(b []byte) error { _, err := DecodePN(b); return err }},
		{"SF", func() []byte { return NewSFRecord(1<<33, 1).Encode() },
			func(b []byte) error { _, err := DecodeSF(b); return err }},
		{"CE", func() []byte {
			ce := NewCERecord()
			ce.Continuation.SetExtentLocation(5)
			out, err := ce.Encode()
			require.NoError(t, err)
			return out
		}, func(b []byte) error { _, err := DecodeCE(b); return err }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := tc.data()
			// Corrupt the most significant byte of the big-endian copy
			// of the first field.
			data[8] ^= 0xFF
			assert.ErrorIs(t, tc.decode(data), ErrEndianMismatch)
		})
	}
}

func TestPNRoundTrip(t *testing.T) {
	pn := &PNRecord{DeviceHigh: 8, DeviceLow: 0x0103}
	decoded, err := DecodePN(pn.Encode())
	require.NoError(t, err)
	if diff := cmp.Diff(pn, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSFRoundTrip(t *testing.T) {
	sf := NewSFRecord(0x12_3456789A, 2)
	assert.Equal(t, uint32(0x12), sf.VirtualSizeHigh)
	assert.Equal(t, uint32(0x3456789A), sf.VirtualSizeLow)

	decoded, err := DecodeSF(sf.Encode())
	require.NoError(t, err)
	assert.Equal(t, uint64(0x12_3456789A), decoded.VirtualSize())
	assert.Equal(t, uint8(2), decoded.TableDepth)
}

func TestESRoundTrip(t *testing.T) {
	decoded, err := DecodeES((&ESRecord{Sequence: 2}).Encode())
	require.NoError(t, err)
	assert.Equal(t, uint8(2), decoded.Sequence)
}

func TestRERoundTrip(t *testing.T) {
	encoded := (&RERecord{}).Encode()
	assert.Equal(t, []byte{'R', 'E', 4, 1}, encoded)
	_, err := DecodeRE(encoded)
	require.NoError(t, err)

	_, err = DecodeRE([]byte{'R', 'E', 5, 1, 0})
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestERRoundTrip(t *testing.T) {
	er := NewRRIPERRecord()
	assert.Equal(t, "RRIP_1991A", er.ID)

	decoded, err := DecodeER(er.Encode())
	require.NoError(t, err)
	if diff := cmp.Diff(er, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestERStringLengthMismatch(t *testing.T) {
	data := NewRRIPERRecord().Encode()
	data[4]++ // declared ID length no longer matches the entry length
	_, err := DecodeER(data)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestNMRoundTrip(t *testing.T) {
	nm := NewNMRecord("hello")
	assert.Equal(t, 10, nm.Length())

	decoded, err := DecodeNM(nm.Encode())
	require.NoError(t, err)
	assert.Equal(t, "hello", decoded.Name)
	assert.False(t, decoded.Continued())

	nm.SetContinued()
	decoded, err = DecodeNM(nm.Encode())
	require.NoError(t, err)
	assert.True(t, decoded.Continued())
}

func TestNMInvalidFlags(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"exclusive bits", []byte{'N', 'M', 5, 1, types.NMFlagCurrent | types.NMFlagParent}},
		{"current with name", []byte{'N', 'M', 6, 1, types.NMFlagCurrent, 'x'}},
		{"parent with name", []byte{'N', 'M', 6, 1, types.NMFlagParent, 'x'}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeNM(tc.data)
			assert.ErrorIs(t, err, ErrInvalidNameFlags)
		})
	}
}

func TestSLRoundTrip(t *testing.T) {
	sl := &SLRecord{}
	require.NoError(t, sl.AddComponent(SLComponent{Kind: SLComponentRoot}))
	require.NoError(t, sl.AddComponent(SLComponent{Kind: SLComponentLiteral, Data: "usr"}))
	require.NoError(t, sl.AddComponent(SLComponent{Kind: SLComponentLiteral, Data: "lib"}))

	encoded := sl.Encode()
	assert.Equal(t, sl.CurrentLength(), len(encoded))

	decoded, err := DecodeSL(encoded)
	require.NoError(t, err)
	if diff := cmp.Diff(sl, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, encoded, decoded.Encode(), "re-encode should be byte identical")
}

func TestSLComponentText(t *testing.T) {
	cases := []struct {
		comp SLComponent
		want string
	}{
		{SLComponent{Kind: SLComponentCurrent}, "."},
		{SLComponent{Kind: SLComponentParent}, ".."},
		{SLComponent{Kind: SLComponentRoot}, "/"},
		{SLComponent{Kind: SLComponentLiteral, Data: "etc"}, "etc"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.comp.Text())
	}
}

func TestSLInvalidComponents(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"root with payload", []byte{'S', 'L', 8, 1, 0, types.SLFlagRoot, 1, 'x'}},
		{"unknown flags", []byte{'S', 'L', 7, 1, 0, 0x10, 0}},
		{"location continues literal", []byte{'S', 'L', 10, 1, 0,
			types.SLFlagContinue, 1, 'x', types.SLFlagParent, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeSL(tc.data)
			assert.ErrorIs(t, err, ErrInvalidComponentFlags)
		})
	}
}

func TestSLEntrySizeLimit(t *testing.T) {
	sl := &SLRecord{}
	require.NoError(t, sl.AddComponent(SLComponent{Kind: SLComponentLiteral, Data: string(make([]byte, 200))}))
	err := sl.AddComponent(SLComponent{Kind: SLComponentLiteral, Data: string(make([]byte, 60))})
	assert.ErrorIs(t, err, ErrComponentTooLong)
}

func TestTFRoundTrip(t *testing.T) {
	flags := uint8(types.TFFlagCreation | types.TFFlagAccess |
		types.TFFlagModification | types.TFFlagAttributeChange)
	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tf := NewTFRecord(flags, stamp)
	assert.Equal(t, 5+4*7, tf.Length())

	decoded, err := DecodeTF(tf.Encode())
	require.NoError(t, err)
	require.NotNil(t, decoded.Modification)
	assert.True(t, decoded.Modification.Time().Equal(stamp))
	assert.Nil(t, decoded.Backup)
}

func TestTFLongForm(t *testing.T) {
	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tf := NewTFRecord(types.TFFlagCreation|types.TFFlagLongForm, stamp)
	assert.Equal(t, 5+17, tf.Length())

	decoded, err := DecodeTF(tf.Encode())
	require.NoError(t, err)
	require.NotNil(t, decoded.Creation)
	assert.Equal(t, 17, decoded.Creation.Length())
	assert.True(t, decoded.Creation.Time().Equal(stamp))
}

func TestTFLengthMismatch(t *testing.T) {
	data := NewTFRecord(types.TFFlagAccess, time.Now()).Encode()
	data[4] |= types.TFFlagModification // claims a second stamp the bytes do not hold
	_, err := DecodeTF(data)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestCERoundTrip(t *testing.T) {
	ce := NewCERecord()
	ce.Continuation.SetExtentLocation(20)
	ce.Continuation.SetOffset(8)
	ce.Continuation.Add(100)

	encoded, err := ce.Encode()
	require.NoError(t, err)
	require.Len(t, encoded, types.CERecordLength)

	decoded, err := DecodeCE(encoded)
	require.NoError(t, err)
	extent, err := decoded.Continuation.ExtentLocation()
	require.NoError(t, err)
	assert.Equal(t, uint32(20), extent)
	assert.Equal(t, uint32(8), decoded.Continuation.Offset())
	assert.Equal(t, 100, decoded.Continuation.CurrentLength())
}

func TestCEUnassignedExtent(t *testing.T) {
	ce := NewCERecord()
	_, err := ce.Encode()
	assert.ErrorIs(t, err, ErrNoExtentAssigned)

	_, err = ce.Continuation.ExtentLocation()
	assert.ErrorIs(t, err, ErrNoExtentAssigned)
}

func TestLinkLifecycle(t *testing.T) {
	cl := NewCLRecord()
	_, err := cl.BlockNumber()
	assert.ErrorIs(t, err, ErrLinkUnresolved)

	require.NoError(t, cl.resolve(42))
	block, err := cl.BlockNumber()
	require.NoError(t, err)
	assert.Equal(t, uint32(42), block)

	assert.ErrorIs(t, cl.resolve(43), ErrLinkResolved)
}

func TestLinkDecodeIsResolved(t *testing.T) {
	cl := NewCLRecord()
	require.NoError(t, cl.resolve(42))

	decoded, err := DecodeCL(cl.Encode())
	require.NoError(t, err)
	block, err := decoded.BlockNumber()
	require.NoError(t, err)
	assert.Equal(t, uint32(42), block)

	pl := NewPLRecord()
	require.NoError(t, pl.resolve(7))
	decodedPL, err := DecodePL(pl.Encode())
	require.NoError(t, err)
	block, err = decodedPL.BlockNumber()
	require.NoError(t, err)
	assert.Equal(t, uint32(7), block)
}
