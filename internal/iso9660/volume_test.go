package iso9660

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-iso9660/internal/rockridge"
)

func putBoth32(dst []byte, v uint32) {
	binary.LittleEndian.PutUint32(dst[0:4], v)
	binary.BigEndian.PutUint32(dst[4:8], v)
}

func putBoth16(dst []byte, v uint16) {
	binary.LittleEndian.PutUint16(dst[0:2], v)
	binary.BigEndian.PutUint16(dst[2:4], v)
}

// dirRecord builds one directory record with the given System Use
// area, padded to an even length.
func dirRecord(id string, extent, size uint32, flags byte, su []byte) []byte {
	base := 33 + len(id)
	if len(id)%2 == 0 {
		base++ // pad byte before the System Use area
	}
	length := base + len(su)
	if length%2 != 0 {
		length++
	}

	rec := make([]byte, length)
	rec[0] = byte(length)
	putBoth32(rec[2:10], extent)
	putBoth32(rec[10:18], size)
	copy(rec[18:25], []byte{126, 8, 24, 0, 0, 0, 0})
	rec[25] = flags
	putBoth16(rec[28:32], 1)
	rec[32] = byte(len(id))
	copy(rec[33:], id)
	copy(rec[base:], su)
	return rec
}

// buildImage assembles a minimal image: a PVD at sector 16, a root
// directory at extent 20, and a continuation area at extent 21.
func buildImage(t *testing.T) []byte {
	t.Helper()

	img := make([]byte, 22*SectorSize)

	pvd := img[16*SectorSize:]
	pvd[0] = 1
	copy(pvd[1:6], "CD001")
	pvd[6] = 1
	copy(pvd[8:40], []byte("LINUX                           "))
	copy(pvd[40:72], []byte("TESTVOL                         "))
	putBoth32(pvd[80:88], 22)
	putBoth16(pvd[128:132], SectorSize)
	copy(pvd[156:190], dirRecord("\x00", 20, SectorSize, FileFlagDirectory, nil))
	copy(pvd[813:830], append([]byte("2026082410000000"), 0))
	copy(pvd[830:847], append([]byte("0000000000000000"), 0))

	// Root directory: dot carries the SP entry, dotdot nothing, and
	// one file with NM and PX entries.
	fileSU := append((&rockridge.NMRecord{Name: "foo"}).Encode(),
		(&rockridge.PXRecord{Mode: 0o100644, Links: 1}).Encode()...)

	dir := img[20*SectorSize:]
	offset := 0
	for _, rec := range [][]byte{
		dirRecord("\x00", 20, SectorSize, FileFlagDirectory, (&rockridge.SPRecord{}).Encode()),
		dirRecord("\x01", 20, SectorSize, FileFlagDirectory, nil),
		dirRecord("FOO.;1", 21, 12, 0, fileSU),
	} {
		copy(dir[offset:], rec)
		offset += len(rec)
	}

	copy(img[21*SectorSize+3:], "HELLO")

	return img
}

func TestOpenVolume(t *testing.T) {
	vol, err := Open(bytes.NewReader(buildImage(t)))
	require.NoError(t, err)

	assert.Equal(t, "LINUX", vol.SystemIdentifier())
	assert.Equal(t, "TESTVOL", vol.VolumeIdentifier())
	assert.Equal(t, uint32(22), vol.SpaceSize())
	assert.Equal(t, uint16(SectorSize), vol.BlockSize())

	root := vol.RootDirectoryRecord()
	require.NotNil(t, root)
	assert.Equal(t, uint32(20), root.Extent)
	assert.True(t, root.IsDirectory())

	created := vol.Created()
	assert.False(t, created.IsZero())
	assert.Equal(t, 2026, created.Year)
	modified := vol.Modified()
	assert.True(t, modified.IsZero())
}

func TestOpenRejectsBadDescriptor(t *testing.T) {
	img := buildImage(t)
	img[16*SectorSize] = 3 // not a primary descriptor
	_, err := Open(bytes.NewReader(img))
	assert.Error(t, err)

	img = buildImage(t)
	copy(img[16*SectorSize+1:], "CD002")
	_, err = Open(bytes.NewReader(img))
	assert.Error(t, err)
}

func TestReadDirectory(t *testing.T) {
	vol, err := Open(bytes.NewReader(buildImage(t)))
	require.NoError(t, err)

	root := vol.RootDirectoryRecord()
	records, err := vol.ReadDirectory(root.Extent, root.DataLength)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.True(t, records[0].IsDot())
	assert.True(t, records[1].IsDotDot())
	assert.Equal(t, "FOO.;1", records[2].Identifier)
	assert.Equal(t, uint32(12), records[2].DataLength)
	assert.False(t, records[2].IsDirectory())
}

// The System Use areas carved out of directory records parse as Rock
// Ridge data.
func TestSystemUseCarriesRockRidge(t *testing.T) {
	vol, err := Open(bytes.NewReader(buildImage(t)))
	require.NoError(t, err)

	root := vol.RootDirectoryRecord()
	records, err := vol.ReadDirectory(root.Extent, root.DataLength)
	require.NoError(t, err)

	dot, err := rockridge.Parse(records[0].SystemUse, true, 0)
	require.NoError(t, err)
	require.NotNil(t, dot.SharingProtocol())
	assert.Equal(t, uint8(0), dot.SharingProtocol().BytesToSkip)

	file, err := rockridge.Parse(records[2].SystemUse, false, 0)
	require.NoError(t, err)
	assert.Equal(t, "foo", file.Name())
	px, err := file.PosixAttributes()
	require.NoError(t, err)
	assert.Equal(t, uint32(0o100644), px.Mode)
}

func TestReadContinuationArea(t *testing.T) {
	vol, err := Open(bytes.NewReader(buildImage(t)))
	require.NoError(t, err)

	data, err := vol.ReadContinuationArea(21, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("HELLO"), data)
}

func TestDecodeDirectoryRecordErrors(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		_, err := DecodeDirectoryRecord([]byte{10, 0, 0})
		assert.Error(t, err)
	})

	t.Run("declared past buffer", func(t *testing.T) {
		rec := dirRecord("\x00", 20, 100, 0, nil)
		_, err := DecodeDirectoryRecord(rec[:len(rec)-2])
		assert.Error(t, err)
	})

	t.Run("endian mismatch", func(t *testing.T) {
		rec := dirRecord("\x00", 20, 100, 0, nil)
		rec[6] ^= 0xFF // corrupt the big-endian extent copy
		_, err := DecodeDirectoryRecord(rec)
		assert.Error(t, err)
	})
}

// Directory records never straddle sectors; the reader must skip the
// zero fill to the next sector boundary, not treat it as a record.
func TestReadDirectorySkipsSectorPadding(t *testing.T) {
	img := buildImage(t)

	// Grow the root directory to two sectors with a record at the
	// start of the second.
	pvdRoot := img[16*SectorSize+156:]
	putBoth32(pvdRoot[10:18], 2*SectorSize)
	copy(img[21*SectorSize:], dirRecord("BAR.;1", 19, 1, 0, nil))

	vol, err := Open(bytes.NewReader(img))
	require.NoError(t, err)

	root := vol.RootDirectoryRecord()
	records, err := vol.ReadDirectory(root.Extent, root.DataLength)
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "BAR.;1", records[3].Identifier)
}
