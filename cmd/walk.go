package cmd

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-iso9660/internal/iso9660"
	"github.com/deploymenttheory/go-iso9660/internal/rockridge"
)

// openVolume opens an image file and its primary volume descriptor.
// The caller closes the returned file.
func openVolume(path string) (*os.File, *iso9660.Volume, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open image: %w", err)
	}
	vol, err := iso9660.Open(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, vol, nil
}

// parseRockRidge decodes the System Use area of one directory record,
// following its continuation area when one is referenced. It returns
// nil when the record carries no System Use data at all.
func parseRockRidge(vol *iso9660.Volume, rec *iso9660.DirectoryRecord, isRootFirst bool, bytesToSkip int) (*rockridge.Entry, error) {
	if len(rec.SystemUse) == 0 {
		return nil, nil
	}

	entry, err := rockridge.Parse(rec.SystemUse, isRootFirst, bytesToSkip)
	if err != nil {
		return nil, fmt.Errorf("system use area of %q: %w", rec.Identifier, err)
	}

	if entry.HasContinuation() {
		cont := entry.ContinuationData()
		extent, err := cont.ExtentLocation()
		if err != nil {
			return nil, fmt.Errorf("continuation of %q: %w", rec.Identifier, err)
		}
		log.Debugf("Reading continuation area: extent=%d offset=%d length=%d",
			extent, cont.Offset(), cont.CurrentLength())
		data, err := vol.ReadContinuationArea(extent, cont.Offset(), uint32(cont.CurrentLength()))
		if err != nil {
			return nil, err
		}
		if err := cont.Parse(data, 0); err != nil {
			return nil, fmt.Errorf("continuation of %q: %w", rec.Identifier, err)
		}
	}

	return entry, nil
}

// walkFunc receives each non-dot directory record with its decoded
// Rock Ridge entry, which is nil when the record carries none.
type walkFunc func(path string, rec *iso9660.DirectoryRecord, entry *rockridge.Entry) error

// walkVolume walks the directory tree depth-first. The first record
// of root is probed for an SP entry; the bytes-to-skip it declares
// applies to every System Use area on the volume.
func walkVolume(vol *iso9660.Volume, fn walkFunc) error {
	root := vol.RootDirectoryRecord()
	records, err := vol.ReadDirectory(root.Extent, root.DataLength)
	if err != nil {
		return err
	}

	bytesToSkip := 0
	if len(records) > 0 {
		first, err := parseRockRidge(vol, records[0], true, 0)
		if err != nil {
			return err
		}
		if first != nil {
			if sp := first.SharingProtocol(); sp != nil {
				bytesToSkip = int(sp.BytesToSkip)
				log.Debugf("SP entry found on root: bytes to skip %d", bytesToSkip)
			}
		}
	}

	return walkDirectory(vol, records, "/", bytesToSkip, fn)
}

func walkDirectory(vol *iso9660.Volume, records []*iso9660.DirectoryRecord, dir string, bytesToSkip int, fn walkFunc) error {
	for _, rec := range records {
		if rec.IsDot() || rec.IsDotDot() {
			continue
		}

		entry, err := parseRockRidge(vol, rec, false, bytesToSkip)
		if err != nil {
			return err
		}

		name := displayName(rec, entry)
		path := dir + name
		if err := fn(path, rec, entry); err != nil {
			return err
		}

		// Relocated directories reappear under their original parent;
		// descending into them here would visit their contents twice.
		if rec.IsDirectory() && (entry == nil || !entry.IsRelocated()) {
			children, err := vol.ReadDirectory(rec.Extent, rec.DataLength)
			if err != nil {
				return err
			}
			if err := walkDirectory(vol, children, path+"/", bytesToSkip, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// displayName prefers the Rock Ridge alternate name over the ISO9660
// identifier, which carries a ";1" version suffix on files.
func displayName(rec *iso9660.DirectoryRecord, entry *rockridge.Entry) string {
	if entry != nil {
		if name := entry.Name(); name != "" {
			return name
		}
	}
	name, _, _ := strings.Cut(rec.Identifier, ";")
	return name
}

// modeString renders POSIX mode bits the way ls does.
func modeString(mode uint32) string {
	var b strings.Builder
	switch mode & 0o170000 {
	case 0o040000:
		b.WriteByte('d')
	case 0o120000:
		b.WriteByte('l')
	case 0o020000:
		b.WriteByte('c')
	case 0o060000:
		b.WriteByte('b')
	case 0o010000:
		b.WriteByte('p')
	case 0o140000:
		b.WriteByte('s')
	default:
		b.WriteByte('-')
	}
	const rwx = "rwxrwxrwx"
	for i := 0; i < 9; i++ {
		if mode&(1<<uint(8-i)) != 0 {
			b.WriteByte(rwx[i])
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}
