// Package rockridge implements the Rock Ridge Interchange Protocol
// (RRIP) and the System Use Sharing Protocol (SUSP) it builds on: the
// typed System Use entries stored in ISO9660 directory records, the
// continuation-area mechanism for overflow, the layout algorithm that
// places POSIX metadata into a bounded directory record, and the
// queries that read that metadata back.
//
// SUSP 1.12 is implemented; Rock Ridge is supported at both revision
// 1.09 (as written by genisoimage) and 1.12.
package rockridge

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-iso9660/internal/types"
)

// decodeHeader validates the four-byte entry header against the
// expected signature and returns the declared entry length.
func decodeHeader(data []byte, sig types.Signature) (int, error) {
	if len(data) < 4 {
		return 0, fmt.Errorf("%w: %d bytes left for %s header", ErrTruncated, len(data), sig)
	}
	if types.Signature(data[0:2]) != sig {
		return 0, fmt.Errorf("%w: got %q, want %q", ErrUnknownSignature, data[0:2], sig)
	}
	if data[3] != types.SUEntryVersion {
		return 0, fmt.Errorf("%w: %d", ErrInvalidVersion, data[3])
	}
	suLen := int(data[2])
	if suLen > len(data) {
		return 0, fmt.Errorf("%w: %s entry declares %d bytes, %d available", ErrTruncated, sig, suLen, len(data))
	}
	return suLen, nil
}

// putHeader writes the four-byte entry header.
func putHeader(dst []byte, sig types.Signature, suLen int) {
	copy(dst[0:2], sig)
	dst[2] = byte(suLen)
	dst[3] = types.SUEntryVersion
}

// decodeBothUint32 reads a 32-bit value stored in both byte orders
// (little-endian copy first) and verifies the copies agree.
func decodeBothUint32(data []byte) (uint32, error) {
	le := binary.LittleEndian.Uint32(data[0:4])
	be := binary.BigEndian.Uint32(data[4:8])
	if le != be {
		return 0, fmt.Errorf("%w: le=%d be=%d", ErrEndianMismatch, le, be)
	}
	return le, nil
}

// putBothUint32 writes v in both byte orders, little-endian first.
func putBothUint32(dst []byte, v uint32) {
	binary.LittleEndian.PutUint32(dst[0:4], v)
	binary.BigEndian.PutUint32(dst[4:8], v)
}

// checkLength verifies a declared entry length against the type's
// fixed length.
func checkLength(sig types.Signature, got, want int) error {
	if got != want {
		return fmt.Errorf("%w: %s declares %d bytes, want %d", ErrInvalidLength, sig, got, want)
	}
	return nil
}
