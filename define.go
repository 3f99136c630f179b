package iec104

import (
	"encoding/binary"

	"github.com/sirupsen/logrus"
)

// _lg is the package-default logger, used by code paths not yet attached to
// a particular Endpoint/Connection. SetLogger replaces it; Endpoint and
// Connection also accept a logger at construction so independent endpoints
// can log to independent sinks.
var _lg = logrus.New()

// SetLogger replaces the package-default logger.
func SetLogger(lg *logrus.Logger) {
	if lg != nil {
		_lg = lg
	}
}

func parseLittleEndianUint16(x []byte) uint16 {
	return binary.LittleEndian.Uint16(x)
}

func parseLittleEndianInt16(x []byte) int16 {
	return int16(parseLittleEndianUint16(x))
}

func serializeLittleEndianUint16(i uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, i)
	return b
}

func parseLittleEndianUint32(x []byte) uint32 {
	return binary.LittleEndian.Uint32(x)
}

func parseLittleEndianInt32(x []byte) int32 {
	return int32(parseLittleEndianUint32(x))
}

func serializeLittleEndianUint32(i uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, i)
	return b
}

// parseLittleEndianUint24 reads a 3-byte little-endian unsigned value, used
// for the 3-byte file/section length field (LOF).
func parseLittleEndianUint24(x []byte) uint32 {
	return uint32(x[0]) | uint32(x[1])<<8 | uint32(x[2])<<16
}

// serializeLittleEndianUint24 writes the low 3 bytes of v, little-endian.
func serializeLittleEndianUint24(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16)}
}

// seqDiff returns the signed 15-bit difference a-b, in [-2^14, 2^14), used
// to decide whether sequence number a is "ahead of" b under wraparound
// modulo 2^15 (spec.md §8 property 3).
func seqDiff(a, b uint16) int16 {
	const mod = 1 << 15
	d := (int32(a) - int32(b)) % mod
	if d >= mod/2 {
		d -= mod
	} else if d < -mod/2 {
		d += mod
	}
	return int16(d)
}
