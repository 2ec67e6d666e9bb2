// Package endian selects the byte order of the integer fields in pattern
// batch headers.
//
// Little-endian is the default; big-endian exists for consumers on
// big-endian hosts that read headers in place.
//
// All functions are safe for concurrent use; engines are stateless.
package endian

import "encoding/binary"

// EndianEngine combines binary.ByteOrder and binary.AppendByteOrder so a
// single value can both read fixed offsets and append to growing buffers.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// ForFlag returns the big-endian engine when bigEndian is set and the
// little-endian engine otherwise.
func ForFlag(bigEndian bool) EndianEngine {
	if bigEndian {
		return GetBigEndianEngine()
	}

	return GetLittleEndianEngine()
}

// IsBigEndian reports whether engine writes the most significant byte first.
func IsBigEndian(engine EndianEngine) bool {
	var probe [2]byte
	engine.PutUint16(probe[:], 0x0102)

	return probe[0] == 0x01
}
