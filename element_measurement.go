package iec104

import (
	"fmt"
	"math"
)

// IeNormalized is NVA: normalised measured value, 2 bytes, signed 16-bit.
// The wire value divided by 32768 maps onto [-1, 1) (spec.md §4.1).
type IeNormalized struct {
	Raw int16
}

func (e *IeNormalized) Width() int { return 2 }

func (e *IeNormalized) Encode(dst []byte) []byte {
	return append(dst, serializeLittleEndianUint16(uint16(e.Raw))...)
}

func (e *IeNormalized) Decode(data []byte) error {
	e.Raw = parseLittleEndianInt16(data[:2])
	return nil
}

// Float returns the normalised value in [-1, 1).
func (e *IeNormalized) Float() float64 {
	return float64(e.Raw) / 32768.0
}

func (e *IeNormalized) String() string {
	return fmt.Sprintf("NVA(%g)", e.Float())
}

// IeScaled is SVA: scaled value, 2 bytes, signed 16-bit, used directly (the
// decimal point placement is a database convention outside the wire format).
type IeScaled struct {
	Value int16
}

func (e *IeScaled) Width() int { return 2 }

func (e *IeScaled) Encode(dst []byte) []byte {
	return append(dst, serializeLittleEndianUint16(uint16(e.Value))...)
}

func (e *IeScaled) Decode(data []byte) error {
	e.Value = parseLittleEndianInt16(data[:2])
	return nil
}

func (e *IeScaled) String() string {
	return fmt.Sprintf("SVA(%d)", e.Value)
}

// IeShortFloat is R32 (IEEE STD 754): short floating point number, 4 bytes,
// little-endian IEEE 754 single precision.
type IeShortFloat struct {
	Value float32
}

func (e *IeShortFloat) Width() int { return 4 }

func (e *IeShortFloat) Encode(dst []byte) []byte {
	return append(dst, serializeLittleEndianUint32(math.Float32bits(e.Value))...)
}

func (e *IeShortFloat) Decode(data []byte) error {
	e.Value = math.Float32frombits(parseLittleEndianUint32(data[:4]))
	return nil
}

func (e *IeShortFloat) String() string {
	return fmt.Sprintf("R32(%g)", e.Value)
}

// IeBinaryCounterReading is BCR: binary counter reading, 5 bytes: a signed
// 32-bit counter value followed by a sequence-number+flags byte (bits0-4 =
// sequence number, bit5 = carry, bit6 = counter adjusted, bit7 = invalid).
type IeBinaryCounterReading struct {
	Value      int32
	SequenceNo uint8
	Carry      bool
	Adjusted   bool
	Invalid    bool
}

func (e *IeBinaryCounterReading) Width() int { return 5 }

func (e *IeBinaryCounterReading) Encode(dst []byte) []byte {
	dst = append(dst, serializeLittleEndianUint32(uint32(e.Value))...)
	b := e.SequenceNo & 0x1f
	if e.Carry {
		b |= 1 << 5
	}
	if e.Adjusted {
		b |= 1 << 6
	}
	if e.Invalid {
		b |= 1 << 7
	}
	return append(dst, b)
}

func (e *IeBinaryCounterReading) Decode(data []byte) error {
	e.Value = parseLittleEndianInt32(data[:4])
	flags := data[4]
	e.SequenceNo = flags & 0x1f
	e.Carry = flags&(1<<5) != 0
	e.Adjusted = flags&(1<<6) != 0
	e.Invalid = flags&(1<<7) != 0
	return nil
}

func (e *IeBinaryCounterReading) String() string {
	return fmt.Sprintf("BCR(%d,seq=%d,carry=%v,adj=%v,iv=%v)", e.Value, e.SequenceNo, e.Carry, e.Adjusted, e.Invalid)
}

// Protection-equipment elements (spec.md §4.1 catalogue; TypeId 17-19,38-40).

// IeProtectionEvent is SEP: single event of protection equipment, one byte:
// bits0-1 = event state (DPI-shaped), bits2-7 = quality flags, kept in
// Quality at their wire bit positions.
type IeProtectionEvent struct {
	State   DoublePointValue
	Quality QualityDescriptor
}

func (e *IeProtectionEvent) Width() int { return 1 }

func (e *IeProtectionEvent) Encode(dst []byte) []byte {
	return append(dst, (byte(e.Quality)&^0x03)|(byte(e.State)&0x03))
}

func (e *IeProtectionEvent) Decode(data []byte) error {
	e.State = DoublePointValue(data[0] & 0x03)
	e.Quality = QualityDescriptor(data[0] &^ 0x03)
	return nil
}

func (e *IeProtectionEvent) String() string {
	return fmt.Sprintf("SEP(%s,%s)", e.State, e.Quality)
}

// IeProtectionStartEvents is SPE: start events of protection equipment, one
// byte of independent start flags (general start, phase L1/L2/L3, earth
// current, reverse direction).
type IeProtectionStartEvents struct {
	Flags byte
}

func (e *IeProtectionStartEvents) Width() int { return 1 }

func (e *IeProtectionStartEvents) Encode(dst []byte) []byte {
	return append(dst, e.Flags)
}

func (e *IeProtectionStartEvents) Decode(data []byte) error {
	e.Flags = data[0]
	return nil
}

func (e *IeProtectionStartEvents) String() string {
	return fmt.Sprintf("SPE(%#02x)", e.Flags)
}

// IeProtectionOutputCircuit is OCI: output circuit information of
// protection equipment, one byte of independent trip-command flags
// (general command, phase L1/L2/L3).
type IeProtectionOutputCircuit struct {
	Flags byte
}

func (e *IeProtectionOutputCircuit) Width() int { return 1 }

func (e *IeProtectionOutputCircuit) Encode(dst []byte) []byte {
	return append(dst, e.Flags)
}

func (e *IeProtectionOutputCircuit) Decode(data []byte) error {
	e.Flags = data[0]
	return nil
}

func (e *IeProtectionOutputCircuit) String() string {
	return fmt.Sprintf("OCI(%#02x)", e.Flags)
}

// IeProtectionQuality is QDP: quality descriptor for events of protection
// equipment, one byte, same bit layout as QDS plus the elapsed-time-invalid
// flag shared with the relay's operating-time element.
type IeProtectionQuality struct {
	Quality QualityDescriptor
}

func (e *IeProtectionQuality) Width() int { return 1 }

func (e *IeProtectionQuality) Encode(dst []byte) []byte {
	return append(dst, byte(e.Quality))
}

func (e *IeProtectionQuality) Decode(data []byte) error {
	e.Quality = QualityDescriptor(data[0])
	return nil
}

func (e *IeProtectionQuality) String() string {
	return fmt.Sprintf("QDP(%s)", e.Quality)
}

// IeFixedTestBitPattern is FBP: fixed test bit pattern, 2 bytes, used by
// the test-command TypeIds C_TS_NA_1/C_TS_TA_1 to exercise the link with a
// known value.
type IeFixedTestBitPattern struct {
	Pattern uint16
}

func (e *IeFixedTestBitPattern) Width() int { return 2 }

func (e *IeFixedTestBitPattern) Encode(dst []byte) []byte {
	return append(dst, serializeLittleEndianUint16(e.Pattern)...)
}

func (e *IeFixedTestBitPattern) Decode(data []byte) error {
	e.Pattern = parseLittleEndianUint16(data[:2])
	return nil
}

func (e *IeFixedTestBitPattern) String() string {
	return fmt.Sprintf("FBP(%#04x)", e.Pattern)
}

// IeCauseOfInitialization is COI: cause of initialization, one byte: bit7 =
// initialization after parameter change, bits0-6 = cause code.
type IeCauseOfInitialization struct {
	Cause            byte
	AfterParamChange bool
}

func (e *IeCauseOfInitialization) Width() int { return 1 }

func (e *IeCauseOfInitialization) Encode(dst []byte) []byte {
	b := e.Cause & 0x7f
	if e.AfterParamChange {
		b |= 0x80
	}
	return append(dst, b)
}

func (e *IeCauseOfInitialization) Decode(data []byte) error {
	e.Cause = data[0] & 0x7f
	e.AfterParamChange = data[0]&0x80 != 0
	return nil
}

func (e *IeCauseOfInitialization) String() string {
	return fmt.Sprintf("COI(%d,paramChange=%v)", e.Cause, e.AfterParamChange)
}
