package iec104

import "fmt"

// startByte is the fixed first octet of every APDU (spec.md §4.4).
const startByte = 0x68

// minApduLength and maxApduLength bound the length byte: an APDU's LENGTH
// field counts the bytes following it (4 control-field bytes plus, for
// I-format, the ASDU), and must fall in [4, 253].
const (
	minApduLength = 4
	maxApduLength = 253
)

/*
FrameFormat is the transmission frame format, carried in the low two bits
of the first control-field byte (spec.md §4.4):

	I-format: bit0 = 0
	S-format: bits0-1 = 01
	U-format: bits0-1 = 11
*/
type FrameFormat int

const (
	FormatI FrameFormat = iota
	FormatS
	FormatU
)

// UFunction is one of the six mutually exclusive U-format functions,
// encoded in the upper six bits of control-field byte 1. The wire byte is
// this value OR'd with 0x03 (the fixed U-format low bits).
type UFunction byte

const (
	FuncStartDtAct UFunction = 0x04
	FuncStartDtCon UFunction = 0x08
	FuncStopDtAct  UFunction = 0x10
	FuncStopDtCon  UFunction = 0x20
	FuncTestFrAct  UFunction = 0x40
	FuncTestFrCon  UFunction = 0x80
)

func (f UFunction) String() string {
	switch f {
	case FuncStartDtAct:
		return "STARTDT_ACT"
	case FuncStartDtCon:
		return "STARTDT_CON"
	case FuncStopDtAct:
		return "STOPDT_ACT"
	case FuncStopDtCon:
		return "STOPDT_CON"
	case FuncTestFrAct:
		return "TESTFR_ACT"
	case FuncTestFrCon:
		return "TESTFR_CON"
	default:
		return fmt.Sprintf("UFunction(%#02x)", byte(f))
	}
}

// apci is the decoded 4-byte control field of one APDU, tagged by Format.
// Only the fields relevant to Format are meaningful: SendSN/RecvSN for
// FormatI, RecvSN alone for FormatS, Function for FormatU.
type apci struct {
	Format   FrameFormat
	SendSN   uint16
	RecvSN   uint16
	Function UFunction
}

// encodeIFrame builds the 4-byte control field for an I-format APDU
// (spec.md §4.4): sendSN and recvSN are 15-bit, the low bit of bytes 1 and
// 3 is always 0.
func encodeIFrame(sendSN, recvSN uint16) [4]byte {
	return [4]byte{
		byte(sendSN << 1),
		byte(sendSN >> 7),
		byte(recvSN << 1),
		byte(recvSN >> 7),
	}
}

// encodeSFrame builds the 4-byte control field for an S-format APDU: byte1
// is fixed 0x01, recvSN occupies bytes 3-4 exactly as in I-format.
func encodeSFrame(recvSN uint16) [4]byte {
	return [4]byte{0x01, 0x00, byte(recvSN << 1), byte(recvSN >> 7)}
}

// encodeUFrame builds the 4-byte control field for a U-format APDU.
func encodeUFrame(fn UFunction) [4]byte {
	return [4]byte{byte(fn) | 0x03, 0x00, 0x00, 0x00}
}

// parseAPCI decodes a 4-byte control field, validating the strict
// single-bit U-frame rule (spec.md §4.4): exactly one of the six function
// bits may be set, and the reserved bytes 2-4 of a U-frame must be zero.
func parseAPCI(cf [4]byte) (apci, error) {
	switch {
	case cf[0]&0x01 == 0:
		return apci{
			Format: FormatI,
			SendSN: uint16(cf[0]>>1) | uint16(cf[1])<<7,
			RecvSN: uint16(cf[2]>>1) | uint16(cf[3])<<7,
		}, nil

	case cf[0]&0x03 == 0x01:
		return apci{
			Format: FormatS,
			RecvSN: uint16(cf[2]>>1) | uint16(cf[3])<<7,
		}, nil

	case cf[0]&0x03 == 0x03:
		upper := cf[0] &^ 0x03
		if cf[1] != 0 || cf[2] != 0 || cf[3] != 0 {
			return apci{}, &MalformedApdu{Reason: "U-frame reserved bytes must be zero"}
		}
		fn, err := singleUFunction(upper)
		if err != nil {
			return apci{}, err
		}
		return apci{Format: FormatU, Function: fn}, nil

	default:
		return apci{}, &MalformedApdu{Reason: fmt.Sprintf("unrecognised control field %02x", cf[0])}
	}
}

// singleUFunction validates that exactly one of the six U-function bits is
// set in upper (cf[0] with the low two control bits already masked off).
func singleUFunction(upper byte) (UFunction, error) {
	switch upper {
	case byte(FuncStartDtAct), byte(FuncStartDtCon),
		byte(FuncStopDtAct), byte(FuncStopDtCon),
		byte(FuncTestFrAct), byte(FuncTestFrCon):
		return UFunction(upper), nil
	default:
		return 0, &MalformedApdu{Reason: fmt.Sprintf("U-frame must set exactly one function bit, got %#02x", upper)}
	}
}
