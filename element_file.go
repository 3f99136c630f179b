package iec104

import "fmt"

// File-transfer elements (spec.md §3's F_* TypeIds; companion standard
// 101 §7.3.6). NOF/NOS/LOF/LOS/CHS/SOF are all fixed width; IeSegmentData
// is the sole variable-width element in the catalogue — its Width()
// returns -1 as a sentinel meaning "consume whatever bytes remain in the
// enclosing information object", which object.go's decoder special-cases.

// IeNameOfFile is NOF, 2 bytes, little-endian file identifier.
type IeNameOfFile struct {
	Name uint16
}

func (e *IeNameOfFile) Width() int { return 2 }
func (e *IeNameOfFile) Encode(dst []byte) []byte {
	return append(dst, serializeLittleEndianUint16(e.Name)...)
}
func (e *IeNameOfFile) Decode(data []byte) error {
	e.Name = parseLittleEndianUint16(data[:2])
	return nil
}
func (e *IeNameOfFile) String() string { return fmt.Sprintf("NOF(%d)", e.Name) }

// IeNameOfSection is NOS, 2 bytes, little-endian section identifier.
type IeNameOfSection struct {
	Name uint16
}

func (e *IeNameOfSection) Width() int { return 2 }
func (e *IeNameOfSection) Encode(dst []byte) []byte {
	return append(dst, serializeLittleEndianUint16(e.Name)...)
}
func (e *IeNameOfSection) Decode(data []byte) error {
	e.Name = parseLittleEndianUint16(data[:2])
	return nil
}
func (e *IeNameOfSection) String() string { return fmt.Sprintf("NOS(%d)", e.Name) }

// IeLengthOfFile is LOF, 3 bytes, little-endian byte count of a file or
// section.
type IeLengthOfFile struct {
	Length uint32
}

func (e *IeLengthOfFile) Width() int { return 3 }
func (e *IeLengthOfFile) Encode(dst []byte) []byte {
	return append(dst, serializeLittleEndianUint24(e.Length)...)
}
func (e *IeLengthOfFile) Decode(data []byte) error {
	e.Length = parseLittleEndianUint24(data[:3])
	return nil
}
func (e *IeLengthOfFile) String() string { return fmt.Sprintf("LOF(%d)", e.Length) }

// IeLengthOfSegment is LOS, one byte, the length of the following segment
// payload, [0,255].
type IeLengthOfSegment struct {
	Length byte
}

func (e *IeLengthOfSegment) Width() int { return 1 }
func (e *IeLengthOfSegment) Encode(dst []byte) []byte {
	return append(dst, e.Length)
}
func (e *IeLengthOfSegment) Decode(data []byte) error {
	e.Length = data[0]
	return nil
}
func (e *IeLengthOfSegment) String() string { return fmt.Sprintf("LOS(%d)", e.Length) }

// IeChecksum is CHS, one byte.
type IeChecksum struct {
	Value byte
}

func (e *IeChecksum) Width() int { return 1 }
func (e *IeChecksum) Encode(dst []byte) []byte {
	return append(dst, e.Value)
}
func (e *IeChecksum) Decode(data []byte) error {
	e.Value = data[0]
	return nil
}
func (e *IeChecksum) String() string { return fmt.Sprintf("CHS(%#02x)", e.Value) }

// IeStatusOfFile is SOF, one byte: bits0-4 = status, bit5 = LFD (last file
// of directory), bit6 = FOR (file waiting for transfer), bit7 = FA (file
// transfer active).
type IeStatusOfFile struct {
	Status byte
	LFD    bool
	FOR    bool
	FA     bool
}

func (e *IeStatusOfFile) Width() int { return 1 }
func (e *IeStatusOfFile) Encode(dst []byte) []byte {
	b := e.Status & 0x1f
	if e.LFD {
		b |= 1 << 5
	}
	if e.FOR {
		b |= 1 << 6
	}
	if e.FA {
		b |= 1 << 7
	}
	return append(dst, b)
}
func (e *IeStatusOfFile) Decode(data []byte) error {
	e.Status = data[0] & 0x1f
	e.LFD = data[0]&(1<<5) != 0
	e.FOR = data[0]&(1<<6) != 0
	e.FA = data[0]&(1<<7) != 0
	return nil
}
func (e *IeStatusOfFile) String() string {
	return fmt.Sprintf("SOF(status=%d,lfd=%v,for=%v,fa=%v)", e.Status, e.LFD, e.FOR, e.FA)
}

// IeFileReadyQualifier is FRQ, one byte: bits0-6 reserved (0), bit7 =
// negative confirm (file cannot be transmitted).
type IeFileReadyQualifier struct {
	Negative bool
}

func (e *IeFileReadyQualifier) Width() int { return 1 }
func (e *IeFileReadyQualifier) Encode(dst []byte) []byte {
	if e.Negative {
		return append(dst, 0x80)
	}
	return append(dst, 0)
}
func (e *IeFileReadyQualifier) Decode(data []byte) error {
	e.Negative = data[0]&0x80 != 0
	return nil
}
func (e *IeFileReadyQualifier) String() string { return fmt.Sprintf("FRQ(neg=%v)", e.Negative) }

// IeSectionReadyQualifier is SRQ, one byte, same layout as FRQ for a
// section instead of a whole file.
type IeSectionReadyQualifier struct {
	Negative bool
}

func (e *IeSectionReadyQualifier) Width() int { return 1 }
func (e *IeSectionReadyQualifier) Encode(dst []byte) []byte {
	if e.Negative {
		return append(dst, 0x80)
	}
	return append(dst, 0)
}
func (e *IeSectionReadyQualifier) Decode(data []byte) error {
	e.Negative = data[0]&0x80 != 0
	return nil
}
func (e *IeSectionReadyQualifier) String() string { return fmt.Sprintf("SRQ(neg=%v)", e.Negative) }

// IeSelectAndCallQualifier is SCQ, one byte: bits0-3 = request/action
// (select/request/deactivate/delete), bits4-7 = qualifier (0=default,
// 1=positive ack, 2=negative ack).
type IeSelectAndCallQualifier struct {
	Action    byte
	Qualifier byte
}

func (e *IeSelectAndCallQualifier) Width() int { return 1 }
func (e *IeSelectAndCallQualifier) Encode(dst []byte) []byte {
	return append(dst, (e.Action&0x0f)|(e.Qualifier&0x0f)<<4)
}
func (e *IeSelectAndCallQualifier) Decode(data []byte) error {
	e.Action = data[0] & 0x0f
	e.Qualifier = (data[0] >> 4) & 0x0f
	return nil
}
func (e *IeSelectAndCallQualifier) String() string {
	return fmt.Sprintf("SCQ(action=%d,qualifier=%d)", e.Action, e.Qualifier)
}

// IeLastSectionQualifier is LSQ, one byte: 1=file transfer without
// deactivation, 2=file transfer with deactivation, 3=section transfer
// without deactivation, 4=section transfer with deactivation.
type IeLastSectionQualifier struct {
	Value byte
}

func (e *IeLastSectionQualifier) Width() int { return 1 }
func (e *IeLastSectionQualifier) Encode(dst []byte) []byte {
	return append(dst, e.Value)
}
func (e *IeLastSectionQualifier) Decode(data []byte) error {
	e.Value = data[0]
	return nil
}
func (e *IeLastSectionQualifier) String() string { return fmt.Sprintf("LSQ(%d)", e.Value) }

// IeAckFileQualifier is AFQ, one byte: bits0-6 = acknowledge code
// (positive/negative ack of file or section), bit7 = negative confirm.
type IeAckFileQualifier struct {
	Code     byte
	Negative bool
}

func (e *IeAckFileQualifier) Width() int { return 1 }
func (e *IeAckFileQualifier) Encode(dst []byte) []byte {
	b := e.Code & 0x7f
	if e.Negative {
		b |= 0x80
	}
	return append(dst, b)
}
func (e *IeAckFileQualifier) Decode(data []byte) error {
	e.Code = data[0] & 0x7f
	e.Negative = data[0]&0x80 != 0
	return nil
}
func (e *IeAckFileQualifier) String() string {
	return fmt.Sprintf("AFQ(code=%d,neg=%v)", e.Code, e.Negative)
}

// IeSegmentData is the variable-length raw segment payload of F_SG_NA_1.
// Width reports -1, a sentinel the InformationObject decoder (object.go)
// recognises as "take all bytes remaining in this object's slice" — the
// only element in the catalogue whose length is data-dependent rather than
// fixed by its TypeId schema, per the file-transfer service's own framing
// (the preceding LOS element carries the true length; anything beyond LOS
// bytes in the remainder is padding the caller should ignore).
type IeSegmentData struct {
	Data []byte
}

func (e *IeSegmentData) Width() int { return -1 }
func (e *IeSegmentData) Encode(dst []byte) []byte {
	return append(dst, e.Data...)
}
func (e *IeSegmentData) Decode(data []byte) error {
	e.Data = append([]byte(nil), data...)
	return nil
}
func (e *IeSegmentData) String() string { return fmt.Sprintf("Segment(%d bytes)", len(e.Data)) }
