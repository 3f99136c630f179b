package iec104

import (
	"fmt"
	"time"
)

// IeCP16Time2a is the 2-byte "CP16Time2a" relative-time element: plain
// milliseconds, little-endian, no flags. Used for protection-equipment
// elapsed-operating-time fields (TypeId 106 and relay events).
type IeCP16Time2a struct {
	Milliseconds uint16
}

func (e *IeCP16Time2a) Width() int { return 2 }

func (e *IeCP16Time2a) Encode(dst []byte) []byte {
	return append(dst, serializeLittleEndianUint16(e.Milliseconds)...)
}

func (e *IeCP16Time2a) Decode(data []byte) error {
	e.Milliseconds = parseLittleEndianUint16(data[:2])
	return nil
}

func (e *IeCP16Time2a) String() string {
	return fmt.Sprintf("CP16Time2a(%dms)", e.Milliseconds)
}

// IeCP24Time2a is the 3-byte short time tag: milliseconds-in-minute (u16 LE)
// plus a minute byte whose bit7 is the invalid flag. Hour, day, month and
// year are not carried; decode reconstructs only the minute/second/ms.
type IeCP24Time2a struct {
	Minute       uint8
	Milliseconds uint16 // milliseconds within the minute, [0, 59999]
	Invalid      bool
}

func (e *IeCP24Time2a) Width() int { return 3 }

func (e *IeCP24Time2a) Encode(dst []byte) []byte {
	dst = append(dst, serializeLittleEndianUint16(e.Milliseconds)...)
	b := e.Minute & 0x3f
	if e.Invalid {
		b |= 0x80
	}
	return append(dst, b)
}

func (e *IeCP24Time2a) Decode(data []byte) error {
	e.Milliseconds = parseLittleEndianUint16(data[:2])
	e.Minute = data[2] & 0x3f
	e.Invalid = data[2]&0x80 != 0
	return nil
}

func (e *IeCP24Time2a) String() string {
	return fmt.Sprintf("CP24Time2a(min=%d,ms=%d,iv=%v)", e.Minute, e.Milliseconds, e.Invalid)
}

/*
IeCP56Time2a is the 7-byte long time tag (spec.md §4.1):

	byte 0-1: milliseconds-in-minute, u16 LE, [0,59999]
	byte 2:   minute [0,59] in bits0-5, IV flag in bit7
	byte 3:   hour [0,23] in bits0-4, SU (summer time) flag in bit7
	byte 4:   day of month [1,31] in bits0-4, day of week [1,7] in bits5-7
	byte 5:   month [1,12] in bits0-3
	byte 6:   year-within-century [0,99] in bits0-6

This fixes the historical bug spec.md §4.1 calls out explicitly: milliseconds
go in the low two bytes, least-significant byte first, and the minute byte's
bit 7 is the invalid flag — not part of the minute value. A Time in
[2000-01-01, 2099-12-31] round-trips through Encode/Decode to millisecond
precision (the year field has only two digits on the wire; decode always
reconstructs within the 2000-2099 century — see DESIGN.md).
*/
type IeCP56Time2a struct {
	Time        time.Time
	Invalid     bool
	SummerTime  bool
	DayOfWeek   int // ISO weekday, 1=Monday .. 7=Sunday; 0 = not set
}

func (e *IeCP56Time2a) Width() int { return 7 }

func (e *IeCP56Time2a) Encode(dst []byte) []byte {
	if e.Invalid || e.Time.IsZero() {
		return append(dst, 0, 0, 0x80, 0, 0, 0, 0)
	}

	t := e.Time
	millis := uint16(t.Second())*1000 + uint16(t.Nanosecond()/1e6)
	dst = append(dst, serializeLittleEndianUint16(millis)...)

	minuteByte := byte(t.Minute()) & 0x3f

	hourByte := byte(t.Hour()) & 0x1f
	if e.SummerTime {
		hourByte |= 0x80
	}

	dow := e.DayOfWeek
	if dow == 0 {
		dow = int(t.Weekday())
		if dow == 0 {
			dow = 7 // Go's Sunday=0 -> ISO Sunday=7
		}
	}
	dayByte := byte(t.Day())&0x1f | byte(dow&0x07)<<5

	monthByte := byte(t.Month()) & 0x0f

	year := t.Year() % 100
	yearByte := byte(year) & 0x7f

	dst = append(dst, minuteByte, hourByte, dayByte, monthByte, yearByte)
	return dst
}

func (e *IeCP56Time2a) Decode(data []byte) error {
	if len(data) < 7 {
		return &MalformedPayload{Reason: "CP56Time2a needs 7 bytes"}
	}

	e.Invalid = data[2]&0x80 != 0
	if e.Invalid {
		e.Time = time.Time{}
		return nil
	}

	millis := parseLittleEndianUint16(data[0:2])
	minute := int(data[2] & 0x3f)
	e.SummerTime = data[3]&0x80 != 0
	hour := int(data[3] & 0x1f)
	e.DayOfWeek = int((data[4] >> 5) & 0x07)
	day := int(data[4] & 0x1f)
	month := time.Month(data[5] & 0x0f)
	year := 2000 + int(data[6]&0x7f)

	sec := int(millis / 1000)
	nsec := int(millis%1000) * 1e6

	e.Time = time.Date(year, month, day, hour, minute, sec, nsec, time.UTC)
	return nil
}

func (e *IeCP56Time2a) String() string {
	if e.Invalid {
		return "CP56Time2a(invalid)"
	}
	return fmt.Sprintf("CP56Time2a(%s)", e.Time.Format("2006-01-02T15:04:05.000"))
}
