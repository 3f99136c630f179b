package iec104

import "fmt"

// InformationObjectAddress is the IOA (spec.md §3): 1, 2 or 3 octets on the
// wire per ConnectionSettings.IOAFieldLength, always carried here as a
// plain uint32 with the unused high bits left zero.
type InformationObjectAddress = uint32

// InformationObject is one addressed element-set instance inside an ASDU:
// an IOA followed by the fixed sequence of InformationElements its TypeId's
// schema declares (typeid.go). For a "sequence of elements" ASDU
// (VSQ.SQ=1) the wire carries only the first IOA; asdu.go represents such an
// ASDU as a single InformationObject whose Address is that IOA and whose
// Elements hold every set concatenated. The implied addresses of the later
// sets are not computed.
type InformationObject struct {
	Address  InformationObjectAddress `json:"address"`
	Elements []InformationElement     `json:"elements"`
}

// encodeInformationObject appends ioa (using ioaLen octets, little-endian)
// followed by the wire encoding of every element in obj.Elements, in order.
func encodeInformationObject(dst []byte, ioa InformationObjectAddress, ioaLen int, obj *InformationObject) []byte {
	dst = appendIOA(dst, ioa, ioaLen)
	for _, el := range obj.Elements {
		dst = el.Encode(dst)
	}
	return dst
}

func appendIOA(dst []byte, ioa InformationObjectAddress, ioaLen int) []byte {
	b := serializeLittleEndianUint32(ioa)
	return append(dst, b[:ioaLen]...)
}

func parseIOA(data []byte, ioaLen int) (InformationObjectAddress, error) {
	if len(data) < ioaLen {
		return 0, &MalformedPayload{Reason: "truncated information object address"}
	}
	buf := make([]byte, 4)
	copy(buf, data[:ioaLen])
	return parseLittleEndianUint32(buf), nil
}

// decodeInformationObject reads one IOA (ioaLen octets) plus the schema's
// element sequence from data, returning the object and how many bytes it
// consumed. schema.elements containing kindSegmentData (width -1) consumes
// every remaining byte in data for that element, per IeSegmentData's
// documented sentinel.
func decodeInformationObject(data []byte, ioaLen int, schema typeSchema) (*InformationObject, int, error) {
	ioa, err := parseIOA(data, ioaLen)
	if err != nil {
		return nil, 0, err
	}
	pos := ioaLen

	elements := make([]InformationElement, 0, len(schema.elements))
	for i, k := range schema.elements {
		el := newElement(k)
		w := el.Width()
		if w < 0 {
			if i != len(schema.elements)-1 {
				return nil, 0, &MalformedPayload{Reason: fmt.Sprintf("variable-width element %T is not last in schema", el)}
			}
			w = len(data) - pos
			if w < 0 {
				w = 0
			}
		}
		if len(data) < pos+w {
			return nil, 0, &MalformedPayload{Reason: fmt.Sprintf("information object truncated decoding element %T", el)}
		}
		if err := el.Decode(data[pos : pos+w]); err != nil {
			return nil, 0, err
		}
		elements = append(elements, el)
		pos += w
	}

	return &InformationObject{Address: ioa, Elements: elements}, pos, nil
}
