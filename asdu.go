package iec104

import "fmt"

// Cause enumerates CauseOfTransmission codes [1,63] (spec.md §3). Only a
// subset of the codes is named here; any value in range decodes fine even
// without a constant.
type Cause uint8

const (
	CausePeriodic                  Cause = 1
	CauseBackground                Cause = 2
	CauseSpontaneous               Cause = 3
	CauseInitialized                Cause = 4
	CauseRequest                   Cause = 5
	CauseActivation                Cause = 6
	CauseActivationConfirmation    Cause = 7
	CauseDeactivation              Cause = 8
	CauseDeactivationConfirmation  Cause = 9
	CauseActivationTermination     Cause = 10
	CauseReturnInfoRemote          Cause = 11
	CauseReturnInfoLocal           Cause = 12
	CauseInterrogatedByStation     Cause = 20
	CauseInterrogatedByGroup1      Cause = 21 // groups 1-16 are 21-36
	CauseUnknownTypeID             Cause = 44
	CauseUnknownCause              Cause = 45
	CauseUnknownCommonAddress      Cause = 46
	CauseUnknownInformationObject  Cause = 47
)

// CauseOfTransmission is the COT byte's decoded form: a cause code plus the
// two independent flags packed alongside it on the wire (spec.md §3/§4.3).
type CauseOfTransmission struct {
	Cause           Cause `json:"cause"`
	Test            bool  `json:"test,omitempty"`
	NegativeConfirm bool  `json:"negativeConfirm,omitempty"`
}

func (c CauseOfTransmission) encode() byte {
	b := byte(c.Cause) & 0x3f
	if c.Test {
		b |= 0x80
	}
	if c.NegativeConfirm {
		b |= 0x40
	}
	return b
}

func decodeCOT(b byte) CauseOfTransmission {
	return CauseOfTransmission{
		Cause:           Cause(b & 0x3f),
		Test:            b&0x80 != 0,
		NegativeConfirm: b&0x40 != 0,
	}
}

func (c CauseOfTransmission) String() string {
	s := fmt.Sprintf("cot=%d", c.Cause)
	if c.Test {
		s += ",test"
	}
	if c.NegativeConfirm {
		s += ",neg"
	}
	return s
}

// ASDU is the Application Service Data Unit (spec.md §3/§4.3): a TypeID, a
// variable structure qualifier (isSequenceOfElements + sequenceLength), a
// cause of transmission, optional originator address, a common address, and
// a payload that is either a list of InformationObjects (standard TypeIds)
// or an opaque byte string (private TypeIds, [128,255]).
//
// Invariant (enforced by encodeASDU and decodeASDU): for a standard TypeId,
// Objects is non-empty, and when IsSequenceOfElements is true Objects has
// exactly one entry whose Elements holds sequenceLength sets concatenated.
type ASDU struct {
	TypeID               TypeID                `json:"typeId"`
	IsSequenceOfElements bool                  `json:"sequenceOfElements"`
	Cause                CauseOfTransmission   `json:"cause"`
	OriginatorAddress    uint8                 `json:"originatorAddress,omitempty"` // only meaningful when settings' cotFieldLength == 2
	CommonAddress        uint16                `json:"commonAddress"`
	Objects              []*InformationObject  `json:"objects,omitempty"`    // standard TypeIds
	PrivateInformation   []byte                `json:"privateInformation,omitempty"` // private TypeIds only
}

// elementsPerSet returns the schema's per-set element count for a
// standard TypeId ASDU, used to split a sequence-of-elements payload back
// into its logical sets.
func (a *ASDU) elementsPerSet() int {
	schema, ok := LookupTypeSchema(a.TypeID)
	if !ok {
		return 0
	}
	return len(schema.elements)
}

// encodeASDU serializes a into the exact byte layout of spec.md §4.3:
// TypeID | VSQ | COT | [originator] | commonAddress (1 or 2 bytes LE) |
// payload.
func encodeASDU(a *ASDU, s *ConnectionSettings) ([]byte, error) {
	dst := make([]byte, 0, 16)
	dst = append(dst, byte(a.TypeID))

	vsq := byte(len(a.Objects)) & 0x7f
	if !a.TypeID.IsPrivate() && len(a.Objects) == 0 {
		return nil, &MalformedPayload{Reason: "standard ASDU must have at least one information object"}
	}
	if a.IsSequenceOfElements {
		if len(a.Objects) != 1 {
			return nil, &MalformedPayload{Reason: "sequence-of-elements ASDU must have exactly one object"}
		}
		perSet := a.elementsPerSet()
		if perSet <= 0 || len(a.Objects[0].Elements)%perSet != 0 {
			return nil, &MalformedPayload{Reason: "sequence-of-elements ASDU element count is not a multiple of the type's element-set size"}
		}
		vsq = byte(len(a.Objects[0].Elements)/perSet) & 0x7f
		vsq |= 0x80
	}
	dst = append(dst, vsq)

	dst = append(dst, a.Cause.encode())
	if s.CotFieldLength == 2 {
		dst = append(dst, a.OriginatorAddress)
	}

	caBytes := serializeLittleEndianUint16(a.CommonAddress)
	dst = append(dst, caBytes[0])
	if s.CommonAddressFieldLength == 2 {
		dst = append(dst, caBytes[1])
	}

	if a.TypeID.IsPrivate() {
		dst = append(dst, a.PrivateInformation...)
		return dst, nil
	}

	if _, ok := LookupTypeSchema(a.TypeID); !ok {
		return nil, &UnknownTypeId{TypeId: a.TypeID}
	}

	if a.IsSequenceOfElements {
		obj := a.Objects[0]
		dst = encodeInformationObject(dst, obj.Address, s.IOAFieldLength, &InformationObject{Elements: obj.Elements})
	} else {
		for _, obj := range a.Objects {
			dst = encodeInformationObject(dst, obj.Address, s.IOAFieldLength, obj)
		}
	}

	return dst, nil
}

// decodeASDU parses data (the bytes following the APCI, i.e. the ASDU
// portion of an I-frame) according to s's field-length grid.
func decodeASDU(data []byte, s *ConnectionSettings) (*ASDU, error) {
	minLen := 2 + 1 + s.CommonAddressFieldLength
	if s.CotFieldLength == 2 {
		minLen++
	}
	if len(data) < minLen {
		return nil, &MalformedPayload{Reason: "ASDU shorter than fixed header"}
	}

	a := &ASDU{}
	a.TypeID = TypeID(data[0])
	vsq := data[1]
	a.IsSequenceOfElements = vsq&0x80 != 0
	seqLen := int(vsq & 0x7f)

	pos := 2
	a.Cause = decodeCOT(data[pos])
	pos++

	if s.CotFieldLength == 2 {
		a.OriginatorAddress = data[pos]
		pos++
	}

	caBuf := make([]byte, 2)
	caBuf[0] = data[pos]
	pos++
	if s.CommonAddressFieldLength == 2 {
		caBuf[1] = data[pos]
		pos++
	}
	a.CommonAddress = parseLittleEndianUint16(caBuf)

	if a.TypeID.IsPrivate() {
		a.PrivateInformation = append([]byte(nil), data[pos:]...)
		return a, nil
	}

	schema, ok := LookupTypeSchema(a.TypeID)
	if !ok {
		return nil, &UnknownTypeId{TypeId: a.TypeID}
	}

	if seqLen == 0 {
		return nil, &MalformedPayload{Reason: "ASDU declares zero information objects"}
	}

	if a.IsSequenceOfElements {
		obj, _, err := decodeSequenceOfElements(data[pos:], s.IOAFieldLength, schema, seqLen)
		if err != nil {
			return nil, err
		}
		a.Objects = []*InformationObject{obj}
		return a, nil
	}

	objs := make([]*InformationObject, 0, seqLen)
	rest := data[pos:]
	for i := 0; i < seqLen; i++ {
		obj, n, err := decodeInformationObject(rest, s.IOAFieldLength, schema)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
		rest = rest[n:]
	}
	a.Objects = objs
	return a, nil
}

// decodeSequenceOfElements handles VSQ.SQ=1: a single IOA followed by
// seqLen element sets back to back, with no repeated IOA (spec.md §3).
func decodeSequenceOfElements(data []byte, ioaLen int, schema typeSchema, seqLen int) (*InformationObject, int, error) {
	ioa, err := parseIOA(data, ioaLen)
	if err != nil {
		return nil, 0, err
	}
	pos := ioaLen

	elements := make([]InformationElement, 0, seqLen*len(schema.elements))
	for set := 0; set < seqLen; set++ {
		for _, k := range schema.elements {
			el := newElement(k)
			w := el.Width()
			if w < 0 {
				return nil, 0, &MalformedPayload{Reason: "variable-width elements are not valid inside a sequence-of-elements ASDU"}
			}
			if len(data) < pos+w {
				return nil, 0, &MalformedPayload{Reason: fmt.Sprintf("sequence-of-elements ASDU truncated decoding element %T", el)}
			}
			if err := el.Decode(data[pos : pos+w]); err != nil {
				return nil, 0, err
			}
			elements = append(elements, el)
			pos += w
		}
	}

	return &InformationObject{Address: ioa, Elements: elements}, pos, nil
}
