package iec104

import "fmt"

/*
InformationElement is the closed tagged-variant catalogue of standardised
element types (spec.md §4.1, design note "Polymorphism over information
elements"). Rather than a class hierarchy, every standard element is a
concrete Go type implementing this interface; TypeId schemas (typeid.go)
reference elements only through it, so a schema and an InformationObject
never need to know which concrete type backs a slot.

Every element is immutable after construction and knows its own byte
width: Decode always consumes exactly Width() bytes, Encode always emits
exactly Width() bytes. The one exception is IeSegmentData, whose Width() is
-1 and whose length is whatever remains of its information object
(element_file.go).
*/
type InformationElement interface {
	// Width is the element's fixed length on the wire, in bytes, or -1 for
	// the variable-length IeSegmentData.
	Width() int
	// Encode appends the element's wire representation to dst and returns
	// the result.
	Encode(dst []byte) []byte
	// Decode consumes exactly Width() bytes from data and populates the
	// receiver. data must have length >= Width().
	Decode(data []byte) error
	String() string
}

// elementKind tags each catalogue entry used by a TypeId schema (typeid.go).
// It exists purely for schema declaration and decode dispatch; it is not
// part of the InformationElement interface itself.
type elementKind int

const (
	kindSIQ elementKind = iota
	kindDIQ
	kindQDS
	kindVTI
	kindBSI
	kindSCD
	kindNVA
	kindSVA
	kindR32
	kindBCR
	kindSEP
	kindSPE
	kindOCI
	kindQDP
	kindSCO
	kindDCO
	kindRCO
	kindQOI
	kindQCC
	kindQPM
	kindQPA
	kindQRP
	kindQOS
	kindCOI
	kindFBP
	kindCP16Time2a
	kindCP24Time2a
	kindCP56Time2a
	kindFRQ
	kindSRQ
	kindSCQ
	kindLSQ
	kindAFQ
	kindNOF
	kindNOS
	kindLOF
	kindLOS
	kindCHS
	kindSOF
	kindSegmentData
)

// newElement constructs a zero-valued InformationElement for kind, ready to
// have Decode called on it.
func newElement(k elementKind) InformationElement {
	switch k {
	case kindSIQ:
		return &IeSinglePoint{}
	case kindDIQ:
		return &IeDoublePoint{}
	case kindQDS:
		return &IeQuality{}
	case kindVTI:
		return &IeStepPosition{}
	case kindBSI:
		return &IeBitstring32{}
	case kindSCD:
		return &IeStatusAndChange{}
	case kindNVA:
		return &IeNormalized{}
	case kindSVA:
		return &IeScaled{}
	case kindR32:
		return &IeShortFloat{}
	case kindBCR:
		return &IeBinaryCounterReading{}
	case kindSEP:
		return &IeProtectionEvent{}
	case kindSPE:
		return &IeProtectionStartEvents{}
	case kindOCI:
		return &IeProtectionOutputCircuit{}
	case kindQDP:
		return &IeProtectionQuality{}
	case kindSCO:
		return &IeSingleCommand{}
	case kindDCO:
		return &IeDoubleCommand{}
	case kindRCO:
		return &IeRegulatingStepCommand{}
	case kindQOI:
		return &IeQualifierOfInterrogation{}
	case kindQCC:
		return &IeQualifierOfCounterInterrogation{}
	case kindQPM:
		return &IeQualifierOfParameterMV{}
	case kindQPA:
		return &IeQualifierOfParameterActivation{}
	case kindQRP:
		return &IeQualifierOfResetProcess{}
	case kindQOS:
		return &IeQualifierOfSetpoint{}
	case kindCOI:
		return &IeCauseOfInitialization{}
	case kindFBP:
		return &IeFixedTestBitPattern{}
	case kindCP16Time2a:
		return &IeCP16Time2a{}
	case kindCP24Time2a:
		return &IeCP24Time2a{}
	case kindCP56Time2a:
		return &IeCP56Time2a{}
	case kindFRQ:
		return &IeFileReadyQualifier{}
	case kindSRQ:
		return &IeSectionReadyQualifier{}
	case kindSCQ:
		return &IeSelectAndCallQualifier{}
	case kindLSQ:
		return &IeLastSectionQualifier{}
	case kindAFQ:
		return &IeAckFileQualifier{}
	case kindNOF:
		return &IeNameOfFile{}
	case kindNOS:
		return &IeNameOfSection{}
	case kindLOF:
		return &IeLengthOfFile{}
	case kindLOS:
		return &IeLengthOfSegment{}
	case kindCHS:
		return &IeChecksum{}
	case kindSOF:
		return &IeStatusOfFile{}
	case kindSegmentData:
		return &IeSegmentData{}
	default:
		panic(fmt.Sprintf("iec104: unregistered element kind %d", k))
	}
}
