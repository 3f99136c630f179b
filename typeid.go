package iec104

import "fmt"

// TypeID is the ASDU type identification, one byte (spec.md §3). [1,127] is
// the standard catalogue; [128,255] is reserved for private use and is
// never schema-checked — its payload passes through as opaque bytes
// (asdu.go).
type TypeID uint8

// The standard catalogue, companion standard 101 §7.2.1, matching the
// naming convention shared by every ASDU-level repo in the retrieval pack
// (marrasen-go-iecp5/asdu, rob-gra-go-iecp5/asdu/identifier.go).
const (
	_ TypeID = iota // 0: not used

	// Process information in monitor direction.
	M_SP_NA_1 // 1: single-point information
	M_SP_TA_1 // 2: single-point information with CP24Time2a
	M_DP_NA_1 // 3: double-point information
	M_DP_TA_1 // 4: double-point information with CP24Time2a
	M_ST_NA_1 // 5: step position information
	M_ST_TA_1 // 6: step position information with CP24Time2a
	M_BO_NA_1 // 7: bitstring of 32 bit
	M_BO_TA_1 // 8: bitstring of 32 bit with CP24Time2a
	M_ME_NA_1 // 9: measured value, normalized value
	M_ME_TA_1 // 10: measured value, normalized value with CP24Time2a
	M_ME_NB_1 // 11: measured value, scaled value
	M_ME_TB_1 // 12: measured value, scaled value with CP24Time2a
	M_ME_NC_1 // 13: measured value, short floating point number
	M_ME_TC_1 // 14: measured value, short floating point number with CP24Time2a
	M_IT_NA_1 // 15: integrated totals
	M_IT_TA_1 // 16: integrated totals with CP24Time2a
	M_EP_TA_1 // 17: event of protection equipment with CP24Time2a
	M_EP_TB_1 // 18: packed start events of protection equipment with CP24Time2a
	M_EP_TC_1 // 19: packed output circuit information of protection equipment with CP24Time2a
	M_PS_NA_1 // 20: packed single-point information with status change detection
	M_ME_ND_1 // 21: measured value, normalized value without quality descriptor
)

const (
	M_SP_TB_1 TypeID = iota + 30 // 30: single-point information with CP56Time2a
	M_DP_TB_1                    // 31: double-point information with CP56Time2a
	M_ST_TB_1                    // 32: step position information with CP56Time2a
	M_BO_TB_1                    // 33: bitstring of 32 bit with CP56Time2a
	M_ME_TD_1                    // 34: measured value, normalized value with CP56Time2a
	M_ME_TE_1                    // 35: measured value, scaled value with CP56Time2a
	M_ME_TF_1                    // 36: measured value, short floating point number with CP56Time2a
	M_IT_TB_1                    // 37: integrated totals with CP56Time2a
	M_EP_TD_1                    // 38: event of protection equipment with CP56Time2a
	M_EP_TE_1                    // 39: packed start events of protection equipment with CP56Time2a
	M_EP_TF_1                    // 40: packed output circuit information of protection equipment with CP56Time2a
)

const (
	// Process information in control direction.
	C_SC_NA_1 TypeID = iota + 45 // 45: single command
	C_DC_NA_1                    // 46: double command
	C_RC_NA_1                    // 47: regulating step command
	C_SE_NA_1                    // 48: set-point command, normalized value
	C_SE_NB_1                    // 49: set-point command, scaled value
	C_SE_NC_1                    // 50: set-point command, short floating point number
	C_BO_NA_1                    // 51: bitstring of 32 bit
)

const (
	C_SC_TA_1 TypeID = iota + 58 // 58: single command with CP56Time2a
	C_DC_TA_1                    // 59: double command with CP56Time2a
	C_RC_TA_1                    // 60: regulating step command with CP56Time2a
	C_SE_TA_1                    // 61: set-point command, normalized value with CP56Time2a
	C_SE_TB_1                    // 62: set-point command, scaled value with CP56Time2a
	C_SE_TC_1                    // 63: set-point command, short float with CP56Time2a
	C_BO_TA_1                    // 64: bitstring of 32 bit with CP56Time2a
)

const (
	// System information.
	M_EI_NA_1 TypeID = 70 // end of initialization
)

const (
	// System commands in control direction.
	C_IC_NA_1 TypeID = iota + 100 // 100: interrogation command
	C_CI_NA_1                     // 101: counter interrogation command
	C_RD_NA_1                     // 102: read command
	C_CS_NA_1                     // 103: clock synchronization command
	C_TS_NA_1                     // 104: test command
	C_RP_NA_1                     // 105: reset process command
	C_CD_NA_1                     // 106: delay acquisition command
	C_TS_TA_1                     // 107: test command with CP56Time2a
)

const (
	// Parameter commands.
	P_ME_NA_1 TypeID = iota + 110 // 110: parameter of measured value, normalized value
	P_ME_NB_1                     // 111: parameter of measured value, scaled value
	P_ME_NC_1                     // 112: parameter of measured value, short floating point number
	P_AC_NA_1                     // 113: parameter activation
)

const (
	// File transfer.
	F_FR_NA_1 TypeID = iota + 120 // 120: file ready
	F_SR_NA_1                     // 121: section ready
	F_SC_NA_1                     // 122: call directory / select file / call file / call section
	F_LS_NA_1                     // 123: last section / last segment
	F_AF_NA_1                     // 124: ack file / ack section
	F_SG_NA_1                     // 125: segment
	F_DR_TA_1                     // 126: directory
)

// typeSchema is the invariant structural schema for a standard TypeId: the
// fixed sequence of elements forming one information object, exclusive of
// the IOA (spec.md §3's "invariant structural schema").
type typeSchema struct {
	name     string
	elements []elementKind
}

func (s typeSchema) width() int {
	w := 0
	for _, k := range s.elements {
		el := newElement(k)
		if el.Width() < 0 {
			return -1 // variable width (file segment)
		}
		w += el.Width()
	}
	return w
}

var typeSchemas = map[TypeID]typeSchema{
	M_SP_NA_1: {"M_SP_NA_1", []elementKind{kindSIQ}},
	M_SP_TA_1: {"M_SP_TA_1", []elementKind{kindSIQ, kindCP24Time2a}},
	M_DP_NA_1: {"M_DP_NA_1", []elementKind{kindDIQ}},
	M_DP_TA_1: {"M_DP_TA_1", []elementKind{kindDIQ, kindCP24Time2a}},
	M_ST_NA_1: {"M_ST_NA_1", []elementKind{kindVTI, kindQDS}},
	M_ST_TA_1: {"M_ST_TA_1", []elementKind{kindVTI, kindQDS, kindCP24Time2a}},
	M_BO_NA_1: {"M_BO_NA_1", []elementKind{kindBSI, kindQDS}},
	M_BO_TA_1: {"M_BO_TA_1", []elementKind{kindBSI, kindQDS, kindCP24Time2a}},
	M_ME_NA_1: {"M_ME_NA_1", []elementKind{kindNVA, kindQDS}},
	M_ME_TA_1: {"M_ME_TA_1", []elementKind{kindNVA, kindQDS, kindCP24Time2a}},
	M_ME_NB_1: {"M_ME_NB_1", []elementKind{kindSVA, kindQDS}},
	M_ME_TB_1: {"M_ME_TB_1", []elementKind{kindSVA, kindQDS, kindCP24Time2a}},
	M_ME_NC_1: {"M_ME_NC_1", []elementKind{kindR32, kindQDS}},
	M_ME_TC_1: {"M_ME_TC_1", []elementKind{kindR32, kindQDS, kindCP24Time2a}},
	M_IT_NA_1: {"M_IT_NA_1", []elementKind{kindBCR}},
	M_IT_TA_1: {"M_IT_TA_1", []elementKind{kindBCR, kindCP24Time2a}},
	M_EP_TA_1: {"M_EP_TA_1", []elementKind{kindSEP, kindCP16Time2a, kindCP24Time2a}},
	M_EP_TB_1: {"M_EP_TB_1", []elementKind{kindSPE, kindQDP, kindCP16Time2a, kindCP24Time2a}},
	M_EP_TC_1: {"M_EP_TC_1", []elementKind{kindOCI, kindQDP, kindCP16Time2a, kindCP24Time2a}},
	M_PS_NA_1: {"M_PS_NA_1", []elementKind{kindSCD, kindQDS}},
	M_ME_ND_1: {"M_ME_ND_1", []elementKind{kindNVA}},

	M_SP_TB_1: {"M_SP_TB_1", []elementKind{kindSIQ, kindCP56Time2a}},
	M_DP_TB_1: {"M_DP_TB_1", []elementKind{kindDIQ, kindCP56Time2a}},
	M_ST_TB_1: {"M_ST_TB_1", []elementKind{kindVTI, kindQDS, kindCP56Time2a}},
	M_BO_TB_1: {"M_BO_TB_1", []elementKind{kindBSI, kindQDS, kindCP56Time2a}},
	M_ME_TD_1: {"M_ME_TD_1", []elementKind{kindNVA, kindQDS, kindCP56Time2a}},
	M_ME_TE_1: {"M_ME_TE_1", []elementKind{kindSVA, kindQDS, kindCP56Time2a}},
	M_ME_TF_1: {"M_ME_TF_1", []elementKind{kindR32, kindQDS, kindCP56Time2a}},
	M_IT_TB_1: {"M_IT_TB_1", []elementKind{kindBCR, kindCP56Time2a}},
	M_EP_TD_1: {"M_EP_TD_1", []elementKind{kindSEP, kindCP16Time2a, kindCP56Time2a}},
	M_EP_TE_1: {"M_EP_TE_1", []elementKind{kindSPE, kindQDP, kindCP16Time2a, kindCP56Time2a}},
	M_EP_TF_1: {"M_EP_TF_1", []elementKind{kindOCI, kindQDP, kindCP16Time2a, kindCP56Time2a}},

	C_SC_NA_1: {"C_SC_NA_1", []elementKind{kindSCO}},
	C_DC_NA_1: {"C_DC_NA_1", []elementKind{kindDCO}},
	C_RC_NA_1: {"C_RC_NA_1", []elementKind{kindRCO}},
	C_SE_NA_1: {"C_SE_NA_1", []elementKind{kindNVA, kindQOS}},
	C_SE_NB_1: {"C_SE_NB_1", []elementKind{kindSVA, kindQOS}},
	C_SE_NC_1: {"C_SE_NC_1", []elementKind{kindR32, kindQOS}},
	C_BO_NA_1: {"C_BO_NA_1", []elementKind{kindBSI}},

	C_SC_TA_1: {"C_SC_TA_1", []elementKind{kindSCO, kindCP56Time2a}},
	C_DC_TA_1: {"C_DC_TA_1", []elementKind{kindDCO, kindCP56Time2a}},
	C_RC_TA_1: {"C_RC_TA_1", []elementKind{kindRCO, kindCP56Time2a}},
	C_SE_TA_1: {"C_SE_TA_1", []elementKind{kindNVA, kindQOS, kindCP56Time2a}},
	C_SE_TB_1: {"C_SE_TB_1", []elementKind{kindSVA, kindQOS, kindCP56Time2a}},
	C_SE_TC_1: {"C_SE_TC_1", []elementKind{kindR32, kindQOS, kindCP56Time2a}},
	C_BO_TA_1: {"C_BO_TA_1", []elementKind{kindBSI, kindCP56Time2a}},

	M_EI_NA_1: {"M_EI_NA_1", []elementKind{kindCOI}},

	C_IC_NA_1: {"C_IC_NA_1", []elementKind{kindQOI}},
	C_CI_NA_1: {"C_CI_NA_1", []elementKind{kindQCC}},
	C_RD_NA_1: {"C_RD_NA_1", []elementKind{}},
	C_CS_NA_1: {"C_CS_NA_1", []elementKind{kindCP56Time2a}},
	C_TS_NA_1: {"C_TS_NA_1", []elementKind{kindFBP}},
	C_RP_NA_1: {"C_RP_NA_1", []elementKind{kindQRP}},
	C_CD_NA_1: {"C_CD_NA_1", []elementKind{kindCP16Time2a}},
	C_TS_TA_1: {"C_TS_TA_1", []elementKind{kindFBP, kindCP56Time2a}},

	P_ME_NA_1: {"P_ME_NA_1", []elementKind{kindNVA, kindQPM}},
	P_ME_NB_1: {"P_ME_NB_1", []elementKind{kindSVA, kindQPM}},
	P_ME_NC_1: {"P_ME_NC_1", []elementKind{kindR32, kindQPM}},
	P_AC_NA_1: {"P_AC_NA_1", []elementKind{kindQPA}},

	F_FR_NA_1: {"F_FR_NA_1", []elementKind{kindNOF, kindLOF, kindFRQ}},
	F_SR_NA_1: {"F_SR_NA_1", []elementKind{kindNOF, kindNOS, kindLOF, kindSRQ}},
	F_SC_NA_1: {"F_SC_NA_1", []elementKind{kindNOF, kindNOS, kindSCQ}},
	F_LS_NA_1: {"F_LS_NA_1", []elementKind{kindNOF, kindNOS, kindLSQ, kindCHS}},
	F_AF_NA_1: {"F_AF_NA_1", []elementKind{kindNOF, kindNOS, kindAFQ}},
	F_SG_NA_1: {"F_SG_NA_1", []elementKind{kindNOF, kindNOS, kindLOS, kindSegmentData}},
	F_DR_TA_1: {"F_DR_TA_1", []elementKind{kindNOF, kindLOF, kindSOF, kindCP56Time2a}},
}

// LookupTypeSchema returns the schema for a standard-range TypeId, or
// ok=false if id has no registered schema (a reserved or unallocated code
// in [1,127]).
func LookupTypeSchema(id TypeID) (schema typeSchema, ok bool) {
	schema, ok = typeSchemas[id]
	return
}

// IsPrivate reports whether id is in the private-use range [128,255],
// whose payload this library never schema-checks (spec.md §4.3).
func (id TypeID) IsPrivate() bool {
	return id >= 128
}

func (id TypeID) String() string {
	if s, ok := typeSchemas[id]; ok {
		return s.name
	}
	return fmt.Sprintf("TypeID(%d)", uint8(id))
}
