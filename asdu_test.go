package iec104

import (
	"reflect"
	"testing"
)

func TestCauseOfTransmission_EncodeDecode(t *testing.T) {
	tests := []struct {
		name string
		cot  CauseOfTransmission
		want byte
	}{
		{"spontaneous", CauseOfTransmission{Cause: CauseSpontaneous}, 0x03},
		{"activation with test flag", CauseOfTransmission{Cause: CauseActivation, Test: true}, 0x86},
		{"negative confirm", CauseOfTransmission{Cause: CauseActivationConfirmation, NegativeConfirm: true}, 0x47},
		{"both flags", CauseOfTransmission{Cause: 1, Test: true, NegativeConfirm: true}, 0xc1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cot.encode(); got != tt.want {
				t.Errorf("encode() = %#02x, want %#02x", got, tt.want)
			}
			if got := decodeCOT(tt.want); got != tt.cot {
				t.Errorf("decodeCOT(%#02x) = %+v, want %+v", tt.want, got, tt.cot)
			}
		})
	}
}

// TestEncodeASDU_S2Scenario reproduces spec.md §8 S2: M_ME_NB_1, cause=3,
// commonAddress=1, IOA=100 carrying scaled value 1234 with quality 0.
func TestEncodeASDU_S2Scenario(t *testing.T) {
	settings := NewConnectionSettings()
	a := &ASDU{
		TypeID:        M_ME_NB_1,
		Cause:         CauseOfTransmission{Cause: CauseSpontaneous},
		CommonAddress: 1,
		Objects: []*InformationObject{
			{
				Address: 100,
				Elements: []InformationElement{
					&IeScaled{Value: 1234},
					&IeQuality{Quality: 0},
				},
			},
		},
	}

	got, err := encodeASDU(a, settings)
	if err != nil {
		t.Fatalf("encodeASDU() error = %v", err)
	}

	want := []byte{0x0b, 0x01, 0x03, 0x00, 0x01, 0x00, 0x64, 0x00, 0x00, 0xd2, 0x04, 0x00}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("encodeASDU() = % x, want % x", got, want)
	}

	decoded, err := decodeASDU(got, settings)
	if err != nil {
		t.Fatalf("decodeASDU() error = %v", err)
	}
	if decoded.TypeID != a.TypeID || decoded.CommonAddress != a.CommonAddress {
		t.Errorf("decoded header mismatch: %+v", decoded)
	}
	if len(decoded.Objects) != 1 || decoded.Objects[0].Address != 100 {
		t.Fatalf("decoded object mismatch: %+v", decoded.Objects)
	}
	sv, ok := decoded.Objects[0].Elements[0].(*IeScaled)
	if !ok || sv.Value != 1234 {
		t.Errorf("decoded scaled value = %+v, want 1234", decoded.Objects[0].Elements[0])
	}
}

// TestASDU_RoundTrip covers spec.md §8 property 1: every combination of
// cotFieldLength, commonAddressFieldLength and ioaFieldLength round-trips.
func TestASDU_RoundTrip(t *testing.T) {
	for _, cotLen := range []int{1, 2} {
		for _, caLen := range []int{1, 2} {
			for _, ioaLen := range []int{1, 2, 3} {
				settings := NewConnectionSettings().
					SetCotFieldLength(cotLen).
					SetCommonAddressFieldLength(caLen).
					SetIOAFieldLength(ioaLen)

				a := &ASDU{
					TypeID:            M_SP_NA_1,
					Cause:             CauseOfTransmission{Cause: CauseSpontaneous, Test: true},
					OriginatorAddress: 7,
					CommonAddress:     42,
					Objects: []*InformationObject{
						{Address: 5, Elements: []InformationElement{&IeSinglePoint{Value: true, Quality: QualityIV}}},
						{Address: 6, Elements: []InformationElement{&IeSinglePoint{Value: false, Quality: 0}}},
					},
				}

				raw, err := encodeASDU(a, settings)
				if err != nil {
					t.Fatalf("cot=%d ca=%d ioa=%d: encodeASDU() error = %v", cotLen, caLen, ioaLen, err)
				}
				got, err := decodeASDU(raw, settings)
				if err != nil {
					t.Fatalf("cot=%d ca=%d ioa=%d: decodeASDU() error = %v", cotLen, caLen, ioaLen, err)
				}

				if got.TypeID != a.TypeID {
					t.Errorf("TypeID = %v, want %v", got.TypeID, a.TypeID)
				}
				if got.CommonAddress != a.CommonAddress {
					t.Errorf("CommonAddress = %v, want %v", got.CommonAddress, a.CommonAddress)
				}
				if cotLen == 2 && got.OriginatorAddress != a.OriginatorAddress {
					t.Errorf("OriginatorAddress = %v, want %v", got.OriginatorAddress, a.OriginatorAddress)
				}
				if got.Cause != a.Cause {
					t.Errorf("Cause = %+v, want %+v", got.Cause, a.Cause)
				}
				if len(got.Objects) != len(a.Objects) {
					t.Fatalf("len(Objects) = %d, want %d", len(got.Objects), len(a.Objects))
				}
				for i, obj := range got.Objects {
					if obj.Address != a.Objects[i].Address {
						t.Errorf("object[%d].Address = %d, want %d", i, obj.Address, a.Objects[i].Address)
					}
				}
			}
		}
	}
}

// TestASDU_SequenceOfElementsRoundTrip covers the VSQ.SQ=1 branch: a single
// object whose Elements holds sequenceLength sets concatenated.
func TestASDU_SequenceOfElementsRoundTrip(t *testing.T) {
	settings := NewConnectionSettings()
	a := &ASDU{
		TypeID:               M_ME_NB_1,
		IsSequenceOfElements: true,
		Cause:                CauseOfTransmission{Cause: CauseSpontaneous},
		CommonAddress:        1,
		Objects: []*InformationObject{
			{
				Address: 10,
				Elements: []InformationElement{
					&IeScaled{Value: 100}, &IeQuality{},
					&IeScaled{Value: 200}, &IeQuality{},
					&IeScaled{Value: 300}, &IeQuality{},
				},
			},
		},
	}

	raw, err := encodeASDU(a, settings)
	if err != nil {
		t.Fatalf("encodeASDU() error = %v", err)
	}
	if raw[1] != 0x83 { // SQ=1, sequenceLength=3
		t.Errorf("VSQ byte = %#02x, want 0x83", raw[1])
	}

	got, err := decodeASDU(raw, settings)
	if err != nil {
		t.Fatalf("decodeASDU() error = %v", err)
	}
	if !got.IsSequenceOfElements {
		t.Fatal("IsSequenceOfElements = false, want true")
	}
	if len(got.Objects) != 1 {
		t.Fatalf("len(Objects) = %d, want 1", len(got.Objects))
	}
	if len(got.Objects[0].Elements) != 6 {
		t.Fatalf("len(Elements) = %d, want 6", len(got.Objects[0].Elements))
	}
	v1 := got.Objects[0].Elements[0].(*IeScaled).Value
	v2 := got.Objects[0].Elements[2].(*IeScaled).Value
	v3 := got.Objects[0].Elements[4].(*IeScaled).Value
	if v1 != 100 || v2 != 200 || v3 != 300 {
		t.Errorf("decoded values = %d,%d,%d, want 100,200,300", v1, v2, v3)
	}
}

// TestDecodeASDU_S6Scenario covers the private-TypeId passthrough case.
func TestDecodeASDU_S6Scenario(t *testing.T) {
	settings := NewConnectionSettings()
	a := &ASDU{
		TypeID:             TypeID(200),
		Cause:              CauseOfTransmission{Cause: CauseSpontaneous},
		CommonAddress:      1,
		PrivateInformation: []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06},
	}

	raw, err := encodeASDU(a, settings)
	if err != nil {
		t.Fatalf("encodeASDU() error = %v", err)
	}

	got, err := decodeASDU(raw, settings)
	if err != nil {
		t.Fatalf("decodeASDU() error = %v", err)
	}
	if !reflect.DeepEqual(got.PrivateInformation, a.PrivateInformation) {
		t.Errorf("PrivateInformation = % x, want % x", got.PrivateInformation, a.PrivateInformation)
	}
}

func TestDecodeASDU_UnknownTypeId(t *testing.T) {
	settings := NewConnectionSettings()
	// TypeId 127 is standard-range but has no registered schema.
	raw := []byte{127, 0x01, 0x03, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00}
	_, err := decodeASDU(raw, settings)
	if err == nil {
		t.Fatal("expected UnknownTypeId error")
	}
	if _, ok := err.(*UnknownTypeId); !ok {
		t.Errorf("error type = %T, want *UnknownTypeId", err)
	}
}

func TestDecodeASDU_MalformedShortHeader(t *testing.T) {
	settings := NewConnectionSettings()
	_, err := decodeASDU([]byte{0x0b, 0x01}, settings)
	if err == nil {
		t.Fatal("expected MalformedPayload error")
	}
	if _, ok := err.(*MalformedPayload); !ok {
		t.Errorf("error type = %T, want *MalformedPayload", err)
	}
}
