package iec104

import "testing"

func TestAppendIOA(t *testing.T) {
	tests := []struct {
		name   string
		ioa    InformationObjectAddress
		ioaLen int
		want   []byte
	}{
		{"1 byte", 0xab, 1, []byte{0xab}},
		{"2 byte", 0x1234, 2, []byte{0x34, 0x12}},
		{"3 byte", 0x654321, 3, []byte{0x21, 0x43, 0x65}},
		{"100 in 3 bytes", 100, 3, []byte{0x64, 0x00, 0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := appendIOA(nil, tt.ioa, tt.ioaLen)
			if string(got) != string(tt.want) {
				t.Errorf("appendIOA() = % x, want % x", got, tt.want)
			}
			parsed, err := parseIOA(got, tt.ioaLen)
			if err != nil {
				t.Fatalf("parseIOA() error = %v", err)
			}
			if parsed != tt.ioa {
				t.Errorf("parseIOA() = %d, want %d", parsed, tt.ioa)
			}
		})
	}
}

func TestParseIOA_Truncated(t *testing.T) {
	_, err := parseIOA([]byte{0x01}, 3)
	if err == nil {
		t.Fatal("expected error for truncated IOA")
	}
	if _, ok := err.(*MalformedPayload); !ok {
		t.Errorf("error type = %T, want *MalformedPayload", err)
	}
}

func TestDecodeInformationObject_RoundTrip(t *testing.T) {
	schema, _ := LookupTypeSchema(M_DP_NA_1)
	obj := &InformationObject{
		Address:  1000,
		Elements: []InformationElement{&IeDoublePoint{Value: DPIOn, Quality: QualityBL}},
	}

	dst := encodeInformationObject(nil, obj.Address, 2, obj)
	got, n, err := decodeInformationObject(dst, 2, schema)
	if err != nil {
		t.Fatalf("decodeInformationObject() error = %v", err)
	}
	if n != len(dst) {
		t.Errorf("consumed %d bytes, want %d", n, len(dst))
	}
	if got.Address != obj.Address {
		t.Errorf("Address = %d, want %d", got.Address, obj.Address)
	}
	dp := got.Elements[0].(*IeDoublePoint)
	if dp.Value != DPIOn || dp.Quality != QualityBL {
		t.Errorf("decoded element = %+v, want Value=DPIOn Quality=QualityBL", dp)
	}
}

func TestDecodeInformationObject_TruncatedElement(t *testing.T) {
	schema, _ := LookupTypeSchema(M_ME_NC_1) // R32 + QDS, 5 bytes of elements
	data := append(appendIOA(nil, 1, 3), 0x00, 0x00) // only 2 of 5 element bytes present
	_, _, err := decodeInformationObject(data, 3, schema)
	if err == nil {
		t.Fatal("expected error for truncated information object")
	}
	if _, ok := err.(*MalformedPayload); !ok {
		t.Errorf("error type = %T, want *MalformedPayload", err)
	}
}

func TestDecodeInformationObject_VariableWidthMustBeLast(t *testing.T) {
	// kindSegmentData (F_SG_NA_1's last field) is the only variable-width
	// element, so any schema that places it mid-sequence should never be
	// registered; this test exercises the guard decodeInformationObject
	// would hit if one ever were.
	badSchema := typeSchema{name: "bad", elements: []elementKind{kindSegmentData, kindNOF}}
	data := append(appendIOA(nil, 1, 3), 0x01, 0x02, 0x03, 0x04, 0x05)
	_, _, err := decodeInformationObject(data, 3, badSchema)
	if err == nil {
		t.Fatal("expected error for variable-width element not last in schema")
	}
}
