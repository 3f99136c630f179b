package iec104

import "testing"

func TestParseAPCI_IFrame(t *testing.T) {
	type args struct {
		cf [4]byte
	}
	tests := []struct {
		name       string
		args       args
		wantSendSN uint16
		wantRecvSN uint16
	}{
		{"all zero", args{[4]byte{0x00, 0x00, 0x00, 0x00}}, 0, 0},
		{"sendSN one", args{[4]byte{0x02, 0x00, 0x00, 0x00}}, 1, 0},
		{"recvSN one", args{[4]byte{0x00, 0x00, 0x02, 0x00}}, 0, 1},
		{"sendSN high byte", args{[4]byte{0x00, 0x01, 0x00, 0x00}}, 128, 0},
		{"sendSN max 15 bit", args{[4]byte{0xfe, 0xff, 0x00, 0x00}}, 0x7fff, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAPCI(tt.args.cf)
			if err != nil {
				t.Fatalf("parseAPCI() error = %v", err)
			}
			if got.Format != FormatI {
				t.Errorf("Format = %v, want FormatI", got.Format)
			}
			if got.SendSN != tt.wantSendSN {
				t.Errorf("SendSN = %d, want %d", got.SendSN, tt.wantSendSN)
			}
			if got.RecvSN != tt.wantRecvSN {
				t.Errorf("RecvSN = %d, want %d", got.RecvSN, tt.wantRecvSN)
			}
		})
	}
}

func TestParseAPCI_SFrame(t *testing.T) {
	got, err := parseAPCI([4]byte{0x01, 0x00, 0x02, 0x00})
	if err != nil {
		t.Fatalf("parseAPCI() error = %v", err)
	}
	if got.Format != FormatS {
		t.Errorf("Format = %v, want FormatS", got.Format)
	}
	if got.RecvSN != 1 {
		t.Errorf("RecvSN = %d, want 1", got.RecvSN)
	}
}

func TestParseAPCI_UFrame(t *testing.T) {
	tests := []struct {
		name string
		fn   UFunction
	}{
		{"STARTDT_ACT", FuncStartDtAct},
		{"STARTDT_CON", FuncStartDtCon},
		{"STOPDT_ACT", FuncStopDtAct},
		{"STOPDT_CON", FuncStopDtCon},
		{"TESTFR_ACT", FuncTestFrAct},
		{"TESTFR_CON", FuncTestFrCon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf := encodeUFrame(tt.fn)
			got, err := parseAPCI(cf)
			if err != nil {
				t.Fatalf("parseAPCI() error = %v", err)
			}
			if got.Format != FormatU {
				t.Errorf("Format = %v, want FormatU", got.Format)
			}
			if got.Function != tt.fn {
				t.Errorf("Function = %v, want %v", got.Function, tt.fn)
			}
		})
	}
}

func TestParseAPCI_UFrameMultipleFunctionBits(t *testing.T) {
	// STARTDT_ACT (0x04) | STOPDT_ACT (0x10), plus the fixed U-format bits.
	cf := [4]byte{0x04 | 0x10 | 0x03, 0x00, 0x00, 0x00}
	_, err := parseAPCI(cf)
	if err == nil {
		t.Fatal("expected error for multiple U-frame function bits")
	}
	if _, ok := err.(*MalformedApdu); !ok {
		t.Errorf("error type = %T, want *MalformedApdu", err)
	}
}

func TestParseAPCI_UFrameReservedBytesNonZero(t *testing.T) {
	cf := [4]byte{0x04 | 0x03, 0x01, 0x00, 0x00}
	_, err := parseAPCI(cf)
	if err == nil {
		t.Fatal("expected error for non-zero U-frame reserved bytes")
	}
}

func TestParseAPCI_UFrameNoFunctionBits(t *testing.T) {
	cf := [4]byte{0x03, 0x00, 0x00, 0x00}
	_, err := parseAPCI(cf)
	if err == nil {
		t.Fatal("expected error for U-frame with no function bits set")
	}
}

func TestEncodeIFrame_S2Scenario(t *testing.T) {
	// Spec.md §8 S2: server has decoded one I-frame, recvSeq should read 1.
	cf := encodeIFrame(0, 1)
	if cf != [4]byte{0x00, 0x00, 0x02, 0x00} {
		t.Errorf("encodeIFrame(0,1) = %#v, want {0x00,0x00,0x02,0x00}", cf)
	}
}

func TestEncodeSFrame_S3Scenario(t *testing.T) {
	// Spec.md §8 S3: server emits an S-frame carrying recvSeq=1 after t2.
	cf := encodeSFrame(1)
	if cf != [4]byte{0x01, 0x00, 0x02, 0x00} {
		t.Errorf("encodeSFrame(1) = %#v, want {0x01,0x00,0x02,0x00}", cf)
	}
}

func Test_seqDiff(t *testing.T) {
	tests := []struct {
		name string
		a, b uint16
		want int16
	}{
		{"equal", 10, 10, 0},
		{"a ahead by one", 11, 10, 1},
		{"a behind by one", 10, 11, -1},
		{"wrap forward", 0, 0x7fff, 1},
		{"wrap backward", 0x7fff, 0, -1},
		{"max positive", 0x3fff, 0, 0x3fff},
		{"max negative", 0, 0x4000, -0x4000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := seqDiff(tt.a, tt.b); got != tt.want {
				t.Errorf("seqDiff(%d,%d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := seqDiff(tt.a, tt.b); got < -1<<14 || got >= 1<<14 {
				t.Errorf("seqDiff(%d,%d) = %d out of [-2^14,2^14)", tt.a, tt.b, got)
			}
		})
	}
}
