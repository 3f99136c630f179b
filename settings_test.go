package iec104

import (
	"testing"
	"time"
)

func TestNewConnectionSettings_Defaults(t *testing.T) {
	s := NewConnectionSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings failed validation: %v", err)
	}
	if s.T1 != 15*time.Second || s.T2 != 10*time.Second || s.T3 != 20*time.Second {
		t.Errorf("default timers = %v/%v/%v, want 15s/10s/20s", s.T1, s.T2, s.T3)
	}
	if s.K != 12 || s.W != 8 {
		t.Errorf("default k/w = %d/%d, want 12/8", s.K, s.W)
	}
}

func TestConnectionSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConnectionSettings)
		wantErr bool
	}{
		{"t2 equal to t1", func(s *ConnectionSettings) { s.T1 = time.Second; s.T2 = time.Second }, true},
		{"t2 greater than t1", func(s *ConnectionSettings) { s.T1 = time.Second; s.T2 = 2 * time.Second }, true},
		{"bad cot field length", func(s *ConnectionSettings) { s.CotFieldLength = 3 }, true},
		{"bad common address field length", func(s *ConnectionSettings) { s.CommonAddressFieldLength = 0 }, true},
		{"bad ioa field length", func(s *ConnectionSettings) { s.IOAFieldLength = 4 }, true},
		{"zero k", func(s *ConnectionSettings) { s.K = 0 }, true},
		{"zero w", func(s *ConnectionSettings) { s.W = 0 }, true},
		{"all valid", func(s *ConnectionSettings) {}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewConnectionSettings()
			tt.mutate(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConnectionSettings_SettersIgnoreInvalidValues(t *testing.T) {
	s := NewConnectionSettings()
	s.SetCotFieldLength(5)
	if s.CotFieldLength != DefaultCotFieldLength {
		t.Errorf("CotFieldLength = %d, want unchanged default %d", s.CotFieldLength, DefaultCotFieldLength)
	}
	s.SetIOAFieldLength(0)
	if s.IOAFieldLength != DefaultIOAFieldLength {
		t.Errorf("IOAFieldLength = %d, want unchanged default %d", s.IOAFieldLength, DefaultIOAFieldLength)
	}
	s.SetK(-1)
	if s.K != DefaultK {
		t.Errorf("K = %d, want unchanged default %d", s.K, DefaultK)
	}
}

func TestConnectionSettings_ChainedSetters(t *testing.T) {
	s := NewConnectionSettings().
		SetCotFieldLength(1).
		SetCommonAddressFieldLength(1).
		SetIOAFieldLength(2).
		SetK(5).
		SetW(3)
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if s.CotFieldLength != 1 || s.CommonAddressFieldLength != 1 || s.IOAFieldLength != 2 {
		t.Errorf("field lengths = %d/%d/%d, want 1/1/2", s.CotFieldLength, s.CommonAddressFieldLength, s.IOAFieldLength)
	}
	if s.K != 5 || s.W != 3 {
		t.Errorf("k/w = %d/%d, want 5/3", s.K, s.W)
	}
}
