package iec104

import "time"

// Default field widths and timer/window values per spec.md §3.
const (
	DefaultCotFieldLength           = 2
	DefaultCommonAddressFieldLength = 2
	DefaultIOAFieldLength           = 3

	DefaultT1 = 15 * time.Second
	DefaultT2 = 10 * time.Second
	DefaultT3 = 20 * time.Second

	DefaultW = 8
	DefaultK = 12

	DefaultMessageFragmentTimeout = 5 * time.Second
)

// ConnectionSettings is the immutable configuration record a Connection is
// built from (spec.md §3). Build one with NewConnectionSettings and the
// chainable Set* methods, then hand it to Connect/Listen — once a
// Connection exists, the settings it was given are never mutated again.
type ConnectionSettings struct {
	MessageFragmentTimeout time.Duration

	CotFieldLength           int // 1 or 2
	CommonAddressFieldLength int // 1 or 2
	IOAFieldLength           int // 1, 2 or 3

	T1 time.Duration // maxTimeNoAckReceived
	T2 time.Duration // maxTimeNoAckSent, must be < T1
	T3 time.Duration // maxIdleTime

	W int // maxUnconfirmedIPdusReceived
	K int // maxNumOfOutstandingIPdus
}

// NewConnectionSettings returns the spec's defaults: t1=15s, t2=10s,
// t3=20s, w=8, k=12, and the 2/2/3-byte field-length grid.
func NewConnectionSettings() *ConnectionSettings {
	return &ConnectionSettings{
		MessageFragmentTimeout:   DefaultMessageFragmentTimeout,
		CotFieldLength:           DefaultCotFieldLength,
		CommonAddressFieldLength: DefaultCommonAddressFieldLength,
		IOAFieldLength:           DefaultIOAFieldLength,
		T1:                       DefaultT1,
		T2:                       DefaultT2,
		T3:                       DefaultT3,
		W:                        DefaultW,
		K:                        DefaultK,
	}
}

func (s *ConnectionSettings) SetMessageFragmentTimeout(d time.Duration) *ConnectionSettings {
	if d > 0 {
		s.MessageFragmentTimeout = d
	}
	return s
}

func (s *ConnectionSettings) SetCotFieldLength(n int) *ConnectionSettings {
	if n == 1 || n == 2 {
		s.CotFieldLength = n
	}
	return s
}

func (s *ConnectionSettings) SetCommonAddressFieldLength(n int) *ConnectionSettings {
	if n == 1 || n == 2 {
		s.CommonAddressFieldLength = n
	}
	return s
}

func (s *ConnectionSettings) SetIOAFieldLength(n int) *ConnectionSettings {
	if n >= 1 && n <= 3 {
		s.IOAFieldLength = n
	}
	return s
}

func (s *ConnectionSettings) SetT1(d time.Duration) *ConnectionSettings {
	if d > 0 {
		s.T1 = d
	}
	return s
}

func (s *ConnectionSettings) SetT2(d time.Duration) *ConnectionSettings {
	if d > 0 {
		s.T2 = d
	}
	return s
}

func (s *ConnectionSettings) SetT3(d time.Duration) *ConnectionSettings {
	if d > 0 {
		s.T3 = d
	}
	return s
}

func (s *ConnectionSettings) SetW(w int) *ConnectionSettings {
	if w > 0 {
		s.W = w
	}
	return s
}

func (s *ConnectionSettings) SetK(k int) *ConnectionSettings {
	if k > 0 {
		s.K = k
	}
	return s
}

// Validate reports a configuration error the way the standard requires:
// t2 must be strictly less than t1, and every field length must be within
// the grid spec.md §6 commits to supporting.
func (s *ConnectionSettings) Validate() error {
	if s.T2 >= s.T1 {
		return &InvalidSettings{Reason: "t2 must be less than t1"}
	}
	if s.CotFieldLength != 1 && s.CotFieldLength != 2 {
		return &InvalidSettings{Reason: "cotFieldLength must be 1 or 2"}
	}
	if s.CommonAddressFieldLength != 1 && s.CommonAddressFieldLength != 2 {
		return &InvalidSettings{Reason: "commonAddressFieldLength must be 1 or 2"}
	}
	if s.IOAFieldLength < 1 || s.IOAFieldLength > 3 {
		return &InvalidSettings{Reason: "ioaFieldLength must be 1, 2 or 3"}
	}
	if s.K <= 0 || s.W <= 0 {
		return &InvalidSettings{Reason: "k and w must be positive"}
	}
	return nil
}
