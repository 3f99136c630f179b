package iec104

import "fmt"

// CommandQualifier is the QU sub-field shared by SCO/DCO/RCO: additional
// definition of a command's execution mode.
type CommandQualifier byte

const (
	QuNoAdditionalDefinition CommandQualifier = 0
	QuShortPulse             CommandQualifier = 1
	QuLongPulse              CommandQualifier = 2
	QuPersistentOutput       CommandQualifier = 3
)

// IeSingleCommand is SCO: single command, one byte:
//
//	bit0:    SCS, command state (on/off)
//	bits1-2: reserved
//	bits3-6: QU, command qualifier
//	bit7:    S/E, select (1) vs execute (0)
type IeSingleCommand struct {
	On        bool
	Qualifier CommandQualifier
	Select    bool
}

func (e *IeSingleCommand) Width() int { return 1 }

func (e *IeSingleCommand) Encode(dst []byte) []byte {
	b := byte(e.Qualifier&0x0f) << 3
	if e.On {
		b |= 0x01
	}
	if e.Select {
		b |= 0x80
	}
	return append(dst, b)
}

func (e *IeSingleCommand) Decode(data []byte) error {
	e.On = data[0]&0x01 != 0
	e.Qualifier = CommandQualifier((data[0] >> 3) & 0x0f)
	e.Select = data[0]&0x80 != 0
	return nil
}

func (e *IeSingleCommand) String() string {
	return fmt.Sprintf("SCO(on=%v,qu=%d,select=%v)", e.On, e.Qualifier, e.Select)
}

// DoubleCommandValue is the 2-bit DCS command state: 1=off, 2=on (0 and 3
// are "not permitted" per the standard but are preserved verbatim on
// decode rather than rejected, matching how controlled stations in the
// wild tolerate them).
type DoubleCommandValue byte

const (
	DCSNotPermitted0 DoubleCommandValue = 0
	DCSOff           DoubleCommandValue = 1
	DCSOn            DoubleCommandValue = 2
	DCSNotPermitted3 DoubleCommandValue = 3
)

// IeDoubleCommand is DCO: double command, one byte:
//
//	bits0-1: DCS, command state
//	bit2:    reserved
//	bits3-6: QU, command qualifier
//	bit7:    S/E
type IeDoubleCommand struct {
	State     DoubleCommandValue
	Qualifier CommandQualifier
	Select    bool
}

func (e *IeDoubleCommand) Width() int { return 1 }

func (e *IeDoubleCommand) Encode(dst []byte) []byte {
	b := byte(e.State & 0x03)
	b |= byte(e.Qualifier&0x0f) << 3
	if e.Select {
		b |= 0x80
	}
	return append(dst, b)
}

func (e *IeDoubleCommand) Decode(data []byte) error {
	e.State = DoubleCommandValue(data[0] & 0x03)
	e.Qualifier = CommandQualifier((data[0] >> 3) & 0x0f)
	e.Select = data[0]&0x80 != 0
	return nil
}

func (e *IeDoubleCommand) String() string {
	return fmt.Sprintf("DCO(state=%d,qu=%d,select=%v)", e.State, e.Qualifier, e.Select)
}

// RegulatingStepValue is the 2-bit RCS value: 1=decrement, 2=increment.
type RegulatingStepValue byte

const (
	RCSNotPermitted0 RegulatingStepValue = 0
	RCSDecrement     RegulatingStepValue = 1
	RCSIncrement     RegulatingStepValue = 2
	RCSNotPermitted3 RegulatingStepValue = 3
)

// IeRegulatingStepCommand is RCO: regulating step command, one byte, same
// layout as DCO with RCS in place of DCS.
type IeRegulatingStepCommand struct {
	Step      RegulatingStepValue
	Qualifier CommandQualifier
	Select    bool
}

func (e *IeRegulatingStepCommand) Width() int { return 1 }

func (e *IeRegulatingStepCommand) Encode(dst []byte) []byte {
	b := byte(e.Step & 0x03)
	b |= byte(e.Qualifier&0x0f) << 3
	if e.Select {
		b |= 0x80
	}
	return append(dst, b)
}

func (e *IeRegulatingStepCommand) Decode(data []byte) error {
	e.Step = RegulatingStepValue(data[0] & 0x03)
	e.Qualifier = CommandQualifier((data[0] >> 3) & 0x0f)
	e.Select = data[0]&0x80 != 0
	return nil
}

func (e *IeRegulatingStepCommand) String() string {
	return fmt.Sprintf("RCO(step=%d,qu=%d,select=%v)", e.Step, e.Qualifier, e.Select)
}

// IeQualifierOfInterrogation is QOI, one byte. 20 = station interrogation
// (global), 21-36 = interrogation group 1-16.
type IeQualifierOfInterrogation struct {
	Value byte
}

const QoiStationInterrogation byte = 20

func (e *IeQualifierOfInterrogation) Width() int { return 1 }

func (e *IeQualifierOfInterrogation) Encode(dst []byte) []byte {
	return append(dst, e.Value)
}

func (e *IeQualifierOfInterrogation) Decode(data []byte) error {
	e.Value = data[0]
	return nil
}

func (e *IeQualifierOfInterrogation) String() string {
	return fmt.Sprintf("QOI(%d)", e.Value)
}

// IeQualifierOfCounterInterrogation is QCC, one byte: bits0-5 = request
// group (0=none,1-4=group1-4,5=general), bits6-7 = freeze/reset mode.
type IeQualifierOfCounterInterrogation struct {
	Request byte
	Freeze  byte // 0=read,1=freeze no reset,2=freeze+reset,3=counter reset
}

func (e *IeQualifierOfCounterInterrogation) Width() int { return 1 }

func (e *IeQualifierOfCounterInterrogation) Encode(dst []byte) []byte {
	return append(dst, (e.Request&0x3f)|(e.Freeze&0x03)<<6)
}

func (e *IeQualifierOfCounterInterrogation) Decode(data []byte) error {
	e.Request = data[0] & 0x3f
	e.Freeze = (data[0] >> 6) & 0x03
	return nil
}

func (e *IeQualifierOfCounterInterrogation) String() string {
	return fmt.Sprintf("QCC(request=%d,freeze=%d)", e.Request, e.Freeze)
}

// IeQualifierOfParameterMV is QPM, one byte: bits0-5 = kind of parameter,
// bit6 = LPC (local parameter change), bit7 = POP (parameter in operation).
type IeQualifierOfParameterMV struct {
	Kind byte
	LPC  bool
	POP  bool
}

func (e *IeQualifierOfParameterMV) Width() int { return 1 }

func (e *IeQualifierOfParameterMV) Encode(dst []byte) []byte {
	b := e.Kind & 0x3f
	if e.LPC {
		b |= 1 << 6
	}
	if e.POP {
		b |= 1 << 7
	}
	return append(dst, b)
}

func (e *IeQualifierOfParameterMV) Decode(data []byte) error {
	e.Kind = data[0] & 0x3f
	e.LPC = data[0]&(1<<6) != 0
	e.POP = data[0]&(1<<7) != 0
	return nil
}

func (e *IeQualifierOfParameterMV) String() string {
	return fmt.Sprintf("QPM(kind=%d,lpc=%v,pop=%v)", e.Kind, e.LPC, e.POP)
}

// IeQualifierOfParameterActivation is QPA, one byte.
type IeQualifierOfParameterActivation struct {
	Value byte
}

func (e *IeQualifierOfParameterActivation) Width() int { return 1 }

func (e *IeQualifierOfParameterActivation) Encode(dst []byte) []byte {
	return append(dst, e.Value)
}

func (e *IeQualifierOfParameterActivation) Decode(data []byte) error {
	e.Value = data[0]
	return nil
}

func (e *IeQualifierOfParameterActivation) String() string {
	return fmt.Sprintf("QPA(%d)", e.Value)
}

// IeQualifierOfResetProcess is QRP, one byte. 1 = general reset of
// process, 2 = reset of pending information with time tag.
type IeQualifierOfResetProcess struct {
	Value byte
}

func (e *IeQualifierOfResetProcess) Width() int { return 1 }

func (e *IeQualifierOfResetProcess) Encode(dst []byte) []byte {
	return append(dst, e.Value)
}

func (e *IeQualifierOfResetProcess) Decode(data []byte) error {
	e.Value = data[0]
	return nil
}

func (e *IeQualifierOfResetProcess) String() string {
	return fmt.Sprintf("QRP(%d)", e.Value)
}

// IeQualifierOfSetpoint is QOS, one byte: bits0-6 = QL (qualifier of
// set-point command), bit7 = S/E.
type IeQualifierOfSetpoint struct {
	QL     byte
	Select bool
}

func (e *IeQualifierOfSetpoint) Width() int { return 1 }

func (e *IeQualifierOfSetpoint) Encode(dst []byte) []byte {
	b := e.QL & 0x7f
	if e.Select {
		b |= 0x80
	}
	return append(dst, b)
}

func (e *IeQualifierOfSetpoint) Decode(data []byte) error {
	e.QL = data[0] & 0x7f
	e.Select = data[0]&0x80 != 0
	return nil
}

func (e *IeQualifierOfSetpoint) String() string {
	return fmt.Sprintf("QOS(ql=%d,select=%v)", e.QL, e.Select)
}
