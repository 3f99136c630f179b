package iec104

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// connState is the Connection's lifecycle state (spec.md §4.5).
type connState int

const (
	stateIdle connState = iota
	stateStarted
	stateStopped
	statePendingStop
	stateClosed
)

func (s connState) String() string {
	switch s {
	case stateIdle:
		return "IDLE"
	case stateStarted:
		return "STARTED"
	case stateStopped:
		return "STOPPED"
	case statePendingStop:
		return "PENDING_STOP"
	case stateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// pendingIFrame is one entry in the unconfirmed-sent ring (spec.md §3).
type pendingIFrame struct {
	seq    uint16
	asdu   []byte
	sentAt time.Time
}

/*
Connection is one IEC 60870-5-104 link, either endpoint of the STARTDT/
STOPDT/TESTFR handshake and the I/S/U frame exchange (spec.md §4.5). It owns
the TCP socket and a single reader goroutine; every mutation of its state —
sequence counters, the unconfirmed-sent ring, timer arm/disarm, the state
enum — happens under mu, so timer callbacks, the reader, and application
calls to Send/Close never interleave a half-updated state (spec.md §5).

Reads happen on a dedicated goroutine started by runReader; writes happen
synchronously from whichever caller produced them (Send, the reader
dispatching a U-frame reply, or a timer callback), always under mu — a
short single APDU write is assumed not to block (spec.md §5).
*/
type Connection struct {
	conn     net.Conn
	settings *ConnectionSettings
	handler  ConnectionHandler
	lg       *logrus.Logger
	isClient bool

	mu              sync.Mutex
	state           connState
	sendSeq         uint16 // next sequence number to assign to an outbound I-frame
	recvCount       uint16 // count of I-frames received so far, mod 2^15
	unconfirmedSent []pendingIFrame
	unackedReceived int
	t2Armed         bool

	// sendSlots is a counting semaphore of size settings.K: Send acquires a
	// token before assigning a sequence number, ack processing returns
	// tokens as entries leave unconfirmedSent.
	sendSlots chan struct{}

	pendingHandshake string // "", "STARTDT", "STOPDT", "TESTFR"
	handshakeResult  chan error

	t1Timer *time.Timer
	t1Epoch uint64
	t2Timer *time.Timer
	t2Epoch uint64
	t3Timer *time.Timer
	t3Epoch uint64

	closedCh chan struct{}

	// sentTotal/receivedTotal are introspection gauges a caller can poll
	// without taking mu (grounded on marrasen-go-iecp5/rob-gra-go-iecp5's
	// use of sync/atomic for connection-local counters).
	sentTotal     int64
	receivedTotal int64
}

// SentCount returns the number of I-frames sent so far, usable from any
// goroutine without contending with mu.
func (c *Connection) SentCount() int64 {
	return atomic.LoadInt64(&c.sentTotal)
}

// ReceivedCount returns the number of I-frames received so far.
func (c *Connection) ReceivedCount() int64 {
	return atomic.LoadInt64(&c.receivedTotal)
}

func newConnection(conn net.Conn, settings *ConnectionSettings, handler ConnectionHandler, isClient bool, lg *logrus.Logger) *Connection {
	if lg == nil {
		lg = _lg
	}
	c := &Connection{
		conn:      conn,
		settings:  settings,
		handler:   handler,
		lg:        lg,
		isClient:  isClient,
		state:     stateIdle,
		sendSlots: make(chan struct{}, settings.K),
		closedCh:  make(chan struct{}),
	}
	for i := 0; i < settings.K; i++ {
		c.sendSlots <- struct{}{}
	}
	c.armT3Locked()
	return c
}

// RemoteAddr returns the underlying socket's remote address.
func (c *Connection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// runReader is the Connection's sole reader goroutine (spec.md §5). It runs
// until the socket is closed or a fatal protocol error occurs, at which
// point it tears the Connection down.
func (c *Connection) runReader() {
	c.lg.Debugf("iec104: reader starting for %s", c.conn.RemoteAddr())
	for {
		raw, err := readAPDU(c.conn, c.settings.MessageFragmentTimeout)
		if err != nil {
			c.failLocked(err)
			return
		}
		if err := c.handleFrame(raw); err != nil {
			c.failLocked(err)
			return
		}
	}
}

// handleFrame dispatches one decoded APDU under mu, then (for I-frames)
// invokes the application callback outside the lock so it may call back
// into Send re-entrantly (spec.md §5/§6).
func (c *Connection) handleFrame(raw rawAPDU) error {
	c.mu.Lock()

	if c.state == stateClosed {
		c.mu.Unlock()
		return nil
	}
	c.armT3Locked()

	switch raw.Control.Format {
	case FormatI:
		asdu, err := c.handleIFrameLocked(raw)
		c.mu.Unlock()
		if err != nil {
			return err
		}
		if asdu != nil {
			c.handler.OnAsduReceived(c, asdu)
		}
		return nil

	case FormatS:
		c.ackUpToLocked(raw.Control.RecvSN)
		c.mu.Unlock()
		return nil

	case FormatU:
		err := c.handleUFrameLocked(raw.Control.Function)
		c.mu.Unlock()
		return err

	default:
		c.mu.Unlock()
		return &MalformedApdu{Reason: "unrecognised frame format"}
	}
}

func (c *Connection) handleIFrameLocked(raw rawAPDU) (*ASDU, error) {
	if c.state != stateStarted {
		return nil, &MalformedApdu{Reason: fmt.Sprintf("I-frame received in state %s", c.state)}
	}

	c.ackUpToLocked(raw.Control.RecvSN)

	asdu, err := decodeASDU(raw.ASDU, c.settings)
	if err != nil {
		return nil, err
	}

	c.recvCount = (c.recvCount + 1) & 0x7fff
	atomic.AddInt64(&c.receivedTotal, 1)
	c.unackedReceived++
	if c.unackedReceived == 1 {
		c.armT2Locked()
	}
	if c.unackedReceived >= c.settings.W {
		c.sendSFrameLocked()
	}
	return asdu, nil
}

// ackUpToLocked retires every unconfirmedSent entry with seq < peerRecvSN
// (mod 2^15), frees their send-window tokens, and re-arms t1 against the
// oldest remaining entry (spec.md §4.5 sequence-number discipline).
func (c *Connection) ackUpToLocked(peerRecvSN uint16) {
	cut := 0
	for cut < len(c.unconfirmedSent) && seqDiff(peerRecvSN, c.unconfirmedSent[cut].seq) > 0 {
		cut++
	}
	if cut == 0 {
		return
	}
	c.unconfirmedSent = c.unconfirmedSent[cut:]
	for i := 0; i < cut; i++ {
		select {
		case c.sendSlots <- struct{}{}:
		default:
		}
	}
	c.rearmT1Locked()
}

func (c *Connection) handleUFrameLocked(fn UFunction) error {
	switch fn {
	case FuncStartDtAct:
		if c.isClient {
			return &MalformedApdu{Reason: "client received STARTDT_ACT"}
		}
		c.writeUFrameLocked(FuncStartDtCon)
		c.state = stateStarted
		c.rearmT1Locked()
		return nil

	case FuncStartDtCon:
		if !c.isClient || c.pendingHandshake != "STARTDT" {
			return nil
		}
		c.pendingHandshake = ""
		c.state = stateStarted
		c.rearmT1Locked()
		c.signalHandshakeLocked(nil)
		return nil

	case FuncStopDtAct:
		if c.isClient {
			return &MalformedApdu{Reason: "client received STOPDT_ACT"}
		}
		c.writeUFrameLocked(FuncStopDtCon)
		c.state = stateStopped
		c.rearmT1Locked()
		return nil

	case FuncStopDtCon:
		if !c.isClient || c.pendingHandshake != "STOPDT" {
			return nil
		}
		c.pendingHandshake = ""
		c.state = stateStopped
		c.rearmT1Locked()
		c.signalHandshakeLocked(nil)
		return nil

	case FuncTestFrAct:
		c.writeUFrameLocked(FuncTestFrCon)
		return nil

	case FuncTestFrCon:
		if c.pendingHandshake != "TESTFR" {
			return nil
		}
		c.pendingHandshake = ""
		c.rearmT1Locked()
		c.signalHandshakeLocked(nil)
		return nil

	default:
		return &MalformedApdu{Reason: "unknown U-frame function"}
	}
}

func (c *Connection) signalHandshakeLocked(err error) {
	if c.handshakeResult == nil {
		return
	}
	select {
	case c.handshakeResult <- err:
	default:
	}
	c.handshakeResult = nil
}

// writeUFrameLocked writes a U-format APDU. Caller holds mu.
func (c *Connection) writeUFrameLocked(fn UFunction) {
	if err := writeAPDU(c.conn, encodeUFrame(fn), nil); err != nil {
		c.lg.Warnf("iec104: write %s: %v", fn, err)
	}
}

// sendSFrameLocked emits an S-frame carrying the current recvCount and
// resets the inbound-unacked bookkeeping (spec.md §4.5 w/t2 behaviour).
func (c *Connection) sendSFrameLocked() {
	if err := writeAPDU(c.conn, encodeSFrame(c.recvCount), nil); err != nil {
		c.lg.Warnf("iec104: write s-frame: %v", err)
	}
	c.unackedReceived = 0
	c.disarmT2Locked()
}

// StartDataTransfer drives the client-initiated STARTDT handshake
// (spec.md §4.5): sends STARTDT_ACT and blocks until STARTDT_CON arrives
// or timeout elapses, at which point the Connection is closed with
// HandshakeTimeout.
func (c *Connection) StartDataTransfer(timeout time.Duration) error {
	c.mu.Lock()
	if c.state != stateIdle {
		c.mu.Unlock()
		return fmt.Errorf("iec104: StartDataTransfer called in state %s", c.state)
	}
	result := make(chan error, 1)
	c.handshakeResult = result
	c.pendingHandshake = "STARTDT"
	c.writeUFrameLocked(FuncStartDtAct)
	c.rearmT1Locked()
	c.mu.Unlock()

	select {
	case err := <-result:
		return err
	case <-time.After(timeout):
		c.failLocked(&HandshakeTimeout{Function: "STARTDT"})
		return &HandshakeTimeout{Function: "STARTDT"}
	case <-c.closedCh:
		return &TransportClosed{}
	}
}

// StopDataTransfer drives the client-initiated STOPDT handshake. New I-frame
// sends are refused once the state enters PENDING_STOP.
func (c *Connection) StopDataTransfer(timeout time.Duration) error {
	c.mu.Lock()
	if c.state != stateStarted {
		c.mu.Unlock()
		return fmt.Errorf("iec104: StopDataTransfer called in state %s", c.state)
	}
	result := make(chan error, 1)
	c.handshakeResult = result
	c.pendingHandshake = "STOPDT"
	c.state = statePendingStop
	c.writeUFrameLocked(FuncStopDtAct)
	c.rearmT1Locked()
	c.mu.Unlock()

	select {
	case err := <-result:
		return err
	case <-time.After(timeout):
		c.failLocked(&HandshakeTimeout{Function: "STOPDT"})
		return &HandshakeTimeout{Function: "STOPDT"}
	case <-c.closedCh:
		return &TransportClosed{}
	}
}

// Send encodes asdu and transmits it as an I-frame, blocking until a send
// window slot is available or timeout elapses (spec.md §4.5 k-window).
func (c *Connection) Send(asdu *ASDU, timeout time.Duration) error {
	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case <-c.sendSlots:
	case <-timeoutCh:
		return &WindowExhausted{}
	case <-c.closedCh:
		return &TransportClosed{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateStarted {
		c.sendSlots <- struct{}{}
		return fmt.Errorf("iec104: Send called in state %s", c.state)
	}

	payload, err := encodeASDU(asdu, c.settings)
	if err != nil {
		c.sendSlots <- struct{}{}
		return err
	}

	seq := c.sendSeq
	c.sendSeq = (c.sendSeq + 1) & 0x7fff

	if err := writeAPDU(c.conn, encodeIFrame(seq, c.recvCount), payload); err != nil {
		c.sendSlots <- struct{}{}
		return err
	}

	c.unconfirmedSent = append(c.unconfirmedSent, pendingIFrame{seq: seq, asdu: payload, sentAt: time.Now()})
	atomic.AddInt64(&c.sentTotal, 1)
	c.unackedReceived = 0
	c.disarmT2Locked()
	c.rearmT1Locked()
	return nil
}

// SendConfirmation mirrors inbound, the inbound activation ASDU, with its
// cause of transmission changed to activation-confirmation (spec.md §6).
func (c *Connection) SendConfirmation(inbound *ASDU, timeout time.Duration) error {
	confirm := *inbound
	confirm.Cause = CauseOfTransmission{Cause: CauseActivationConfirmation}
	return c.Send(&confirm, timeout)
}

// SendGeneralInterrogation issues C_IC_NA_1 station interrogation
// (spec.md §9 supplemented convenience senders).
func (c *Connection) SendGeneralInterrogation(commonAddress uint16, timeout time.Duration) error {
	qoi := &IeQualifierOfInterrogation{Value: QoiStationInterrogation}
	asdu := &ASDU{
		TypeID:        C_IC_NA_1,
		Cause:         CauseOfTransmission{Cause: CauseActivation},
		CommonAddress: commonAddress,
		Objects:       []*InformationObject{{Address: 0, Elements: []InformationElement{qoi}}},
	}
	return c.Send(asdu, timeout)
}

// SendCounterInterrogation issues C_CI_NA_1 with a general counter request
// (request 5) in read mode (freeze 0: no freeze, no reset).
func (c *Connection) SendCounterInterrogation(commonAddress uint16, timeout time.Duration) error {
	qcc := &IeQualifierOfCounterInterrogation{Request: 5, Freeze: 0}
	asdu := &ASDU{
		TypeID:        C_CI_NA_1,
		Cause:         CauseOfTransmission{Cause: CauseActivation},
		CommonAddress: commonAddress,
		Objects:       []*InformationObject{{Address: 0, Elements: []InformationElement{qcc}}},
	}
	return c.Send(asdu, timeout)
}

// SendClockSync issues C_CS_NA_1 carrying t as a CP56Time2a.
func (c *Connection) SendClockSync(commonAddress uint16, t time.Time, timeout time.Duration) error {
	cp56 := &IeCP56Time2a{Time: t}
	asdu := &ASDU{
		TypeID:        C_CS_NA_1,
		Cause:         CauseOfTransmission{Cause: CauseActivation},
		CommonAddress: commonAddress,
		Objects:       []*InformationObject{{Address: 0, Elements: []InformationElement{cp56}}},
	}
	return c.Send(asdu, timeout)
}

// Close idempotently tears the Connection down: it transitions to CLOSED,
// wakes any blocked Send, disarms all timers, and closes the socket
// (spec.md §5 cancellation semantics). onConnectionLost is not invoked for
// a local Close.
func (c *Connection) Close() error {
	c.shutdown(nil, true)
	return nil
}

// failLocked tears the Connection down the same way Close does but, unless
// already closed locally, reports err via OnConnectionLost (spec.md §7).
func (c *Connection) failLocked(err error) {
	c.shutdown(err, false)
}

// shutdown performs the one-time CLOSED transition. The mutex-guarded
// state check makes it safe to call from the reader, a timer callback, or
// the application concurrently — only the first caller proceeds.
func (c *Connection) shutdown(err error, local bool) {
	c.mu.Lock()
	if c.state == stateClosed {
		c.mu.Unlock()
		return
	}
	c.state = stateClosed
	c.disarmAllLocked()
	c.signalHandshakeLocked(err)
	c.mu.Unlock()

	close(c.closedCh)
	c.conn.Close()

	if !local && c.handler != nil {
		c.handler.OnConnectionLost(c, err)
	}
}

func (c *Connection) disarmAllLocked() {
	c.t1Epoch++
	c.t2Epoch++
	c.t3Epoch++
	if c.t1Timer != nil {
		c.t1Timer.Stop()
	}
	if c.t2Timer != nil {
		c.t2Timer.Stop()
	}
	if c.t3Timer != nil {
		c.t3Timer.Stop()
	}
}

// rearmT1Locked arms t1 against whichever deadline is most urgent: a
// pending handshake confirmation, or the oldest unconfirmed sent I-frame.
// If neither applies, t1 is left disarmed.
func (c *Connection) rearmT1Locked() {
	c.t1Epoch++
	epoch := c.t1Epoch
	if c.t1Timer != nil {
		c.t1Timer.Stop()
	}

	switch {
	case c.pendingHandshake != "":
		c.t1Timer = time.AfterFunc(c.settings.T1, func() { c.onT1Fire(epoch) })
	case len(c.unconfirmedSent) > 0:
		d := c.settings.T1 - time.Since(c.unconfirmedSent[0].sentAt)
		if d < 0 {
			d = 0
		}
		c.t1Timer = time.AfterFunc(d, func() { c.onT1Fire(epoch) })
	}
}

func (c *Connection) onT1Fire(epoch uint64) {
	c.mu.Lock()
	if epoch != c.t1Epoch || c.state == stateClosed {
		c.mu.Unlock()
		return
	}
	function := "I-FRAME-ACK"
	if c.pendingHandshake != "" {
		function = c.pendingHandshake
	}
	c.mu.Unlock()
	c.failLocked(&HandshakeTimeout{Function: function})
}

func (c *Connection) armT2Locked() {
	if c.t2Armed {
		return
	}
	c.t2Armed = true
	c.t2Epoch++
	epoch := c.t2Epoch
	if c.t2Timer != nil {
		c.t2Timer.Stop()
	}
	c.t2Timer = time.AfterFunc(c.settings.T2, func() { c.onT2Fire(epoch) })
}

func (c *Connection) disarmT2Locked() {
	c.t2Armed = false
	c.t2Epoch++
	if c.t2Timer != nil {
		c.t2Timer.Stop()
	}
}

func (c *Connection) onT2Fire(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.t2Epoch || c.state == stateClosed {
		return
	}
	c.sendSFrameLocked()
}

func (c *Connection) armT3Locked() {
	c.t3Epoch++
	epoch := c.t3Epoch
	if c.t3Timer != nil {
		c.t3Timer.Stop()
	}
	c.t3Timer = time.AfterFunc(c.settings.T3, func() { c.onT3Fire(epoch) })
}

func (c *Connection) onT3Fire(epoch uint64) {
	c.mu.Lock()
	if epoch != c.t3Epoch || c.state == stateClosed {
		c.mu.Unlock()
		return
	}
	result := make(chan error, 1)
	c.handshakeResult = result
	c.pendingHandshake = "TESTFR"
	c.writeUFrameLocked(FuncTestFrAct)
	c.rearmT1Locked()
	c.mu.Unlock()
}
