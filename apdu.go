package iec104

import (
	"fmt"
	"io"
	"net"
	"time"
)

// rawAPDU is one frame off the wire, control field already decoded and,
// for I-format, the raw ASDU payload bytes (decodeASDU, which needs
// ConnectionSettings, runs separately).
type rawAPDU struct {
	Control apci
	ASDU    []byte
}

// writeAPDU frames control and an optional asdu payload and writes them to
// conn in a single call (spec.md §4.4, §5 — a short single-write frame
// never suspends on back-pressure under the TCP-send-buffer assumption).
func writeAPDU(conn net.Conn, control [4]byte, asdu []byte) error {
	body := make([]byte, 0, 4+len(asdu))
	body = append(body, control[:]...)
	body = append(body, asdu...)

	if len(body) < minApduLength || len(body) > maxApduLength {
		return &MalformedApdu{Reason: fmt.Sprintf("apdu length %d out of [%d,%d]", len(body), minApduLength, maxApduLength)}
	}

	frame := make([]byte, 0, 2+len(body))
	frame = append(frame, startByte, byte(len(body)))
	frame = append(frame, body...)

	_, err := conn.Write(frame)
	if err != nil {
		return &TransportClosed{Cause: err}
	}
	return nil
}

// readAPDU reads exactly one framed APDU from conn. Each read stage is
// bounded by fragmentTimeout; a stalled partial frame fails with
// FragmentTimeout and the caller is expected to close the connection
// (spec.md §4.4 — the codec resynchronises only by closing).
func readAPDU(conn net.Conn, fragmentTimeout time.Duration) (rawAPDU, error) {
	var start [1]byte
	if err := readStage(conn, start[:], "start", fragmentTimeout); err != nil {
		return rawAPDU{}, err
	}
	if start[0] != startByte {
		return rawAPDU{}, &MalformedApdu{Reason: fmt.Sprintf("bad start byte %#02x", start[0])}
	}

	var lengthByte [1]byte
	if err := readStage(conn, lengthByte[:], "length", fragmentTimeout); err != nil {
		return rawAPDU{}, err
	}
	length := lengthByte[0]
	if length < minApduLength {
		return rawAPDU{}, &MalformedApdu{Reason: fmt.Sprintf("apdu length %d below minimum %d", length, minApduLength)}
	}
	if length > maxApduLength {
		return rawAPDU{}, &MalformedApdu{Reason: fmt.Sprintf("apdu length %d above maximum %d", length, maxApduLength)}
	}

	body := make([]byte, length)
	if err := readStage(conn, body, "asdu", fragmentTimeout); err != nil {
		return rawAPDU{}, err
	}

	control := [4]byte{body[0], body[1], body[2], body[3]}
	decoded, err := parseAPCI(control)
	if err != nil {
		return rawAPDU{}, err
	}

	raw := rawAPDU{Control: decoded}
	if decoded.Format == FormatI {
		raw.ASDU = body[4:]
	} else if len(body) != 4 {
		return rawAPDU{}, &MalformedApdu{Reason: "S/U-format apdu carries trailing bytes"}
	}
	return raw, nil
}

// readStage reads exactly len(buf) bytes from conn, bounding the read with
// timeout when positive. A deadline expiry becomes FragmentTimeout; any
// other I/O error (including a clean EOF) becomes TransportClosed.
func readStage(conn net.Conn, buf []byte, stage string, timeout time.Duration) error {
	if timeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return &TransportClosed{Cause: err}
		}
	}
	if _, err := io.ReadFull(conn, buf); err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return &FragmentTimeout{Stage: stage}
		}
		return &TransportClosed{Cause: err}
	}
	return nil
}
