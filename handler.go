package iec104

// ConnectionHandler is the application-facing callback surface a Connection
// invokes from its reader goroutine (spec.md §6). Implementations may call
// back into the same Connection's Send/SendConfirmation re-entrantly.
type ConnectionHandler interface {
	// OnAsduReceived is invoked for every decoded I-frame ASDU.
	OnAsduReceived(conn *Connection, asdu *ASDU)

	// OnConnectionLost is invoked exactly once when the Connection reaches
	// CLOSED for any reason other than a local call to Close.
	OnConnectionLost(conn *Connection, err error)
}

// ConnectionHandlerFuncs adapts two plain functions to ConnectionHandler,
// for callers that don't need a dedicated type. A nil field is a no-op.
type ConnectionHandlerFuncs struct {
	AsduReceived   func(conn *Connection, asdu *ASDU)
	ConnectionLost func(conn *Connection, err error)
}

func (f ConnectionHandlerFuncs) OnAsduReceived(conn *Connection, asdu *ASDU) {
	if f.AsduReceived != nil {
		f.AsduReceived(conn, asdu)
	}
}

func (f ConnectionHandlerFuncs) OnConnectionLost(conn *Connection, err error) {
	if f.ConnectionLost != nil {
		f.ConnectionLost(conn, err)
	}
}
