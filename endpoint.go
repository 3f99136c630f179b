package iec104

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultDialTimeout is the default TCP dial timeout for Connect, named in
// the teacher's client_option.go style.
const DefaultDialTimeout = 30 * time.Second

// Acceptor receives every Connection a Listen-ing Endpoint accepts. It is
// invoked from the Endpoint's accept loop; the Connection's reader
// goroutine is already running by the time Acceptor is called.
type Acceptor func(conn *Connection)

// EndpointOption is the chainable builder for Endpoint construction,
// generalizing the teacher's ClientOption (client_option.go) to cover
// both Connect and Listen.
type EndpointOption struct {
	dialTimeout time.Duration
	settings    *ConnectionSettings
	handler     ConnectionHandler
	tlsConfig   *tls.Config
	logger      *logrus.Logger
}

// NewEndpointOption returns an option set with the spec's default
// ConnectionSettings and no TLS.
func NewEndpointOption(handler ConnectionHandler) *EndpointOption {
	return &EndpointOption{
		dialTimeout: DefaultDialTimeout,
		settings:    NewConnectionSettings(),
		handler:     handler,
	}
}

func (o *EndpointOption) SetDialTimeout(d time.Duration) *EndpointOption {
	if d > 0 {
		o.dialTimeout = d
	}
	return o
}

func (o *EndpointOption) SetSettings(s *ConnectionSettings) *EndpointOption {
	if s != nil {
		o.settings = s
	}
	return o
}

// SetTLS supplies a *tls.Config for the socket. The standard's wire format
// assumes plain TCP; this is an optional transport the teacher already
// plumbs through client_option.go/server.go, carried here but never
// required.
func (o *EndpointOption) SetTLS(tc *tls.Config) *EndpointOption {
	o.tlsConfig = tc
	return o
}

func (o *EndpointOption) SetLogger(lg *logrus.Logger) *EndpointOption {
	if lg != nil {
		o.logger = lg
	}
	return o
}

// parseAddress accepts either a bare "host:port" or a "tcp://host:port" URL,
// exactly as the teacher's NewClientOption does.
func parseAddress(addr string) (string, error) {
	if len(addr) > 0 && addr[0] == ':' {
		addr = "127.0.0.1" + addr
	}
	if !strings.Contains(addr, "://") {
		addr = "tcp://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("iec104: parse address %q: %w", addr, err)
	}
	return u.Host, nil
}

// Connect dials addr (host:port, optionally tcp://-prefixed), performs the
// STARTDT handshake, and returns a running Connection ready for Send
// (spec.md §4.6). The caller owns the returned Connection's lifetime.
func Connect(addr string, opt *EndpointOption) (*Connection, error) {
	host, err := parseAddress(addr)
	if err != nil {
		return nil, err
	}

	dialer := &net.Dialer{Timeout: opt.dialTimeout}
	var conn net.Conn
	if opt.tlsConfig != nil {
		conn, err = tls.DialWithDialer(dialer, "tcp", host, opt.tlsConfig)
	} else {
		conn, err = dialer.Dial("tcp", host)
	}
	if err != nil {
		return nil, &TransportClosed{Cause: err}
	}

	if err := opt.settings.Validate(); err != nil {
		conn.Close()
		return nil, err
	}

	c := newConnection(conn, opt.settings, opt.handler, true, opt.logger)
	c.lg.Infof("iec104: connected to %s", conn.RemoteAddr())
	go c.runReader()

	if err := c.StartDataTransfer(opt.settings.T1); err != nil {
		return nil, err
	}
	return c, nil
}

// Endpoint owns a listening socket and hands every accepted Connection to
// an Acceptor (spec.md §4.6). It is the server-side counterpart of
// Connect, generalizing the teacher's Server (server.go).
type Endpoint struct {
	listener net.Listener
	opt      *EndpointOption
	acceptor Acceptor
	lg       *logrus.Logger
}

// Listen binds addr and returns an Endpoint; call Serve to begin accepting.
func Listen(addr string, opt *EndpointOption, acceptor Acceptor) (*Endpoint, error) {
	host, err := parseAddress(addr)
	if err != nil {
		return nil, err
	}

	var listener net.Listener
	if opt.tlsConfig != nil {
		listener, err = tls.Listen("tcp", host, opt.tlsConfig)
	} else {
		listener, err = net.Listen("tcp", host)
	}
	if err != nil {
		return nil, &TransportClosed{Cause: err}
	}

	if err := opt.settings.Validate(); err != nil {
		listener.Close()
		return nil, err
	}

	lg := opt.logger
	if lg == nil {
		lg = _lg
	}
	lg.Infof("iec104: listening on %s", listener.Addr())

	return &Endpoint{listener: listener, opt: opt, acceptor: acceptor, lg: lg}, nil
}

// Serve accepts connections until the listener is closed. Each accepted
// socket gets its own Connection, starting in IDLE and waiting for the
// client's STARTDT_ACT (handled by the reader goroutine's handleFrame).
func (e *Endpoint) Serve() error {
	for {
		conn, err := e.listener.Accept()
		if err != nil {
			return &TransportClosed{Cause: err}
		}

		c := newConnection(conn, e.opt.settings, e.opt.handler, false, e.opt.logger)
		c.lg.Infof("iec104: accepted connection from %s", conn.RemoteAddr())
		go c.runReader()
		e.acceptor(c)
	}
}

// Close stops accepting new connections. Already-accepted Connections are
// unaffected.
func (e *Endpoint) Close() error {
	return e.listener.Close()
}
