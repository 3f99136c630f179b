// Command iec104-server is a thin sample controlled-station wiring: it
// listens, accepts connections, and logs every decoded ASDU, answering
// interrogation activations with an activation-confirmation.
package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	iec104 "github.com/nexfeld/go-iec104"
)

func main() {
	addr := flag.String("addr", ":2404", "listen address")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	handler := iec104.ConnectionHandlerFuncs{
		AsduReceived: func(conn *iec104.Connection, asdu *iec104.ASDU) {
			logger.Infof("received %s from %s", asdu.TypeID, conn.RemoteAddr())
			if asdu.TypeID == iec104.C_IC_NA_1 {
				if err := conn.SendConfirmation(asdu, 0); err != nil {
					logger.Errorf("send confirmation: %v", err)
				}
			}
		},
		ConnectionLost: func(conn *iec104.Connection, err error) {
			logger.Warnf("connection from %s lost: %v", conn.RemoteAddr(), err)
		},
	}

	opt := iec104.NewEndpointOption(handler).SetLogger(logger)

	endpoint, err := iec104.Listen(*addr, opt, func(conn *iec104.Connection) {
		logger.Infof("accepted %s", conn.RemoteAddr())
	})
	if err != nil {
		logger.Fatalf("listen: %v", err)
	}

	if err := endpoint.Serve(); err != nil {
		logger.Fatalf("serve: %v", err)
	}
}
