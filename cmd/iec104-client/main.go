// Command iec104-client is a thin sample wiring of the iec104 Connection
// callback surface: it connects, starts data transfer, issues a general
// interrogation, and logs every decoded ASDU.
package main

import (
	"flag"
	"time"

	"github.com/sirupsen/logrus"

	iec104 "github.com/nexfeld/go-iec104"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:2404", "server address (host:port or tcp://host:port)")
	commonAddress := flag.Uint("ca", 1, "common address to address commands to")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	handler := iec104.ConnectionHandlerFuncs{
		AsduReceived: func(conn *iec104.Connection, asdu *iec104.ASDU) {
			logger.Infof("received %s from %s: %d object(s)", asdu.TypeID, conn.RemoteAddr(), len(asdu.Objects))
		},
		ConnectionLost: func(conn *iec104.Connection, err error) {
			logger.Errorf("connection to %s lost: %v", conn.RemoteAddr(), err)
		},
	}

	opt := iec104.NewEndpointOption(handler).SetLogger(logger)

	conn, err := iec104.Connect(*addr, opt)
	if err != nil {
		logger.Fatalf("connect: %v", err)
	}
	defer conn.Close()

	if err := conn.SendGeneralInterrogation(uint16(*commonAddress), 5*time.Second); err != nil {
		logger.Errorf("general interrogation: %v", err)
	}

	select {}
}
