/*
NAME
  edmdump

DESCRIPTION
  edmdump is a command-line client that decodes an EDM700-family flight
  data file and prints a summary line per decoded sample. It is an
  external collaborator of the container/edm700 packages, not part of
  the decoder itself: the decoder has no notion of files, flags, or
  stdout.

AUTHOR
  the EDM700 Project

LICENSE
  Copyright (C) 2026 the EDM700 Project. All Rights Reserved.
*/

// Command edmdump decodes an EDM700-family flight data file and prints
// a summary line per decoded sample.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ausocean/utils/logging"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/flightdata/edm700/container/edm700"
	"github.com/flightdata/edm700/container/edm700/header"
)

// Logging configuration.
const (
	logPath      = "edmdump.log"
	logMaxSize   = 10 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

// Default engine/cylinder layout used when the caller does not know the
// installation's actual instrument model. Real deployments should
// supply -engines/-cyls for the aircraft being decoded.
const (
	defaultEngines = 1
	defaultCyls    = 6
)

func main() {
	pathPtr := flag.String("path", "", "path to the flight data file to decode")
	enginesPtr := flag.Int("engines", defaultEngines, "number of engines (1 or 2)")
	cylsPtr := flag.Int("cyls", defaultCyls, "number of cylinders per engine (1..6)")
	verbosePtr := flag.Bool("debug", false, "log decoder diagnostics (per-flight summary, frame errors) at debug level")
	flag.Parse()

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	verbosity := int8(logVerbosity)
	if *verbosePtr {
		verbosity = logging.Debug
	}
	log := logging.New(verbosity, fileLog, logSuppress)
	if *verbosePtr {
		edm700.SetLogger(log)
	}

	if *pathPtr == "" {
		log.Fatal("no -path provided, check usage")
	}

	f, err := os.Open(*pathPtr)
	if err != nil {
		log.Fatal("could not open flight data file", "error", err)
	}
	defer f.Close()

	cfg := edm700.Config{
		NumEngines: func(header.ConfigInfo) int { return *enginesPtr },
		NumCyls:    func(uint32) int { return *cylsPtr },
	}

	count := 0
	preamble, err := edm700.Decode(f, cfg, func(s edm700.Sample) error {
		count++
		fmt.Fprintf(os.Stdout, "flight %d egt0=%d dif0=%d rpm=%d\n",
			s.FlightNumber, s.State.EGT(0, 0), s.State.Dif[0], s.State.RPM())
		return nil
	})
	if err != nil && err != io.EOF {
		log.Error("decode stopped early", "error", err, "tail", preamble.TailNumber, "samples", count)
		os.Exit(1)
	}

	log.Info("decode finished", "tail", preamble.TailNumber, "flights", len(preamble.Directory), "samples", count)
}
