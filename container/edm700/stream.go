/*
NAME
  stream.go

DESCRIPTION
  stream.go is the outer driver: it reads the ASCII preamble line by
  line until the terminator record, assembles the per-file Preamble,
  then walks the flight directory, decoding each flight's binary stream
  and publishing every resulting SampleState to a caller-supplied
  consumer. A read or decode failure on one flight does not discard
  samples already published for earlier flights.

LICENSE
  Copyright (C) 2026 the EDM700 Project. All Rights Reserved.
*/

package edm700

import (
	"bufio"
	"io"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/flightdata/edm700/container/edm700/header"
)

// Preamble is the parsed ASCII header block that precedes a file's
// binary flight streams.
type Preamble struct {
	TailNumber string
	Limits     header.ConfiguredLimits
	Fuel       header.FuelFlowLimits
	Stamp      header.Timestamp
	Config     header.ConfigInfo
	Directory  []header.FlightDirectoryEntry
}

// Sample is one decoded frame, tagged with the flight and flight
// header it belongs to, published to a Consumer by Decode.
type Sample struct {
	FlightNumber uint16
	Header       FlightHeader
	State        SampleState
}

// Consumer receives every sample decoded from a stream, in order.
// Decode stops and returns the first error a Consumer returns.
type Consumer func(Sample) error

// Decode reads a complete EDM700-family file from r: the ASCII
// preamble, then each flight in the flight directory's binary stream,
// publishing every decoded sample to consume. It returns the parsed
// Preamble regardless of whether a later flight fails to decode, so a
// caller can inspect how far decoding got.
func Decode(r io.Reader, cfg Config, consume Consumer) (Preamble, error) {
	br := bufio.NewReader(r)

	preamble, err := readPreamble(br)
	if err != nil {
		return preamble, err
	}

	if len(preamble.Directory) == 0 {
		return preamble, newErr(BadEnvelope, errNoFlights, "flight directory")
	}

	for _, entry := range preamble.Directory {
		if err := decodeFlight(br, entry, preamble.Config, cfg, consume); err != nil {
			return preamble, err
		}
	}

	return preamble, nil
}

// readPreamble reads ASCII header lines from br until the terminator
// record, accumulating the tail number, configured limits, fuel-flow,
// timestamp and config-info records and every flight-directory entry in
// file order. A later record of a single-valued kind replaces an earlier
// one; only the config-info record is required before the terminator.
func readPreamble(br *bufio.Reader) (Preamble, error) {
	var p Preamble
	var haveConfig bool

	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return p, newErr(ShortRead, err, "reading preamble line")
		}
		if err == io.EOF && line == "" {
			return p, shortRead("preamble ended before terminator record")
		}
		line = trimLineEnding(line)

		rec, perr := header.ParseLine(line)
		if perr != nil {
			return p, wrapHeaderErr(perr, "preamble line")
		}

		switch rec.Kind {
		case header.KindTailNumber:
			p.TailNumber = rec.TailNumber
		case header.KindConfiguredLimits:
			p.Limits = rec.Limits
		case header.KindFuelFlow:
			p.Fuel = rec.Fuel
		case header.KindTimestamp:
			p.Stamp = rec.Stamp
		case header.KindConfigInfo:
			p.Config = rec.Config
			haveConfig = true
		case header.KindFlightDirectory:
			p.Directory = append(p.Directory, rec.Directory)
		case header.KindTerminator:
			if !haveConfig {
				return p, newErr(BadEnvelope, errMissingConfig, "preamble terminator")
			}
			return p, nil
		}
	}
}

// decodeFlight reads one flight's binary stream in full, then decodes
// it frame by frame, publishing each resulting sample to consume.
func decodeFlight(br *bufio.Reader, entry header.FlightDirectoryEntry, config header.ConfigInfo, cfg Config, consume Consumer) error {
	fheader, err := ReadFlightHeader(br)
	if err != nil {
		return err
	}
	if err := fheader.ValidateAgainst(config); err != nil {
		return err
	}

	buf := make([]byte, entry.ByteLength())
	if _, err := io.ReadFull(br, buf); err != nil {
		return shortRead("reading flight binary stream")
	}

	logDebugf("flight %d: %d bytes, single-engine=%v", entry.FlightNumber, len(buf), cfg.SingleEngine(config))

	state := NewSampleState(cfg.SingleEngine(config))
	for len(buf) > 0 {
		n, next, err := DecodeRecord(state, buf, config, fheader, cfg)
		if err != nil {
			return err
		}
		state = next
		buf = buf[n:]

		if err := consume(Sample{FlightNumber: entry.FlightNumber, Header: fheader, State: state}); err != nil {
			return err
		}
	}

	return nil
}

// trimLineEnding strips a trailing "\r\n" or "\n" from line.
func trimLineEnding(line string) string {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
	}
	if n > 0 && line[n-1] == '\r' {
		n--
	}
	return line[:n]
}

// wrapHeaderErr maps a header.ParseLine error to this package's
// DecodeError taxonomy.
func wrapHeaderErr(err error, context string) error {
	switch err {
	case header.ErrBadEnvelope:
		return newErr(BadEnvelope, err, context)
	case header.ErrBadChecksum:
		return newErr(BadChecksum, err, context)
	case header.ErrUnknownRecord:
		return newErr(UnknownRecord, err, context)
	default:
		return newErr(BadNumber, err, context)
	}
}

var (
	errNoFlights     = errors.New("flight directory is empty")
	errMissingConfig = errors.New("preamble terminated before a config-info record was seen")
)

// SetLogger installs logger as the package-level diagnostic sink used
// by the binary record decoder and the stream driver. Passing nil
// disables logging.
func SetLogger(logger logging.Logger) {
	Log = logger
}
