/*
NAME
  flightheader.go

DESCRIPTION
  flightheader.go decodes the 14-byte big-endian binary flight header that
  immediately follows the ASCII preamble's terminator record, one per
  flight, followed by its own one-byte checksum.

LICENSE
  Copyright (C) 2026 the EDM700 Project. All Rights Reserved.
*/

package edm700

import (
	"io"

	"github.com/pkg/errors"

	"github.com/flightdata/edm700/container/edm700/edmbits"
	"github.com/flightdata/edm700/container/edm700/header"
)

// flightHeaderSize is the size, in bytes, of the flight header's payload,
// not including its trailing checksum byte.
const flightHeaderSize = 14

// FlightHeader is the fixed-size binary record that precedes each
// flight's frame stream.
type FlightHeader struct {
	FlightNumber uint16
	Flags        uint32 // (feature_flags_hi << 16) | feature_flags_lo
	Unknown      uint16
	IntervalSecs uint16
	DateBits     uint16
	TimeBits     uint16
}

// ReadFlightHeader reads and validates a 15-byte FlightHeader (14 payload
// bytes plus a trailing checksum byte) from r.
func ReadFlightHeader(r io.Reader) (FlightHeader, error) {
	buf := make([]byte, flightHeaderSize+1)
	if _, err := io.ReadFull(r, buf); err != nil {
		return FlightHeader{}, shortRead("reading flight header")
	}

	payload, checksum := buf[:flightHeaderSize], buf[flightHeaderSize]
	if want := edmbits.ChecksumByte(payload); checksum != want {
		return FlightHeader{}, newErr(BadChecksum, errFlightHeaderChecksum, "flight header")
	}

	flagsLo := edmbits.BEU16(buf[2:4])
	flagsHi := edmbits.BEU16(buf[4:6])

	return FlightHeader{
		FlightNumber: edmbits.BEU16(buf[0:2]),
		Flags:        uint32(flagsHi)<<16 | uint32(flagsLo),
		Unknown:      edmbits.BEU16(buf[6:8]),
		IntervalSecs: edmbits.BEU16(buf[8:10]),
		DateBits:     edmbits.BEU16(buf[10:12]),
		TimeBits:     edmbits.BEU16(buf[12:14]),
	}, nil
}

var errFlightHeaderChecksum = errors.New("flight header checksum mismatch")

// ValidateAgainst checks that the flight header's composed flags match
// the config record's composed flags, as required by §4.3 of the decoder
// design. Mismatch is fatal: it indicates the flight header was read at
// the wrong offset, or belongs to a different config than the one in
// force.
func (h FlightHeader) ValidateAgainst(cfg header.ConfigInfo) error {
	if h.Flags != cfg.ComposedFlags() {
		return newErr(BadFrame, errFlagsMismatch, "flight header vs config flags")
	}
	return nil
}

var errFlagsMismatch = errors.New("flight header flags do not match config info flags")
