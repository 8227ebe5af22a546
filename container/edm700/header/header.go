/*
NAME
  header.go

DESCRIPTION
  header.go parses the ASCII preamble records that precede the binary
  flight streams in an EDM700-family data file. Each line is a
  '$'-delimited, checksummed envelope carrying one tagged record type;
  see ParseLine.

LICENSE
  Copyright (C) 2026 the EDM700 Project. All Rights Reserved.
*/

// Package header parses the ASCII header records ($U, $A, $F, $T, $C, $D,
// $L) that make up the preamble of an EDM700-family flight-data file.
package header

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/flightdata/edm700/container/edm700/edmbits"
)

// Kind identifies which of the seven record types a line decoded to.
type Kind byte

// Record kinds, one per ASCII header record letter.
const (
	KindTailNumber       Kind = 'U'
	KindConfiguredLimits Kind = 'A'
	KindFuelFlow         Kind = 'F'
	KindTimestamp        Kind = 'T'
	KindConfigInfo       Kind = 'C'
	KindFlightDirectory  Kind = 'D'
	KindTerminator       Kind = 'L'
)

// ConfiguredLimits is the $A record: the limits configured on the
// instrument for alarm purposes.
type ConfiguredLimits struct {
	VoltsHiTimesTen uint16
	VoltsLoTimesTen uint16
	Dif             uint16
	CHT             uint16
	CLD             uint16
	TIT             uint16
	OilHi           uint16
	OilLo           uint16
}

// FuelFlowLimits is the $F record: fuel-flow transducer parameters.
type FuelFlowLimits struct {
	Empty    uint16
	Full     uint16
	Warning  uint16
	KFactor  uint16
	KFactor2 uint16
}

// Timestamp is the $T record: the flight recorder's clock at file write
// time.
type Timestamp struct {
	Month   uint16
	Day     uint16
	Year    uint16 // two-digit year
	Hour    uint16
	Minute  uint16
	Unknown uint16
}

// ConfigInfo is the $C record: the hardware/firmware configuration of the
// instrument that wrote the file.
type ConfigInfo struct {
	ModelNumber     uint16
	FeatureFlagsLo  uint16
	FeatureFlagsHi  uint16
	UnknownFlags    uint16
	FirmwareVersion uint16
}

// rpmBit is the bit position of the RPM-present feature flag within the
// composed 32-bit feature-flags word.
const rpmBit = 26

// ComposedFlags returns the 32-bit feature-flags word,
// (FeatureFlagsHi << 16) | FeatureFlagsLo.
func (c ConfigInfo) ComposedFlags() uint32 {
	return uint32(c.FeatureFlagsHi)<<16 | uint32(c.FeatureFlagsLo)
}

// HasRPM reports whether the RPM-present feature flag (bit 26 of the
// composed feature-flags word) is set.
func (c ConfigInfo) HasRPM() bool {
	return c.ComposedFlags()&(1<<rpmBit) != 0
}

// FlightDirectoryEntry is a $D record: one entry in the per-flight index.
// Length is expressed in 16-bit units; the byte length of the flight's
// binary stream is Length*2.
type FlightDirectoryEntry struct {
	FlightNumber uint16
	Length       uint16
}

// ByteLength returns the byte length of the flight's binary stream.
func (d FlightDirectoryEntry) ByteLength() int {
	return int(d.Length) * 2
}

// TerminatorRecord is the $L record that signals the end of the ASCII
// preamble.
type TerminatorRecord struct {
	Unknown uint16
}

// Record is a parsed header line. Exactly one of the typed fields is
// meaningful, selected by Kind.
type Record struct {
	Kind Kind

	TailNumber string
	Limits     ConfiguredLimits
	Fuel       FuelFlowLimits
	Stamp      Timestamp
	Config     ConfigInfo
	Directory  FlightDirectoryEntry
	Terminator TerminatorRecord
}

// Error kinds returned by ParseLine, matching the kinds named in the
// decoder's error-handling design.
var (
	// ErrBadEnvelope is returned when a line does not match the
	// '$'T payload'*'HH envelope grammar.
	ErrBadEnvelope = errors.New("edm700/header: malformed record envelope")
	// ErrBadChecksum is returned when the envelope's XOR checksum does
	// not match its payload.
	ErrBadChecksum = errors.New("edm700/header: checksum mismatch")
	// ErrUnknownRecord is returned when the record type letter is not
	// one of U, A, F, T, C, D, L.
	ErrUnknownRecord = errors.New("edm700/header: unknown record type")
	// ErrBadNumber is returned when a numeric payload field fails to
	// parse as a decimal uint16.
	ErrBadNumber = errors.New("edm700/header: malformed numeric field")
)

// envelope matches '$' <type letter> <payload starting with ','> '*' <2 hex digits>,
// with nothing left over (the line must already have its \r\n trimmed).
var envelope = regexp.MustCompile(`^\$(.)(,[^*]*)\*([0-9A-Fa-f]{2})$`)

// ParseLine parses one EDM700 header line (with any trailing \r\n already
// stripped) into a typed Record.
func ParseLine(line string) (Record, error) {
	m := envelope.FindStringSubmatch(line)
	if m == nil {
		return Record{}, ErrBadEnvelope
	}
	typeLetter, payload, checksumHex := m[1], m[2], m[3]

	checksum, err := strconv.ParseUint(checksumHex, 16, 8)
	if err != nil {
		return Record{}, errors.Wrap(ErrBadEnvelope, "bad checksum hex digits")
	}

	// The checksum covers the type letter and the payload, including its
	// leading comma.
	computed := edmbits.XOR8([]byte(typeLetter + payload))
	if byte(checksum) != computed {
		return Record{}, ErrBadChecksum
	}

	// Strip the leading comma the dispatcher is responsible for removing.
	data := strings.TrimPrefix(payload, ",")

	kind := Kind(typeLetter[0])
	switch kind {
	case KindTailNumber:
		return Record{Kind: kind, TailNumber: parseTailNumber(data)}, nil
	case KindConfiguredLimits:
		v, err := parseConfiguredLimits(data)
		if err != nil {
			return Record{}, err
		}
		return Record{Kind: kind, Limits: v}, nil
	case KindFuelFlow:
		v, err := parseFuelFlow(data)
		if err != nil {
			return Record{}, err
		}
		return Record{Kind: kind, Fuel: v}, nil
	case KindTimestamp:
		v, err := parseTimestamp(data)
		if err != nil {
			return Record{}, err
		}
		return Record{Kind: kind, Stamp: v}, nil
	case KindConfigInfo:
		v, err := parseConfigInfo(data)
		if err != nil {
			return Record{}, err
		}
		return Record{Kind: kind, Config: v}, nil
	case KindFlightDirectory:
		v, err := parseFlightDirectory(data)
		if err != nil {
			return Record{}, err
		}
		return Record{Kind: kind, Directory: v}, nil
	case KindTerminator:
		v, err := parseTerminator(data)
		if err != nil {
			return Record{}, err
		}
		return Record{Kind: kind, Terminator: v}, nil
	default:
		return Record{}, ErrUnknownRecord
	}
}

// parseTailNumber returns everything up to the first underscore; trailing
// underscores are padding and are dropped.
func parseTailNumber(data string) string {
	if i := strings.IndexByte(data, '_'); i >= 0 {
		return data[:i]
	}
	return data
}

// fields splits a payload into exactly n comma-separated decimal uint16
// fields, trimming surrounding spaces from each.
func fields(data string, n int) ([]uint16, error) {
	parts := strings.Split(data, ",")
	if len(parts) != n {
		return nil, errors.Wrapf(ErrBadNumber, "expected %d fields, got %d", n, len(parts))
	}
	out := make([]uint16, n)
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 16)
		if err != nil {
			return nil, errors.Wrapf(ErrBadNumber, "field %d (%q)", i, p)
		}
		out[i] = uint16(v)
	}
	return out, nil
}

func parseConfiguredLimits(data string) (ConfiguredLimits, error) {
	f, err := fields(data, 8)
	if err != nil {
		return ConfiguredLimits{}, err
	}
	return ConfiguredLimits{
		VoltsHiTimesTen: f[0],
		VoltsLoTimesTen: f[1],
		Dif:             f[2],
		CHT:             f[3],
		CLD:             f[4],
		TIT:             f[5],
		OilHi:           f[6],
		OilLo:           f[7],
	}, nil
}

func parseFuelFlow(data string) (FuelFlowLimits, error) {
	f, err := fields(data, 5)
	if err != nil {
		return FuelFlowLimits{}, err
	}
	return FuelFlowLimits{
		Empty:    f[0],
		Full:     f[1],
		Warning:  f[2],
		KFactor:  f[3],
		KFactor2: f[4],
	}, nil
}

func parseTimestamp(data string) (Timestamp, error) {
	f, err := fields(data, 6)
	if err != nil {
		return Timestamp{}, err
	}
	return Timestamp{
		Month:   f[0],
		Day:     f[1],
		Year:    f[2],
		Hour:    f[3],
		Minute:  f[4],
		Unknown: f[5],
	}, nil
}

func parseConfigInfo(data string) (ConfigInfo, error) {
	f, err := fields(data, 5)
	if err != nil {
		return ConfigInfo{}, err
	}
	return ConfigInfo{
		ModelNumber:     f[0],
		FeatureFlagsLo:  f[1],
		FeatureFlagsHi:  f[2],
		UnknownFlags:    f[3],
		FirmwareVersion: f[4],
	}, nil
}

func parseFlightDirectory(data string) (FlightDirectoryEntry, error) {
	f, err := fields(data, 2)
	if err != nil {
		return FlightDirectoryEntry{}, err
	}
	return FlightDirectoryEntry{FlightNumber: f[0], Length: f[1]}, nil
}

func parseTerminator(data string) (TerminatorRecord, error) {
	f, err := fields(data, 1)
	if err != nil {
		return TerminatorRecord{}, err
	}
	return TerminatorRecord{Unknown: f[0]}, nil
}
