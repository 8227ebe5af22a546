/*
NAME
  record.go

DESCRIPTION
  record.go is the core of the decoder: given a prior SampleState, it
  parses one variable-length delta frame from a flight's binary stream,
  applies the signed field- and scale-level deltas, maintains the
  per-field not-available mask, verifies the frame checksum, and returns
  the next SampleState. This is the "binary record decoder" of the
  decoder design, §4.4.

LICENSE
  Copyright (C) 2026 the EDM700 Project. All Rights Reserved.
*/

package edm700

import (
	"fmt"
	"math/bits"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/flightdata/edm700/container/edm700/edmbits"
	"github.com/flightdata/edm700/container/edm700/header"
)

// Log, when non-nil, receives diagnostic detail about decode failures
// before they are returned to the caller. It never affects control flow.
var Log logging.Logger

// fieldFlagBits is the number of flag-byte groups carrying field-level
// (and sign-level) deltas; bits 0..5 of decodeflags.
const fieldFlagBits = 6

// scaleFlagBits is the number of flag-byte groups carrying scale-level
// (high-byte) deltas; bits 6..7 of decodeflags.
const scaleFlagBits = 2

// DecodeRecord parses one frame from the front of data, given the
// previous sample state prev, the instrument's ConfigInfo and the
// current flight's FlightHeader. It returns the number of bytes consumed
// from data and the resulting SampleState.
func DecodeRecord(prev SampleState, data []byte, config header.ConfigInfo, fheader FlightHeader, cfg Config) (consumed int, next SampleState, err error) {
	if err := fheader.ValidateAgainst(config); err != nil {
		return 0, SampleState{}, err
	}

	if len(data) < 3 {
		return 0, SampleState{}, shortRead("reading frame header")
	}
	decode0, decode1, repeat := data[0], data[1], data[2]
	if decode0 != decode1 {
		logDebugf("decodeflags mismatch: %#x != %#x", decode0, decode1)
		return 0, SampleState{}, newErr(BadFrame, errDecodeFlagsMismatch, "frame header")
	}

	if repeat != 0 {
		if repeat > 1 {
			return 0, SampleState{}, newErr(Unsupported, errRepeatCount, "frame header")
		}
		// repeat == 1: re-emit prev unchanged, consuming only the
		// three header bytes. No mask, no deltas, no checksum byte.
		return 3, prev, nil
	}

	single := cfg.SingleEngine(config)

	pos := 3
	var fieldFlags [fieldFlagBits]byte
	for b := 0; b < fieldFlagBits; b++ {
		if edmbits.TestBit([]byte{decode0}, b) {
			if pos >= len(data) {
				return 0, SampleState{}, shortRead("reading field flags")
			}
			fieldFlags[b] = data[pos]
			pos++
		}
	}

	var scaleFlags [scaleFlagBits]byte
	for b := 0; b < scaleFlagBits; b++ {
		if edmbits.TestBit([]byte{decode0}, fieldFlagBits+b) {
			if pos >= len(data) {
				return 0, SampleState{}, shortRead("reading scale flags")
			}
			scaleFlags[b] = data[pos]
			pos++
		}
	}

	var signFlags [fieldFlagBits]byte
	for b := 0; b < fieldFlagBits; b++ {
		if edmbits.TestBit([]byte{decode0}, b) {
			if pos >= len(data) {
				return 0, SampleState{}, shortRead("reading sign flags")
			}
			signFlags[b] = data[pos]
			pos++
		}
	}

	if single && scaleFlags[1] != 0 {
		return 0, SampleState{}, newErr(BadFrame, errSingleEngineScale, "scale flags")
	}

	numField := 0
	for _, f := range fieldFlags {
		numField += bits.OnesCount8(f)
	}
	if pos+numField > len(data) {
		return 0, SampleState{}, shortRead("reading field deltas")
	}
	fieldDif := data[pos : pos+numField]
	pos += numField

	numScale := 0
	for _, f := range scaleFlags {
		numScale += bits.OnesCount8(f)
	}
	if pos+numScale > len(data) {
		return 0, SampleState{}, shortRead("reading scale deltas")
	}
	scaleDif := data[pos : pos+numScale]
	pos += numScale

	out := prev

	// Field-level deltas: magnitude is the raw byte, sign from the
	// per-group sign-flags byte. Zero magnitude sets the field's NA bit;
	// non-zero clears it.
	fi := 0
	for group := 0; group < fieldFlagBits; group++ {
		flag := fieldFlags[group]
		for b := 0; b < 8; b++ {
			if flag&(1<<uint(b)) == 0 {
				continue
			}
			idx := group*8 + b
			diff := int16(fieldDif[fi])
			if diff != 0 {
				edmbits.ClearBit(out.NAFlags[:], idx)
			} else {
				edmbits.SetBit(out.NAFlags[:], idx)
			}
			if edmbits.TestBit(signFlags[:], idx) {
				out.fields[idx] -= diff
			} else {
				out.fields[idx] += diff
			}
			fi++
		}
	}

	// Scale-level (high-byte) deltas: group 0 targets engine-0's EGT
	// bank, group 1 targets engine-1's EGT bank (idx = group*TwinJump+b).
	si := 0
	for group := 0; group < scaleFlagBits; group++ {
		flag := scaleFlags[group]
		for b := 0; b < 8; b++ {
			if flag&(1<<uint(b)) == 0 {
				continue
			}
			idx := group*TwinJump + b
			x := int16(scaleDif[si])
			si++
			if x == 0 {
				continue
			}
			edmbits.ClearBit(out.NAFlags[:], idx)
			x <<= 8
			if edmbits.TestBit(signFlags[:], idx) {
				out.fields[idx] -= x
			} else {
				out.fields[idx] += x
			}
		}
	}

	if single && edmbits.TestBit(signFlags[:], idxRPM) {
		if edmbits.TestBit(signFlags[:], idxRPMHiOrRCDT) {
			return 0, SampleState{}, newErr(BadFrame, errRPMHighByteSigned, "single-engine rpm quirk")
		}
		out.fields[idxRPMHiOrRCDT] = -out.fields[idxRPMHiOrRCDT]
		if out.fields[idxRPMHiOrRCDT] != 0 {
			edmbits.ClearBit(out.NAFlags[:], idxRPM)
		}
	}

	if err := calcPostSample(&out, config, fheader, cfg); err != nil {
		return 0, SampleState{}, err
	}

	if pos >= len(data) {
		return 0, SampleState{}, shortRead("reading frame checksum")
	}
	recordBytes := data[:pos]
	checksum := data[pos]
	if want := edmbits.ChecksumByte(recordBytes); checksum != want {
		logDebugf("frame checksum mismatch: got %#x, want %#x", checksum, want)
		return 0, SampleState{}, newErr(BadChecksum, errFrameChecksum, "binary frame")
	}
	pos++

	return pos, out, nil
}

var (
	errDecodeFlagsMismatch = errors.New("decodeflags[0] != decodeflags[1]")
	errRepeatCount         = errors.New("repeat count > 1 is not supported")
	errSingleEngineScale   = errors.New("scale_flags[1] must be zero for single-engine configurations")
	errRPMHighByteSigned   = errors.New("rpm high byte delta must not be signed when rpm delta is signed")
	errFrameChecksum       = errors.New("frame checksum mismatch")
)

// logDebugf logs a formatted debug message to Log if set.
func logDebugf(format string, args ...interface{}) {
	if Log == nil {
		return
	}
	Log.Debug(fmt.Sprintf(format, args...))
}
