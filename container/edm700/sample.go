/*
NAME
  sample.go

DESCRIPTION
  sample.go defines SampleState, the 48-field running sample vector that
  the binary record decoder mutates one frame at a time, along with its
  not-available flags and per-engine EGT span. The canonical storage is a
  flat [48]int16 array (so the flag-byte-group math in record.go can index
  it directly); named accessors below are a fixed-offset view over the
  same storage, as laid out in the field table.

LICENSE
  Copyright (C) 2026 the EDM700 Project. All Rights Reserved.
*/

package edm700

import "github.com/flightdata/edm700/container/edm700/edmbits"

// TwinJump is the offset, in flat field-vector indices, between an
// engine-0 field and the corresponding engine-1 field: the same bit
// position three flag-byte groups later (used for the EGT bank and its
// scale deltas).
const TwinJump = 3 * 8

// Flat field-vector indices, grouped in the same six flag-byte groups the
// wire format uses. Group g occupies indices [g*8, g*8+8).
const (
	idxEGT0 = iota // group 0
	idxEGT1
	idxEGT2
	idxEGT3
	idxEGT4
	idxEGT5
	idxT1
	idxT2

	idxCHT0 // group 1
	idxCHT1
	idxCHT2
	idxCHT3
	idxCHT4
	idxCHT5
	idxCLD
	idxOil

	idxMark // group 2
	idxUnk31
	idxCDT
	idxIAT
	idxBat
	idxOAT
	idxUsd
	idxFF

	idxREGT0 // group 3
	idxREGT1
	idxREGT2
	idxREGT3
	idxREGT4
	idxREGT5
	idxHPOrRT1
	idxRT2

	idxRCHT0 // group 4
	idxRCHT1
	idxRCHT2
	idxRCHT3
	idxRCHT4
	idxRCHT5
	idxRCLD
	idxROil

	idxMap // group 5
	idxRPM
	idxRPMHiOrRCDT
	idxRIAT
	idxUnk64
	idxUnk65
	idxRUsd
	idxRFF
)

// numFields is the size of the flat sample vector: six flag-byte groups of
// eight fields each.
const numFields = 48

// initField is the literal value every field is initialised to before any
// frame has been decoded.
const initField int16 = 0x00F0

// SampleState is the decoder's running state for one flight: the current
// value of all 48 engine-sensor fields, which fields are currently
// not-available, and the derived per-engine EGT span. A SampleState is
// owned by exactly one decoding session; it is never aliased across
// flights or decoders.
type SampleState struct {
	fields [numFields]int16

	// NAFlags holds one bit per field (group g, bit b -> field g*8+b),
	// set when that field's value is currently not-available.
	NAFlags [6]byte

	// Dif holds the per-engine EGT span (max-min over valid cylinders),
	// recomputed by the post-sample calculator after every frame.
	Dif [2]int16
}

// NewSampleState returns the initial SampleState for a flight: every field
// set to the literal 0x00F0, with the hp/rt1 and rpm-high/rcdt union
// fields zeroed for single-engine configurations, per §3 of the decoder
// design.
func NewSampleState(singleEngine bool) SampleState {
	var s SampleState
	for i := range s.fields {
		s.fields[i] = initField
	}
	if singleEngine {
		s.fields[idxHPOrRT1] = 0
		s.fields[idxRPMHiOrRCDT] = 0
	}
	return s
}

// Field returns the flat-vector value at idx (0..47).
func (s *SampleState) Field(idx int) int16 { return s.fields[idx] }

// SetField sets the flat-vector value at idx (0..47).
func (s *SampleState) SetField(idx int, v int16) { s.fields[idx] = v }

// EGT returns the exhaust-gas-temperature field for cylinder cyl (0..5) of
// engine eng (0 or 1).
func (s *SampleState) EGT(eng, cyl int) int16 { return s.fields[eng*TwinJump+cyl] }

// T1 returns the first turbine-inlet/auxiliary temperature field.
func (s *SampleState) T1() int16 { return s.fields[idxT1] }

// T2 returns the second turbine-inlet/auxiliary temperature field.
func (s *SampleState) T2() int16 { return s.fields[idxT2] }

// CHT returns the cylinder-head-temperature field for cylinder cyl (0..5).
func (s *SampleState) CHT(cyl int) int16 { return s.fields[idxCHT0+cyl] }

// CLD returns the cylinder cooling-rate field.
func (s *SampleState) CLD() int16 { return s.fields[idxCLD] }

// Oil returns the oil-temperature field.
func (s *SampleState) Oil() int16 { return s.fields[idxOil] }

// Mark returns the mark/event field.
func (s *SampleState) Mark() int16 { return s.fields[idxMark] }

// CDT returns the compressor-discharge-temperature field.
func (s *SampleState) CDT() int16 { return s.fields[idxCDT] }

// IAT returns the induction-air-temperature field.
func (s *SampleState) IAT() int16 { return s.fields[idxIAT] }

// Battery returns the bus-voltage field.
func (s *SampleState) Battery() int16 { return s.fields[idxBat] }

// OAT returns the outside-air-temperature field.
func (s *SampleState) OAT() int16 { return s.fields[idxOAT] }

// FuelUsed returns the fuel-used field.
func (s *SampleState) FuelUsed() int16 { return s.fields[idxUsd] }

// FuelFlow returns the fuel-flow field.
func (s *SampleState) FuelFlow() int16 { return s.fields[idxFF] }

// RGT returns the second-engine exhaust-gas-temperature field for cylinder
// cyl (0..5). Present only on twin-engine configurations.
func (s *SampleState) RGT(cyl int) int16 { return s.fields[idxREGT0+cyl] }

// HPOrRT1 returns the hp/rt1 union field. Its meaning is determined by
// engine count; see the decoder's open questions.
func (s *SampleState) HPOrRT1() int16 { return s.fields[idxHPOrRT1] }

// RT2 returns the second-engine auxiliary temperature field.
func (s *SampleState) RT2() int16 { return s.fields[idxRT2] }

// RCHT returns the second-engine cylinder-head-temperature field for
// cylinder cyl (0..5).
func (s *SampleState) RCHT(cyl int) int16 { return s.fields[idxRCHT0+cyl] }

// RCLD returns the second-engine cylinder cooling-rate field.
func (s *SampleState) RCLD() int16 { return s.fields[idxRCLD] }

// ROil returns the second-engine oil-temperature field.
func (s *SampleState) ROil() int16 { return s.fields[idxROil] }

// MAP returns the manifold-absolute-pressure field.
func (s *SampleState) MAP() int16 { return s.fields[idxMap] }

// RPM returns the engine-speed field.
func (s *SampleState) RPM() int16 { return s.fields[idxRPM] }

// RPMHiOrRCDT returns the rpm-high-byte/rcdt union field.
func (s *SampleState) RPMHiOrRCDT() int16 { return s.fields[idxRPMHiOrRCDT] }

// RIAT returns the second-engine induction-air-temperature field.
func (s *SampleState) RIAT() int16 { return s.fields[idxRIAT] }

// RFuelUsed returns the second-engine fuel-used field.
func (s *SampleState) RFuelUsed() int16 { return s.fields[idxRUsd] }

// RFuelFlow returns the second-engine fuel-flow field.
func (s *SampleState) RFuelFlow() int16 { return s.fields[idxRFF] }

// NA reports whether the field at flat index idx is currently
// not-available.
func (s *SampleState) NA(idx int) bool {
	return edmbits.TestBit(s.NAFlags[:], idx)
}
