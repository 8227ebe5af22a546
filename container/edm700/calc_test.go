/*
NAME
  calc_test.go

LICENSE
  Copyright (C) 2026 the EDM700 Project. All Rights Reserved.
*/

package edm700

import (
	"testing"

	"github.com/flightdata/edm700/container/edm700/header"
)

func TestCalcPostSampleEGTSpan(t *testing.T) {
	s := NewSampleState(true)
	s.fields[idxEGT0] = 100
	s.fields[idxEGT1] = 150
	s.fields[idxEGT2] = 90
	edmbitsClearNA(&s, idxEGT0, idxEGT1, idxEGT2)
	edmbitsSetNA(&s, idxEGT3, idxEGT4, idxEGT5)

	cfg := Config{
		NumEngines: func(header.ConfigInfo) int { return 1 },
		NumCyls:    func(uint32) int { return 6 },
	}
	if err := calcPostSample(&s, header.ConfigInfo{}, FlightHeader{}, cfg); err != nil {
		t.Fatalf("calcPostSample: %v", err)
	}
	if got, want := s.Dif[0], int16(150-90); got != want {
		t.Errorf("Dif[0] = %d, want %d", got, want)
	}
}

func TestCalcPostSampleIsIdempotent(t *testing.T) {
	s := NewSampleState(true)
	s.fields[idxEGT0] = 100
	s.fields[idxEGT1] = 150
	edmbitsClearNA(&s, idxEGT0, idxEGT1)

	cfg := Config{
		NumEngines: func(header.ConfigInfo) int { return 1 },
		NumCyls:    func(uint32) int { return 6 },
	}
	config := header.ConfigInfo{FeatureFlagsHi: 1 << (26 - 16)}
	fheader := FlightHeader{Flags: config.ComposedFlags()}
	s.fields[idxRPM] = 10
	s.fields[idxRPMHiOrRCDT] = 2

	if err := calcPostSample(&s, config, fheader, cfg); err != nil {
		t.Fatalf("calcPostSample (first run): %v", err)
	}
	once := s

	if err := calcPostSample(&s, config, fheader, cfg); err != nil {
		t.Fatalf("calcPostSample (second run): %v", err)
	}
	if s != once {
		t.Errorf("calcPostSample is not idempotent: first %+v, second %+v", once, s)
	}
}

func TestCalcPostSampleRPMMerge(t *testing.T) {
	s := NewSampleState(true)
	s.fields[idxRPM] = 0x10
	s.fields[idxRPMHiOrRCDT] = 0x02

	cfg := Config{
		NumEngines: func(header.ConfigInfo) int { return 1 },
		NumCyls:    func(uint32) int { return 6 },
	}
	config := header.ConfigInfo{FeatureFlagsHi: 1 << (26 - 16)}
	if !config.HasRPM() {
		t.Fatal("test fixture config does not have the RPM flag set")
	}
	fheader := FlightHeader{Flags: config.ComposedFlags()}

	if err := calcPostSample(&s, config, fheader, cfg); err != nil {
		t.Fatalf("calcPostSample: %v", err)
	}
	if got, want := s.fields[idxRPM], int16(0x10+0x02<<8); got != want {
		t.Errorf("RPM = %#x, want %#x", got, want)
	}
	if got := s.fields[idxRPMHiOrRCDT]; got != 0 {
		t.Errorf("RPMHiOrRCDT = %#x, want 0 after merge", got)
	}
}

func TestCalcPostSampleRejectsIncompatibleCylCount(t *testing.T) {
	s := NewSampleState(false)
	cfg := Config{
		NumEngines: func(header.ConfigInfo) int { return 2 },
		NumCyls:    func(uint32) int { return 9 },
	}
	err := calcPostSample(&s, header.ConfigInfo{}, FlightHeader{}, cfg)
	de, ok := err.(*DecodeError)
	if !ok || de.Kind != Unsupported {
		t.Fatalf("err = %v, want an Unsupported DecodeError", err)
	}
}

func edmbitsClearNA(s *SampleState, idxs ...int) {
	for _, i := range idxs {
		s.NAFlags[i/8] &^= 1 << uint(i%8)
	}
}

func edmbitsSetNA(s *SampleState, idxs ...int) {
	for _, i := range idxs {
		s.NAFlags[i/8] |= 1 << uint(i%8)
	}
}
