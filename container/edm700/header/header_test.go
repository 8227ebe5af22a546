/*
NAME
  header_test.go

LICENSE
  Copyright (C) 2026 the EDM700 Project. All Rights Reserved.
*/

package header

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLineSeedScenarios(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Record
	}{
		{
			name: "configured limits",
			line: "$A,155,130,400,415, 60,1650,220, 75*70",
			want: Record{Kind: KindConfiguredLimits, Limits: ConfiguredLimits{
				VoltsHiTimesTen: 155, VoltsLoTimesTen: 130, Dif: 400, CHT: 415,
				CLD: 60, TIT: 1650, OilHi: 220, OilLo: 75,
			}},
		},
		{
			name: "fuel flow",
			line: "$F,0, 49, 22,3183,3183*57",
			want: Record{Kind: KindFuelFlow, Fuel: FuelFlowLimits{
				Empty: 0, Full: 49, Warning: 22, KFactor: 3183, KFactor2: 3183,
			}},
		},
		{
			name: "timestamp",
			line: "$T, 5,13, 5,23, 2, 2222*65",
			want: Record{Kind: KindTimestamp, Stamp: Timestamp{
				Month: 5, Day: 13, Year: 5, Hour: 23, Minute: 2, Unknown: 2222,
			}},
		},
		{
			name: "config info",
			line: "$C, 700,63741, 6193, 1552, 292*58",
			want: Record{Kind: KindConfigInfo, Config: ConfigInfo{
				ModelNumber: 700, FeatureFlagsLo: 63741, FeatureFlagsHi: 6193,
				UnknownFlags: 1552, FirmwareVersion: 292,
			}},
		},
		{
			name: "flight directory",
			line: "$D,  227, 3979*57",
			want: Record{Kind: KindFlightDirectory, Directory: FlightDirectoryEntry{
				FlightNumber: 227, Length: 3979,
			}},
		},
		{
			name: "terminator",
			line: "$L, 49*4D",
			want: Record{Kind: KindTerminator, Terminator: TerminatorRecord{Unknown: 49}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			if err != nil {
				t.Fatalf("ParseLine(%q) returned error: %v", tt.line, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseLine(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestConfigInfoComposedFlagsAndRPM(t *testing.T) {
	c := ConfigInfo{FeatureFlagsLo: 63741, FeatureFlagsHi: 6193}
	want := uint32(6193)<<16 | uint32(63741)
	if got := c.ComposedFlags(); got != want {
		t.Errorf("ComposedFlags() = %#x, want %#x", got, want)
	}
	if !c.HasRPM() {
		t.Errorf("HasRPM() = false, want true for composed flags %#x", want)
	}
}

func TestFlightDirectoryEntryByteLength(t *testing.T) {
	d := FlightDirectoryEntry{FlightNumber: 227, Length: 3979}
	if got, want := d.ByteLength(), 7958; got != want {
		t.Errorf("ByteLength() = %d, want %d", got, want)
	}
}

func TestParseLineTailNumber(t *testing.T) {
	line := "$U,N12345AB___*" + checksumHex("U,N12345AB___")
	got, err := ParseLine(line)
	if err != nil {
		t.Fatalf("ParseLine(%q) returned error: %v", line, err)
	}
	if got.TailNumber != "N12345AB" {
		t.Errorf("TailNumber = %q, want %q", got.TailNumber, "N12345AB")
	}
}

func TestParseLineBadChecksum(t *testing.T) {
	_, err := ParseLine("$A,155,130,400,415, 60,1650,220, 75*71")
	if err != ErrBadChecksum {
		t.Errorf("err = %v, want ErrBadChecksum", err)
	}
}

func TestParseLineUnknownRecord(t *testing.T) {
	line := "$Z,1*" + checksumHex("Z,1")
	_, err := ParseLine(line)
	if err != ErrUnknownRecord {
		t.Errorf("err = %v, want ErrUnknownRecord", err)
	}
}

func TestParseLineBadEnvelope(t *testing.T) {
	_, err := ParseLine("not a record")
	if err != ErrBadEnvelope {
		t.Errorf("err = %v, want ErrBadEnvelope", err)
	}
}

func TestParseLineBadNumber(t *testing.T) {
	line := "$D,abc, 3979*" + checksumHex("D,abc, 3979")
	_, err := ParseLine(line)
	if err == nil {
		t.Fatalf("expected error for malformed numeric field")
	}
}

// checksumHex computes the hex checksum for a payload string, for use in
// constructing test fixtures that don't appear in the seed scenarios.
func checksumHex(payload string) string {
	x := byte(0)
	for _, b := range []byte(payload) {
		x ^= b
	}
	const hexDigits = "0123456789ABCDEF"
	return string([]byte{hexDigits[x>>4], hexDigits[x&0xf]})
}
