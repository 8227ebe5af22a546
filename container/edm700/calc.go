/*
NAME
  calc.go

DESCRIPTION
  calc.go is the post-sample calculator: derived fields computed from a
  just-updated SampleState plus the instrument config and flight header --
  the per-engine EGT span, and the RPM high-byte merge when the RPM
  feature flag is set. It is invoked by the record decoder before frame
  checksum verification and is idempotent.

LICENSE
  Copyright (C) 2026 the EDM700 Project. All Rights Reserved.
*/

package edm700

import (
	"github.com/pkg/errors"

	"github.com/flightdata/edm700/container/edm700/header"
)

// calcPostSample recomputes s.Dif and, if the flight's config has the RPM
// feature flag set, merges the RPM high byte into the primary RPM field.
func calcPostSample(s *SampleState, config header.ConfigInfo, fheader FlightHeader, cfg Config) error {
	cyls := cfg.NumCyls(fheader.Flags)
	engines := cfg.NumEngines(config)
	if cyls > 6 && engines != 1 {
		return newErr(Unsupported, errCylCountIncompatible, "post-sample calculation")
	}

	for e := 0; e < engines; e++ {
		var emax int16 = -1
		var emin int16 = 0x7FFF
		for i := 0; i < cyls; i++ {
			idx := i + e*TwinJump
			if i >= 6 {
				idx = i - 6 + TwinJump
			}
			if s.NA(idx) {
				continue
			}
			v := s.fields[idx]
			if v > emax {
				emax = v
			}
			if v < emin {
				emin = v
			}
		}
		// If no cylinder was valid, emax/emin keep their sentinel
		// initial values and Dif takes on the resulting (meaningless)
		// difference -- this matches the reference decoder, which does
		// not special-case the all-NA flight.
		s.Dif[e] = emax - emin
	}

	if config.HasRPM() {
		s.fields[idxRPM] += s.fields[idxRPMHiOrRCDT] << 8
		s.fields[idxRPMHiOrRCDT] = 0
	}

	return nil
}

var errCylCountIncompatible = errors.New("cylinder count > 6 requires a single-engine configuration")
