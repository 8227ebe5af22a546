/*
NAME
  config.go

DESCRIPTION
  config.go holds the decode-time configuration the binary record decoder
  needs but that the wire format does not pin down: how many engines and
  cylinders a given ConfigInfo/flags combination describes. §9 of the
  decoder design explicitly declines to guess at the feature-flags bit
  layout that would derive these, so they are supplied by the caller.

LICENSE
  Copyright (C) 2026 the EDM700 Project. All Rights Reserved.
*/

package edm700

import "github.com/flightdata/edm700/container/edm700/header"

// Config supplies the decoder with the two functions the wire format
// leaves opaque: the number of engines for a given instrument
// configuration, and the number of cylinders for a given flight's
// composed feature flags. Callers populate these from whatever
// model/installation table they maintain; the decoder never infers them
// from bit patterns itself.
type Config struct {
	// NumEngines returns 1 or 2 for the given instrument configuration.
	NumEngines func(header.ConfigInfo) int

	// NumCyls returns the cylinder count (1..6) for the given flight's
	// composed feature flags.
	NumCyls func(flags uint32) int
}

// SingleEngine reports whether cfg's NumEngines is 1 for the given
// instrument configuration.
func (c Config) SingleEngine(info header.ConfigInfo) bool {
	return c.NumEngines(info) == 1
}
