package matrix

import (
	"fmt"
	"strings"
)

// Mode is how a benchmark drives a search.
type Mode uint8

const (
	// OneShot runs a single search, construction included.
	OneShot Mode = iota
	// Prebuilt runs a single search on a searcher built before timing.
	Prebuilt
	// OneShotIter counts every match, construction included.
	OneShotIter
	// PrebuiltIter counts every match on a searcher built before timing.
	PrebuiltIter
)

// Modes lists every mode in generation order.
var Modes = [...]Mode{OneShot, Prebuilt, OneShotIter, PrebuiltIter}

var modeNames = [...]string{
	OneShot:      "oneshot",
	Prebuilt:     "prebuilt",
	OneShotIter:  "oneshotiter",
	PrebuiltIter: "prebuiltiter",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// Iterating reports whether m counts matches instead of finding one.
func (m Mode) Iterating() bool { return m == OneShotIter || m == PrebuiltIter }

// Prebuilt reports whether m builds its searcher outside the timed region.
func (m Mode) Prebuilt() bool { return m == Prebuilt || m == PrebuiltIter }

// ParseMode returns the Mode named s.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// Direction is the order in which a search visits the haystack.
type Direction uint8

const (
	Forward Direction = iota
	Reverse
)

// Directions lists both directions in generation order.
var Directions = [...]Direction{Forward, Reverse}

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Group is the leading name component for benchmarks in direction d.
func (d Direction) Group() string {
	if d == Reverse {
		return "memrmem"
	}
	return "memmem"
}

func parseGroup(s string) (Direction, bool) {
	switch s {
	case "memmem":
		return Forward, true
	case "memrmem":
		return Reverse, true
	}
	return 0, false
}

// Capabilities is the set of (mode, direction) pairs an implementation
// supports for one needle. The zero value supports nothing.
type Capabilities uint8

// Capability returns the set holding only (m, d).
func Capability(m Mode, d Direction) Capabilities {
	return 1 << (uint(d)*uint(len(Modes)) + uint(m))
}

// ForwardModes returns the set of ms in the forward direction.
func ForwardModes(ms ...Mode) Capabilities {
	var c Capabilities
	for _, m := range ms {
		c |= Capability(m, Forward)
	}
	return c
}

const (
	// AllForward supports every mode, forward only.
	AllForward Capabilities = 1<<4 - 1
	// All supports every mode in both directions.
	All Capabilities = AllForward | AllForward<<4
)

// Has reports whether c contains (m, d).
func (c Capabilities) Has(m Mode, d Direction) bool {
	return c&Capability(m, d) != 0
}

// WithReverse extends every forward mode in c to the reverse direction.
func (c Capabilities) WithReverse() Capabilities {
	return c | (c&AllForward)<<4
}

// String lists c using the tag vocabulary accepted by ParseCapabilities.
// Reverse modes without a forward counterpart are written reverse-<mode>.
func (c Capabilities) String() string {
	var tags []string
	fwd, rev := c&AllForward, c>>4
	for _, m := range Modes {
		if c.Has(m, Forward) {
			tags = append(tags, m.String())
		}
	}
	switch {
	case rev == 0:
	case rev == fwd:
		tags = append(tags, "reverse")
	default:
		for _, m := range Modes {
			if c.Has(m, Reverse) {
				tags = append(tags, "reverse-"+m.String())
			}
		}
	}
	if len(tags) == 0 {
		return "none"
	}
	return strings.Join(tags, ",")
}

// ParseCapabilities builds a set from capability tags: the mode names plus
// "reverse", which extends every listed mode to the reverse direction.
func ParseCapabilities(tags ...string) (Capabilities, error) {
	var c Capabilities
	reverse := false
	for _, tag := range tags {
		if tag == "reverse" {
			reverse = true
			continue
		}
		m, err := ParseMode(tag)
		if err != nil {
			return 0, fmt.Errorf("capability: %w", err)
		}
		c |= Capability(m, Forward)
	}
	if reverse {
		c = c.WithReverse()
	}
	return c, nil
}
