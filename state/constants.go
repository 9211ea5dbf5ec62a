package state

import (
	"net/netip"
	"time"
)

var (
	GcDelay        = time.Millisecond * 1000
	DispatchBuffer = 128
	// DefaultLinkAge is how long a link survives without being observed (MAX_NEIGHBOR_AGE).
	DefaultLinkAge = time.Second * 100
	// SlowDispatchThreshold is the dispatch duration above which the main loop complains.
	SlowDispatchThreshold = time.Millisecond * 4

	DefaultMeshLocalPrefix = netip.MustParsePrefix("fd00:db8::/64")

	// MaxPoolCapacity bounds each configured pool; entries are indexed by a byte on the wire.
	MaxPoolCapacity = 255
)
