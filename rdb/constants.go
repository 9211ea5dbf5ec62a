package rdb

// Protocol constants. These are shared with every other implementation of the
// mesh routing protocol and must not be tuned locally.
const (
	// MaxRouterId is the largest router id a mesh may assign.
	MaxRouterId RouterId = 62

	// MaxRouteCost is the infinite route cost. Costs saturate at this value.
	MaxRouteCost Cost = 16

	LinkCost1        Cost = 1
	LinkCost2        Cost = 2
	LinkCost6        Cost = 6
	LinkCostInfinite      = MaxRouteCost

	// link margin thresholds (dB) separating the incoming quality levels;
	// a margin must be strictly above a threshold to reach the level
	qualityThreshold1 uint16 = 2
	qualityThreshold2 uint16 = 10
	qualityThreshold3 uint16 = 20

	// LinkMarginHysteresis is the band (dB) a margin must clear before a
	// quality change is acted upon.
	LinkMarginHysteresis uint16 = 2

	// marginAverageShift sets the EWMA weight of a new margin sample to 1/8.
	marginAverageShift = 3
)

// Default pool capacities.
const (
	DefaultRouterIdCapacity = int(MaxRouterId) + 1
	DefaultLinkCapacity     = 32
	DefaultRouteCapacity    = 32
)
