package rdb

// Link quality functions. All of them are pure integer transforms.

// QualityBucket maps a link margin (dB) to its quality level without hysteresis.
func QualityBucket(margin uint16) Quality {
	switch {
	case margin > qualityThreshold3:
		return Quality3
	case margin > qualityThreshold2:
		return Quality2
	case margin > qualityThreshold1:
		return Quality1
	default:
		return Quality0
	}
}

func qualityFloor(q Quality) uint16 {
	switch q {
	case Quality3:
		return qualityThreshold3
	case Quality2:
		return qualityThreshold2
	case Quality1:
		return qualityThreshold1
	default:
		return 0
	}
}

// LowerBound clamps a margin down to the floor of its quality band.
func LowerBound(margin uint16) uint16 {
	return qualityFloor(QualityBucket(margin))
}

// Hysteresis reports whether a margin moved far enough to be acted upon.
func Hysteresis(oldMargin, newMargin uint16) bool {
	if newMargin > oldMargin {
		return newMargin-oldMargin > LinkMarginHysteresis
	}
	return oldMargin-newMargin > LinkMarginHysteresis
}

// IncomingQuality returns the quality level for margin given the level
// currently assigned to the link. The level only moves once the margin has
// cleared the band boundary by more than LinkMarginHysteresis.
func IncomingQuality(prev Quality, margin uint16) Quality {
	raw := QualityBucket(margin)
	switch {
	case raw > prev:
		if Hysteresis(LowerBound(margin), margin) {
			return raw
		}
	case raw < prev:
		if Hysteresis(qualityFloor(prev), margin) {
			return raw
		}
	}
	return prev
}

// LinkCost maps an incoming quality level to the cost of using the link.
func LinkCost(q Quality) Cost {
	switch q {
	case Quality3:
		return LinkCost1
	case Quality2:
		return LinkCost2
	case Quality1:
		return LinkCost6
	default:
		return LinkCostInfinite
	}
}

// MarginAverage folds a new margin sample into the running average with a
// weight of 1/8.
func MarginAverage(oldMargin, newMargin uint16) uint16 {
	old := uint32(oldMargin)
	return uint16(((old << marginAverageShift) - old + uint32(newMargin)) >> marginAverageShift)
}

// AddCost adds costs, saturating at MaxRouteCost.
func AddCost(a, b Cost) Cost {
	sum := uint16(a) + uint16(b)
	if sum >= uint16(MaxRouteCost) {
		return MaxRouteCost
	}
	return Cost(sum)
}

// ClampCost limits a reported cost to MaxRouteCost.
func ClampCost(c Cost) Cost {
	return min(c, MaxRouteCost)
}
