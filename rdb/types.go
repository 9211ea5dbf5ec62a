package rdb

import (
	"fmt"
	"time"
)

// RouterId is the mesh-wide identifier of a router.
type RouterId uint8

// Cost is a link or route cost. Lower is better, MaxRouteCost is unreachable.
type Cost uint8

// Quality is a discretized link quality level, 0 (unusable) to 3 (best).
type Quality uint8

const (
	Quality0 Quality = iota
	Quality1
	Quality2
	Quality3
)

// RouterIdEntry is one member of the Router ID Set.
type RouterIdEntry struct {
	Handle   Handle
	RouterId RouterId
}

// Link is the measured state of the link to one neighbouring router.
type Link struct {
	Handle          Handle
	RouterId        RouterId
	Margin          uint16
	IncomingQuality Quality
	OutgoingQuality Quality
	// Challenge and FrameCounter belong to the link security layer.
	Challenge    uint32
	FrameCounter uint32
	// Age is the lifetime granted to the link at its last refresh.
	Age time.Duration
}

// Route is the selected path to a destination that is not (only) a neighbour.
type Route struct {
	Handle      Handle
	Destination RouterId
	NextHop     RouterId
	Cost        Cost
}

func (r Route) String() string {
	return fmt.Sprintf("(dst: %d, nh: %d, cost: %d)", r.Destination, r.NextHop, r.Cost)
}

func (l Link) String() string {
	return fmt.Sprintf("(router: %d, margin: %d, in: %d, out: %d)", l.RouterId, l.Margin, l.IncomingQuality, l.OutgoingQuality)
}

// Outcome describes what an advertisement did to the Route Set.
type Outcome int

const (
	Unchanged Outcome = iota
	Added
	Improved
	Withdrawn
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Added:
		return "added"
	case Improved:
		return "improved"
	case Withdrawn:
		return "withdrawn"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Kind selects one of the three pools.
type Kind int

const (
	KindRouterId Kind = iota
	KindLink
	KindRoute
)

func (k Kind) String() string {
	switch k {
	case KindRouterId:
		return "router_id"
	case KindLink:
		return "link"
	case KindRoute:
		return "route"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}
