package core

import "fmt"

type RouterEvent int

// trace events

const (
	RouteAdded RouterEvent = iota
	RouteImproved
	RouteWithdrawn
	RouteUnchanged
	LinkAdded
	LinkRefreshed
	LinkExpired
	RouterIdAdded
	RouterIdRemoved
	PartitionChanged
)

// warn events

const (
	InconsistentState RouterEvent = iota + 1000
	UnknownRouterId
	DuplicateEntry
	InvalidLeaderData
)

var eventNames = map[RouterEvent]string{
	RouteAdded:        "ROUTE_ADDED",
	RouteImproved:     "ROUTE_IMPROVED",
	RouteWithdrawn:    "ROUTE_WITHDRAWN",
	RouteUnchanged:    "ROUTE_UNCHANGED",
	LinkAdded:         "LINK_ADDED",
	LinkRefreshed:     "LINK_REFRESHED",
	LinkExpired:       "LINK_EXPIRED",
	RouterIdAdded:     "ROUTER_ID_ADDED",
	RouterIdRemoved:   "ROUTER_ID_REMOVED",
	PartitionChanged:  "PARTITION_CHANGED",
	InconsistentState: "INCONSISTENT_STATE",
	UnknownRouterId:   "UNKNOWN_ROUTER_ID",
	DuplicateEntry:    "DUPLICATE_ENTRY",
	InvalidLeaderData: "INVALID_LEADER_DATA",
}

func (e RouterEvent) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("RouterEvent(%d)", int(e))
}

// IsWarning reports whether e signals a problem rather than normal operation.
func (e RouterEvent) IsWarning() bool {
	return e >= InconsistentState
}
