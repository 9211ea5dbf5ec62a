package core

import (
	"errors"
	"slices"
	"time"

	"github.com/encodeous/weft/rdb"
	"github.com/encodeous/weft/state"
)

// Router is an interface that defines the underlying router operations
type Router interface {
	TableInsertRoute(dest rdb.RouterId, nh rdb.RouterId, cost rdb.Cost)
	TableDeleteRoute(dest rdb.RouterId)
	TableClear()
	Log(event RouterEvent, desc string, args ...any)
}

// syncForward pushes the current best path to dest into the forwarding table.
func syncForward(rs *state.RouterState, r Router, dest rdb.RouterId) {
	if dest == rs.Id {
		return
	}
	if nh, cost, ok := rs.DB.NextHop(dest); ok {
		r.TableInsertRoute(dest, nh, cost)
	} else {
		r.TableDeleteRoute(dest)
	}
}

// syncVia refreshes nh and every destination currently routed through it.
func syncVia(rs *state.RouterState, r Router, nh rdb.RouterId) {
	dests := []rdb.RouterId{nh}
	for route := range rs.DB.Routes() {
		if route.NextHop == nh {
			dests = append(dests, route.Destination)
		}
	}
	for _, d := range dests {
		syncForward(rs, r, d)
	}
}

// dropPathsVia removes everything that depends on a link to nh that no
// longer exists and updates the forwarding table accordingly.
func dropPathsVia(rs *state.RouterState, r Router, nh rdb.RouterId) {
	lost := rs.DB.PurgeRoutesVia(nh)
	for _, d := range lost {
		r.Log(RouteWithdrawn, "next hop lost", "dst", d, "nh", nh)
	}
	syncForward(rs, r, nh)
	for _, d := range lost {
		syncForward(rs, r, d)
	}
}

// forgetRouter removes id and everything referring to it.
func forgetRouter(rs *state.RouterState, r Router, id rdb.RouterId) {
	rs.DB.RemoveLinkById(id)
	rs.DB.RemoveRouteByDestination(id)
	dropPathsVia(rs, r, id)
}

// handleEvictions cleans up after entries the database dropped to make room.
// Every handler calls it last.
func handleEvictions(rs *state.RouterState, r Router) {
	for {
		evs := rs.TakeEvictions()
		if len(evs) == 0 {
			return
		}
		for _, ev := range evs {
			switch ev.Kind {
			case rdb.KindRouterId:
				r.Log(RouterIdRemoved, "evicted", "router", ev.Id)
				forgetRouter(rs, r, ev.Id)
			case rdb.KindLink:
				r.Log(LinkExpired, "evicted", "router", ev.Id)
				dropPathsVia(rs, r, ev.Id)
			case rdb.KindRoute:
				r.Log(RouteWithdrawn, "evicted", "dst", ev.Id)
				syncForward(rs, r, ev.Id)
			}
		}
	}
}

func logDbError(r Router, err error, args ...any) {
	switch {
	case errors.Is(err, rdb.ErrInconsistency):
		r.Log(InconsistentState, err.Error(), args...)
	case errors.Is(err, rdb.ErrUnknownIdentifier):
		r.Log(UnknownRouterId, err.Error(), args...)
	case errors.Is(err, rdb.ErrAlreadyExists):
		r.Log(DuplicateEntry, err.Error(), args...)
	default:
		r.Log(InconsistentState, err.Error(), args...)
	}
}

// HandleAdvertisement processes neighbour sender claiming it reaches dest at cost.
func HandleAdvertisement(rs *state.RouterState, r Router, sender, dest rdb.RouterId, cost rdb.Cost) rdb.Outcome {
	defer handleEvictions(rs, r)
	if dest == rs.Id || sender == rs.Id {
		return rdb.Unchanged
	}
	route, out, err := rs.DB.UpdateRoute(sender, dest, cost)
	if err != nil {
		logDbError(r, err, "sender", sender, "dst", dest, "cost", cost)
		return out
	}
	switch out {
	case rdb.Added:
		r.Log(RouteAdded, route.String(), "sender", sender)
	case rdb.Improved:
		r.Log(RouteImproved, route.String(), "sender", sender)
	case rdb.Withdrawn:
		r.Log(RouteWithdrawn, "withdrawn by next hop", "dst", dest, "nh", sender)
	default:
		r.Log(RouteUnchanged, "", "sender", sender, "dst", dest, "cost", cost)
		return out
	}
	syncForward(rs, r, dest)
	return out
}

// HandleLinkObservation records a new margin sample for the link to id. It
// returns false if the link could not be recorded.
func HandleLinkObservation(rs *state.RouterState, r Router, id rdb.RouterId, margin uint16, outgoing rdb.Quality, age time.Duration) bool {
	defer handleEvictions(rs, r)
	if id == rs.Id {
		return false
	}
	existed := rs.DB.IsNeighbor(id)
	l, err := rs.DB.UpdateLink(id, margin, outgoing, age)
	if err != nil {
		logDbError(r, err, "router", id)
		return false
	}
	if existed {
		r.Log(LinkRefreshed, l.String())
	} else {
		r.Log(LinkAdded, l.String())
	}
	syncVia(rs, r, id)
	return true
}

// HandleLinkAdd creates a link to id from a first margin sample. Unlike
// HandleLinkObservation it refuses to touch an existing link.
func HandleLinkAdd(rs *state.RouterState, r Router, id rdb.RouterId, margin uint16, outgoing rdb.Quality, age time.Duration) bool {
	defer handleEvictions(rs, r)
	if id == rs.Id {
		return false
	}
	l, err := rs.DB.AddLink(id, margin, rdb.QualityBucket(margin), outgoing, age)
	if err != nil {
		logDbError(r, err, "router", id)
		return false
	}
	r.Log(LinkAdded, l.String())
	syncVia(rs, r, id)
	return true
}

// HandleLinkExpiry drops the link to id along with every route through it.
func HandleLinkExpiry(rs *state.RouterState, r Router, id rdb.RouterId) {
	defer handleEvictions(rs, r)
	if rs.DB.RemoveLinkById(id) {
		r.Log(LinkExpired, "", "router", id)
	}
	dropPathsVia(rs, r, id)
}

// HandleRouterIdAdd admits id to the Router ID Set.
func HandleRouterIdAdd(rs *state.RouterState, r Router, id rdb.RouterId) {
	defer handleEvictions(rs, r)
	if id > rdb.MaxRouterId {
		r.Log(UnknownRouterId, "router id out of range", "router", id)
		return
	}
	if _, err := rs.DB.AddRouterId(id); err != nil {
		logDbError(r, err, "router", id)
		return
	}
	r.Log(RouterIdAdded, "", "router", id)
}

// HandleRouterIdRemove removes id from the Router ID Set, cascading to its
// link, its route and every route through it.
func HandleRouterIdRemove(rs *state.RouterState, r Router, id rdb.RouterId) {
	defer handleEvictions(rs, r)
	if !rs.DB.RemoveRouterIdById(id) {
		r.Log(UnknownRouterId, "not in the router id set", "router", id)
		return
	}
	r.Log(RouterIdRemoved, "", "router", id)
	forgetRouter(rs, r, id)
}

// HandleRouterIdSet applies an assignment of router ids: ids that are no
// longer assigned are removed with everything depending on them, new ones are
// admitted. The node's own id is never removed.
func HandleRouterIdSet(rs *state.RouterState, r Router, ids []rdb.RouterId) {
	defer handleEvictions(rs, r)
	var departed []rdb.RouterId
	for e := range rs.DB.RouterIds() {
		if e.RouterId != rs.Id && !slices.Contains(ids, e.RouterId) {
			departed = append(departed, e.RouterId)
		}
	}
	for _, id := range departed {
		HandleRouterIdRemove(rs, r, id)
	}
	for _, id := range ids {
		if slices.Contains(departed, id) {
			continue
		}
		if _, ok := rs.DB.LookupRouterId(id); !ok {
			HandleRouterIdAdd(rs, r, id)
		}
	}
}

// HandleLeaderData processes a Leader Data TLV. Joining a different partition
// discards everything learned in the previous one.
func HandleLeaderData(rs *state.RouterState, r Router, idSequence uint8, ld rdb.LeaderData) {
	defer handleEvictions(rs, r)
	if ld.LeaderRouterId > rdb.MaxRouterId {
		r.Log(InvalidLeaderData, "leader router id out of range", "leader", ld.LeaderRouterId)
		return
	}
	if rs.Partition.Valid() && rs.Partition.PartitionId != ld.PartitionId {
		r.Log(PartitionChanged, rs.Partition.String(), "partition", ld.PartitionId)
		HandleReset(rs, r)
	}
	if err := rs.Partition.ProcessLeaderData(idSequence, ld); err != nil {
		r.Log(InvalidLeaderData, err.Error())
	}
}

// HandleReset empties the routing database and the forwarding table, and
// forgets the partition.
func HandleReset(rs *state.RouterState, r Router) {
	rs.DB.Reset()
	rs.Partition.Empty()
	rs.TakeEvictions()
	r.TableClear()
}

// LeaderCost is the cost of reaching the partition leader.
func LeaderCost(rs *state.RouterState) rdb.Cost {
	if !rs.Partition.Valid() {
		return rdb.MaxRouteCost
	}
	if rs.Partition.LeaderRouterId == rs.Id {
		return 0
	}
	return rs.DB.PathCost(rs.Partition.LeaderRouterId)
}
