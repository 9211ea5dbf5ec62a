package rdb

import "fmt"

// UpdateRoute processes an advertisement from neighbour sender claiming it can
// reach dest at cost reported. A reported cost of zero withdraws the route.
//
// A new route is installed unless dest is a neighbour whose direct link is at
// least as cheap as going through sender. An installed route is only replaced
// by a strictly cheaper path, so equal-cost alternatives never displace it.
// Withdrawals are only honoured from the current next hop.
//
// ErrInconsistency is returned, with no change made, when sender or the
// current next hop has no link.
func (db *Database) UpdateRoute(sender, dest RouterId, reported Cost) (Route, Outcome, error) {
	ri := db.routes.lookup(dest)

	if reported == 0 {
		if ri == nilSlot || db.routes.at(ri).NextHop != sender {
			return Route{}, Unchanged, nil
		}
		db.routes.release(ri)
		db.log.Debug("route withdrawn", "dst", dest, "nh", sender, "count", db.routes.len())
		return Route{}, Withdrawn, nil
	}

	if ri == nilSlot {
		direct := db.links.lookup(dest)
		si := db.links.lookup(sender)
		if si == nilSlot {
			db.log.Warn("advertisement from router without a link", "sender", sender, "dst", dest)
			return Route{}, Unchanged, fmt.Errorf("route to %d via %d: no link to sender: %w", dest, sender, ErrInconsistency)
		}
		candidate := uint16(LinkCostOf(*db.links.at(si))) + uint16(reported)
		if direct != nilSlot && candidate >= uint16(LinkCostOf(*db.links.at(direct))) {
			db.log.Debug("direct link is not worse than advertised route", "dst", dest, "sender", sender, "cost", candidate)
			return Route{}, Unchanged, nil
		}
		r, err := db.AddRoute(dest, sender, ClampCost(reported))
		if err != nil {
			return Route{}, Unchanged, err
		}
		return r, Added, nil
	}

	si := db.links.lookup(sender)
	if si == nilSlot {
		db.log.Warn("advertisement from router without a link", "sender", sender, "dst", dest)
		return Route{}, Unchanged, fmt.Errorf("route to %d via %d: no link to sender: %w", dest, sender, ErrInconsistency)
	}
	r := db.routes.at(ri)
	ni := db.links.lookup(r.NextHop)
	if ni == nilSlot {
		db.log.Warn("installed route has no link to its next hop", "dst", dest, "nh", r.NextHop)
		return Route{}, Unchanged, fmt.Errorf("route to %d: no link to next hop %d: %w", dest, r.NextHop, ErrInconsistency)
	}

	candidate := uint16(LinkCostOf(*db.links.at(si))) + uint16(reported)
	installed := uint16(LinkCostOf(*db.links.at(ni))) + uint16(r.Cost)
	if candidate >= installed {
		return *r, Unchanged, nil
	}
	db.log.Debug("found a better route", "dst", dest, "nh", sender, "old_nh", r.NextHop, "cost", candidate, "old_cost", installed)
	r.NextHop = sender
	r.Cost = ClampCost(reported)
	return *r, Improved, nil
}
