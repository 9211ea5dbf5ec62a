package rdb

import "fmt"

// LookupRoute finds the route to dest and marks it most recently used.
func (db *Database) LookupRoute(dest RouterId) (Route, bool) {
	i := db.routes.lookup(dest)
	if i == nilSlot {
		return Route{}, false
	}
	return *db.routes.at(i), true
}

// AddRoute installs a route to dest. dest must be in the Router ID Set and
// must not have a route yet.
func (db *Database) AddRoute(dest, nextHop RouterId, cost Cost) (Route, error) {
	if db.routes.find(dest) != nilSlot {
		db.log.Debug("route already known", "dst", dest)
		return Route{}, fmt.Errorf("route to %d: %w", dest, ErrAlreadyExists)
	}
	if !db.IsValid(dest) {
		db.log.Debug("refusing route to invalid router id", "dst", dest)
		return Route{}, fmt.Errorf("route to %d: %w", dest, ErrUnknownIdentifier)
	}
	if db.routes.full() {
		oldest := db.routes.release(db.routes.oldest())
		db.evicted(KindRoute, oldest.Destination)
	}
	i := db.routes.alloc(Route{
		Destination: dest,
		NextHop:     nextHop,
		Cost:        cost,
	})
	r := db.routes.at(i)
	r.Handle = db.routes.handle(i)
	db.log.Debug("added route", "dst", dest, "nh", nextHop, "cost", cost, "count", db.routes.len())
	return *r, nil
}

// RemoveRoute removes the route h refers to.
func (db *Database) RemoveRoute(h Handle) error {
	i := db.routes.resolve(h)
	if i == nilSlot {
		return fmt.Errorf("remove route: %w", ErrStaleHandle)
	}
	r := db.routes.release(i)
	db.log.Debug("removed route", "dst", r.Destination, "count", db.routes.len())
	return nil
}

// RemoveRouteByDestination removes the route to dest if present.
func (db *Database) RemoveRouteByDestination(dest RouterId) bool {
	i := db.routes.find(dest)
	if i == nilSlot {
		return false
	}
	return db.RemoveRoute(db.routes.handle(i)) == nil
}

// PurgeRoutesVia removes every route whose next hop is nh and returns the
// destinations that lost their route.
func (db *Database) PurgeRoutesVia(nh RouterId) []RouterId {
	var lost []RouterId
	for i := range db.routes.all() {
		r := db.routes.at(i)
		if r.NextHop != nh {
			continue
		}
		lost = append(lost, r.Destination)
		db.routes.release(i)
	}
	if len(lost) > 0 {
		db.log.Debug("purged routes via next hop", "nh", nh, "dsts", lost)
	}
	return lost
}

// PathCost is the total cost of reaching dest: over the direct link, over the
// selected route, whichever is cheaper. Unreachable destinations cost
// MaxRouteCost. The recency order is not changed.
func (db *Database) PathCost(dest RouterId) Cost {
	_, cost, _ := db.NextHop(dest)
	return cost
}

// NextHop returns the neighbour to forward traffic for dest to, following
// the same preference as PathCost. ok is false for unreachable destinations.
func (db *Database) NextHop(dest RouterId) (nh RouterId, cost Cost, ok bool) {
	cost = MaxRouteCost
	if i := db.links.find(dest); i != nilSlot {
		if c := LinkCostOf(*db.links.at(i)); c < cost {
			nh, cost, ok = dest, c, true
		}
	}
	if i := db.routes.find(dest); i != nilSlot {
		r := db.routes.at(i)
		if j := db.links.find(r.NextHop); j != nilSlot {
			if c := AddCost(LinkCostOf(*db.links.at(j)), r.Cost); c < cost {
				nh, cost, ok = r.NextHop, c, true
			}
		}
	}
	return nh, cost, ok
}
