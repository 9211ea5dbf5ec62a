package rdb

import "fmt"

// LookupRouterId finds id in the Router ID Set and marks it most recently used.
func (db *Database) LookupRouterId(id RouterId) (RouterIdEntry, bool) {
	i := db.rids.lookup(id)
	if i == nilSlot {
		return RouterIdEntry{}, false
	}
	return *db.rids.at(i), true
}

// IsValid reports whether id is a member of the Router ID Set.
func (db *Database) IsValid(id RouterId) bool {
	_, ok := db.LookupRouterId(id)
	return ok
}

// AddRouterId admits id to the Router ID Set, evicting the least recently used
// member when the set is full.
func (db *Database) AddRouterId(id RouterId) (RouterIdEntry, error) {
	if db.rids.find(id) != nilSlot {
		db.log.Debug("router id already known", "router", id)
		return RouterIdEntry{}, fmt.Errorf("router id %d: %w", id, ErrAlreadyExists)
	}
	if db.rids.full() {
		oldest := db.rids.release(db.rids.oldest())
		db.evicted(KindRouterId, oldest.RouterId)
	}
	i := db.rids.alloc(RouterIdEntry{RouterId: id})
	e := db.rids.at(i)
	e.Handle = db.rids.handle(i)
	db.log.Debug("added router id", "router", id, "count", db.rids.len())
	return *e, nil
}

// RemoveRouterId removes the entry h refers to.
func (db *Database) RemoveRouterId(h Handle) error {
	i := db.rids.resolve(h)
	if i == nilSlot {
		return fmt.Errorf("remove router id: %w", ErrStaleHandle)
	}
	e := db.rids.release(i)
	db.log.Debug("removed router id", "router", e.RouterId, "count", db.rids.len())
	return nil
}

// RemoveRouterIdById removes id from the Router ID Set if present.
func (db *Database) RemoveRouterIdById(id RouterId) bool {
	i := db.rids.find(id)
	if i == nilSlot {
		return false
	}
	return db.RemoveRouterId(db.rids.handle(i)) == nil
}
