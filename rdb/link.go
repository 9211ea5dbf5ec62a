package rdb

import (
	"fmt"
	"time"
)

// LookupLink finds the link to neighbour id and marks it most recently used.
func (db *Database) LookupLink(id RouterId) (Link, bool) {
	i := db.links.lookup(id)
	if i == nilSlot {
		return Link{}, false
	}
	return *db.links.at(i), true
}

// IsNeighbor reports whether a link to id exists. It does not change the
// recency order.
func (db *Database) IsNeighbor(id RouterId) bool {
	return db.links.find(id) != nilSlot
}

// LinkCostOf is the cost of forwarding over l.
func LinkCostOf(l Link) Cost {
	return LinkCost(l.IncomingQuality)
}

// AddLink records a new link to neighbour id. The neighbour must already be in
// the Router ID Set and must not have a link yet.
func (db *Database) AddLink(id RouterId, margin uint16, incoming, outgoing Quality, age time.Duration) (Link, error) {
	if db.links.find(id) != nilSlot {
		db.log.Debug("link already known", "router", id)
		return Link{}, fmt.Errorf("link to %d: %w", id, ErrAlreadyExists)
	}
	if !db.IsValid(id) {
		db.log.Debug("refusing link to invalid router id", "router", id)
		return Link{}, fmt.Errorf("link to %d: %w", id, ErrUnknownIdentifier)
	}
	if db.links.full() {
		oldest := db.links.release(db.links.oldest())
		db.evicted(KindLink, oldest.RouterId)
	}
	i := db.links.alloc(Link{
		RouterId:        id,
		Margin:          margin,
		IncomingQuality: incoming,
		OutgoingQuality: outgoing,
		Age:             age,
	})
	l := db.links.at(i)
	l.Handle = db.links.handle(i)
	db.log.Debug("added link", "router", id, "margin", margin, "count", db.links.len())
	return *l, nil
}

// UpdateLink refreshes the link to neighbour id with a new margin sample,
// creating it when it does not exist yet. The stored margin is the running
// average of the samples and the incoming quality follows it with hysteresis.
func (db *Database) UpdateLink(id RouterId, margin uint16, outgoing Quality, age time.Duration) (Link, error) {
	i := db.links.lookup(id)
	if i == nilSlot {
		return db.AddLink(id, margin, QualityBucket(margin), outgoing, age)
	}
	l := db.links.at(i)
	l.Margin = MarginAverage(l.Margin, margin)
	l.IncomingQuality = IncomingQuality(l.IncomingQuality, l.Margin)
	l.OutgoingQuality = outgoing
	l.Age = age
	return *l, nil
}

// SetLinkSecurity stores the challenge and frame counter of the link to id.
func (db *Database) SetLinkSecurity(id RouterId, challenge, frameCounter uint32) error {
	i := db.links.find(id)
	if i == nilSlot {
		return fmt.Errorf("link to %d: %w", id, ErrInvalidArgs)
	}
	l := db.links.at(i)
	l.Challenge = challenge
	l.FrameCounter = frameCounter
	return nil
}

// RemoveLink removes the link h refers to. Routes through it are left alone;
// see PurgeRoutesVia.
func (db *Database) RemoveLink(h Handle) error {
	i := db.links.resolve(h)
	if i == nilSlot {
		return fmt.Errorf("remove link: %w", ErrStaleHandle)
	}
	l := db.links.release(i)
	db.log.Debug("removed link", "router", l.RouterId, "count", db.links.len())
	return nil
}

// RemoveLinkById removes the link to id if present.
func (db *Database) RemoveLinkById(id RouterId) bool {
	i := db.links.find(id)
	if i == nilSlot {
		return false
	}
	return db.RemoveLink(db.links.handle(i)) == nil
}
