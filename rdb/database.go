package rdb

import (
	"fmt"
	"iter"
	"log/slog"
)

// Config sets the capacity of each pool. Capacities never change after New.
type Config struct {
	RouterIds int
	Links     int
	Routes    int
}

// DefaultConfig returns the stock pool capacities.
func DefaultConfig() Config {
	return Config{
		RouterIds: DefaultRouterIdCapacity,
		Links:     DefaultLinkCapacity,
		Routes:    DefaultRouteCapacity,
	}
}

func (c Config) Validate() error {
	if c.RouterIds < 1 || c.Links < 1 || c.Routes < 1 {
		return fmt.Errorf("%w: capacities must be positive, got %+v", ErrInvalidArgs, c)
	}
	return nil
}

// Database is the routing database of one node: the Router ID Set, the Link
// Set and the Route Set. It is not safe for concurrent use; the node runtime
// only touches it from its dispatch goroutine.
type Database struct {
	cfg    Config
	log    *slog.Logger
	rids   *pool[RouterId, RouterIdEntry]
	links  *pool[RouterId, Link]
	routes *pool[RouterId, Route]
	// onEvict is told about every entry dropped to make room for a new one
	onEvict func(kind Kind, id RouterId)
}

func New(cfg Config, log *slog.Logger) (*Database, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Database{
		cfg:    cfg,
		log:    log,
		rids:   newPool(KindRouterId, cfg.RouterIds, func(e *RouterIdEntry) RouterId { return e.RouterId }),
		links:  newPool(KindLink, cfg.Links, func(e *Link) RouterId { return e.RouterId }),
		routes: newPool(KindRoute, cfg.Routes, func(e *Route) RouterId { return e.Destination }),
	}, nil
}

// OnEvict registers fn to be called whenever an add evicts the least recently
// used entry of a full pool. fn must not mutate the database.
func (db *Database) OnEvict(fn func(kind Kind, id RouterId)) {
	db.onEvict = fn
}

func (db *Database) evicted(kind Kind, id RouterId) {
	db.log.Debug("pool full, evicted least recently used entry", "kind", kind, "router", id)
	if db.onEvict != nil {
		db.onEvict(kind, id)
	}
}

// Reset empties all three sets. Outstanding handles become stale.
func (db *Database) Reset() {
	db.rids.reset()
	db.links.reset()
	db.routes.reset()
	db.log.Debug("routing database reset")
}

func (db *Database) Capacity(kind Kind) int {
	switch kind {
	case KindRouterId:
		return db.rids.capacity()
	case KindLink:
		return db.links.capacity()
	case KindRoute:
		return db.routes.capacity()
	}
	return 0
}

func (db *Database) Count(kind Kind) int {
	switch kind {
	case KindRouterId:
		return db.rids.len()
	case KindLink:
		return db.links.len()
	case KindRoute:
		return db.routes.len()
	}
	return 0
}

func (db *Database) NumRouterIds() int { return db.rids.len() }
func (db *Database) NumLinks() int     { return db.links.len() }
func (db *Database) NumRoutes() int    { return db.routes.len() }

// RouterIds iterates the Router ID Set from most to least recently used.
// The database must not be mutated during iteration.
func (db *Database) RouterIds() iter.Seq[RouterIdEntry] {
	return values(db.rids)
}

// Links iterates the Link Set from most to least recently used.
func (db *Database) Links() iter.Seq[Link] {
	return values(db.links)
}

// Routes iterates the Route Set from most to least recently used.
func (db *Database) Routes() iter.Seq[Route] {
	return values(db.routes)
}

func values[K comparable, E any](p *pool[K, E]) iter.Seq[E] {
	return func(yield func(E) bool) {
		for i := range p.all() {
			if !yield(*p.at(i)) {
				return
			}
		}
	}
}

// Snapshot is a read-only copy of the database, in recency order.
type Snapshot struct {
	RouterIds []RouterIdEntry
	Links     []Link
	Routes    []Route
	Capacity  Config
}

func (db *Database) Snapshot() Snapshot {
	s := Snapshot{
		RouterIds: make([]RouterIdEntry, 0, db.rids.len()),
		Links:     make([]Link, 0, db.links.len()),
		Routes:    make([]Route, 0, db.routes.len()),
		Capacity:  db.cfg,
	}
	for e := range db.RouterIds() {
		s.RouterIds = append(s.RouterIds, e)
	}
	for l := range db.Links() {
		s.Links = append(s.Links, l)
	}
	for r := range db.Routes() {
		s.Routes = append(s.Routes, r)
	}
	return s
}
