package state

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/encodeous/weft/rdb"
)

type NyModule interface {
	Init(s *State) error
	Cleanup(s *State) error
}

// State access must be done only on a single Goroutine
type State struct {
	*Env
	*RouterState
	Modules map[string]NyModule
}

// Env can be read from any Goroutine
type Env struct {
	DispatchChannel chan<- func(s *State) error
	NodeCfg
	Context  context.Context
	Cancel   context.CancelCauseFunc
	Log      *slog.Logger
	Started  atomic.Bool
	Stopping atomic.Bool
}

// RouterState is everything the routing handlers read and write.
type RouterState struct {
	Id        rdb.RouterId
	DB        *rdb.Database
	Partition rdb.Partition
	evicted   []Eviction
}

// Eviction records an entry the database dropped to make room for another.
type Eviction struct {
	Kind rdb.Kind
	Id   rdb.RouterId
}

func NewRouterState(id rdb.RouterId, cfg rdb.Config, log *slog.Logger) (*RouterState, error) {
	db, err := rdb.New(cfg, log)
	if err != nil {
		return nil, err
	}
	rs := &RouterState{
		Id: id,
		DB: db,
	}
	db.OnEvict(func(kind rdb.Kind, id rdb.RouterId) {
		rs.evicted = append(rs.evicted, Eviction{Kind: kind, Id: id})
	})
	return rs, nil
}

// TakeEvictions returns the evictions recorded since the last call.
func (rs *RouterState) TakeEvictions() []Eviction {
	ev := rs.evicted
	rs.evicted = nil
	return ev
}
