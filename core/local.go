package core

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/encodeous/weft/rdb"
	"github.com/encodeous/weft/state"
)

// LocalRouter runs the routing handlers against its own database and
// forwarding table. It is not safe for concurrent use.
type LocalRouter struct {
	*state.RouterState
	Forward *ForwardTable
	Logger  *slog.Logger
	// OnEvent, if set, sees every router event after it is logged.
	OnEvent func(TraceEvent)
	linkAge time.Duration
}

func NewLocalRouter(cfg state.NodeCfg, log *slog.Logger) (*LocalRouter, error) {
	cfg.ApplyDefaults()
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	rs, err := state.NewRouterState(cfg.Id, cfg.DbConfig(), log.With("module", "rdb"))
	if err != nil {
		return nil, err
	}
	r := &LocalRouter{
		RouterState: rs,
		Forward:     NewForwardTable(cfg.MeshLocalPrefix),
		Logger:      log,
		linkAge:     cfg.LinkAge,
	}
	// the node knows its own id
	r.AddRouterId(r.Id)
	return r, nil
}

func (r *LocalRouter) Log(event RouterEvent, desc string, args ...any) {
	msg := event.String()
	if desc != "" {
		msg = fmt.Sprintf("%s %s", msg, desc)
	}
	if event.IsWarning() {
		r.Logger.Warn(msg, args...)
	} else {
		r.Logger.Debug(msg, args...)
	}
	if r.OnEvent != nil {
		r.OnEvent(TraceEvent{Time: time.Now(), Event: event, Desc: desc, Args: args})
	}
}

func (r *LocalRouter) TableInsertRoute(dest rdb.RouterId, nh rdb.RouterId, cost rdb.Cost) {
	r.Forward.Insert(dest, nh, cost)
}

func (r *LocalRouter) TableDeleteRoute(dest rdb.RouterId) {
	r.Forward.Delete(dest)
}

func (r *LocalRouter) TableClear() {
	r.Forward.Clear()
}

func (r *LocalRouter) age(age time.Duration) time.Duration {
	if age <= 0 {
		return r.linkAge
	}
	return age
}

func (r *LocalRouter) Advertise(sender, dest rdb.RouterId, cost rdb.Cost) rdb.Outcome {
	return HandleAdvertisement(r.RouterState, r, sender, dest, cost)
}

func (r *LocalRouter) ObserveLink(id rdb.RouterId, margin uint16, outgoing rdb.Quality, age time.Duration) bool {
	return HandleLinkObservation(r.RouterState, r, id, margin, outgoing, r.age(age))
}

func (r *LocalRouter) AddLink(id rdb.RouterId, margin uint16, outgoing rdb.Quality, age time.Duration) bool {
	return HandleLinkAdd(r.RouterState, r, id, margin, outgoing, r.age(age))
}

func (r *LocalRouter) ExpireLink(id rdb.RouterId) {
	HandleLinkExpiry(r.RouterState, r, id)
}

func (r *LocalRouter) AddRouterId(id rdb.RouterId) {
	HandleRouterIdAdd(r.RouterState, r, id)
}

func (r *LocalRouter) RemoveRouterId(id rdb.RouterId) {
	HandleRouterIdRemove(r.RouterState, r, id)
}

func (r *LocalRouter) SetRouterIds(ids []rdb.RouterId) {
	HandleRouterIdSet(r.RouterState, r, ids)
}

// LeaderData processes leader data. Joining another partition empties the
// database, after which the own id is admitted again.
func (r *LocalRouter) LeaderData(idSequence uint8, ld rdb.LeaderData) {
	HandleLeaderData(r.RouterState, r, idSequence, ld)
	if !r.DB.IsValid(r.Id) {
		r.AddRouterId(r.Id)
	}
}

// Reset empties the database and the forwarding table, keeping only the own id.
func (r *LocalRouter) Reset() {
	HandleReset(r.RouterState, r)
	r.AddRouterId(r.Id)
}

func (r *LocalRouter) LeaderCost() rdb.Cost {
	return LeaderCost(r.RouterState)
}

func (r *LocalRouter) Inspect() string {
	return Inspect(r.DB.Snapshot(), r.Partition)
}
