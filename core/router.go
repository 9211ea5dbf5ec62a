package core

import (
	"time"

	"github.com/encodeous/weft/perf"
	"github.com/encodeous/weft/rdb"
	"github.com/encodeous/weft/state"
)

// MeshRouter is the routing module of a running node. Every method must be
// called on the dispatch goroutine.
type MeshRouter struct {
	*LocalRouter
	Aging   *LinkAging
	Metrics *perf.RouterMetrics
	st      *state.State
}

func (r *MeshRouter) Init(s *state.State) error {
	s.Log.Debug("init router")
	lr, err := NewLocalRouter(s.NodeCfg, s.Log)
	if err != nil {
		return err
	}
	r.LocalRouter = lr
	r.st = s
	s.RouterState = lr.RouterState
	lr.OnEvent = r.onEvent

	r.Aging = NewLinkAging(s.LinkAge, func(id rdb.RouterId) {
		s.ScheduleTask(func(s *state.State) error {
			Get[*MeshRouter](s).expireLink(id)
			return nil
		}, 0)
	})

	s.Log.Debug("schedule router tasks")
	s.Env.RepeatTask(routerGc, state.GcDelay)

	if s.Scenario != "" {
		sc, err := ReadScenario(s.Scenario)
		if err != nil {
			return err
		}
		s.Log.Info("replaying scenario", "path", s.Scenario, "events", len(sc.Events))
		s.Env.ScheduleTask(func(s *state.State) error {
			sc.Replay(Get[*MeshRouter](s))
			return nil
		}, 0)
	}
	return nil
}

func (r *MeshRouter) Cleanup(s *state.State) error {
	if r.Aging != nil {
		r.Aging.Close()
	}
	r.st = nil
	return nil
}

func routerGc(s *state.State) error {
	r := Get[*MeshRouter](s)
	r.Aging.Expire()
	r.updateGauges()
	return nil
}

func (r *MeshRouter) onEvent(ev TraceEvent) {
	if r.Metrics != nil {
		r.Metrics.Events.WithLabelValues(ev.Event.String()).Inc()
	}
	switch ev.Event {
	case RouteAdded, RouteImproved, RouteWithdrawn:
		perf.RouteChangesPerSecond.Add(1)
	}
	if ev.Desc == "evicted" {
		perf.EvictionsPerSecond.Add(1)
	}
	if r.st != nil {
		Get[*MeshTrace](r.st).Submit(ev)
	}
}

func (r *MeshRouter) updateGauges() {
	if r.Metrics == nil {
		return
	}
	for _, kind := range []rdb.Kind{rdb.KindRouterId, rdb.KindLink, rdb.KindRoute} {
		r.Metrics.Entries.WithLabelValues(kind.String()).Set(float64(r.DB.Count(kind)))
		r.Metrics.Capacity.WithLabelValues(kind.String()).Set(float64(r.DB.Capacity(kind)))
	}
	r.Metrics.LeaderCost.Set(float64(r.LeaderCost()))
}

func (r *MeshRouter) Advertise(sender, dest rdb.RouterId, cost rdb.Cost) rdb.Outcome {
	perf.AdvertisementsPerSecond.Add(1)
	out := r.LocalRouter.Advertise(sender, dest, cost)
	if r.Metrics != nil {
		r.Metrics.Updates.WithLabelValues(out.String()).Inc()
	}
	return out
}

func (r *MeshRouter) ObserveLink(id rdb.RouterId, margin uint16, outgoing rdb.Quality, age time.Duration) bool {
	perf.LinkObservationsPerSecond.Add(1)
	if !r.LocalRouter.ObserveLink(id, margin, outgoing, age) {
		return false
	}
	r.Aging.Touch(id, age)
	return true
}

func (r *MeshRouter) AddLink(id rdb.RouterId, margin uint16, outgoing rdb.Quality, age time.Duration) bool {
	if !r.LocalRouter.AddLink(id, margin, outgoing, age) {
		return false
	}
	r.Aging.Touch(id, age)
	return true
}

// ExpireLink removes the link to id immediately.
func (r *MeshRouter) ExpireLink(id rdb.RouterId) {
	r.Aging.Forget(id)
	r.LocalRouter.ExpireLink(id)
}

// expireLink handles a link whose age ran out. The link may have been
// observed again in the meantime.
func (r *MeshRouter) expireLink(id rdb.RouterId) {
	if _, ok := r.Aging.LastSeen(id); ok {
		return
	}
	r.LocalRouter.ExpireLink(id)
}

func (r *MeshRouter) Reset() {
	r.Aging.Reset()
	r.LocalRouter.Reset()
}

func (r *MeshRouter) LeaderData(idSequence uint8, ld rdb.LeaderData) {
	changed := ld.LeaderRouterId <= rdb.MaxRouterId && r.Partition.Valid() && r.Partition.PartitionId != ld.PartitionId
	if changed {
		r.Aging.Reset()
	}
	r.LocalRouter.LeaderData(idSequence, ld)
}
