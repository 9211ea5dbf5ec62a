//go:build integration

package integration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime/pprof"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/encodeous/weft/core"
	"github.com/encodeous/weft/rdb"
	"github.com/encodeous/weft/state"
)

type Signal chan bool

func NewSignal() Signal {
	return make(chan bool)
}
func (s Signal) Trigger() {
	select {
	case <-s:
	default:
		close(s)
	}
}
func (s Signal) Triggered() bool {
	select {
	case <-s:
		return true
	default:
		return false
	}
}
func (s Signal) Wait() {
	<-s
}

// VirtualLink carries link observations and advertisements from Edge.V1 to Edge.V2.
type VirtualLink struct {
	Edge       state.Pair[rdb.RouterId, rdb.RouterId]
	Margin     uint16
	PacketLoss float64
	down       atomic.Bool
}

func (v *VirtualLink) WithMargin(margin uint16) *VirtualLink {
	v.Margin = margin
	return v
}

func (v *VirtualLink) WithPacketLoss(loss float64) *VirtualLink {
	v.PacketLoss = loss
	return v
}

// Cut stops all traffic over the link. The receiver only notices once the
// link ages out.
func (v *VirtualLink) Cut() {
	v.down.Store(true)
}

type VirtualHarness struct {
	Context  context.Context
	Cancel   context.CancelCauseFunc
	Nodes    []state.NodeCfg
	States   []*state.State
	ready    []atomic.Pointer[state.State]
	Links    []*VirtualLink
	Interval time.Duration
	LinkAge  time.Duration
	mu       sync.Mutex
	wg       sync.WaitGroup
}

func (v *VirtualHarness) IndexOf(id rdb.RouterId) int {
	return slices.IndexFunc(v.Nodes, func(cfg state.NodeCfg) bool {
		return cfg.Id == id
	})
}

func (v *VirtualHarness) NewNode(id rdb.RouterId) {
	v.Nodes = append(v.Nodes, state.NodeCfg{Id: id})
}

func (v *VirtualHarness) AddLink(from, to rdb.RouterId) *VirtualLink {
	link := &VirtualLink{
		Edge:   state.Pair[rdb.RouterId, rdb.RouterId]{V1: from, V2: to},
		Margin: 30,
	}
	v.mu.Lock()
	v.Links = append(v.Links, link)
	v.mu.Unlock()
	return link
}

// AddBiLink adds a link in each direction with the same margin.
func (v *VirtualHarness) AddBiLink(a, b rdb.RouterId, margin uint16) (*VirtualLink, *VirtualLink) {
	return v.AddLink(a, b).WithMargin(margin), v.AddLink(b, a).WithMargin(margin)
}

func (v *VirtualHarness) ids() []rdb.RouterId {
	ids := make([]rdb.RouterId, 0, len(v.Nodes))
	for _, n := range v.Nodes {
		ids = append(ids, n.Id)
	}
	return ids
}

func (v *VirtualHarness) Start() chan error {
	ctx, cancel := context.WithCancelCause(context.Background())
	v.Context = ctx
	v.Cancel = cancel
	if v.Interval == 0 {
		v.Interval = 20 * time.Millisecond
	}
	if v.LinkAge == 0 {
		v.LinkAge = 300 * time.Millisecond
	}
	v.ready = make([]atomic.Pointer[state.State], len(v.Nodes))
	errChan := make(chan error, 128) // a large number so we dont get blocked
	for idx := range v.Nodes {
		v.Nodes[idx].LinkAge = v.LinkAge
		v.wg.Add(1)
		go func() {
			defer v.wg.Done()
			labels := pprof.Labels("weft node", fmt.Sprint(v.Nodes[idx].Id))
			pprof.Do(context.Background(), labels, func(_ context.Context) {
				err := core.Start(v.Nodes[idx], slog.LevelInfo, nil, &v.ready[idx])
				if err != nil {
					errChan <- err
				}
			})
		}()
	}
	// wait for all routers to start
	for {
		started := true
		for idx := range v.Nodes {
			if s := v.ready[idx].Load(); s == nil || !s.Started.Load() {
				started = false
				break
			}
		}
		if started {
			break
		}
		select {
		case <-ctx.Done():
			return errChan
		case <-time.After(time.Millisecond * 50):
		case err := <-errChan:
			errChan <- err
			return errChan
		}
	}
	v.States = make([]*state.State, len(v.Nodes))
	for idx := range v.ready {
		v.States[idx] = v.ready[idx].Load()
	}
	ids := v.ids()
	for _, s := range v.States {
		_, err := s.DispatchWait(func(s *state.State) (any, error) {
			core.Get[*core.MeshRouter](s).SetRouterIds(ids)
			return nil, nil
		})
		if err != nil {
			errChan <- err
			return errChan
		}
	}
	v.wg.Add(1)
	go v.radio()
	return errChan
}

func (v *VirtualHarness) Stop() {
	v.Cancel(fmt.Errorf("stopping harness"))
	for idx := range v.ready {
		if s := v.ready[idx].Load(); s != nil {
			s.Cancel(errors.New("stopping harness"))
		}
	}
	v.wg.Wait()
}

// radio delivers one round of link observations and advertisements over
// every link each Interval.
func (v *VirtualHarness) radio() {
	defer v.wg.Done()
	ticker := time.NewTicker(v.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-v.Context.Done():
			return
		case <-ticker.C:
		}
		v.mu.Lock()
		links := slices.Clone(v.Links)
		v.mu.Unlock()
		for _, link := range links {
			if link.down.Load() || rand.Float64() < link.PacketLoss {
				continue
			}
			v.transmit(link)
		}
	}
}

type advert = state.Pair[rdb.RouterId, rdb.Cost]

// advertisement is what from tells to: its cost to every destination, with
// the routes it reaches through to withdrawn.
func advertisement(to rdb.RouterId) func(*state.State) (any, error) {
	return func(s *state.State) (any, error) {
		var adv []advert
		for e := range s.DB.RouterIds() {
			d := e.RouterId
			if d == s.RouterState.Id || d == to {
				continue
			}
			nh, cost, ok := s.DB.NextHop(d)
			if !ok || nh == to {
				cost = 0
			}
			adv = append(adv, advert{V1: d, V2: cost})
		}
		return adv, nil
	}
}

func (v *VirtualHarness) transmit(link *VirtualLink) {
	from, to := link.Edge.V1, link.Edge.V2
	src := v.States[v.IndexOf(from)]
	dst := v.States[v.IndexOf(to)]
	res, err := src.DispatchWait(advertisement(to))
	if err != nil {
		return
	}
	adv := res.([]advert)
	margin := link.Margin
	dst.Dispatch(func(s *state.State) error {
		r := core.Get[*core.MeshRouter](s)
		if !r.ObserveLink(from, margin, rdb.QualityBucket(margin), 0) {
			return nil
		}
		for _, a := range adv {
			r.Advertise(from, a.V1, a.V2)
		}
		return nil
	})
}

// Query runs fun on the dispatch goroutine of node id.
func (v *VirtualHarness) Query(id rdb.RouterId, fun func(*state.State) any) (any, error) {
	return v.States[v.IndexOf(id)].DispatchWait(func(s *state.State) (any, error) {
		return fun(s), nil
	})
}

// Path returns the next hop and cost node from uses to reach to.
func (v *VirtualHarness) Path(from, to rdb.RouterId) (rdb.RouterId, rdb.Cost) {
	res, err := v.Query(from, func(s *state.State) any {
		nh, cost, _ := s.DB.NextHop(to)
		return state.Pair[rdb.RouterId, rdb.Cost]{V1: nh, V2: cost}
	})
	if err != nil {
		return 0, rdb.MaxRouteCost
	}
	p := res.(state.Pair[rdb.RouterId, rdb.Cost])
	return p.V1, p.V2
}

// Forwards reports whether node from has a forwarding entry for to via nh.
func (v *VirtualHarness) Forwards(from, to, nh rdb.RouterId) bool {
	res, err := v.Query(from, func(s *state.State) any {
		hop, ok := core.Get[*core.MeshRouter](s).Forward.Resolve(core.RlocAddr(s.MeshLocalPrefix, to))
		return ok && hop.NextHop == nh
	})
	return err == nil && res.(bool)
}
