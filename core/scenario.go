package core

import (
	"fmt"
	"os"
	"time"

	"github.com/encodeous/weft/rdb"
	"github.com/goccy/go-yaml"
	"go.uber.org/multierr"
)

// Node is a routing database together with its forwarding table, driven by
// protocol events.
type Node interface {
	Advertise(sender, dest rdb.RouterId, cost rdb.Cost) rdb.Outcome
	ObserveLink(id rdb.RouterId, margin uint16, outgoing rdb.Quality, age time.Duration) bool
	AddLink(id rdb.RouterId, margin uint16, outgoing rdb.Quality, age time.Duration) bool
	ExpireLink(id rdb.RouterId)
	AddRouterId(id rdb.RouterId)
	RemoveRouterId(id rdb.RouterId)
	SetRouterIds(ids []rdb.RouterId)
	LeaderData(idSequence uint8, ld rdb.LeaderData)
	Reset()
}

const (
	OpRouterIdSet    = "rid_set"
	OpRouterIdAdd    = "rid_add"
	OpRouterIdRemove = "rid_remove"
	OpLinkAdd        = "link_add"
	OpLinkUpdate     = "link_update"
	OpLinkRemove     = "link_remove"
	OpAdvertise      = "advertise"
	OpLeaderData     = "leader_data"
	OpReset          = "reset"
)

// ScenarioEvent is one protocol event. Which fields matter depends on Op.
type ScenarioEvent struct {
	Op       string         `yaml:"op"`
	Router   rdb.RouterId   `yaml:"router,omitempty"`
	Ids      []rdb.RouterId `yaml:"ids,omitempty"`
	Margin   uint16         `yaml:"margin,omitempty"`
	Outgoing rdb.Quality    `yaml:"outgoing,omitempty"`
	Age      time.Duration  `yaml:"age,omitempty"`
	Sender   rdb.RouterId   `yaml:"sender,omitempty"`
	Dest     rdb.RouterId   `yaml:"dest,omitempty"`
	Cost     rdb.Cost       `yaml:"cost,omitempty"`

	PartitionId   uint32       `yaml:"partition_id,omitempty"`
	Leader        rdb.RouterId `yaml:"leader,omitempty"`
	Weight        uint8        `yaml:"weight,omitempty"`
	Version       uint8        `yaml:"version,omitempty"`
	StableVersion uint8        `yaml:"stable_version,omitempty"`
	IdSequence    uint8        `yaml:"id_sequence,omitempty"`
}

type Scenario struct {
	Events []ScenarioEvent `yaml:"events"`
}

func (e ScenarioEvent) validate() error {
	switch e.Op {
	case OpRouterIdSet, OpRouterIdAdd, OpRouterIdRemove, OpLinkRemove, OpAdvertise, OpLeaderData, OpReset:
	case OpLinkAdd, OpLinkUpdate:
		if e.Outgoing > rdb.Quality3 {
			return fmt.Errorf("outgoing quality %d is not within [0, 3]", e.Outgoing)
		}
	default:
		return fmt.Errorf("unknown op %q", e.Op)
	}
	return nil
}

// ParseScenario decodes and checks a scenario, reporting every bad event.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	var err error
	for i, e := range sc.Events {
		if e2 := e.validate(); e2 != nil {
			err = multierr.Append(err, fmt.Errorf("event %d: %w", i, e2))
		}
	}
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

func ReadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

// Apply feeds the event to n.
func (e ScenarioEvent) Apply(n Node) {
	switch e.Op {
	case OpRouterIdSet:
		n.SetRouterIds(e.Ids)
	case OpRouterIdAdd:
		n.AddRouterId(e.Router)
	case OpRouterIdRemove:
		n.RemoveRouterId(e.Router)
	case OpLinkAdd:
		n.AddLink(e.Router, e.Margin, e.Outgoing, e.Age)
	case OpLinkUpdate:
		n.ObserveLink(e.Router, e.Margin, e.Outgoing, e.Age)
	case OpLinkRemove:
		n.ExpireLink(e.Router)
	case OpAdvertise:
		n.Advertise(e.Sender, e.Dest, e.Cost)
	case OpLeaderData:
		n.LeaderData(e.IdSequence, rdb.LeaderData{
			PartitionId:       e.PartitionId,
			Weighting:         e.Weight,
			DataVersion:       e.Version,
			StableDataVersion: e.StableVersion,
			LeaderRouterId:    e.Leader,
		})
	case OpReset:
		n.Reset()
	}
}

// Replay applies every event in order.
func (sc *Scenario) Replay(n Node) {
	for _, e := range sc.Events {
		e.Apply(n)
	}
}
