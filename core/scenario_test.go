package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/encodeous/weft/rdb"
	"github.com/encodeous/weft/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

const chainScenario = `
events:
  - op: rid_set
    ids: [1, 2, 3, 4]
  - op: link_add
    router: 2
    margin: 15
    outgoing: 2
  - op: link_update
    router: 3
    margin: 30
    outgoing: 3
    age: 30s
  - op: advertise
    sender: 2
    dest: 4
    cost: 3
  - op: leader_data
    partition_id: 7
    leader: 4
    weight: 64
    id_sequence: 3
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(chainScenario))
	require.NoError(t, err)
	require.Len(t, sc.Events, 5)
	assert.Equal(t, []rdb.RouterId{1, 2, 3, 4}, sc.Events[0].Ids)
	assert.Equal(t, 30*time.Second, sc.Events[2].Age)
	assert.Equal(t, uint32(7), sc.Events[4].PartitionId)
}

func TestParseScenarioReportsEveryBadEvent(t *testing.T) {
	_, err := ParseScenario([]byte(`
events:
  - op: teleport
  - op: reset
  - op: link_update
    router: 2
    outgoing: 4
`))
	require.Error(t, err)
	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "event 0")
	assert.Contains(t, errs[1].Error(), "event 2")

	_, err = ParseScenario([]byte("events: {"))
	assert.Error(t, err)
}

func TestScenarioReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain.yaml")
	require.NoError(t, os.WriteFile(path, []byte(chainScenario), 0600))
	sc, err := ReadScenario(path)
	require.NoError(t, err)

	r, _ := newTestLocalRouter(t, 1)
	sc.Replay(r)

	hop, ok := r.Forward.Get(4)
	require.True(t, ok)
	assert.Equal(t, Hop{Dest: 4, NextHop: 2, Cost: 5}, hop)
	assert.Equal(t, rdb.Cost(5), r.LeaderCost())
	l, ok := r.DB.LookupLink(3)
	require.True(t, ok)
	assert.Equal(t, 30*time.Second, l.Age)
	l, ok = r.DB.LookupLink(2)
	require.True(t, ok)
	assert.Equal(t, state.DefaultLinkAge, l.Age)

	ScenarioEvent{Op: OpLinkRemove, Router: 2}.Apply(r)
	_, ok = r.Forward.Get(4)
	assert.False(t, ok)
	assert.Equal(t, rdb.MaxRouteCost, r.LeaderCost())

	ScenarioEvent{Op: OpReset}.Apply(r)
	assert.Equal(t, 1, r.DB.NumRouterIds())
}

func TestReadScenarioMissing(t *testing.T) {
	_, err := ReadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
