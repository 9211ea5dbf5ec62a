//go:build integration

package integration

import (
	"testing"
	"time"

	"github.com/encodeous/weft/rdb"
	"github.com/encodeous/weft/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	state.GcDelay = 50 * time.Millisecond
	goleak.VerifyTestMain(m)
}

func waitFor(t *testing.T, errs chan error, what string, cond func() bool) {
	t.Helper()
	deadline := time.After(10 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %s", what)
		case err := <-errs:
			t.Fatal(err)
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestStartStop(t *testing.T) {
	defer goleak.VerifyNone(t)
	vh := &VirtualHarness{}
	vh.NewNode(1)
	vh.NewNode(2)
	vh.NewNode(3)
	errs := vh.Start()
	select {
	case <-time.After(500 * time.Millisecond):
	case err := <-errs:
		t.Error(err)
	}
	res, err := vh.Query(2, func(s *state.State) any {
		return s.DB.NumRouterIds()
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res)
	vh.Stop()
}

func TestChainConvergence(t *testing.T) {
	defer goleak.VerifyNone(t)
	vh := &VirtualHarness{}
	for id := rdb.RouterId(1); id <= 4; id++ {
		vh.NewNode(id)
	}
	// 1 <-> 2 <-> 3 <-> 4, every link at quality 3
	vh.AddBiLink(1, 2, 30)
	vh.AddBiLink(2, 3, 30)
	vh.AddBiLink(3, 4, 30)

	errs := vh.Start()
	defer vh.Stop()

	waitFor(t, errs, "1 to reach 4", func() bool {
		_, cost := vh.Path(1, 4)
		return cost == 3
	})
	nh, _ := vh.Path(1, 4)
	assert.Equal(t, rdb.RouterId(2), nh)
	nh, cost := vh.Path(4, 1)
	assert.Equal(t, rdb.RouterId(3), nh)
	assert.Equal(t, rdb.Cost(3), cost)
	assert.True(t, vh.Forwards(1, 4, 2))
	assert.True(t, vh.Forwards(4, 1, 3))
}

func TestOptimalConvergence(t *testing.T) {
	defer goleak.VerifyNone(t)
	vh := &VirtualHarness{}
	vh.NewNode(1)
	vh.NewNode(2)
	vh.NewNode(3)
	// 1 <-q1-> 3 is direct but poor
	vh.AddBiLink(1, 3, 5)

	errs := vh.Start()
	defer vh.Stop()

	waitFor(t, errs, "direct link", func() bool {
		nh, cost := vh.Path(1, 3)
		return nh == 3 && cost == rdb.LinkCost6
	})

	// 1 <-q3-> 2 <-q3-> 3 is cheaper
	vh.AddBiLink(1, 2, 30)
	vh.AddBiLink(2, 3, 30)

	waitFor(t, errs, "path through 2", func() bool {
		nh, cost := vh.Path(1, 3)
		return nh == 2 && cost == 2
	})
	assert.True(t, vh.Forwards(1, 3, 2))
}

func TestLinkBreakWithdraws(t *testing.T) {
	defer goleak.VerifyNone(t)
	vh := &VirtualHarness{}
	vh.NewNode(1)
	vh.NewNode(2)
	vh.NewNode(3)
	vh.AddBiLink(1, 2, 30)
	l23, l32 := vh.AddBiLink(2, 3, 30)

	errs := vh.Start()
	defer vh.Stop()

	waitFor(t, errs, "1 to reach 3", func() bool {
		_, cost := vh.Path(1, 3)
		return cost == 2
	})

	l23.Cut()
	l32.Cut()

	waitFor(t, errs, "3 to become unreachable from 1", func() bool {
		_, cost := vh.Path(1, 3)
		return cost == rdb.MaxRouteCost
	})
	_, cost := vh.Path(2, 3)
	assert.Equal(t, rdb.MaxRouteCost, cost)
	assert.False(t, vh.Forwards(1, 3, 2))
}

func TestLossyLinksConverge(t *testing.T) {
	defer goleak.VerifyNone(t)
	vh := &VirtualHarness{}
	for id := rdb.RouterId(1); id <= 3; id++ {
		vh.NewNode(id)
	}
	a, b := vh.AddBiLink(1, 2, 15)
	a.WithPacketLoss(0.3)
	b.WithPacketLoss(0.3)
	c, d := vh.AddBiLink(2, 3, 15)
	c.WithPacketLoss(0.3)
	d.WithPacketLoss(0.3)

	errs := vh.Start()
	defer vh.Stop()

	waitFor(t, errs, "1 to reach 3", func() bool {
		nh, cost := vh.Path(1, 3)
		return nh == 2 && cost == 4
	})
}
