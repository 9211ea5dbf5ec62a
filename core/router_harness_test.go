package core

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/encodeous/weft/rdb"
	"github.com/encodeous/weft/state"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type HarnessEvent struct {
	Message string
	Args    []any
}

func MakeEvent(msg string, args ...any) HarnessEvent {
	return HarnessEvent{
		Message: msg,
		Args:    args,
	}
}

type RouterHarness struct {
	actions []HarnessEvent
}

func (h *RouterHarness) TableInsertRoute(dest rdb.RouterId, nh rdb.RouterId, cost rdb.Cost) {
	h.actions = append(h.actions, MakeEvent("INSERT", dest, nh, cost))
}

func (h *RouterHarness) TableDeleteRoute(dest rdb.RouterId) {
	h.actions = append(h.actions, MakeEvent("DELETE", dest))
}

func (h *RouterHarness) TableClear() {
	h.actions = append(h.actions, MakeEvent("CLEAR"))
}

func (h *RouterHarness) Log(event RouterEvent, desc string, args ...any) {
	x := make([]any, 0)
	x = append(x, event)
	x = append(x, desc)
	x = append(x, args...)
	h.actions = append(h.actions, MakeEvent("LOG", x...))
}

type HarnessEvents []HarnessEvent

func (h HarnessEvents) String() string {
	out := make([]string, 0)
	for _, action := range h {
		cur := action.Message
		for _, arg := range action.Args {
			cur += " " + fmt.Sprint(arg)
		}
		out = append(out, cur)
	}
	slices.Sort(out)
	return strings.Join(out, "\n")
}

// GetActions returns the forwarding table changes since the last call.
func (h *RouterHarness) GetActions() HarnessEvents {
	x := make([]HarnessEvent, 0)
	for _, action := range h.actions {
		if action.Message != "LOG" {
			x = append(x, action)
		}
	}
	h.actions = make([]HarnessEvent, 0)
	return x
}

// GetEvents returns the router events logged since the last call.
func (h *RouterHarness) GetEvents() []RouterEvent {
	x := make([]RouterEvent, 0)
	rest := make([]HarnessEvent, 0)
	for _, action := range h.actions {
		if action.Message == "LOG" {
			x = append(x, action.Args[0].(RouterEvent))
		} else {
			rest = append(rest, action)
		}
	}
	h.actions = rest
	return x
}

func (e HarnessEvents) contains(msg string, args ...any) bool {
	for _, event := range e {
		if event.Message == msg {
			if len(event.Args) >= len(args) {
				match := true
				for i, arg := range args {
					if !cmp.Equal(event.Args[i], arg) {
						match = false
						break
					}
				}
				if match {
					return true
				}
			}
		}
	}
	return false
}

func (e HarnessEvents) AssertContains(t *testing.T, msg string, args ...any) {
	t.Helper()
	if e.contains(msg, args...) {
		return
	}
	t.Fatal("Expected event not found: ", msg, " with args: ", args, " in ", e)
}

func (e HarnessEvents) AssertNotContains(t *testing.T, msg string, args ...any) {
	t.Helper()
	if e.contains(msg, args...) {
		t.Fatal("Unexpected event found: ", msg, " with args: ", args, " in ", e)
	}
}

func NewTestRouterState(t *testing.T, id rdb.RouterId, cfg rdb.Config) *state.RouterState {
	t.Helper()
	rs, err := state.NewRouterState(id, cfg, nil)
	require.NoError(t, err)
	return rs
}

// AddRouters admits ids without recording anything.
func AddRouters(t *testing.T, rs *state.RouterState, ids ...rdb.RouterId) {
	t.Helper()
	for _, id := range ids {
		_, err := rs.DB.AddRouterId(id)
		require.NoError(t, err)
	}
}

// Margins that land in each quality level without hysteresis getting in the way.
const (
	MarginQ1 uint16 = 5
	MarginQ2 uint16 = 15
	MarginQ3 uint16 = 30
)
