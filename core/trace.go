package core

import (
	"fmt"
	"time"

	"github.com/dustin/go-broadcast"
	"github.com/encodeous/weft/state"
)

// TraceEvent is published for every router event.
type TraceEvent struct {
	Time  time.Time
	Event RouterEvent
	Desc  string
	Args  []any
}

func (e TraceEvent) String() string {
	out := e.Event.String()
	if e.Desc != "" {
		out += " " + e.Desc
	}
	for i := 0; i+1 < len(e.Args); i += 2 {
		out += fmt.Sprintf(" %v=%v", e.Args[i], e.Args[i+1])
	}
	return out
}

type MeshTrace struct {
	broadcast.Broadcaster
}

func (n *MeshTrace) Init(s *state.State) error {
	n.Broadcaster = broadcast.NewBroadcaster(1024)
	return nil
}

func (n *MeshTrace) Cleanup(s *state.State) error {
	return n.Broadcaster.Close()
}

// Subscribe returns a channel receiving every TraceEvent until cancel is called.
func (n *MeshTrace) Subscribe(buffer int) (events <-chan any, cancel func()) {
	ch := make(chan any, buffer)
	n.Register(ch)
	return ch, func() {
		n.Unregister(ch)
	}
}
