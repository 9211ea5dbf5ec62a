package core

import (
	"fmt"
	"net/http"
	"strings"
	"text/tabwriter"

	"github.com/encodeous/weft/rdb"
	"github.com/encodeous/weft/state"
)

// Inspect renders the routing database as plain text tables, most recently
// used entries first.
func Inspect(snap rdb.Snapshot, p rdb.Partition) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Partition %s\n", p.String())

	fmt.Fprintf(sb, "\nRouter ID Set (%d/%d)\n", len(snap.RouterIds), snap.Capacity.RouterIds)
	tw := tabwriter.NewWriter(sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  ROUTER\tRLOC16\t")
	for _, e := range snap.RouterIds {
		fmt.Fprintf(tw, "  %d\t0x%04x\t\n", e.RouterId, Rloc16(e.RouterId))
	}
	tw.Flush()

	fmt.Fprintf(sb, "\nLink Set (%d/%d)\n", len(snap.Links), snap.Capacity.Links)
	tw = tabwriter.NewWriter(sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  ROUTER\tMARGIN\tIN\tOUT\tCOST\tAGE\t")
	for _, l := range snap.Links {
		fmt.Fprintf(tw, "  %d\t%d\t%d\t%d\t%d\t%s\t\n",
			l.RouterId, l.Margin, l.IncomingQuality, l.OutgoingQuality, rdb.LinkCostOf(l), l.Age)
	}
	tw.Flush()

	fmt.Fprintf(sb, "\nRoute Set (%d/%d)\n", len(snap.Routes), snap.Capacity.Routes)
	tw = tabwriter.NewWriter(sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  DEST\tNEXT HOP\tCOST\t")
	for _, r := range snap.Routes {
		fmt.Fprintf(tw, "  %d\t%d\t%d\t\n", r.Destination, r.NextHop, r.Cost)
	}
	tw.Flush()
	return sb.String()
}

// InspectState dumps the database of a running node. It must be called on the
// dispatch goroutine.
func InspectState(s *state.State) string {
	out := fmt.Sprintf("Router %d, leader cost %d\n", s.RouterState.Id, LeaderCost(s.RouterState))
	return out + Inspect(s.DB.Snapshot(), s.Partition)
}

// InspectHandler serves InspectState over HTTP.
func InspectHandler(e *state.Env) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		res, err := e.DispatchWait(func(s *state.State) (any, error) {
			return InspectState(s), nil
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprint(w, res)
	})
}
