package core

import (
	"fmt"
	"net/netip"

	"github.com/encodeous/weft/rdb"
	"github.com/gaissmai/bart"
)

// Hop is what the forwarding table stores per destination.
type Hop struct {
	Dest    rdb.RouterId
	NextHop rdb.RouterId
	Cost    rdb.Cost
}

func (h Hop) String() string {
	return fmt.Sprintf("(dst: %d, nh: %d, cost: %d)", h.Dest, h.NextHop, h.Cost)
}

// ForwardTable maps RLOC addresses to the neighbour traffic is sent to.
type ForwardTable struct {
	prefix netip.Prefix
	table  bart.Table[Hop]
	dests  map[rdb.RouterId]struct{}
}

func NewForwardTable(meshLocal netip.Prefix) *ForwardTable {
	return &ForwardTable{
		prefix: meshLocal.Masked(),
		dests:  make(map[rdb.RouterId]struct{}),
	}
}

// Rloc16 is the short address of router id.
func Rloc16(id rdb.RouterId) uint16 {
	return uint16(id) << 10
}

// RlocAddr is the mesh-local RLOC address of router id:
// the mesh-local prefix followed by the IID 0000:00ff:fe00:RLOC16.
func RlocAddr(meshLocal netip.Prefix, id rdb.RouterId) netip.Addr {
	b := meshLocal.Masked().Addr().As16()
	b[11] = 0xff
	b[12] = 0xfe
	rloc := Rloc16(id)
	b[14] = byte(rloc >> 8)
	b[15] = byte(rloc)
	return netip.AddrFrom16(b)
}

func (f *ForwardTable) rlocPrefix(id rdb.RouterId) netip.Prefix {
	return netip.PrefixFrom(RlocAddr(f.prefix, id), 128)
}

func (f *ForwardTable) Insert(dest, nh rdb.RouterId, cost rdb.Cost) {
	f.table.Insert(f.rlocPrefix(dest), Hop{Dest: dest, NextHop: nh, Cost: cost})
	f.dests[dest] = struct{}{}
}

func (f *ForwardTable) Delete(dest rdb.RouterId) {
	f.table.Delete(f.rlocPrefix(dest))
	delete(f.dests, dest)
}

// Get returns the entry for router id dest.
func (f *ForwardTable) Get(dest rdb.RouterId) (Hop, bool) {
	return f.table.Get(f.rlocPrefix(dest))
}

// Resolve finds the hop for a destination address.
func (f *ForwardTable) Resolve(addr netip.Addr) (Hop, bool) {
	return f.table.Lookup(addr)
}

func (f *ForwardTable) Len() int {
	return len(f.dests)
}

// Clear removes every entry.
func (f *ForwardTable) Clear() {
	for d := range f.dests {
		f.Delete(d)
	}
}
