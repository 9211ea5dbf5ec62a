package rdb

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	k int
	v string
}

func newItemPool(capacity int) *pool[int, item] {
	return newPool(KindRoute, capacity, func(e *item) int { return e.k })
}

func keys(p *pool[int, item]) []int {
	out := make([]int, 0)
	for i := range p.all() {
		out = append(out, p.at(i).k)
	}
	return out
}

func TestPoolAllocOrder(t *testing.T) {
	p := newItemPool(3)
	p.alloc(item{k: 1})
	p.alloc(item{k: 2})
	p.alloc(item{k: 3})
	assert.Equal(t, []int{3, 2, 1}, keys(p))
	assert.Equal(t, 3, p.len())
	assert.True(t, p.full())
	assert.Equal(t, 1, p.at(p.oldest()).k)
	assert.Equal(t, 3, p.at(p.newest()).k)
}

func TestPoolLookupPromotes(t *testing.T) {
	p := newItemPool(4)
	for k := 1; k <= 4; k++ {
		p.alloc(item{k: k})
	}
	require.NotEqual(t, int32(nilSlot), p.lookup(1))
	assert.Equal(t, []int{1, 4, 3, 2}, keys(p))

	// find leaves the order alone
	require.NotEqual(t, int32(nilSlot), p.find(3))
	assert.Equal(t, []int{1, 4, 3, 2}, keys(p))

	assert.Equal(t, int32(nilSlot), p.lookup(9))
	assert.Equal(t, []int{1, 4, 3, 2}, keys(p))
}

func TestPoolReleaseReusesSlots(t *testing.T) {
	p := newItemPool(2)
	a := p.alloc(item{k: 1})
	ha := p.handle(a)
	p.alloc(item{k: 2})

	got := p.release(a)
	assert.Equal(t, 1, got.k)
	assert.Equal(t, 1, p.len())
	assert.Equal(t, int32(nilSlot), p.resolve(ha))

	c := p.alloc(item{k: 3})
	assert.Equal(t, a, c, "freed slot should be reused")
	assert.Equal(t, int32(nilSlot), p.resolve(ha), "old handle must not match the new tenant")
	assert.Equal(t, c, p.resolve(p.handle(c)))
	assert.Equal(t, []int{3, 2}, keys(p))
}

func TestPoolUnlinkMiddleAndEnds(t *testing.T) {
	p := newItemPool(5)
	idx := make(map[int]int32)
	for k := 1; k <= 5; k++ {
		idx[k] = p.alloc(item{k: k})
	}
	p.release(idx[3])
	assert.Equal(t, []int{5, 4, 2, 1}, keys(p))
	p.release(idx[5])
	assert.Equal(t, []int{4, 2, 1}, keys(p))
	p.release(idx[1])
	assert.Equal(t, []int{4, 2}, keys(p))
	assert.Equal(t, 2, p.at(p.oldest()).k)
	assert.Equal(t, 4, p.at(p.newest()).k)
	p.release(idx[4])
	p.release(idx[2])
	assert.Empty(t, keys(p))
	assert.Equal(t, int32(nilSlot), p.oldest())
	assert.Equal(t, int32(nilSlot), p.newest())
}

func TestPoolReleaseDuringIteration(t *testing.T) {
	p := newItemPool(6)
	for k := 1; k <= 6; k++ {
		p.alloc(item{k: k})
	}
	for i := range p.all() {
		if p.at(i).k%2 == 0 {
			p.release(i)
		}
	}
	assert.Equal(t, []int{5, 3, 1}, keys(p))
	assert.Equal(t, 3, p.len())
}

func TestPoolAllocWithoutRoomPanics(t *testing.T) {
	p := newItemPool(1)
	p.alloc(item{k: 1})
	assert.Panics(t, func() { p.alloc(item{k: 2}) })
}

func TestPoolReset(t *testing.T) {
	p := newItemPool(3)
	h := p.handle(p.alloc(item{k: 1}))
	p.alloc(item{k: 2})
	p.reset()
	assert.Equal(t, 0, p.len())
	assert.Empty(t, keys(p))
	assert.Equal(t, int32(nilSlot), p.resolve(h))
	for k := 10; k < 13; k++ {
		p.alloc(item{k: k})
	}
	got := keys(p)
	slices.Sort(got)
	assert.Equal(t, []int{10, 11, 12}, got)
}

func TestHandleZero(t *testing.T) {
	p := newItemPool(1)
	assert.True(t, Handle{}.IsZero())
	assert.Equal(t, int32(nilSlot), p.resolve(Handle{}))
	assert.Equal(t, int32(nilSlot), p.resolve(Handle{index: 7, gen: 1}))
	h := p.handle(p.alloc(item{k: 1}))
	assert.False(t, h.IsZero())
}
