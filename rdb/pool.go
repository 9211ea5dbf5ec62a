package rdb

import "iter"

const nilSlot = -1

// Handle names a slot in one of the database pools. It stays valid until the
// entry it was issued for is removed or evicted; after that the generation no
// longer matches and every call taking the handle fails with ErrStaleHandle.
// A handle only resolves in the pool that issued it.
type Handle struct {
	kind  Kind
	index int32
	gen   uint32
}

// IsZero reports whether h was never issued by a pool.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

type slot[E any] struct {
	val  E
	prev int32
	next int32
	gen  uint32
	live bool
}

// pool is a fixed-capacity arena with an intrusive doubly-linked recency list.
// head is the most recently used entry, tail the eviction candidate.
// Free slots are kept on a stack, so no allocation happens after construction.
type pool[K comparable, E any] struct {
	slots []slot[E]
	free  []int32
	head  int32
	tail  int32
	count int
	kind  Kind
	key   func(*E) K
}

func newPool[K comparable, E any](kind Kind, capacity int, key func(*E) K) *pool[K, E] {
	p := &pool[K, E]{
		kind:  kind,
		slots: make([]slot[E], capacity),
		free:  make([]int32, 0, capacity),
		key:   key,
	}
	p.reset()
	return p
}

func (p *pool[K, E]) reset() {
	p.free = p.free[:0]
	for i := len(p.slots) - 1; i >= 0; i-- {
		s := &p.slots[i]
		var zero E
		s.val = zero
		s.prev, s.next = nilSlot, nilSlot
		if s.live {
			s.gen++
		}
		s.live = false
		p.free = append(p.free, int32(i))
	}
	p.head, p.tail = nilSlot, nilSlot
	p.count = 0
}

func (p *pool[K, E]) capacity() int {
	return len(p.slots)
}

func (p *pool[K, E]) len() int {
	return p.count
}

func (p *pool[K, E]) full() bool {
	return p.count == len(p.slots)
}

func (p *pool[K, E]) handle(i int32) Handle {
	return Handle{kind: p.kind, index: i, gen: p.slots[i].gen}
}

// resolve maps a handle back to its slot, or nilSlot if it went stale.
func (p *pool[K, E]) resolve(h Handle) int32 {
	if h.gen == 0 || h.kind != p.kind || h.index < 0 || int(h.index) >= len(p.slots) {
		return nilSlot
	}
	s := &p.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nilSlot
	}
	return h.index
}

func (p *pool[K, E]) at(i int32) *E {
	return &p.slots[i].val
}

func (p *pool[K, E]) unlink(i int32) {
	s := &p.slots[i]
	if s.prev != nilSlot {
		p.slots[s.prev].next = s.next
	} else {
		p.head = s.next
	}
	if s.next != nilSlot {
		p.slots[s.next].prev = s.prev
	} else {
		p.tail = s.prev
	}
	s.prev, s.next = nilSlot, nilSlot
}

func (p *pool[K, E]) pushFront(i int32) {
	s := &p.slots[i]
	s.prev = nilSlot
	s.next = p.head
	if p.head != nilSlot {
		p.slots[p.head].prev = i
	}
	p.head = i
	if p.tail == nilSlot {
		p.tail = i
	}
}

func (p *pool[K, E]) promote(i int32) {
	if p.head == i {
		return
	}
	p.unlink(i)
	p.pushFront(i)
}

// find scans in recency order without touching the order.
func (p *pool[K, E]) find(k K) int32 {
	for i := p.head; i != nilSlot; i = p.slots[i].next {
		if p.key(&p.slots[i].val) == k {
			return i
		}
	}
	return nilSlot
}

// lookup scans for k and moves a hit to the head.
func (p *pool[K, E]) lookup(k K) int32 {
	i := p.find(k)
	if i != nilSlot {
		p.promote(i)
	}
	return i
}

// alloc takes a free slot, stores val and links it at the head.
// The caller must have made room first.
func (p *pool[K, E]) alloc(val E) int32 {
	if len(p.free) == 0 {
		panic("rdb: pool allocation failed after eviction")
	}
	i := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	s := &p.slots[i]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.live = true
	s.val = val
	p.pushFront(i)
	p.count++
	return i
}

func (p *pool[K, E]) release(i int32) E {
	p.unlink(i)
	s := &p.slots[i]
	val := s.val
	var zero E
	s.val = zero
	s.live = false
	// bump now so a handle to the released entry cannot match a later tenant
	s.gen++
	p.free = append(p.free, i)
	p.count--
	return val
}

func (p *pool[K, E]) oldest() int32 {
	return p.tail
}

func (p *pool[K, E]) newest() int32 {
	return p.head
}

// all yields slot indices head to tail. Removing the yielded slot is allowed.
func (p *pool[K, E]) all() iter.Seq[int32] {
	return func(yield func(int32) bool) {
		for i := p.head; i != nilSlot; {
			n := p.slots[i].next
			if !yield(i) {
				return
			}
			i = n
		}
	}
}
