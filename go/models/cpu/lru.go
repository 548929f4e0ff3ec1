package cpu

import (
	"container/list"
)

// lru tracks the recency order of valid cache slots.
// The front of the list is the most recently used slot.
type lru struct {
	order *list.List
	elems []*list.Element
}

func newLRU(slots int) *lru {
	return &lru{
		order: list.New(),
		elems: make([]*list.Element, slots),
	}
}

// touch marks slot as most recently used, inserting it if absent.
func (l *lru) touch(slot int) {
	if e := l.elems[slot]; e != nil {
		l.order.MoveToFront(e)
	} else {
		l.elems[slot] = l.order.PushFront(slot)
	}
}

func (l *lru) remove(slot int) {
	if e := l.elems[slot]; e != nil {
		l.order.Remove(e)
		l.elems[slot] = nil
	}
}

// victim returns the least recently used slot.
func (l *lru) victim() (int, bool) {
	e := l.order.Back()
	if e == nil {
		return -1, false
	}
	return e.Value.(int), true
}

// slots returns slot ids from most to least recently used.
func (l *lru) slots() []int {
	ret := make([]int, 0, l.order.Len())
	for e := l.order.Front(); e != nil; e = e.Next() {
		ret = append(ret, e.Value.(int))
	}
	return ret
}

func (l *lru) Len() int {
	return l.order.Len()
}

func (l *lru) reset() {
	l.order.Init()
	for i := range l.elems {
		l.elems[i] = nil
	}
}
