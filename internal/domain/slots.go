package domain

// slot is one position of a Slots collection. occupied is tracked
// explicitly so that a zero T is never mistaken for an empty position.
type slot[T any] struct {
	value    T
	occupied bool
}

// Slots is a bounded, insertion-ordered collection with a fixed number of
// positions. Positions are filled left to right and are never compacted,
// so the index at which a value was stored is stable for its lifetime.
//
// Slots is not safe for concurrent use.
type Slots[T any] struct {
	items []slot[T]
	count int
}

// NewSlots creates a collection with capacity empty positions.
// A non-positive capacity yields a collection that rejects every append.
func NewSlots[T any](capacity int) Slots[T] {
	if capacity < 0 {
		capacity = 0
	}
	return Slots[T]{items: make([]slot[T], capacity)}
}

// Cap returns the fixed number of positions.
func (s *Slots[T]) Cap() int { return len(s.items) }

// Len returns the number of occupied positions.
func (s *Slots[T]) Len() int { return s.count }

// Full reports whether every position is occupied.
func (s *Slots[T]) Full() bool { return s.count >= len(s.items) }

// Append stores v in the first empty position and returns its index.
// It returns -1 and leaves the collection unchanged when it is full.
func (s *Slots[T]) Append(v T) int {
	for i := range s.items {
		if !s.items[i].occupied {
			s.items[i] = slot[T]{value: v, occupied: true}
			s.count++
			return i
		}
	}
	return -1
}

// Replace overwrites the value at an occupied index. It returns false if
// the index is out of range or empty.
func (s *Slots[T]) Replace(i int, v T) bool {
	if i < 0 || i >= len(s.items) || !s.items[i].occupied {
		return false
	}
	s.items[i].value = v
	return true
}

// At returns the value stored at index i and whether the position is
// occupied.
func (s *Slots[T]) At(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(s.items) || !s.items[i].occupied {
		return zero, false
	}
	return s.items[i].value, true
}

// IndexFunc returns the index of the first occupied position whose value
// satisfies match, or -1.
func (s *Slots[T]) IndexFunc(match func(T) bool) int {
	for i := range s.items {
		if s.items[i].occupied && match(s.items[i].value) {
			return i
		}
	}
	return -1
}

// Values returns the occupied values in slot order.
func (s *Slots[T]) Values() []T {
	out := make([]T, 0, s.count)
	for _, it := range s.items {
		if it.occupied {
			out = append(out, it.value)
		}
	}
	return out
}

// Each calls fn for every position in order, including empty ones, so
// callers can report gaps.
func (s *Slots[T]) Each(fn func(i int, v T, occupied bool)) {
	for i, it := range s.items {
		fn(i, it.value, it.occupied)
	}
}
