package generation

// Pool is an owned working sequence the generator draws from
type Pool[T comparable] struct {
	items []T
}

// NewPool copies items into a new pool
func NewPool[T comparable](items []T) *Pool[T] {
	return &Pool[T]{items: append([]T(nil), items...)}
}

// Len returns the number of items left
func (p *Pool[T]) Len() int {
	return len(p.items)
}

// Items returns the current contents in order
func (p *Pool[T]) Items() []T {
	return p.items
}

// At returns the item at position i
func (p *Pool[T]) At(i int) T {
	return p.items[i]
}

// Take removes and returns a uniformly chosen item. The remaining items
// keep their relative order. ok is false when the pool is empty.
func (p *Pool[T]) Take(rng *RNG) (item T, ok bool) {
	if len(p.items) == 0 {
		return item, false
	}
	i := rng.Intn(len(p.items))
	item = p.items[i]
	p.items = append(p.items[:i], p.items[i+1:]...)
	return item, true
}

// Append puts items back at the end of the pool
func (p *Pool[T]) Append(items ...T) {
	p.items = append(p.items, items...)
}

// Swap exchanges the items at positions i and j
func (p *Pool[T]) Swap(i, j int) {
	p.items[i], p.items[j] = p.items[j], p.items[i]
}

// IndexesOf returns every position holding v, in increasing order
func (p *Pool[T]) IndexesOf(v T) []int {
	var out []int
	for i, item := range p.items {
		if item == v {
			out = append(out, i)
		}
	}
	return out
}
