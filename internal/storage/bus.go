package storage

import "sync"

// bus fans committed changes out to in-process subscribers. Each subscriber
// has a one-slot buffer; a pending notification absorbs later ones, since a
// subscriber always re-reads the current state.
type bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan Change
}

func newBus() *bus {
	return &bus{subs: make(map[string]map[int]chan Change)}
}

func (b *bus) subscribe(family string) (<-chan Change, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Change, 1)
	ch <- Change{Family: family}

	id := b.nextID
	b.nextID++
	if b.subs[family] == nil {
		b.subs[family] = make(map[int]chan Change)
	}
	b.subs[family][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if subs, ok := b.subs[family]; ok {
				delete(subs, id)
				if len(subs) == 0 {
					delete(b.subs, family)
				}
			}
			close(ch)
		})
	}
	return ch, cancel
}

func (b *bus) publish(c Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[c.Family] {
		select {
		case ch <- c:
		default:
			// Replace the queued change with one that covers both.
			select {
			case queued := <-ch:
				ch <- merge(queued, c)
			default:
				ch <- c
			}
		}
	}
}

func merge(a, b Change) Change {
	if a.Keys == nil || b.Keys == nil {
		return Change{Family: a.Family}
	}
	seen := make(map[string]bool, len(a.Keys)+len(b.Keys))
	out := Change{Family: a.Family}
	for _, k := range append(append([]string(nil), a.Keys...), b.Keys...) {
		if !seen[k] {
			seen[k] = true
			out.Keys = append(out.Keys, k)
		}
	}
	return out
}
