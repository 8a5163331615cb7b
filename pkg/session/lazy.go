package session

import "sync"

// Lazy defers building the container until something reads or writes it.
// Building usually means verifying a token signature and decoding claims,
// which is wasted work on requests that never touch the session.
type Lazy struct {
	once   sync.Once
	load   func() *Data
	data   *Data
	loaded bool
}

var _ Session = (*Lazy)(nil)

// NewLazy wraps load. The loader runs at most once; a nil result is replaced
// by an empty container.
func NewLazy(load func() *Data) *Lazy {
	return &Lazy{load: load}
}

// Loaded reports whether the backing container has been built.
func (l *Lazy) Loaded() bool {
	return l.loaded
}

func (l *Lazy) resolve() *Data {
	l.once.Do(func() {
		if l.load != nil {
			l.data = l.load()
		}
		if l.data == nil {
			l.data = NewData()
		}
		l.loaded = true
	})
	return l.data
}

func (l *Lazy) Set(key string, value any) error { return l.resolve().Set(key, value) }
func (l *Lazy) Get(key string, def any) (any, error) { return l.resolve().Get(key, def) }
func (l *Lazy) Lookup(key string) (any, bool) { return l.resolve().Lookup(key) }
func (l *Lazy) Remove(key string) { l.resolve().Remove(key) }
func (l *Lazy) Clear() { l.resolve().Clear() }
func (l *Lazy) Has(key string) bool { return l.resolve().Has(key) }
func (l *Lazy) IsEmpty() bool { return l.resolve().IsEmpty() }
func (l *Lazy) Values() map[string]any { return l.resolve().Values() }

// HasChanged never forces loading: an untouched session cannot have changed.
func (l *Lazy) HasChanged() bool {
	if !l.loaded {
		return false
	}
	return l.data.HasChanged()
}
