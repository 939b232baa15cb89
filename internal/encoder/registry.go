package encoder

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrDuplicate reports an attempt to register two encoders under one name.
var ErrDuplicate = errors.New("encoder already registered")

// Registry is the set of encoders a run can pick from. It is built once at
// startup and handed down; lookups are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	encoders map[string]Encoder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		encoders: make(map[string]Encoder),
	}
}

// Register adds enc to the registry. Names are compared case-insensitively.
func (r *Registry) Register(enc Encoder) error {
	key := strings.ToLower(enc.Name())

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.encoders[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, enc.Name())
	}
	r.encoders[key] = enc
	return nil
}

// Encoders returns all registered encoders sorted by name.
func (r *Registry) Encoders() []Encoder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Encoder, 0, len(r.encoders))
	for _, enc := range r.encoders {
		list = append(list, enc)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}

// Match resolves requested names to encoders, case-insensitively. An empty
// request matches everything. Any name without an encoder fails the whole
// call, naming the strays.
func (r *Registry) Match(names []string) ([]Encoder, error) {
	all := r.Encoders()
	if len(names) == 0 {
		return all, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[strings.ToLower(name)] = false
	}

	var matched []Encoder
	for _, enc := range all {
		key := strings.ToLower(enc.Name())
		if _, ok := wanted[key]; ok {
			wanted[key] = true
			matched = append(matched, enc)
		}
	}

	var missing []string
	for name, found := range wanted {
		if !found {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("no encoders found for: %s", strings.Join(missing, ", "))
	}
	return matched, nil
}

// Builtin returns a registry holding every encoder the harness ships with.
func Builtin() (*Registry, error) {
	r := NewRegistry()

	if err := r.Register(NewDummy()); err != nil {
		return nil, err
	}
	for _, v := range gstVariants {
		if err := r.Register(newGstEncoder(v)); err != nil {
			return nil, err
		}
	}
	for _, v := range vkvsVariants {
		if err := r.Register(newVKVSEncoder(v)); err != nil {
			return nil, err
		}
	}
	return r, nil
}
