package dispatch

import (
	"context"
	"fmt"
	"log"
	"sort"
)

// Dispatcher holds all registered adapters and routes calls to them by name
type Dispatcher struct {
	adapters map[Name]Adapter
}

// NewDispatcher creates a dispatcher with the given adapters registered
func NewDispatcher(adapters ...Adapter) *Dispatcher {
	d := &Dispatcher{adapters: make(map[Name]Adapter, len(adapters))}
	for _, a := range adapters {
		d.Register(a)
	}
	return d
}

// Register adds an adapter. A later adapter with the same name replaces the earlier one.
func (d *Dispatcher) Register(a Adapter) {
	if a == nil {
		return
	}
	d.adapters[a.Name()] = a
}

// Names returns the registered provider names in sorted order
func (d *Dispatcher) Names() []Name {
	names := make([]Name, 0, len(d.adapters))
	for name := range d.adapters {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Count returns the number of registered adapters
func (d *Dispatcher) Count() int {
	return len(d.adapters)
}

// Dispatch invokes the adapter registered under name and passes its result
// through unchanged apart from the provider tag. An adapter panic is
// reported as a schema failure.
func (d *Dispatcher) Dispatch(ctx context.Context, name Name, in Input) (res Result) {
	a, ok := d.adapters[name]
	if !ok {
		log.Printf("[Dispatcher] Unsupported provider: %q", name)
		return Failure(ErrUnsupportedProvider).WithProvider(name)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Dispatcher] %s panicked: %v", name, r)
			res = Failure(fmt.Errorf("%w: %s adapter crashed: %v", ErrSchema, name, r)).WithProvider(name)
		}
	}()

	log.Printf("[Dispatcher] Routing to %s (query length: %d)", name, len(in.Query))
	res = a.Call(ctx, in).WithProvider(name)
	if !res.OK() {
		log.Printf("[Dispatcher] %s failed: %v", name, res.Err)
	}
	return res
}
