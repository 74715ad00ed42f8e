package reel

import (
	"errors"
	"fmt"
	"sync"
)

// ErrAssetNotFound is returned by loaders for unknown asset names.
var ErrAssetNotFound = errors.New("reel: asset not found")

// Bundle is a loaded asset: a scene subtree plus any clips authored for it.
type Bundle struct {
	Root  *Node
	Clips []*Clip
}

// AssetLoader produces bundles. Load runs off the tick goroutine and must
// not touch nodes that are already in a stage's graph.
type AssetLoader interface {
	Load(name string) (*Bundle, error)
}

// LoaderFunc adapts a function to AssetLoader.
type LoaderFunc func(name string) (*Bundle, error)

// Load implements AssetLoader.
func (f LoaderFunc) Load(name string) (*Bundle, error) { return f(name) }

// BuilderLoader serves bundles from registered builder functions. Each
// Load calls the builder again, so every load gets a fresh subtree.
type BuilderLoader struct {
	mu       sync.RWMutex
	builders map[string]func() (*Bundle, error)
}

// NewBuilderLoader creates an empty BuilderLoader.
func NewBuilderLoader() *BuilderLoader {
	return &BuilderLoader{builders: make(map[string]func() (*Bundle, error))}
}

// Register adds or replaces the builder for name.
func (l *BuilderLoader) Register(name string, build func() (*Bundle, error)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.builders[name] = build
}

// Load implements AssetLoader.
func (l *BuilderLoader) Load(name string) (*Bundle, error) {
	l.mu.RLock()
	build, ok := l.builders[name]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("load %q: %w", name, ErrAssetNotFound)
	}
	b, err := build()
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", name, err)
	}
	if b == nil || b.Root == nil {
		return nil, fmt.Errorf("load %q: bundle has no root", name)
	}
	for _, c := range b.Clips {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("load %q: %w", name, err)
		}
	}
	return b, nil
}

// --- Inbox ---

// loadResult is a finished load waiting to be delivered on the tick
// goroutine.
type loadResult struct {
	name    string
	bundle  *Bundle
	err     error
	onLoad  func(*Bundle)
	onError func(error)
}

// assetInbox collects finished loads from loader goroutines. Results are
// delivered only when the owner drains it.
type assetInbox struct {
	mu      sync.Mutex
	pending []loadResult
	wg      sync.WaitGroup
}

// start runs loader.Load on its own goroutine and posts the result.
func (in *assetInbox) start(loader AssetLoader, name string, onLoad func(*Bundle), onError func(error)) {
	in.wg.Add(1)
	go func() {
		defer in.wg.Done()
		r := loadResult{name: name, onLoad: onLoad, onError: onError}
		func() {
			defer func() {
				if p := recover(); p != nil {
					r.err = fmt.Errorf("load %q: panic: %v", name, p)
				}
			}()
			r.bundle, r.err = loader.Load(name)
		}()
		in.mu.Lock()
		in.pending = append(in.pending, r)
		in.mu.Unlock()
	}()
}

// drain returns every finished load in completion order and empties the
// inbox.
func (in *assetInbox) drain() []loadResult {
	in.mu.Lock()
	defer in.mu.Unlock()
	if len(in.pending) == 0 {
		return nil
	}
	out := in.pending
	in.pending = nil
	return out
}

// wait blocks until every started load has posted its result.
func (in *assetInbox) wait() {
	in.wg.Wait()
}
