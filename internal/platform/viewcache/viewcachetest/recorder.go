// Copyright (c) 2026 Qumran. All rights reserved.

// Package viewcachetest provides a recording [viewcache.Invalidator] for
// service tests.
package viewcachetest

import (
	"context"
	"slices"
	"sync"
)

// Recorder remembers every invalidated path.
type Recorder struct {
	mu    sync.Mutex
	paths []string
	// Err, when set, is returned by every call.
	Err error
}

// Invalidate implements viewcache.Invalidator.
func (recorder *Recorder) Invalidate(_ context.Context, paths ...string) error {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.paths = append(recorder.paths, paths...)
	return recorder.Err
}

// Paths returns the invalidated paths in call order.
func (recorder *Recorder) Paths() []string {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return slices.Clone(recorder.paths)
}

// Reset forgets recorded paths.
func (recorder *Recorder) Reset() {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.paths = nil
}
