package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// RecordingRasterizer is a fake raster.Rasterizer. It writes a small text
// payload instead of a PNG and records every call, keyed by the document
// content and size.
type RecordingRasterizer struct {
	// Sleep delays every call.
	Sleep time.Duration
	// FailOn makes calls fail when the document contains the substring.
	FailOn string

	mu    sync.Mutex
	calls map[string]*ExecutionRecord
	total int
}

// NewRecordingRasterizer creates an empty recorder.
func NewRecordingRasterizer() *RecordingRasterizer {
	return &RecordingRasterizer{calls: make(map[string]*ExecutionRecord)}
}

// Rasterize implements raster.Rasterizer.
func (r *RecordingRasterizer) Rasterize(_ context.Context, svg []byte, w, h int) ([]byte, error) {
	start := time.Now()
	if r.Sleep > 0 {
		time.Sleep(r.Sleep)
	}

	r.mu.Lock()
	r.total++
	r.calls[fmt.Sprintf("%s@%d", svg, w)] = &ExecutionRecord{Start: start, End: time.Now()}
	r.mu.Unlock()

	if r.FailOn != "" && strings.Contains(string(svg), r.FailOn) {
		return nil, fmt.Errorf("cannot rasterize document containing %q", r.FailOn)
	}
	return []byte(fmt.Sprintf("PNG %dx%d\n%s", w, h, svg)), nil
}

// Calls returns how many times Rasterize ran.
func (r *RecordingRasterizer) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// Reset forgets all recorded calls.
func (r *RecordingRasterizer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = 0
	r.calls = make(map[string]*ExecutionRecord)
}

// Records returns a copy of the recorded calls.
func (r *RecordingRasterizer) Records() map[string]ExecutionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]ExecutionRecord, len(r.calls))
	for k, v := range r.calls {
		out[k] = *v
	}
	return out
}
