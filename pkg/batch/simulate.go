// Package batch distributes a batch of independent ray traces across a
// fixed worker pool, grounded directly on the teacher's
// pkg/renderer/worker_pool.go: a bounded task channel, one goroutine per
// worker each owning its own tracer state, and a sync.WaitGroup for
// shutdown. The unit of work here is a whole ray's trace rather than a
// tile of pixels, and each ray's randomness is deterministically seeded
// from a master seed plus its own task index instead of sharing one
// generator, per 5's concurrency model — the same task-id seeding the
// teacher's pkg/renderer/progressive.go uses for its tiles
// (rand.NewSource(int64(id + 42))), chosen there for the same reason:
// tasks are drained off a shared channel by whichever worker goroutine
// happens to be free, so seeding by worker index would make a ray's
// random stream depend on the race between goroutines rather than on
// which ray it is.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/opticore/lumentrace/pkg/core"
	"github.com/opticore/lumentrace/pkg/event"
	"github.com/opticore/lumentrace/pkg/lightsource"
	"github.com/opticore/lumentrace/pkg/scenegraph"
	"github.com/opticore/lumentrace/pkg/tracer"
)

// task is one ray to trace, addressed by its position in the requested
// sequence (used as the ThrowID).
type task struct {
	index int
}

// traceResult is what a worker reports back for one completed ray.
type traceResult struct {
	kind event.Kind
	err  error
}

// Summary tallies how a batch of rays ended, the diagnostic 4.7 asks for
// so a caller can judge whether a large killed fraction has biased the
// result.
type Summary struct {
	Requested     int
	Traced        int
	TerminalCount map[event.Kind]int
	Errors        []error
}

// KilledFraction returns the fraction of traced rays whose trace ended in
// a SafetyKill.
func (s Summary) KilledFraction() float64 {
	if s.Traced == 0 {
		return 0
	}
	return float64(s.TerminalCount[event.Kill]) / float64(s.Traced)
}

// Simulate fires n rays from the light source attached to sourceNode and
// traces each one to termination, distributing the work across a fixed
// pool of workers. Ray i's random stream is seeded with seed + int64(i),
// independent of which worker happens to pull task i off the shared
// channel, reproducing 4.7/5's "deterministically seeded from a master
// seed plus worker index" requirement without requiring a static
// partition of ray indices across workers: running Simulate twice with
// the same (scene, n, seed, workers) produces an identical event stream
// up to per-ray interleaving, and an identical per-ray stream when sink
// records are grouped by throw id. The first core.SinkError from any ray
// cancels the rays not yet started and is returned with the summary.
func Simulate(ctx context.Context, scene *scenegraph.Scene, sourceNode scenegraph.NodeIndex, n int, seed int64, workers int, sink event.Sink) (Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	node := scene.Node(sourceNode)
	if node.Light == nil {
		return Summary{}, fmt.Errorf("batch: node %q has no attached light source", node.Name)
	}

	tasks := make(chan task, n)
	for i := 0; i < n; i++ {
		tasks <- task{index: i}
	}
	close(tasks)

	results := make(chan traceResult, n)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runWorker(ctx, scene, sourceNode, node.Light, seed, sink, tasks, results)
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	summary := Summary{Requested: n, TerminalCount: map[event.Kind]int{}}
	var sinkErr error
	for r := range results {
		summary.Traced++
		if r.err != nil {
			var se *core.SinkError
			if sinkErr == nil && errors.As(r.err, &se) {
				sinkErr = r.err
				cancel()
			}
			summary.Errors = append(summary.Errors, r.err)
			continue
		}
		summary.TerminalCount[r.kind]++
	}
	return summary, sinkErr
}

// runWorker drains tasks with a private engine, giving each task its own
// sampler seeded by task index rather than by worker or a shared stream,
// so the result does not depend on which worker happens to dequeue which
// task. Checks ctx at each ray boundary per 5's cancellation policy: a
// ray already in flight always finishes, only the loop between rays
// observes cancellation.
func runWorker(ctx context.Context, scene *scenegraph.Scene, sourceNode scenegraph.NodeIndex, light *lightsource.LightSource, seed int64, sink event.Sink, tasks <-chan task, results chan<- traceResult) {
	engine := tracer.NewEngine(scene)
	world := scene.WorldTransform(sourceNode)
	sourceName := scene.Node(sourceNode).Name

	for t := range tasks {
		select {
		case <-ctx.Done():
			results <- traceResult{err: ctx.Err()}
			continue
		default:
		}

		sampler := core.NewSeededSampler(seed + int64(t.index))

		emission, err := light.Emit(sampler)
		if err != nil {
			results <- traceResult{err: fmt.Errorf("batch: emit ray %d: %w", t.index, err)}
			continue
		}
		worldRay := world.ToWorldRay(emission.Ray)
		throwID := int64(t.index) + 1

		kind, err := engine.Trace(worldRay, emission.Lambda, sourceName, throwID, sampler, sink)
		results <- traceResult{kind: kind, err: err}
	}
}
