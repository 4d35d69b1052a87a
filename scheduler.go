package flowgraph

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// scheduler drives one run of a graph. It is heap-allocated and referenced
// by every task closure, so it outlives all submitted tasks; the pool is
// joined before Run returns.
type scheduler struct {
	nodes map[string]*NodeSpec
	plan  *plan
	ws    *Store
	pool  *workerPool
	prof  *Profiler
	opts  runOptions
	runID string

	total    int64
	finished atomic.Int64
	failed   atomic.Bool

	errMu    sync.Mutex
	firstErr error

	doneMu   sync.Mutex
	doneCond *sync.Cond
}

func newScheduler(g *Graph, p *plan, ws *Store, opts runOptions) *scheduler {
	s := &scheduler{
		nodes: g.nodes,
		plan:  p,
		ws:    ws,
		opts:  opts,
		runID: uuid.NewString()[:8],
		total: int64(len(g.nodes)),
	}
	s.doneCond = sync.NewCond(&s.doneMu)
	if opts.profiling {
		s.prof = NewProfiler()
	}
	return s
}

// run seeds the pool with all roots, blocks until the terminal condition
// holds, drains the pool, and surfaces the first captured error.
func (s *scheduler) run(ctx context.Context) error {
	log := s.opts.log.With().Str("run_id", s.runID).Logger()
	log.Info().Int("nodes", int(s.total)).Int("workers", s.opts.workers).Msg("starting graph execution")

	s.pool = newWorkerPool(s.opts.workers)

	for _, root := range s.plan.roots {
		s.dispatch(ctx, root)
	}

	// The predicate is disjunctive and both sides are monotonic, so the
	// wait cannot miss a wakeup or deadlock.
	s.doneMu.Lock()
	for s.finished.Load() < s.total && !s.failed.Load() {
		s.doneCond.Wait()
	}
	s.doneMu.Unlock()

	// Joining the workers drains any in-flight tasks to their completion
	// paths before the scheduler state goes out of scope.
	s.pool.shutdown()

	if s.prof != nil {
		s.prof.WriteReport(s.opts.profileOut)
	}

	s.errMu.Lock()
	err := s.firstErr
	s.errMu.Unlock()
	if err != nil {
		log.Error().Err(err).Msg("graph execution failed")
		return err
	}
	log.Info().Msg("graph execution finished")
	return nil
}

// dispatch submits the task for a ready node. After a failure the pool may
// already be stopped; the task then runs inline on the current goroutine so
// the completion path still reaches every successor. Inline recursion is
// bounded by graph depth.
func (s *scheduler) dispatch(ctx context.Context, name string) {
	if err := s.pool.submit(func() { s.task(ctx, name) }); err != nil {
		s.task(ctx, name)
	}
}

// task is the single body for every terminal outcome: skipped-by-failure,
// pruned, done, and done-with-error all converge on the completion path.
func (s *scheduler) task(ctx context.Context, name string) {
	node := s.nodes[name]
	log := s.opts.log

	switch missing := s.missingControl(node); {
	case s.failed.Load():
		log.Debug().Str("run_id", s.runID).Str("node", name).Msg("skipping node after failure")

	case missing != "":
		log.Debug().Str("run_id", s.runID).Str("node", name).
			Str("control", missing).Msg("pruning node, control input absent")

	default:
		log.Debug().Str("run_id", s.runID).Str("node", name).Msg("executing node")
		start := time.Now()
		if err := node.exec(ctx, s.ws); err != nil {
			s.recordFailure(name, err)
		} else if s.prof != nil {
			s.prof.add(name, time.Since(start))
		}
	}

	s.complete(ctx, name)
}

// missingControl returns the first absent control-input key, or "" when the
// node is live. Data inputs are not probed: the planner guarantees their
// producers are terminal, and a pruned producer simply leaves its outputs
// unwritten for the node's own readiness check downstream.
func (s *scheduler) missingControl(node *NodeSpec) string {
	for _, key := range node.controlInputs {
		if !s.ws.Has(key) {
			return key
		}
	}
	return ""
}

// recordFailure captures the first error of the run and flips the failure
// flag. Later errors are swallowed; the waiter is woken either way.
func (s *scheduler) recordFailure(name string, err error) {
	s.errMu.Lock()
	if s.firstErr == nil {
		s.firstErr = &NodeError{Node: name, Err: err}
	}
	s.errMu.Unlock()

	s.failed.Store(true)
	s.doneMu.Lock()
	s.doneMu.Unlock() //nolint:staticcheck // pairing with the waiter's predicate check
	s.doneCond.Broadcast()
}

// complete decrements every successor's in-degree. Exactly one decrementer
// observes zero and alone dispatches the successor, so nodes are neither
// duplicated nor missed.
func (s *scheduler) complete(ctx context.Context, name string) {
	for _, succ := range s.plan.successors[name] {
		if s.plan.inDegree[succ].Add(-1) == 0 {
			s.dispatch(ctx, succ)
		}
	}

	if s.finished.Add(1) == s.total {
		s.doneMu.Lock()
		s.doneMu.Unlock() //nolint:staticcheck // pairing with the waiter's predicate check
		s.doneCond.Broadcast()
	}
}
