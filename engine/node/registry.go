package node

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/compozy/chatwoot-nodes/engine/core"
	"github.com/compozy/chatwoot-nodes/pkg/logger"
	"github.com/google/uuid"
)

var (
	ErrNodeNotFound      = errors.New("node not found")
	ErrDuplicateNode     = errors.New("node already registered")
	ErrInvalidDefinition = errors.New("invalid node definition")
)

// Registry keeps node definitions by ID and runs them.
type Registry struct {
	mu      sync.RWMutex
	nodes   map[string]Definition
	metrics *Metrics
}

// NewRegistry creates an empty registry. metrics may be nil.
func NewRegistry(metrics *Metrics) *Registry {
	return &Registry{nodes: make(map[string]Definition), metrics: metrics}
}

// Register adds def, rejecting duplicates and definitions that cannot run.
func (r *Registry) Register(def Definition) error {
	id := strings.TrimSpace(def.ID)
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidDefinition)
	}
	if def.Execute == nil {
		return fmt.Errorf("%w: %s has no execute function", ErrInvalidDefinition, id)
	}
	if def.InputSchema != nil {
		if _, err := def.InputSchema.Compile(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidDefinition, id, err)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.nodes[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, id)
	}
	def.ID = id
	r.nodes[id] = def
	return nil
}

// Get returns the definition registered under id.
func (r *Registry) Get(id string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.nodes[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return def, nil
}

// List returns every definition ordered by ID.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]Definition, 0, len(r.nodes))
	for _, def := range r.nodes {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

// Run executes the node registered under id over exec.
func (r *Registry) Run(ctx context.Context, id string, exec *Execution) ([]Result, error) {
	def, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if exec == nil {
		exec = &Execution{}
	}
	runID := uuid.NewString()
	ctx = core.WithRequestID(ctx, runID)
	log := logger.FromContext(ctx).With("node_id", id, "run_id", runID)
	ctx = logger.ContextWithLogger(ctx, log)

	log.Debug("Node run started", "items", len(exec.Items), "continue_on_fail", exec.ContinueOnFail)
	start := time.Now()
	results, err := def.Execute(ctx, exec)
	duration := time.Since(start)

	succeeded, failed := countResults(results)
	status := StatusSuccess
	errorCode := ""
	if err != nil {
		status = StatusFailure
		errorCode = core.ErrorCode(err)
		failed++
	}
	r.metrics.RecordRun(ctx, id, status, duration, succeeded, failed, errorCode)
	if err != nil {
		log.Error("Node run failed", "error", ErrorFields(err), "duration", duration)
		return results, err
	}
	log.Info("Node run finished", "succeeded", succeeded, "failed", failed, "duration", duration)
	return results, nil
}

func countResults(results []Result) (succeeded, failed int) {
	for _, res := range results {
		if res.Failed() {
			failed++
			continue
		}
		succeeded++
	}
	return succeeded, failed
}
