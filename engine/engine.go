// Package engine builds algorithm instances and nodes from a compiled
// configuration and steps them one cycle at a time, emitting snapshots.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/StupidArthur/data-factory-next/clock"
	"github.com/StupidArthur/data-factory-next/configs"
	"github.com/StupidArthur/data-factory-next/exprlang"
	"github.com/StupidArthur/data-factory-next/nodes"
	"github.com/StupidArthur/data-factory-next/registry"
	"github.com/StupidArthur/data-factory-next/varstore"
)

// Snapshot is one cycle's flat output: the reserved keys plus one entry
// per persisted store key. Instance attributes are keyed "instance.attr";
// variables are keyed by their bare name.
type Snapshot map[string]any

const (
	keyCycleCount = "cycle_count"
	keySimTime    = "sim_time"
	keyNeedSample = "need_sample"
	keyTimeStr    = "time_str"
	keyExecRatio  = "exec_ratio"
)

// NodeError wraps a node's failure with its identity and the cycle it
// failed on, per the node-error propagation policy: a node failure is
// logged and re-raised, never silently skipped.
type NodeError struct {
	NodeName   string
	CycleCount int
	Cause      error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %q failed on cycle %d: %v", e.NodeName, e.CycleCount, e.Cause)
}

func (e *NodeError) Unwrap() error {
	return e.Cause
}

// Engine owns the clock, the variable store, every algorithm instance,
// and the ordered node list, and is driven by a single executor.
type Engine struct {
	clock  *clock.Clock
	store  *varstore.Store
	nodes  []*nodes.Node
	logger *slog.Logger
}

// New builds an Engine from a compiled program: it instantiates every
// algorithm per the registry, registers them in the instance map, builds
// nodes in declared order, configures the store's lag capacities, and
// pre-populates the store with each instance's post-construction stored
// attributes so lagged reads in cycle 1 see a consistent history base.
func New(program *configs.Program, reg *registry.Registry, logger *slog.Logger) (*Engine, error) {
	store := varstore.New()
	for key, capacity := range program.Capacities {
		store.ConfigureLag(key, capacity)
	}

	instances := make(map[string]exprlang.Instance)
	functions := make(map[string]exprlang.Function)
	for _, name := range reg.FunctionNames() {
		fn, _ := reg.Function(name)
		functions[name] = exprlang.Function(fn)
	}

	for _, item := range program.Items {
		if item.IsVariable {
			continue
		}
		factory, ok := reg.Algorithm(item.Type)
		if !ok {
			return nil, fmt.Errorf("engine: item %q: unregistered algorithm type %q", item.Name, item.Type)
		}
		instance, err := factory(item.InitArgs, program.Clock.CycleTime)
		if err != nil {
			return nil, fmt.Errorf("engine: constructing %q (%s): %w", item.Name, item.Type, err)
		}
		instances[item.Name] = instance
	}

	env := &exprlang.Env{Store: store, Instances: instances, Functions: functions}

	builtNodes := make([]*nodes.Node, 0, len(program.Items))
	for _, item := range program.Items {
		if item.IsVariable {
			builtNodes = append(builtNodes, nodes.NewExpressionNode(item.Name, item.Program, env))
			continue
		}
		instance := instances[item.Name]
		algorithm, ok := instance.(registry.Algorithm)
		if !ok {
			return nil, fmt.Errorf("engine: instance %q does not satisfy registry.Algorithm", item.Name)
		}
		node, err := nodes.NewAlgorithmNode(item.Name, item.Program, item.Name, instance, algorithm.StoredAttributes(), env)
		if err != nil {
			return nil, fmt.Errorf("engine: building node %q: %w", item.Name, err)
		}
		builtNodes = append(builtNodes, node)

		for _, attr := range algorithm.StoredAttributes() {
			value, err := algorithm.Attribute(attr)
			if err != nil {
				return nil, fmt.Errorf("engine: reading initial attribute %q.%q: %w", item.Name, attr, err)
			}
			store.Set(item.Name+"."+attr, value)
		}
	}

	mode, err := clock.ParseMode(program.Clock.Mode)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	startTime, err := clock.ParseStartTime(program.Clock.StartTime)
	if err != nil {
		return nil, fmt.Errorf("engine: parsing clock.start_time: %w", err)
	}

	c := clock.New(clock.Config{
		CycleTime:      program.Clock.CycleTime,
		Mode:           mode,
		SampleInterval: program.Clock.SampleInterval,
		TimeFormat:     program.Clock.TimeFormat,
		StartTime:      startTime,
	})

	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{clock: c, store: store, nodes: builtNodes, logger: logger}, nil
}

// step advances the engine by exactly one cycle: it ticks the clock,
// steps every node in declared order (so later nodes observe earlier
// nodes' writes of this cycle), and assembles the resulting snapshot. A
// node failure is logged with its identity and cycle, then re-raised;
// the engine never silently continues past a failed node.
func (e *Engine) step() (Snapshot, error) {
	cycleCount, needSample, timeStr := e.clock.Tick()

	for _, node := range e.nodes {
		if err := node.Step(e.store); err != nil {
			wrapped := &NodeError{NodeName: node.Name(), CycleCount: cycleCount, Cause: err}
			e.logger.Error("node failed", "node", node.Name(), "cycle_count", cycleCount, "error", err)
			return nil, wrapped
		}
	}

	snapshot := Snapshot{
		keyCycleCount: cycleCount,
		keySimTime:    e.clock.SimTime(),
		keyNeedSample: needSample,
		keyTimeStr:    timeStr,
		keyExecRatio:  e.clock.ExecRatio(),
	}
	for _, key := range e.store.Keys() {
		snapshot[key] = e.store.Get(key, 0)
	}

	if e.clock.Mode() == clock.Realtime {
		e.clock.SleepRemaining(e.logger)
	}
	return snapshot, nil
}

// RunGenerator sets the clock to Generator mode and returns exactly n
// snapshots without ever sleeping. Cancellation is checked at cycle
// boundaries, never mid-cycle.
func (e *Engine) RunGenerator(ctx context.Context, n int) ([]Snapshot, error) {
	if n <= 0 {
		return nil, fmt.Errorf("engine: RunGenerator requires n > 0, got %d", n)
	}
	e.clock.SetMode(clock.Generator)
	snapshots := make([]Snapshot, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return snapshots, err
		}
		snapshot, err := e.step()
		if err != nil {
			return snapshots, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

// RunRealtime sets the clock to Realtime mode and streams one snapshot
// per real cycle_time until ctx is canceled. The channel is closed after
// the last in-flight cycle completes or a node fails; errors are sent on
// errc before the channel closes.
func (e *Engine) RunRealtime(ctx context.Context) (<-chan Snapshot, <-chan error) {
	e.clock.SetMode(clock.Realtime)
	out := make(chan Snapshot)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for {
			if err := ctx.Err(); err != nil {
				return
			}
			snapshot, err := e.step()
			if err != nil {
				errc <- err
				return
			}
			select {
			case out <- snapshot:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, errc
}
