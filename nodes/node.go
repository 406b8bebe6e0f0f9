// Package nodes binds compiled expressions to live instances and the
// variable store, and steps them once per cycle.
package nodes

import (
	"fmt"

	"github.com/StupidArthur/data-factory-next/exprlang"
)

type kind int

const (
	kindAlgorithm kind = iota
	kindExpression
)

// Node is a sum type of AlgorithmNode and ExpressionNode, dispatched by a
// single Step method rather than an open interface hierarchy: the two
// kinds differ only in their per-cycle behavior.
type Node struct {
	kind kind

	// shared
	name string
	env  *exprlang.Env

	// algorithm
	instanceName      string
	instance          exprlang.Instance
	storedAttributes  []string
	program           *exprlang.Program
	kwargs            []exprlang.KwArg

	// expression
	exprProgram *exprlang.Program
	storeKey    string
}

// NewAlgorithmNode binds instance behind instanceName to the
// instance.execute(...) program, per §4.6: the expression must already be
// verified to be exactly an execute call (see exprlang.Program.ExecuteCall).
func NewAlgorithmNode(name string, program *exprlang.Program, instanceName string, instance exprlang.Instance, storedAttributes []string, env *exprlang.Env) (*Node, error) {
	_, kwargs, ok := program.ExecuteCall()
	if !ok {
		return nil, fmt.Errorf("algorithm node %q: expression is not an instance.execute(...) call", name)
	}
	return &Node{
		kind:             kindAlgorithm,
		name:             name,
		env:              env,
		instanceName:     instanceName,
		instance:         instance,
		storedAttributes: storedAttributes,
		program:          program,
		kwargs:           kwargs,
	}, nil
}

// NewExpressionNode binds a pure-variable assignment to its compiled
// right-hand side, per §4.7.
func NewExpressionNode(name string, program *exprlang.Program, env *exprlang.Env) *Node {
	return &Node{
		kind:        kindExpression,
		name:        name,
		env:         env,
		exprProgram: program,
		storeKey:    name,
	}
}

func (n *Node) Name() string {
	return n.name
}

// Store is the subset of the variable store a node writes to after
// stepping.
type Store interface {
	exprlang.Store
	Set(name string, v float64)
}

// Step advances the node by one cycle, reading from and writing to store.
func (n *Node) Step(store Store) error {
	switch n.kind {
	case kindAlgorithm:
		return n.stepAlgorithm(store)
	case kindExpression:
		return n.stepExpression(store)
	default:
		return fmt.Errorf("node %q: unknown kind", n.name)
	}
}

func (n *Node) stepAlgorithm(store Store) error {
	env := &exprlang.Env{Store: store, Instances: n.env.Instances, Functions: n.env.Functions}
	resolved, err := n.program.EvalKwargs(n.kwargs, env)
	if err != nil {
		return err
	}
	if err := n.instance.Execute(resolved); err != nil {
		return err
	}
	for _, attr := range n.storedAttributes {
		value, err := n.instance.Attribute(attr)
		if err != nil {
			return err
		}
		store.Set(n.instanceName+"."+attr, value)
	}
	return nil
}

func (n *Node) stepExpression(store Store) error {
	env := &exprlang.Env{Store: store, Instances: n.env.Instances, Functions: n.env.Functions}
	value, err := n.exprProgram.Eval(env)
	if err != nil {
		return err
	}
	store.Set(n.storeKey, value)
	return nil
}
