package exprlang

import (
	"fmt"
	"math"
)

// result is either a plain scalar or a store-backed reference (the value
// read from a bare variable name or an attribute access), which is what
// makes it subscriptable with a lag.
type result struct {
	value  float64
	key    string
	hasKey bool
}

// Eval evaluates root against env, returning a scalar. root must already
// be rewritten and validated; text is the original expression, carried
// only for error reporting.
func Eval(text string, root *Node, env *Env) (float64, error) {
	if root.Kind == NodeAssign {
		root = root.RHS
	}
	res, err := eval(text, root, env)
	if err != nil {
		return 0, err
	}
	return res.value, nil
}

func eval(text string, n *Node, env *Env) (result, error) {
	switch n.Kind {

	case NodeNumber:
		return result{value: n.Number}, nil

	case NodeName:
		key := n.Name
		fn, isFunc := env.Functions[key]
		if isFunc {
			// a bare reference to a function name used as a value has no
			// meaning in this grammar; only call position is valid.
			_ = fn
			return result{}, ExpressionError(Name, text, fmt.Errorf("%q is a function, not a value", key))
		}
		return result{value: env.Store.Get(key, 0), key: key, hasKey: true}, nil

	case NodeUnary:
		x, err := eval(text, n.X, env)
		if err != nil {
			return result{}, err
		}
		switch n.Op {
		case "+":
			return result{value: x.value}, nil
		case "-":
			return result{value: -x.value}, nil
		}
		return result{}, ExpressionError(Evaluation, text, fmt.Errorf("unsupported unary operator %q", n.Op))

	case NodeBinary:
		return evalBinary(text, n, env)

	case NodeAttr:
		return evalAttr(text, n, env)

	case NodeSubscript:
		return evalSubscript(text, n, env)

	case NodeCall:
		return evalCall(text, n, env)

	default:
		return result{}, ExpressionError(Evaluation, text, fmt.Errorf("unsupported node kind %d", n.Kind))
	}
}

func evalBinary(text string, n *Node, env *Env) (result, error) {
	left, err := eval(text, n.Left, env)
	if err != nil {
		return result{}, err
	}
	right, err := eval(text, n.Right, env)
	if err != nil {
		return result{}, err
	}
	a, b := left.value, right.value

	switch n.Op {
	case "+":
		return result{value: a + b}, nil
	case "-":
		return result{value: a - b}, nil
	case "*":
		return result{value: a * b}, nil
	case "/":
		if b == 0 {
			return result{}, ExpressionError(Arithmetic, text, fmt.Errorf("division by zero"))
		}
		return result{value: a / b}, nil
	case "//":
		if b == 0 {
			return result{}, ExpressionError(Arithmetic, text, fmt.Errorf("division by zero"))
		}
		return result{value: math.Floor(a / b)}, nil
	case "%":
		if b == 0 {
			return result{}, ExpressionError(Arithmetic, text, fmt.Errorf("modulo by zero"))
		}
		m := math.Mod(a, b)
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return result{value: m}, nil
	case "**":
		return result{value: math.Pow(a, b)}, nil
	}

	return result{}, ExpressionError(Evaluation, text, fmt.Errorf("unsupported binary operator %q", n.Op))
}

func evalAttr(text string, n *Node, env *Env) (result, error) {
	if n.Value.Kind != NodeName {
		return result{}, ExpressionError(Evaluation, text, fmt.Errorf("unsupported attribute target"))
	}
	instanceName := n.Value.Name
	key := instanceName + "." + n.Attr

	// Coerce to scalar by reading the store first, falling back to the
	// live attribute on the instance when the store has no value for it
	// yet (e.g. an attribute read before the instance's first Execute).
	if stored := env.Store.Get(key, math.NaN()); !math.IsNaN(stored) {
		return result{value: stored, key: key, hasKey: true}, nil
	}

	instance, ok := env.Instances[instanceName]
	if !ok {
		return result{}, ExpressionError(Name, text, fmt.Errorf("undefined instance %q", instanceName))
	}
	v, err := instance.Attribute(n.Attr)
	if err != nil {
		return result{}, ExpressionError(Evaluation, text, err)
	}
	return result{value: v, key: key, hasKey: true}, nil
}

func evalSubscript(text string, n *Node, env *Env) (result, error) {
	value, err := eval(text, n.Value, env)
	if err != nil {
		return result{}, err
	}
	if !value.hasKey {
		return result{}, ExpressionError(Type, text, fmt.Errorf("subscript target is not a store-backed reference"))
	}
	index, err := eval(text, n.Index, env)
	if err != nil {
		return result{}, err
	}
	k := int(math.Round(-index.value))
	if k < 0 {
		return result{}, ExpressionError(Evaluation, text, fmt.Errorf("negative lag %d", k))
	}
	return result{value: env.Store.GetWithLag(value.key, k, 0)}, nil
}

func evalCall(text string, n *Node, env *Env) (result, error) {
	switch n.Func.Kind {

	case NodeAttr:
		// instance.execute(**kwargs): the node layer normally dispatches
		// this directly; evaluating it as a generic expression still
		// forwards to the instance and yields no usable scalar.
		instanceName := n.Func.Value.Name
		instance, ok := env.Instances[instanceName]
		if !ok {
			return result{}, ExpressionError(Name, text, fmt.Errorf("undefined instance %q", instanceName))
		}
		kwargs, err := evalKwargs(text, n.Kwargs, env)
		if err != nil {
			return result{}, err
		}
		if err := instance.Execute(kwargs); err != nil {
			return result{}, ExpressionError(Evaluation, text, err)
		}
		return result{}, nil

	case NodeName:
		fn, ok := env.Functions[n.Func.Name]
		if !ok {
			return result{}, ExpressionError(Name, text, fmt.Errorf("undefined function %q", n.Func.Name))
		}
		if len(n.Kwargs) > 0 {
			return result{}, ExpressionError(Syntax, text, fmt.Errorf("function calls do not accept keyword arguments"))
		}
		args := make([]float64, len(n.Args))
		for i, a := range n.Args {
			v, err := eval(text, a, env)
			if err != nil {
				return result{}, err
			}
			args[i] = v.value
		}
		v, err := fn(args...)
		if err != nil {
			return result{}, ExpressionError(Evaluation, text, err)
		}
		return result{value: v}, nil
	}

	return result{}, ExpressionError(Syntax, text, fmt.Errorf("unsupported call target"))
}

func evalKwargs(text string, kwargs []KwArg, env *Env) (map[string]float64, error) {
	resolved := make(map[string]float64, len(kwargs))
	for _, kw := range kwargs {
		v, err := eval(text, kw.Value, env)
		if err != nil {
			return nil, err
		}
		resolved[kw.Name] = v.value
	}
	return resolved, nil
}
