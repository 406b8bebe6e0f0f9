package exprlang

import "fmt"

// Program is a parsed, rewritten, and validated expression, ready for
// repeated per-cycle evaluation without re-parsing.
type Program struct {
	Source string
	Root   *Node
}

// Compile parses source, rewrites bare instance-name references to their
// canonical output attribute, and validates the result against the
// grammar whitelist. Any failure is an *Error with the original text
// attached.
func Compile(source string, instanceNames map[string]bool) (*Program, error) {
	root, err := Parse(source)
	if err != nil {
		return nil, err
	}
	root = RewriteInstanceNames(root, instanceNames)
	if err := Validate(root); err != nil {
		return nil, ExpressionError(Syntax, source, err)
	}
	return &Program{Source: source, Root: root}, nil
}

// IsAssignment reports whether the program's root is a top-level
// `name = expr` statement, as required for Variable program items.
func (p *Program) IsAssignment() bool {
	return p.Root.Kind == NodeAssign
}

// Target returns the assignment's left-hand name. Only valid when
// IsAssignment is true.
func (p *Program) Target() string {
	return p.Root.Target
}

// ExecuteCall reports whether the program's root is exactly
// `instanceName.execute(...)`, as required for Algorithm program items,
// and if so returns the instance name and the keyword arguments.
func (p *Program) ExecuteCall() (instanceName string, kwargs []KwArg, ok bool) {
	root := p.Root
	if root.Kind != NodeCall || root.Func.Kind != NodeAttr || root.Func.Attr != "execute" {
		return "", nil, false
	}
	if root.Func.Value.Kind != NodeName || len(root.Args) != 0 {
		return "", nil, false
	}
	return root.Func.Value.Name, root.Kwargs, true
}

// Eval evaluates the program's right-hand side (for an assignment) or the
// full expression against env, returning a scalar.
func (p *Program) Eval(env *Env) (float64, error) {
	return Eval(p.Source, p.Root, env)
}

// EvalKwargs resolves the keyword-argument expressions of an execute-call
// program independently of the Execute dispatch itself, matching the
// "argument pre-parsing" contract: each argument sub-expression is
// evaluated fresh every cycle, never re-parsed.
func (p *Program) EvalKwargs(kwargs []KwArg, env *Env) (map[string]float64, error) {
	resolved := make(map[string]float64, len(kwargs))
	for _, kw := range kwargs {
		v, err := Eval(p.Source, kw.Value, env)
		if err != nil {
			return nil, err
		}
		resolved[kw.Name] = v
	}
	return resolved, nil
}

func (p *Program) String() string {
	return fmt.Sprintf("Program(%q)", p.Source)
}
