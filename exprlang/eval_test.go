package exprlang

import (
	"errors"
	"math"
	"testing"
)

type fakeStore struct {
	values map[string]float64
	lag    map[string][]float64 // key -> history, newest last
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[string]float64), lag: make(map[string][]float64)}
}

func (s *fakeStore) Get(name string, def float64) float64 {
	if v, ok := s.values[name]; ok {
		return v
	}
	return def
}

func (s *fakeStore) GetWithLag(name string, k int, def float64) float64 {
	hist := s.lag[name]
	idx := len(hist) - 1 - k
	if idx < 0 || idx >= len(hist) {
		return def
	}
	return hist[idx]
}

func (s *fakeStore) set(name string, v float64) {
	s.values[name] = v
	s.lag[name] = append(s.lag[name], v)
}

type fakeInstance struct {
	attrs map[string]float64
}

func (f *fakeInstance) Execute(kwargs map[string]float64) error { return nil }
func (f *fakeInstance) Attribute(name string) (float64, error)  { return f.attrs[name], nil }

func TestArithmetic(t *testing.T) {
	env := &Env{Store: newFakeStore(), Instances: map[string]Instance{}, Functions: map[string]Function{}}
	cases := map[string]float64{
		"1 + 2 * 3":   7,
		"(1 + 2) * 3": 9,
		"2 ** 3":      8,
		"7 // 2":      3,
		"-7 // 2":     -4,
		"7 % 3":       1,
		"-7 % 3":      2,
		"2 ** -1":     0.5,
		"-2 ** 2":     -4, // unary binds looser than **
	}
	for expr, want := range cases {
		prog, err := Compile(expr, nil)
		if err != nil {
			t.Fatalf("%s: %v", expr, err)
		}
		got, err := prog.Eval(env)
		if err != nil {
			t.Fatalf("%s: %v", expr, err)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("%s: got %v want %v", expr, got, want)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	prog, err := Compile("1 / 0", nil)
	if err != nil {
		t.Fatal(err)
	}
	env := &Env{Store: newFakeStore(), Instances: map[string]Instance{}, Functions: map[string]Function{}}
	_, err = prog.Eval(env)
	if err == nil {
		t.Fatal("expected error")
	}
	var exprErr *Error
	if !errors.As(err, &exprErr) || exprErr.Kind != Arithmetic {
		t.Fatalf("got %v", err)
	}
}

func TestInstanceRewriteAndAttributeRead(t *testing.T) {
	// S2: bare `s` rewrites to `s.out`.
	instanceNames := map[string]bool{"s": true}
	prog, err := Compile("x = s", instanceNames)
	if err != nil {
		t.Fatal(err)
	}
	if prog.Root.RHS.Kind != NodeAttr || prog.Root.RHS.Attr != "out" {
		t.Fatalf("expected rewrite to s.out, got %#v", prog.Root.RHS)
	}

	store := newFakeStore()
	store.set("s.out", 1.0)
	env := &Env{Store: store, Instances: map[string]Instance{}, Functions: map[string]Function{}}
	got, err := prog.Eval(env)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1.0 {
		t.Fatalf("got %v", got)
	}
}

func TestRewriteIsPositionSensitive(t *testing.T) {
	instanceNames := map[string]bool{"x": true}

	rewritten, err := Compile("x[-1]", instanceNames)
	if err != nil {
		t.Fatal(err)
	}
	if rewritten.Root.Kind != NodeSubscript || rewritten.Root.Value.Kind != NodeAttr {
		t.Fatalf("expected x to rewrite to x.out[-1], got %#v", rewritten.Root)
	}

	notRewritten, err := Compile("x.execute()", instanceNames)
	if err != nil {
		t.Fatal(err)
	}
	if notRewritten.Root.Func.Value.Kind != NodeName {
		t.Fatalf("expected x to stay bare in x.execute(), got %#v", notRewritten.Root.Func.Value)
	}

	attrAccess, err := Compile("y = x.attr", map[string]bool{"x": true})
	if err != nil {
		t.Fatal(err)
	}
	if attrAccess.Root.RHS.Value.Kind != NodeName {
		t.Fatalf("expected x to stay bare in x.attr, got %#v", attrAccess.Root.RHS.Value)
	}
}

func TestRejectedGrammarFailsAtCompileTime(t *testing.T) {
	rejected := []string{
		"__import__('os').system('x')",
		"y.foo()",
	}
	for _, expr := range rejected {
		_, err := Compile(expr, nil)
		if err == nil {
			t.Fatalf("%s: expected error", expr)
		}
		var exprErr *Error
		if !errors.As(err, &exprErr) || exprErr.Kind != Syntax {
			t.Fatalf("%s: got %v", expr, err)
		}
	}
}

func TestLagDefaultBeforeHistory(t *testing.T) {
	store := newFakeStore()
	store.set("r.out", 50)
	store.set("r.out", 50)
	store.set("r.out", 50)

	instanceNames := map[string]bool{"r": true}
	prog, err := Compile("d = r[-3]", instanceNames)
	if err != nil {
		t.Fatal(err)
	}
	env := &Env{Store: store, Instances: map[string]Instance{}, Functions: map[string]Function{}}
	got, err := prog.Eval(env)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0.0 {
		t.Fatalf("got %v, want default 0.0 (history not yet deep enough)", got)
	}
}

func TestFunctionCall(t *testing.T) {
	env := &Env{
		Store:     newFakeStore(),
		Instances: map[string]Instance{},
		Functions: map[string]Function{
			"abs": func(args ...float64) (float64, error) { return math.Abs(args[0]), nil },
		},
	}
	prog, err := Compile("abs(-5)", nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := prog.Eval(env)
	if err != nil {
		t.Fatal(err)
	}
	if got != 5 {
		t.Fatalf("got %v", got)
	}
}

func TestExecuteCallRecognition(t *testing.T) {
	prog, err := Compile("v.execute(target_opening=s.out)", map[string]bool{"v": true, "s": true})
	if err != nil {
		t.Fatal(err)
	}
	name, kwargs, ok := prog.ExecuteCall()
	if !ok || name != "v" {
		t.Fatalf("got name=%q ok=%v", name, ok)
	}
	if len(kwargs) != 1 || kwargs[0].Name != "target_opening" {
		t.Fatalf("got %#v", kwargs)
	}
}
