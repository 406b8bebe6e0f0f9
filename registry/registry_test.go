package registry

import "testing"

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	r.RegisterFunction("double", func(args ...float64) (float64, error) {
		return args[0] * 2, nil
	}, Doc{
		EnglishName:         "Double",
		ChineseName:         "加倍",
		Markdown:            "doubles its argument",
		ParamsTableMarkdown: "| arg | desc |\n|---|---|\n| x | value |",
	})

	fn, ok := r.Function("double")
	if !ok {
		t.Fatal("expected function")
	}
	got, err := fn(21)
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Fatalf("got %v", got)
	}

	if _, ok := r.Function("missing"); ok {
		t.Fatal("expected missing function to be absent")
	}
}

func TestDuplicateAlgorithmPanics(t *testing.T) {
	r := New()
	doc := Doc{EnglishName: "A", ChineseName: "A", Markdown: "a", ParamsTableMarkdown: "a"}
	factory := func(params map[string]any, cycleTime float64) (Algorithm, error) {
		return nil, nil
	}
	r.RegisterAlgorithm("A", factory, doc)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	r.RegisterAlgorithm("A", factory, doc)
}

func TestIncompleteDocPanics(t *testing.T) {
	r := New()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on incomplete doc")
		}
	}()
	r.RegisterFunction("partial", func(args ...float64) (float64, error) { return 0, nil }, Doc{
		EnglishName: "Partial",
	})
}
