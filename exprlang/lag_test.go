package exprlang

import "testing"

func TestExtractLagRequirements(t *testing.T) {
	instanceNames := map[string]bool{"r": true}
	prog, err := Compile("d = r[-3]", instanceNames)
	if err != nil {
		t.Fatal(err)
	}
	reqs := ExtractLagRequirements(prog.Root)
	if reqs["r.out"] != 3 {
		t.Fatalf("got %#v", reqs)
	}
}

func TestExtractLagRequirementsTakesMax(t *testing.T) {
	prog, err := Compile("y = x[-2] + x[-5] + x[0]", nil)
	if err != nil {
		t.Fatal(err)
	}
	reqs := ExtractLagRequirements(prog.Root)
	if reqs["x"] != 5 {
		t.Fatalf("got %#v", reqs)
	}
}
