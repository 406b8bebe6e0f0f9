package algos

import (
	"math"
	"testing"

	"github.com/StupidArthur/data-factory-next/registry"
)

func TestSineWaveMatchesFormula(t *testing.T) {
	reg := registry.New()
	Register(reg)
	factory, ok := reg.Algorithm("SINE_WAVE")
	if !ok {
		t.Fatal("expected SINE_WAVE registered")
	}
	instance, err := factory(map[string]any{"amplitude": 1.0, "period": 4.0, "phase": 0.0}, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if err := instance.Execute(nil); err != nil {
		t.Fatal(err)
	}
	out, err := instance.Attribute("out")
	if err != nil {
		t.Fatal(err)
	}
	want := math.Sin(2 * math.Pi * 0 * 1.0 / 4.0)
	if math.Abs(out-want) > 1e-9 {
		t.Fatalf("got %v want %v", out, want)
	}

	if err := instance.Execute(nil); err != nil {
		t.Fatal(err)
	}
	out, _ = instance.Attribute("out")
	want = math.Sin(2 * math.Pi * 1 * 1.0 / 4.0)
	if math.Abs(out-want) > 1e-9 {
		t.Fatalf("second cycle: got %v want %v", out, want)
	}
}

func TestValveSlewRate(t *testing.T) {
	reg := registry.New()
	Register(reg)
	factory, _ := reg.Algorithm("VALVE")
	instance, err := factory(map[string]any{
		"min_opening": 0.0, "max_opening": 100.0, "step": 1.0, "full_travel_time": 10.0,
	}, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if err := instance.Execute(map[string]float64{"target_opening": 100.0}); err != nil {
		t.Fatal(err)
	}
	got, _ := instance.Attribute("current_opening")
	if got != 10.0 {
		t.Fatalf("got %v, want at most 10 per cycle (max_opening*cycle_time/full_travel_time)", got)
	}
}

func TestRandomStaysInBounds(t *testing.T) {
	reg := registry.New()
	Register(reg)
	factory, _ := reg.Algorithm("RANDOM")
	instance, err := factory(map[string]any{"L": 0.0, "H": 10.0, "max_step": 5.0, "seed": 42.0}, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		if err := instance.Execute(nil); err != nil {
			t.Fatal(err)
		}
		out, _ := instance.Attribute("out")
		if out < 0 || out > 10 {
			t.Fatalf("cycle %d: out=%v out of bounds", i, out)
		}
	}
}

func TestRandomZeroStepIsConstant(t *testing.T) {
	reg := registry.New()
	Register(reg)
	factory, _ := reg.Algorithm("RANDOM")
	instance, err := factory(map[string]any{"L": 0.0, "H": 100.0, "max_step": 0.0, "seed": 7.0}, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	out0, _ := instance.Attribute("out")
	if err := instance.Execute(nil); err != nil {
		t.Fatal(err)
	}
	out1, _ := instance.Attribute("out")
	if out0 != out1 {
		t.Fatalf("expected constant output with max_step=0, got %v then %v", out0, out1)
	}
}

func TestPidDrivesErrorDown(t *testing.T) {
	reg := registry.New()
	Register(reg)
	factory, _ := reg.Algorithm("PID")
	instance, err := factory(map[string]any{"pb": 50.0, "ti": 0.0, "td": 0.0, "L": 0.0, "H": 100.0}, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if err := instance.Execute(map[string]float64{"PV": 0.0, "SV": 50.0}); err != nil {
		t.Fatal(err)
	}
	mv, _ := instance.Attribute("MV")
	if mv <= 0 {
		t.Fatalf("expected positive corrective MV, got %v", mv)
	}
}

func TestCylindricalTankFillsWithValveOpenAndDrainsWhenClosed(t *testing.T) {
	reg := registry.New()
	Register(reg)
	factory, ok := reg.Algorithm("CYLINDRICAL_TANK")
	if !ok {
		t.Fatal("expected CYLINDRICAL_TANK registered")
	}
	instance, err := factory(map[string]any{
		"height": 10.0, "radius": 1.0,
		"inlet_area": 0.06, "inlet_velocity": 3.0, "outlet_area": 0.001,
		"level": 0.0,
	}, 1.0)
	if err != nil {
		t.Fatal(err)
	}

	// valve fully open, level starts at 0: inflow only, no outflow yet.
	if err := instance.Execute(map[string]float64{"valve_opening": 100.0}); err != nil {
		t.Fatal(err)
	}
	level1, _ := instance.Attribute("level")
	if level1 <= 0 {
		t.Fatalf("expected level to rise with valve open, got %v", level1)
	}

	// valve closes: level must fall, since outflow is never gated by the valve.
	for i := 0; i < 50; i++ {
		if err := instance.Execute(map[string]float64{"valve_opening": 0.0}); err != nil {
			t.Fatal(err)
		}
	}
	levelAfterDraining, _ := instance.Attribute("level")
	if levelAfterDraining >= level1 {
		t.Fatalf("expected level to drain with valve closed, got %v (was %v)", levelAfterDraining, level1)
	}
	if levelAfterDraining < 0 {
		t.Fatalf("level must not go negative, got %v", levelAfterDraining)
	}
}

func TestMathFunctionsRegistered(t *testing.T) {
	reg := registry.New()
	Register(reg)
	fn, ok := reg.Function("sqrt")
	if !ok {
		t.Fatal("expected sqrt registered")
	}
	got, err := fn(9)
	if err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Fatalf("got %v", got)
	}
}
