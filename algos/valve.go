package algos

import (
	"math"

	"github.com/StupidArthur/data-factory-next/registry"
)

var valveDefaults = map[string]any{
	"min_opening":      0.0,
	"max_opening":      100.0,
	"step":             1.0,
	"full_travel_time": 10.0,
	"current_opening":  0.0,
}

// Valve slews current_opening toward target_opening at most
// max_opening*cycle_time/full_travel_time per cycle, quantized to step,
// clipped to [min_opening, max_opening].
type Valve struct {
	cycleTime       float64
	minOpening      float64
	maxOpening      float64
	step            float64
	fullTravelTime  float64
	currentOpening  float64
}

func newValve(params map[string]any, cycleTime float64) (registry.Algorithm, error) {
	effective := overlay(valveDefaults, params)
	minOpening, err := floatParam(effective, "min_opening")
	if err != nil {
		return nil, err
	}
	maxOpening, err := floatParam(effective, "max_opening")
	if err != nil {
		return nil, err
	}
	step, err := floatParam(effective, "step")
	if err != nil {
		return nil, err
	}
	fullTravelTime, err := floatParam(effective, "full_travel_time")
	if err != nil {
		return nil, err
	}
	currentOpening, err := floatParam(effective, "current_opening")
	if err != nil {
		return nil, err
	}
	return &Valve{
		cycleTime: cycleTime, minOpening: minOpening, maxOpening: maxOpening,
		step: step, fullTravelTime: fullTravelTime, currentOpening: currentOpening,
	}, nil
}

func (v *Valve) Execute(kwargs map[string]float64) error {
	target := kwargs["target_opening"]
	target = math.Min(v.maxOpening, math.Max(v.minOpening, target))

	maxDelta := v.maxOpening * v.cycleTime / v.fullTravelTime
	delta := target - v.currentOpening
	if delta > maxDelta {
		delta = maxDelta
	} else if delta < -maxDelta {
		delta = -maxDelta
	}

	next := v.currentOpening + delta
	if v.step > 0 {
		next = math.Round(next/v.step) * v.step
	}
	v.currentOpening = math.Min(v.maxOpening, math.Max(v.minOpening, next))
	return nil
}

func (v *Valve) StoredAttributes() []string { return []string{"current_opening"} }

func (v *Valve) Attribute(name string) (float64, error) {
	if name == "current_opening" {
		return v.currentOpening, nil
	}
	return 0, errUnknownAttribute("VALVE", name)
}

var valveDoc = registry.Doc{
	EnglishName: "Valve",
	ChineseName: "阀门",
	Markdown: "Slews current_opening toward target_opening at most " +
		"max_opening*cycle_time/full_travel_time per cycle, quantized to step, " +
		"clipped to [min_opening, max_opening].",
	ParamsTableMarkdown: "" +
		"| param | meaning | default |\n" +
		"|---|---|---|\n" +
		"| min_opening, max_opening | travel limits | 0.0, 100.0 |\n" +
		"| step | quantization step | 1.0 |\n" +
		"| full_travel_time | seconds for a full-range stroke | 10.0 |\n" +
		"| current_opening | initial opening | 0.0 |\n",
}
