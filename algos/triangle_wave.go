package algos

import (
	"math"

	"github.com/StupidArthur/data-factory-next/registry"
)

var triangleWaveDefaults = map[string]any{
	"amplitude": 1.0,
	"period":    1.0,
	"phase":     0.0,
}

type TriangleWave struct {
	cycleTime                float64
	amplitude, period, phase float64
	cycleCount               int
	out                      float64
}

func newTriangleWave(params map[string]any, cycleTime float64) (registry.Algorithm, error) {
	effective := overlay(triangleWaveDefaults, params)
	amplitude, err := floatParam(effective, "amplitude")
	if err != nil {
		return nil, err
	}
	period, err := floatParam(effective, "period")
	if err != nil {
		return nil, err
	}
	phase, err := floatParam(effective, "phase")
	if err != nil {
		return nil, err
	}
	return &TriangleWave{cycleTime: cycleTime, amplitude: amplitude, period: period, phase: phase}, nil
}

func (w *TriangleWave) Execute(kwargs map[string]float64) error {
	t := float64(w.cycleCount)*w.cycleTime/w.period + w.phase
	t -= math.Floor(t)
	w.out = w.amplitude * (4*math.Abs(t-0.5) - 1)
	w.cycleCount++
	return nil
}

func (w *TriangleWave) StoredAttributes() []string { return []string{"out"} }

func (w *TriangleWave) Attribute(name string) (float64, error) {
	if name == "out" {
		return w.out, nil
	}
	return 0, errUnknownAttribute("TRIANGLE_WAVE", name)
}

var triangleWaveDoc = registry.Doc{
	EnglishName:         "Triangle Wave",
	ChineseName:         "三角波",
	Markdown:            "Ramps linearly between +amplitude and -amplitude each half period.",
	ParamsTableMarkdown: "| param | meaning | default |\n|---|---|---|\n| amplitude | peak value | 1.0 |\n| period | seconds per full cycle | 1.0 |\n| phase | offset as a fraction (0-1) of one period | 0.0 |\n",
}
