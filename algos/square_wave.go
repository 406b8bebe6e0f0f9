package algos

import (
	"math"

	"github.com/StupidArthur/data-factory-next/registry"
)

var squareWaveDefaults = map[string]any{
	"amplitude": 1.0,
	"period":    1.0,
	"phase":     0.0,
}

type SquareWave struct {
	cycleTime                float64
	amplitude, period, phase float64
	cycleCount               int
	out                      float64
}

func newSquareWave(params map[string]any, cycleTime float64) (registry.Algorithm, error) {
	effective := overlay(squareWaveDefaults, params)
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
	return &SquareWave{cycleTime: cycleTime, amplitude: amplitude, period: period, phase: phase}, nil
}

func (w *SquareWave) phaseFraction() float64 {
	t := float64(w.cycleCount)*w.cycleTime/w.period + w.phase
	t -= math.Floor(t)
	return t
}

func (w *SquareWave) Execute(kwargs map[string]float64) error {
	t := w.phaseFraction()
	if t < 0.5 {
		w.out = w.amplitude
	} else {
		w.out = -w.amplitude
	}
	w.cycleCount++
	return nil
}

func (w *SquareWave) StoredAttributes() []string { return []string{"out"} }

func (w *SquareWave) Attribute(name string) (float64, error) {
	if name == "out" {
		return w.out, nil
	}
	return 0, errUnknownAttribute("SQUARE_WAVE", name)
}

var squareWaveDoc = registry.Doc{
	EnglishName:         "Square Wave",
	ChineseName:         "方波",
	Markdown:            "Alternates between +amplitude and -amplitude every half period.",
	ParamsTableMarkdown: "| param | meaning | default |\n|---|---|---|\n| amplitude | peak value | 1.0 |\n| period | seconds per full cycle | 1.0 |\n| phase | offset as a fraction (0-1) of one period | 0.0 |\n",
}
