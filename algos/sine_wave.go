package algos

import (
	"math"

	"github.com/StupidArthur/data-factory-next/registry"
)

var sineWaveDefaults = map[string]any{
	"amplitude": 1.0,
	"period":    1.0,
	"phase":     0.0,
}

type SineWave struct {
	cycleTime              float64
	amplitude, period, phase float64
	cycleCount             int
	out                    float64
}

func newSineWave(params map[string]any, cycleTime float64) (registry.Algorithm, error) {
	effective := overlay(sineWaveDefaults, params)
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
	return &SineWave{cycleTime: cycleTime, amplitude: amplitude, period: period, phase: phase}, nil
}

func (w *SineWave) Execute(kwargs map[string]float64) error {
	w.out = w.amplitude * math.Sin(2*math.Pi*float64(w.cycleCount)*w.cycleTime/w.period+w.phase)
	w.cycleCount++
	return nil
}

func (w *SineWave) StoredAttributes() []string { return []string{"out"} }

func (w *SineWave) Attribute(name string) (float64, error) {
	if name == "out" {
		return w.out, nil
	}
	return 0, errUnknownAttribute("SINE_WAVE", name)
}

var sineWaveDoc = registry.Doc{
	EnglishName: "Sine Wave",
	ChineseName: "正弦波",
	Markdown: "Emits a sinusoidal signal of the given amplitude, period (seconds), " +
		"and phase offset (radians), sampled once per cycle.",
	ParamsTableMarkdown: "" +
		"| param | meaning | default |\n" +
		"|---|---|---|\n" +
		"| amplitude | peak deviation from zero | 1.0 |\n" +
		"| period | seconds per full cycle | 1.0 |\n" +
		"| phase | radians offset | 0.0 |\n",
}
