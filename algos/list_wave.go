package algos

import (
	"fmt"
	"math"

	"github.com/StupidArthur/data-factory-next/registry"
)

type waveStep struct {
	value    float64
	cycles   int
}

type ListWave struct {
	cycleTime float64
	steps     []waveStep
	index     int
	remaining int
	out       float64
}

func newListWave(params map[string]any, cycleTime float64) (registry.Algorithm, error) {
	raw, ok := params["wave_list"]
	if !ok {
		return nil, fmt.Errorf("LIST_WAVE requires a wave_list parameter")
	}
	items, ok := raw.([]any)
	if !ok || len(items) == 0 {
		return nil, fmt.Errorf("LIST_WAVE wave_list must be a non-empty list of [value, duration_seconds] pairs")
	}

	steps := make([]waveStep, 0, len(items))
	for _, item := range items {
		pair, ok := item.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("LIST_WAVE wave_list entries must be [value, duration_seconds] pairs")
		}
		value, err := toFloat(pair[0])
		if err != nil {
			return nil, err
		}
		duration, err := toFloat(pair[1])
		if err != nil {
			return nil, err
		}
		cycles := int(math.Round(duration / cycleTime))
		if cycles < 1 {
			cycles = 1
		}
		steps = append(steps, waveStep{value: value, cycles: cycles})
	}

	return &ListWave{
		cycleTime: cycleTime,
		steps:     steps,
		remaining: steps[0].cycles,
		out:       steps[0].value,
	}, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}

func (w *ListWave) Execute(kwargs map[string]float64) error {
	w.out = w.steps[w.index].value
	w.remaining--
	if w.remaining <= 0 {
		w.index = (w.index + 1) % len(w.steps)
		w.remaining = w.steps[w.index].cycles
	}
	return nil
}

func (w *ListWave) StoredAttributes() []string { return []string{"out"} }

func (w *ListWave) Attribute(name string) (float64, error) {
	if name == "out" {
		return w.out, nil
	}
	return 0, errUnknownAttribute("LIST_WAVE", name)
}

var listWaveDoc = registry.Doc{
	EnglishName:         "List Wave",
	ChineseName:         "列表波",
	Markdown:            "Cycles indefinitely through a configured list of (value, duration_seconds) steps, holding each value for duration/cycle_time cycles.",
	ParamsTableMarkdown: "| param | meaning | default |\n|---|---|---|\n| wave_list | list of [value, duration_seconds] pairs | (required) |\n",
}
