package algos

import (
	"math"
	"math/rand"

	"github.com/StupidArthur/data-factory-next/registry"
)

var randomDefaults = map[string]any{
	"L":        0.0,
	"H":        100.0,
	"max_step": 1.0,
	"seed":     1.0,
}

type Random struct {
	l, h, maxStep float64
	rng           *rand.Rand
	out           float64
}

func newRandom(params map[string]any, cycleTime float64) (registry.Algorithm, error) {
	effective := overlay(randomDefaults, params)
	l, err := floatParam(effective, "L")
	if err != nil {
		return nil, err
	}
	h, err := floatParam(effective, "H")
	if err != nil {
		return nil, err
	}
	maxStep, err := floatParam(effective, "max_step")
	if err != nil {
		return nil, err
	}
	seed, err := floatParam(effective, "seed")
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(int64(seed)))
	return &Random{
		l: l, h: h, maxStep: maxStep,
		rng: rng,
		out: l + rng.Float64()*(h-l),
	}, nil
}

func (r *Random) Execute(kwargs map[string]float64) error {
	step := (r.rng.Float64()*2 - 1) * r.maxStep
	r.out = math.Min(r.h, math.Max(r.l, r.out+step))
	return nil
}

func (r *Random) StoredAttributes() []string { return []string{"out"} }

func (r *Random) Attribute(name string) (float64, error) {
	if name == "out" {
		return r.out, nil
	}
	return 0, errUnknownAttribute("RANDOM", name)
}

var randomDoc = registry.Doc{
	EnglishName: "Random Walk",
	ChineseName: "随机游走",
	Markdown:    "A bounded random walk clamped to [L, H], stepping uniformly within [-max_step, max_step] each cycle. Its initial value is itself a uniform draw in [L, H].",
	ParamsTableMarkdown: "" +
		"| param | meaning | default |\n" +
		"|---|---|---|\n" +
		"| L | lower clamp | 0.0 |\n" +
		"| H | upper clamp | 100.0 |\n" +
		"| max_step | maximum per-cycle step magnitude | 1.0 |\n" +
		"| seed | PRNG seed, for reproducible runs | 1.0 |\n",
}
