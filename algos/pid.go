package algos

import (
	"math"

	"github.com/StupidArthur/data-factory-next/registry"
)

var pidDefaults = map[string]any{
	"pb": 100.0,
	"ti": 0.0,
	"td": 0.0,
	"L":  0.0,
	"H":  100.0,
	"PV": 0.0,
	"SV": 0.0,
	"MV": 0.0,
}

// Pid is a proportional-band PID controller: gain = pb, integral
// action scaled by cycle_time/ti, derivative by td/cycle_time. ti=0 or
// td=0 disable the corresponding term, matching the original's "no
// action if the time constant is zero" convention.
type Pid struct {
	cycleTime    float64
	pb, ti, td   float64
	l, h         float64
	integral     float64
	prevError    float64
	mv, pv, sv   float64
	errorValue   float64
}

func newPid(params map[string]any, cycleTime float64) (registry.Algorithm, error) {
	effective := overlay(pidDefaults, params)
	pb, err := floatParam(effective, "pb")
	if err != nil {
		return nil, err
	}
	ti, err := floatParam(effective, "ti")
	if err != nil {
		return nil, err
	}
	td, err := floatParam(effective, "td")
	if err != nil {
		return nil, err
	}
	l, err := floatParam(effective, "L")
	if err != nil {
		return nil, err
	}
	h, err := floatParam(effective, "H")
	if err != nil {
		return nil, err
	}
	pv, err := floatParam(effective, "PV")
	if err != nil {
		return nil, err
	}
	sv, err := floatParam(effective, "SV")
	if err != nil {
		return nil, err
	}
	mv, err := floatParam(effective, "MV")
	if err != nil {
		return nil, err
	}
	return &Pid{
		cycleTime: cycleTime,
		pb:        pb, ti: ti, td: td, l: l, h: h,
		pv: pv, sv: sv, mv: mv,
	}, nil
}

func (p *Pid) Execute(kwargs map[string]float64) error {
	if v, ok := kwargs["PV"]; ok {
		p.pv = v
	}
	if v, ok := kwargs["SV"]; ok {
		p.sv = v
	}

	p.errorValue = p.sv - p.pv
	gain := p.pb
	proportional := gain * p.errorValue

	integral := 0.0
	if p.ti > 0 {
		p.integral += gain * p.errorValue * p.cycleTime / p.ti
		integral = p.integral
	}

	derivative := 0.0
	if p.td > 0 && p.cycleTime > 0 {
		derivative = gain * p.td * (p.errorValue - p.prevError) / p.cycleTime
	}
	p.prevError = p.errorValue

	mv := proportional + integral + derivative
	p.mv = math.Min(p.h, math.Max(p.l, mv))
	return nil
}

func (p *Pid) StoredAttributes() []string {
	return []string{"MV", "PV", "SV", "error"}
}

func (p *Pid) Attribute(name string) (float64, error) {
	switch name {
	case "MV":
		return p.mv, nil
	case "PV":
		return p.pv, nil
	case "SV":
		return p.sv, nil
	case "error":
		return p.errorValue, nil
	}
	return 0, errUnknownAttribute("PID", name)
}

var pidDoc = registry.Doc{
	EnglishName: "PID Controller",
	ChineseName: "PID控制器",
	Markdown: "A proportional-band PID controller. gain = pb; the integral term " +
		"accumulates gain*error*cycle_time/ti and the derivative term is " +
		"gain*td*(error-previous_error)/cycle_time. Setting ti or td to 0 disables " +
		"that term. MV is clamped to [L, H].",
	ParamsTableMarkdown: "" +
		"| param | meaning | default |\n" +
		"|---|---|---|\n" +
		"| pb | proportional band | 100.0 |\n" +
		"| ti | integral time constant, seconds (0 disables) | 0.0 |\n" +
		"| td | derivative time constant, seconds (0 disables) | 0.0 |\n" +
		"| L | MV lower clamp | 0.0 |\n" +
		"| H | MV upper clamp | 100.0 |\n" +
		"| PV, SV, MV | initial process/set/manipulated values | 0.0 |\n",
}
