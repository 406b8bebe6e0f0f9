package algos

import (
	"math"

	"github.com/StupidArthur/data-factory-next/registry"
)

var cylindricalTankDefaults = map[string]any{
	"height":         10.0,
	"radius":         1.0,
	"inlet_area":     0.06,
	"inlet_velocity": 3.0,
	"outlet_area":    0.001,
	"level":          0.0,
}

// CylindricalTank integrates ungated Torricelli outflow (v = sqrt(2*g*h))
// against valve-gated inflow over cycle_time, clamped to [0, height]. The
// inlet is metered by the valve; the outlet drains continuously.
type CylindricalTank struct {
	cycleTime     float64
	height        float64
	radius        float64
	inletArea     float64
	inletVelocity float64
	outletArea    float64
	level         float64
}

const gravity = 9.81

func newCylindricalTank(params map[string]any, cycleTime float64) (registry.Algorithm, error) {
	effective := overlay(cylindricalTankDefaults, params)
	height, err := floatParam(effective, "height")
	if err != nil {
		return nil, err
	}
	radius, err := floatParam(effective, "radius")
	if err != nil {
		return nil, err
	}
	inletArea, err := floatParam(effective, "inlet_area")
	if err != nil {
		return nil, err
	}
	inletVelocity, err := floatParam(effective, "inlet_velocity")
	if err != nil {
		return nil, err
	}
	outletArea, err := floatParam(effective, "outlet_area")
	if err != nil {
		return nil, err
	}
	level, err := floatParam(effective, "level")
	if err != nil {
		return nil, err
	}
	return &CylindricalTank{
		cycleTime: cycleTime, height: height, radius: radius,
		inletArea: inletArea, inletVelocity: inletVelocity,
		outletArea: outletArea, level: level,
	}, nil
}

func (t *CylindricalTank) Execute(kwargs map[string]float64) error {
	valveOpening := kwargs["valve_opening"] // percent, 0-100
	valveOpening = math.Min(100, math.Max(0, valveOpening))

	area := math.Pi * t.radius * t.radius
	inflow := t.inletArea * t.inletVelocity * (valveOpening / 100)

	outflowVelocity := 0.0
	if t.level > 0 {
		outflowVelocity = math.Sqrt(2 * gravity * t.level)
	}
	outflow := t.outletArea * outflowVelocity

	deltaVolume := (inflow - outflow) * t.cycleTime
	t.level += deltaVolume / area
	t.level = math.Min(t.height, math.Max(0, t.level))
	return nil
}

func (t *CylindricalTank) StoredAttributes() []string { return []string{"level"} }

func (t *CylindricalTank) Attribute(name string) (float64, error) {
	if name == "level" {
		return t.level, nil
	}
	return 0, errUnknownAttribute("CYLINDRICAL_TANK", name)
}

var cylindricalTankDoc = registry.Doc{
	EnglishName: "Cylindrical Tank",
	ChineseName: "圆柱形水箱",
	Markdown: "Integrates valve-gated inflow minus ungated Torricelli outflow " +
		"(v = sqrt(2*g*level)) over cycle_time, clamping level to [0, height]. " +
		"valve_opening (0-100) meters the inlet only; the outlet always drains.",
	ParamsTableMarkdown: "" +
		"| param | meaning | default |\n" +
		"|---|---|---|\n" +
		"| height | tank height | 10.0 |\n" +
		"| radius | tank radius | 1.0 |\n" +
		"| inlet_area | inlet pipe area | 0.06 |\n" +
		"| inlet_velocity | inlet flow velocity | 3.0 |\n" +
		"| outlet_area | outlet pipe area | 0.001 |\n" +
		"| level | initial level | 0.0 |\n",
}
