package configs

import (
	"fmt"
	"math"

	"github.com/StupidArthur/data-factory-next/exprlang"
	"github.com/StupidArthur/data-factory-next/registry"
)

const (
	lagSafetyMargin = 1.5
	minRecordLength = 10
)

// ClockConfig is the compiled, typed form of ClockDoc.
type ClockConfig struct {
	CycleTime      float64
	Mode           string
	SampleInterval *float64
	TimeFormat     string
	StartTime      string
}

// CompiledItem is a ProgramItem whose expression has already been parsed,
// rewritten, and validated.
type CompiledItem struct {
	Name       string
	Type       string // "" for a Variable item
	IsVariable bool
	InitArgs   map[string]any
	Program    *exprlang.Program
}

// Program is the engine-ready result of compiling a RawDocument: every
// expression is parsed and validated, and every lagged store key has a
// sized history capacity.
type Program struct {
	Clock        ClockConfig
	Items        []CompiledItem
	Capacities   map[string]int
}

// Compile performs the parse-validate-size procedure: parse each item's
// expression once, extract lag requirements across every item, and size
// each lagged key's history capacity, either from an explicit
// record_length or from the LAG_SAFETY_MARGIN/MIN_RECORD_LENGTH formula.
//
// Unlike the original loader this is ported from, an explicit
// record_length is used as-is for every lagged key, with no extra
// margin applied on top of it.
func Compile(doc RawDocument, reg *registry.Registry) (*Program, error) {
	if doc.Clock.CycleTime <= 0 {
		return nil, fmt.Errorf("configs: clock.cycle_time must be > 0, got %v", doc.Clock.CycleTime)
	}

	instanceNames := make(map[string]bool)
	seen := make(map[string]bool, len(doc.Program))
	for _, item := range doc.Program {
		if item.Name == "" {
			return nil, fmt.Errorf("configs: program item has empty name")
		}
		if seen[item.Name] {
			return nil, fmt.Errorf("configs: duplicate program item name %q", item.Name)
		}
		seen[item.Name] = true
		if item.Type != variableType {
			instanceNames[item.Name] = true
		}
	}

	items := make([]CompiledItem, 0, len(doc.Program))
	lagReqs := make(map[string]int)
	for _, item := range doc.Program {
		compiled, err := compileItem(item, reg, instanceNames)
		if err != nil {
			return nil, err
		}
		items = append(items, compiled)
		for key, k := range exprlang.ExtractLagRequirements(compiled.Program.Root) {
			if k > lagReqs[key] {
				lagReqs[key] = k
			}
		}
	}

	capacities := make(map[string]int, len(lagReqs))
	for key, k := range lagReqs {
		if doc.RecordLength != nil {
			capacities[key] = *doc.RecordLength
			continue
		}
		capacities[key] = int(math.Max(math.Ceil(float64(k)*lagSafetyMargin), minRecordLength))
	}

	return &Program{
		Clock: ClockConfig{
			CycleTime:      doc.Clock.CycleTime,
			Mode:           doc.Clock.Mode,
			SampleInterval: doc.Clock.SampleInterval,
			TimeFormat:     doc.Clock.TimeFormat,
			StartTime:      doc.Clock.StartTime,
		},
		Items:      items,
		Capacities: capacities,
	}, nil
}

func compileItem(item ProgramItem, reg *registry.Registry, instanceNames map[string]bool) (CompiledItem, error) {
	if item.Expression == "" {
		return CompiledItem{}, fmt.Errorf("configs: item %q has no expression", item.Name)
	}
	program, err := exprlang.Compile(item.Expression, instanceNames)
	if err != nil {
		return CompiledItem{}, fmt.Errorf("configs: item %q: %w", item.Name, err)
	}

	if item.Type == variableType {
		if !program.IsAssignment() || program.Target() != item.Name {
			return CompiledItem{}, fmt.Errorf(
				"configs: variable item %q must have an expression of the form %q = <rhs>, got %q",
				item.Name, item.Name, item.Expression)
		}
		return CompiledItem{Name: item.Name, IsVariable: true, Program: program}, nil
	}

	if _, ok := reg.Algorithm(item.Type); !ok {
		return CompiledItem{}, fmt.Errorf("configs: item %q: unregistered algorithm type %q", item.Name, item.Type)
	}
	instanceName, _, ok := program.ExecuteCall()
	if !ok || instanceName != item.Name {
		return CompiledItem{}, fmt.Errorf(
			"configs: algorithm item %q must have an expression of the form %q.execute(...), got %q",
			item.Name, item.Name, item.Expression)
	}
	return CompiledItem{
		Name:     item.Name,
		Type:     item.Type,
		InitArgs: item.InitArgs,
		Program:  program,
	}, nil
}
