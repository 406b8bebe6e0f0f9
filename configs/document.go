// Package configs loads a declarative YAML document describing a clock
// and a program, and compiles it into engine-ready configuration: parsed
// expressions, validated types, and sized history buffers.
package configs

// RawDocument is the parsed-but-uncompiled shape of a configuration file,
// matching the external YAML schema verbatim.
type RawDocument struct {
	Clock        ClockDoc      `yaml:"clock"`
	RecordLength *int          `yaml:"record_length"`
	Program      []ProgramItem `yaml:"program"`
}

// ClockDoc is the raw `clock:` block. Mode is the string as written
// (REALTIME | GENERATOR); StartTime is ISO-8601 or epoch seconds, still
// unparsed at this layer.
type ClockDoc struct {
	CycleTime      float64  `yaml:"cycle_time"`
	Mode           string   `yaml:"mode"`
	SampleInterval *float64 `yaml:"sample_interval"`
	TimeFormat     string   `yaml:"time_format"`
	StartTime      string   `yaml:"start_time"`
}

// ProgramItem is one declared node: either an algorithm instance (Type is
// a registered algorithm type name) or a pure variable (Type is
// "Variable").
type ProgramItem struct {
	Name       string         `yaml:"name"`
	Type       string         `yaml:"type"`
	InitArgs   map[string]any `yaml:"init_args"`
	Expression string         `yaml:"expression"`
}

const variableType = "Variable"
