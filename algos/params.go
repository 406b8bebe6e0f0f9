// Package algos implements the canonical suite of stateful algorithm
// classes and the stateless math functions, and registers both with a
// registry.Registry.
package algos

import "fmt"

// overlay returns defaults with every key present in initArgs replaced by
// the configured value, per the construction rule: effective params =
// default_params overlaid with init_args.
func overlay(defaults, initArgs map[string]any) map[string]any {
	effective := make(map[string]any, len(defaults))
	for k, v := range defaults {
		effective[k] = v
	}
	for k, v := range initArgs {
		effective[k] = v
	}
	return effective
}

func floatParam(params map[string]any, name string) (float64, error) {
	v, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("missing parameter %q", name)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("parameter %q must be a scalar, got %T", name, v)
	}
}
