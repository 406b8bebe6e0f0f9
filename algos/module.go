package algos

import (
	"github.com/reusee/dscope"

	"github.com/StupidArthur/data-factory-next/registry"
)

// Module provides a registry.Registry pre-populated with the canonical
// algorithm suite and math functions. It lives here, not in the registry
// package, since registry cannot import algos without a cycle.
type Module struct {
	dscope.Module
}

func (Module) Registry() *registry.Registry {
	reg := registry.New()
	Register(reg)
	return reg
}
