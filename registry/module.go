package registry

import "github.com/reusee/dscope"

type Module struct {
	dscope.Module
}

func (Module) Registry() *Registry {
	return New()
}
