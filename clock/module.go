package clock

import "github.com/reusee/dscope"

type Module struct {
	dscope.Module
}

func (Module) Clock(cfg Config) *Clock {
	return New(cfg)
}
