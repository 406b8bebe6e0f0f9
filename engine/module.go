package engine

import (
	"log/slog"

	"github.com/reusee/dscope"

	"github.com/StupidArthur/data-factory-next/configs"
	"github.com/StupidArthur/data-factory-next/registry"
)

type Module struct {
	dscope.Module
}

func (Module) Engine(
	program *configs.Program,
	reg *registry.Registry,
	logger *slog.Logger,
) (*Engine, error) {
	return New(program, reg, logger)
}
