package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/reusee/dscope"

	"github.com/StupidArthur/data-factory-next/algos"
	"github.com/StupidArthur/data-factory-next/cmds"
	"github.com/StupidArthur/data-factory-next/configs"
	"github.com/StupidArthur/data-factory-next/engine"
	"github.com/StupidArthur/data-factory-next/logs"
	"github.com/StupidArthur/data-factory-next/modes"
	"github.com/StupidArthur/data-factory-next/registry"
)

var (
	configPath = cmds.Var[string]("-config")
	generateN  = cmds.Var[int]("-generate")
)

func main() {
	cmds.Execute(os.Args[1:])

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: cyclesim -config <path.yaml> [-generate N]")
		os.Exit(1)
	}

	dscope.New(
		new(logs.Module),
		new(algos.Module),
		modes.ForProduction(),
	).Call(func(logger logs.Logger, reg *registry.Registry) {
		loader := configs.NewLoader(*configPath)
		doc, err := loader.Document()
		if err != nil {
			logger.Error("failed to load configuration", "error", err)
			os.Exit(1)
		}
		program, err := configs.Compile(doc, reg)
		if err != nil {
			logger.Error("failed to compile configuration", "error", err)
			os.Exit(1)
		}

		eng, err := engine.New(program, reg, logger)
		if err != nil {
			logger.Error("failed to build engine", "error", err)
			os.Exit(1)
		}

		ctx := context.Background()
		enc := json.NewEncoder(os.Stdout)

		if *generateN > 0 {
			snapshots, err := eng.RunGenerator(ctx, *generateN)
			if err != nil {
				logger.Error("generator run failed", "error", err)
				os.Exit(1)
			}
			for _, snapshot := range snapshots {
				_ = enc.Encode(snapshot)
			}
			return
		}

		out, errc := eng.RunRealtime(ctx)
		for snapshot := range out {
			_ = enc.Encode(snapshot)
		}
		if err := <-errc; err != nil {
			logger.Error("realtime run failed", "error", err)
			os.Exit(1)
		}
	})
}
