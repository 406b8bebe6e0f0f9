package cmds

var GlobalExecutor = NewExecutor()

func Define(name string, command *Command) {
	GlobalExecutor.Define(name, command)
}

// Execute runs args against the global executor, exiting the process on
// error, matching the package-level entry point every cmd/* binary calls
// before constructing its dscope graph.
func Execute(args []string) {
	GlobalExecutor.MustExecute(args)
}
