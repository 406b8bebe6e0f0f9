package cmds

import (
	"fmt"
	"os"
	"sort"
)

func (p *Executor) PrintUsage() {
	names := make([]string, 0, len(p.commands))
	seen := make(map[*Command]bool)
	for name, command := range p.commands {
		if seen[command] {
			continue
		}
		seen[command] = true
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		command := p.commands[name]
		if command.Description == "" {
			fmt.Fprintf(os.Stdout, "  %s\n", name)
		} else {
			fmt.Fprintf(os.Stdout, "  %s\t%s\n", name, command.Description)
		}
	}
}
