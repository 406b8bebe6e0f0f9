package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/reusee/dscope"

	"github.com/StupidArthur/data-factory-next/algos"
	"github.com/StupidArthur/data-factory-next/cmds"
	"github.com/StupidArthur/data-factory-next/registry"
)

func main() {
	cmds.Execute(os.Args[1:])

	dscope.New(new(algos.Module)).Call(func(reg *registry.Registry) {
		printCatalog(reg)
	})
}

func printCatalog(cat registry.Catalog) {
	fmt.Println("# Algorithms")
	types := cat.AlgorithmTypes()
	sort.Strings(types)
	for _, typ := range types {
		doc, _ := cat.AlgorithmDoc(typ)
		fmt.Printf("\n## %s (%s / %s)\n\n%s\n\n%s\n", typ, doc.EnglishName, doc.ChineseName, doc.Markdown, doc.ParamsTableMarkdown)
	}

	fmt.Println("\n# Functions")
	names := cat.FunctionNames()
	sort.Strings(names)
	for _, name := range names {
		doc, _ := cat.FunctionDoc(name)
		fmt.Printf("\n## %s (%s / %s)\n\n%s\n", name, doc.EnglishName, doc.ChineseName, doc.Markdown)
	}
}
