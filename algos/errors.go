package algos

import "fmt"

func errUnknownAttribute(typ, name string) error {
	return fmt.Errorf("%s: unknown attribute %q", typ, name)
}
