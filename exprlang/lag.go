package exprlang

import "math"

// ExtractLagRequirements walks every statement of root (so it sees the
// right-hand side of an assignment too) and records, for every subscript
// whose value is a bare name or an attribute access and whose index is a
// literal nonpositive integer, the pair (store key, k). It returns the
// maximum k observed per key. root must already have instance-name
// rewriting applied, so a bare instance reference already reads as
// `instance.out`.
func ExtractLagRequirements(root *Node) map[string]int {
	reqs := make(map[string]int)
	walkLag(root, reqs)
	return reqs
}

func walkLag(n *Node, reqs map[string]int) {
	if n == nil {
		return
	}
	switch n.Kind {

	case NodeSubscript:
		if key, ok := storeKeyOf(n.Value); ok {
			if k, ok := nonPositiveLiteralK(n.Index); ok {
				if k > reqs[key] {
					reqs[key] = k
				}
			}
		}
		walkLag(n.Value, reqs)
		walkLag(n.Index, reqs)

	case NodeUnary:
		walkLag(n.X, reqs)
	case NodeBinary:
		walkLag(n.Left, reqs)
		walkLag(n.Right, reqs)
	case NodeAttr:
		walkLag(n.Value, reqs)
	case NodeCall:
		walkLag(n.Func, reqs)
		for _, a := range n.Args {
			walkLag(a, reqs)
		}
		for _, kw := range n.Kwargs {
			walkLag(kw.Value, reqs)
		}
	case NodeAssign:
		walkLag(n.RHS, reqs)
	}
}

func storeKeyOf(n *Node) (string, bool) {
	switch n.Kind {
	case NodeName:
		return n.Name, true
	case NodeAttr:
		if n.Value.Kind == NodeName {
			return n.Value.Name + "." + n.Attr, true
		}
	}
	return "", false
}

func nonPositiveLiteralK(n *Node) (int, bool) {
	if !isNonPositiveIntLiteral(n) {
		return 0, false
	}
	switch n.Kind {
	case NodeNumber:
		return int(math.Round(-n.Number)), true
	case NodeUnary:
		return int(math.Round(n.X.Number)), true
	}
	return 0, false
}
