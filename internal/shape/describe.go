package shape

import (
	"fmt"
	"go/types"
	"strings"
)

// Describe renders a human-readable tree of a type's shape, recursing
// into member types up to maxDepth levels.
func (ins *Inspector) Describe(s *Shape, opt Options, maxDepth int) string {
	var sb strings.Builder

	ins.describe(&sb, s, opt, "", 0, maxDepth)

	return sb.String()
}

func (ins *Inspector) describe(sb *strings.Builder, s *Shape, opt Options, indent string, depth, maxDepth int) {
	switch s.Kind {
	case KindProduct:
		label := "product"
		if s.Bean {
			label = "product (bean)"
		}

		fmt.Fprintf(sb, "%s%s %s\n", indent, label, TypeString(s.GoType))

		for _, f := range s.Fields {
			var attrs []string

			attrs = append(attrs, f.Kind.String())
			if f.HasDefault() {
				attrs = append(attrs, "default "+f.Default)
			}

			if f.Ignored {
				attrs = append(attrs, "ignored")
			}

			fmt.Fprintf(sb, "%s  .%s %s (%s)\n", indent, f.Name, TypeString(f.Type), strings.Join(attrs, ", "))
			ins.descend(sb, f.Type, opt, indent+"    ", depth+1, maxDepth)
		}

	case KindSum:
		flavor := "interface"
		if s.Enum {
			flavor = "enum"
		}

		fmt.Fprintf(sb, "%ssum (%s) %s\n", indent, flavor, TypeString(s.GoType))

		for _, v := range s.Variants {
			if v.Singleton {
				fmt.Fprintf(sb, "%s  | %s (singleton)\n", indent, v.Name)

				continue
			}

			fmt.Fprintf(sb, "%s  | %s\n", indent, v.Name)
			ins.descend(sb, v.Type, opt, indent+"    ", depth+1, maxDepth)
		}

	case KindWrapper:
		switch s.Wrapper {
		case WrapperMap:
			fmt.Fprintf(sb, "%smap[%s] of %s\n", indent, TypeString(s.Key), TypeString(s.Elem))
		default:
			fmt.Fprintf(sb, "%s%s of %s\n", indent, s.Wrapper, TypeString(s.Elem))
		}

		ins.descend(sb, s.Elem, opt, indent+"  ", depth+1, maxDepth)

	default:
		if s.Basic != 0 {
			fmt.Fprintf(sb, "%sscalar %s (%s)\n", indent, TypeString(s.GoType), s.Basic)
		} else {
			fmt.Fprintf(sb, "%sscalar %s\n", indent, TypeString(s.GoType))
		}
	}
}

// descend recurses into a member type unless it is scalar or the
// depth budget is spent.
func (ins *Inspector) descend(sb *strings.Builder, t types.Type, opt Options, indent string, depth, maxDepth int) {
	if depth > maxDepth || t == nil {
		return
	}

	child := ins.Inspect(t, opt)
	if child.Kind == KindScalar {
		return
	}

	ins.describe(sb, child, opt, indent, depth, maxDepth)
}
