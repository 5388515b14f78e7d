package databases

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/mapstructure"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
)

// filterNode is the decoded shape of one filter clause. A clause is either
// a compound ("and"/"or" with sub-clauses) or a leaf (a property name plus
// one type-specific condition, which lands in Conditions).
type filterNode struct {
	Property   string         `mapstructure:"property"`
	Timestamp  string         `mapstructure:"timestamp"`
	And        []filterNode   `mapstructure:"and"`
	Or         []filterNode   `mapstructure:"or"`
	Conditions map[string]any `mapstructure:",remain"`
}

// maxFilterDepth mirrors the API's nesting limit for compound filters.
const maxFilterDepth = 2

// validateFilter shape-checks a filter document before it is sent, so a
// malformed filter fails locally as INVALID_ARGUMENT instead of as an
// upstream 400 after a network round trip.
func validateFilter(doc map[string]any) error {
	var root filterNode
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &root})
	if err != nil {
		return err
	}
	if err := dec.Decode(doc); err != nil {
		return base.Violations(validation.Errors{"filter": err})
	}

	errs := validation.Errors{}
	checkFilterNode(root, "filter", 0, errs)
	if len(errs) > 0 {
		return base.Violations(errs)
	}
	return nil
}

func checkFilterNode(n filterNode, path string, depth int, errs validation.Errors) {
	compound := len(n.And) > 0 || len(n.Or) > 0
	leaf := n.Property != "" || n.Timestamp != ""

	switch {
	case compound && leaf:
		errs[path] = fmt.Errorf("cannot combine a compound clause with a property clause")
	case compound:
		if len(n.And) > 0 && len(n.Or) > 0 {
			errs[path] = fmt.Errorf("cannot combine \"and\" and \"or\" in one clause")
			return
		}
		if depth >= maxFilterDepth {
			errs[path] = fmt.Errorf("compound filters nest at most %d levels deep", maxFilterDepth)
			return
		}
		key, children := "and", n.And
		if len(n.Or) > 0 {
			key, children = "or", n.Or
		}
		for i, child := range children {
			checkFilterNode(child, fmt.Sprintf("%s.%s[%d]", path, key, i), depth+1, errs)
		}
	case leaf:
		if len(n.Conditions) != 1 {
			errs[path] = fmt.Errorf("a property clause needs exactly one condition, got %d", len(n.Conditions))
		}
	default:
		errs[path] = fmt.Errorf("a clause needs either \"and\"/\"or\" or a \"property\"/\"timestamp\" condition")
	}
}
