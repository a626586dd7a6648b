package jsonschema

import (
	"fmt"

	"github.com/kubishi/yaduha-studio/pkg/schema"
)

// Variant is one non-absence alternative of a union, named by its declared
// title.
type Variant struct {
	Name string        `json:"name"`
	Node schema.NodeID `json:"node"`
}

// Variants lists the non-absence alternatives of a union or optional node in
// declaration order. Untitled members are named "Option N" (1-based); a title
// repeated across members gets a " #N" suffix so names stay unique.
func (i *Interpreter) Variants(doc *schema.Document, id schema.NodeID) []Variant {
	if doc == nil {
		return nil
	}
	members, _ := i.partition(doc, doc.Node(i.Resolve(doc, id)))
	if len(members) == 0 {
		return nil
	}

	seen := make(map[string]int, len(members))
	out := make([]Variant, 0, len(members))
	for idx, member := range members {
		name := doc.Node(member).Title
		if name == "" {
			name = fmt.Sprintf("Option %d", idx+1)
		}
		seen[name]++
		if count := seen[name]; count > 1 {
			name = fmt.Sprintf("%s #%d", name, count)
		}
		out = append(out, Variant{Name: name, Node: member})
	}
	return out
}

// FindVariant returns the variant called name.
func FindVariant(variants []Variant, name string) (Variant, bool) {
	for _, variant := range variants {
		if variant.Name == name {
			return variant, true
		}
	}
	return Variant{}, false
}

// DetectVariant picks the variant a value most plausibly represents:
//
//   - nil selects the first variant;
//   - a map is scored against each variant (see Score) and the strictly
//     highest score wins, ties going to the earlier declaration;
//   - any other value selects the first variant whose enum contains it, or
//     the first variant.
//
// The scoring is a heuristic for values that may be mid-edit and partially
// match several variants. An empty variant list yields "".
func (i *Interpreter) DetectVariant(doc *schema.Document, value any, variants []Variant) string {
	if len(variants) == 0 {
		return ""
	}

	switch typed := value.(type) {
	case nil:
		return variants[0].Name
	case map[string]any:
		best := variants[0].Name
		bestScore := i.score(doc, typed, variants[0])
		for _, variant := range variants[1:] {
			if score := i.score(doc, typed, variant); score > bestScore {
				best, bestScore = variant.Name, score
			}
		}
		return best
	default:
		for _, variant := range variants {
			settled, shape := i.Settle(doc, variant.Node)
			if shape != ShapeEnum {
				continue
			}
			if enumContains(doc.Node(settled).Enum, value) {
				return variant.Name
			}
		}
		return variants[0].Name
	}
}

// Score rates how well an object value fits a variant: one point for every
// key the variant declares, minus one for every key it does not. Adding a
// declared key never lowers the score; adding an undeclared key never raises
// it.
func (i *Interpreter) Score(doc *schema.Document, value map[string]any, variant Variant) int {
	return i.score(doc, value, variant)
}

func (i *Interpreter) score(doc *schema.Document, value map[string]any, variant Variant) int {
	settled, _ := i.Settle(doc, variant.Node)
	declared := doc.Node(settled).Properties

	score := 0
	for key := range value {
		if _, ok := declared[key]; ok {
			score++
			continue
		}
		score--
	}
	return score
}

// DetectVariant detects a variant with the default interpreter.
func DetectVariant(doc *schema.Document, value any, variants []Variant) string {
	return defaultInterpreter.DetectVariant(doc, value, variants)
}

// Variants lists union variants with the default interpreter.
func Variants(doc *schema.Document, id schema.NodeID) []Variant {
	return defaultInterpreter.Variants(doc, id)
}
