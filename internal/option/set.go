package option

import (
	"fmt"
	"maps"
	"slices"

	"github.com/shinji-kodama/itms-transporter/internal/model"
)

// Values is a caller-supplied option map, keyed by Rule.Name.
// Accepted value types depend on the rule kind: bool, string, Go integers,
// and for Multiple rules a []string or []any of those.
type Values map[string]any

// Clone returns a shallow copy of the map. A nil map clones to an empty one.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	maps.Copy(out, v)
	return out
}

// Merge returns a new map holding v overlaid with other. Keys in other win.
func (v Values) Merge(other Values) Values {
	out := v.Clone()
	maps.Copy(out, other)
	return out
}

// Bool reports whether the named option is set to boolean true.
func (v Values) Bool(name string) bool {
	b, ok := v[name].(bool)
	return ok && b
}

// Argv is a rendered argument vector, without the executable path.
type Argv struct {
	// Args holds the command-line tokens in rule registration order.
	Args []string

	// Warnings holds non-fatal validation notes (e.g., deprecated usage).
	Warnings []string
}

func (a *Argv) add(tokens ...string) {
	a.Args = append(a.Args, tokens...)
}

func (a *Argv) warn(msg string) {
	a.Warnings = append(a.Warnings, msg)
}

// Set is an ordered collection of Rules with unique names.
type Set struct {
	rules []Rule
	index map[string]int
}

// NewSet creates a Set from the given rules, in order.
// It panics on an empty or duplicate rule name; rule sets are declared
// statically, so this is a programming error.
func NewSet(rules ...Rule) *Set {
	s := &Set{index: make(map[string]int, len(rules))}
	for _, r := range rules {
		s.append(r)
	}
	return s
}

// Extend returns a new Set holding the receiver's rules followed by the
// given rules. The receiver is not modified.
func (s *Set) Extend(rules ...Rule) *Set {
	out := NewSet(s.rules...)
	for _, r := range rules {
		out.append(r)
	}
	return out
}

func (s *Set) append(r Rule) {
	if r.Name == "" {
		panic("option: rule with empty name")
	}
	if _, dup := s.index[r.Name]; dup {
		panic(fmt.Sprintf("option: duplicate rule %q", r.Name))
	}
	s.index[r.Name] = len(s.rules)
	s.rules = append(s.rules, r)
}

// Rules returns a copy of the rules in registration order.
func (s *Set) Rules() []Rule {
	return slices.Clone(s.rules)
}

// Lookup returns the rule with the given name.
func (s *Set) Lookup(name string) (Rule, bool) {
	i, ok := s.index[name]
	if !ok {
		return Rule{}, false
	}
	return s.rules[i], true
}

// Render validates values against the set and builds the argument vector.
//
// The process follows these steps:
//  1. Reject option names that match no rule
//  2. Walk the rules in registration order, failing on missing required ones
//  3. Validate each present value and append its tokens
//
// The first failure is returned as a *model.OptionError naming the option.
func (s *Set) Render(values Values) (*Argv, error) {
	// Step 1: Unknown names. Sorted so the reported name is deterministic.
	for _, name := range slices.Sorted(maps.Keys(values)) {
		if _, ok := s.index[name]; !ok {
			return nil, model.NewOptionError(name, "unknown option")
		}
	}

	argv := &Argv{Args: []string{}}

	// Step 2: Rules in order.
	for _, r := range s.rules {
		v, present := values[r.Name]
		if !present || v == nil {
			if r.Required {
				return nil, model.NewOptionError(r.Name, "is required")
			}
			continue
		}

		// Companion options carry no token of their own.
		if r.Flag == "" {
			if r.Kind == KindBoolean {
				if _, ok := v.(bool); !ok {
					return nil, model.NewOptionError(r.Name, "must be a boolean, got %T", v)
				}
			}
			continue
		}

		// Step 3: Validate and render.
		items, isList := asList(v)
		if isList && !r.Multiple {
			return nil, model.NewOptionError(r.Name, "does not accept multiple values")
		}
		if !isList {
			items = []any{v}
		}
		if r.Required && len(items) == 0 {
			return nil, model.NewOptionError(r.Name, "is required")
		}
		for _, item := range items {
			if err := r.render(item, values, argv); err != nil {
				return nil, err
			}
		}
	}

	return argv, nil
}

// asList reports whether v is a list value and returns its items.
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	case []int:
		out := make([]any, len(l))
		for i, n := range l {
			out[i] = n
		}
		return out, true
	default:
		return nil, false
	}
}
