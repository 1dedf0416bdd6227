// Package rules compiles a validated configuration into the rule set the
// remapping engine evaluates: a toggle combo plus an ordered sequence of
// conditional source→target substitutions.
package rules

import (
	"fmt"
	"sort"
	"strings"

	evdev "github.com/holoplot/go-evdev"
	"github.com/rs/zerolog"

	"github.com/mvoss/keymapd/internal/keymap"
)

// DefaultSection is the config section whose rules apply unconditionally.
const DefaultSection = "default"

// Condition requires an indicator to be in a given state for a rule to apply.
type Condition struct {
	Led evdev.EvCode
	On  bool
}

// Rule substitutes Target for Source while every condition holds.
type Rule struct {
	Source     evdev.EvCode
	Target     evdev.EvCode
	Conditions []Condition
}

// Toggle is the modifier+trigger combo that flips the engine between active
// and inactive. Trigger is never one of Modifiers.
type Toggle struct {
	Modifiers []evdev.EvCode
	Trigger   evdev.EvCode
}

// Set is a compiled rule set. Rules are ordered: the first rule whose source
// matches and whose conditions are satisfied wins. The compile order is
// deterministic for a given configuration, so overlapping condition sets
// resolve the same way on every run.
type Set struct {
	Toggle Toggle
	Rules  []Rule
}

// ParseToggle parses a combo string of the form "Mod1+Mod2+Key". The last
// token is the trigger, everything before it a modifier. Any unresolvable
// token is a configuration error.
func ParseToggle(combo string) (Toggle, error) {
	var t Toggle

	tokens := strings.Split(combo, "+")
	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
	}
	if len(tokens) == 0 || tokens[len(tokens)-1] == "" {
		return t, fmt.Errorf("empty toggle combo %q", combo)
	}

	trigger, ok := keymap.Key(tokens[len(tokens)-1])
	if !ok {
		return t, fmt.Errorf("unknown toggle key %q in combo %q", tokens[len(tokens)-1], combo)
	}
	t.Trigger = trigger

	for _, tok := range tokens[:len(tokens)-1] {
		mod, ok := keymap.Key(tok)
		if !ok {
			return t, fmt.Errorf("unknown toggle modifier %q in combo %q", tok, combo)
		}
		if mod == trigger {
			return t, fmt.Errorf("toggle modifier %q repeats the trigger key in combo %q", tok, combo)
		}
		t.Modifiers = append(t.Modifiers, mod)
	}

	return t, nil
}

// parseConditions derives a condition set from a section name. Dot-separated
// tokens of the form "<indicator>_on" or "<indicator>_off" each add one
// condition; anything else is ignored, so a section named "default" (or any
// name without parseable tokens) applies unconditionally.
func parseConditions(section string) []Condition {
	var conds []Condition
	for _, tok := range strings.Split(section, ".") {
		var name string
		var on bool
		switch {
		case strings.HasSuffix(tok, "_on"):
			name, on = strings.TrimSuffix(tok, "_on"), true
		case strings.HasSuffix(tok, "_off"):
			name, on = strings.TrimSuffix(tok, "_off"), false
		default:
			continue
		}
		led, ok := keymap.Led(name)
		if !ok {
			continue
		}
		conds = append(conds, Condition{Led: led, On: on})
	}
	return conds
}

// Compile turns the raw toggle combo and mapping sections into a Set.
// An unresolvable toggle is fatal. An unresolvable source or target inside a
// section only drops that pair with a warning.
//
// Config sections are unordered, so Compile imposes its own order to keep
// overlap resolution deterministic: the default section first, the remaining
// sections lexicographically, and sources sorted within each section.
func Compile(toggle string, mappings map[string]map[string]string, logger *zerolog.Logger) (*Set, error) {
	t, err := ParseToggle(toggle)
	if err != nil {
		return nil, err
	}

	set := &Set{Toggle: t}

	for _, section := range sectionOrder(mappings) {
		conds := parseConditions(section)

		sources := make([]string, 0, len(mappings[section]))
		for src := range mappings[section] {
			sources = append(sources, src)
		}
		sort.Strings(sources)

		for _, src := range sources {
			dst := mappings[section][src]

			srcCode, ok := keymap.Key(src)
			if !ok {
				logger.Warn().Str("section", section).Str("source", src).
					Msg("Skipping mapping with unknown source key")
				continue
			}
			dstCode, ok := keymap.Key(dst)
			if !ok {
				logger.Warn().Str("section", section).Str("source", src).Str("target", dst).
					Msg("Skipping mapping with unknown target key")
				continue
			}

			set.Rules = append(set.Rules, Rule{
				Source:     srcCode,
				Target:     dstCode,
				Conditions: conds,
			})
		}
	}

	return set, nil
}

func sectionOrder(mappings map[string]map[string]string) []string {
	sections := make([]string, 0, len(mappings))
	for name := range mappings {
		if name == DefaultSection {
			continue
		}
		sections = append(sections, name)
	}
	sort.Strings(sections)

	if _, ok := mappings[DefaultSection]; ok {
		sections = append([]string{DefaultSection}, sections...)
	}
	return sections
}
