package parser

import (
	"fmt"
	"slices"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// Kind tells a dedicated issuer rule set apart from the generic fallback.
type Kind int

const (
	KindFallback Kind = iota
	KindIssuer
)

func (k Kind) String() string {
	switch k {
	case KindIssuer:
		return "issuer"
	case KindFallback:
		return "fallback"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// RuleSetDef declares the candidate rules for each field of one issuer.
// Fields without rules always resolve to models.NotFound.
type RuleSetDef struct {
	Issuer models.Issuer
	Fields map[models.Field][]Rule
}

// RuleSet is a compiled, read-only RuleSetDef.
type RuleSet struct {
	issuer models.Issuer
	kind   Kind
	fields map[models.Field][]*compiledRule
}

// Issuer returns the issuer the set was declared for. The fallback set
// reports models.IssuerUnknown.
func (s *RuleSet) Issuer() models.Issuer { return s.issuer }

// Kind reports whether s is a dedicated issuer set or the fallback.
func (s *RuleSet) Kind() Kind { return s.kind }

// RuleCount returns the number of candidate rules declared for f.
func (s *RuleSet) RuleCount(f models.Field) int { return len(s.fields[f]) }

// Resolve applies the rules to normalized text. Every field in
// models.ResolvedFields is present in the result; unmatched fields hold
// models.NotFound.
func (s *RuleSet) Resolve(text string) map[models.Field]string {
	out := make(map[models.Field]string, len(models.ResolvedFields))
	for _, f := range models.ResolvedFields {
		out[f] = models.NotFound
		for _, r := range s.fields[f] {
			if v, ok := r.find(text); ok {
				out[f] = v
				break
			}
		}
	}
	return out
}

func compileRuleSet(def RuleSetDef, kind Kind) (*RuleSet, error) {
	set := &RuleSet{
		issuer: def.Issuer,
		kind:   kind,
		fields: make(map[models.Field][]*compiledRule, len(def.Fields)),
	}
	for f, rules := range def.Fields {
		if !slices.Contains(models.ResolvedFields, f) {
			return nil, fmt.Errorf("field %q cannot be resolved by rules", f)
		}
		for i, r := range rules {
			c, err := compileRule(r)
			if err != nil {
				return nil, fmt.Errorf("field %q rule %d: %w", f, i, err)
			}
			set.fields[f] = append(set.fields[f], c)
		}
	}
	return set, nil
}

// Registry maps issuers to their compiled rule sets. It is built once and
// is safe for concurrent use.
type Registry struct {
	sets     map[models.Issuer]*RuleSet
	order    []models.Issuer
	fallback *RuleSet
}

// NewRegistry compiles the issuer rule sets and the fallback. Any invalid
// pattern, capture group or duplicate issuer is reported as an error; a
// registry is never returned partially built.
func NewRegistry(defs []RuleSetDef, fallback RuleSetDef) (*Registry, error) {
	reg := &Registry{sets: make(map[models.Issuer]*RuleSet, len(defs))}

	for _, def := range defs {
		if def.Issuer == "" || def.Issuer == models.IssuerUnknown {
			return nil, fmt.Errorf("rule set declared without an issuer")
		}
		if _, dup := reg.sets[def.Issuer]; dup {
			return nil, fmt.Errorf("duplicate rule set for issuer %q", def.Issuer)
		}
		set, err := compileRuleSet(def, KindIssuer)
		if err != nil {
			return nil, fmt.Errorf("issuer %q: %w", def.Issuer, err)
		}
		reg.sets[def.Issuer] = set
		reg.order = append(reg.order, def.Issuer)
	}

	fallback.Issuer = models.IssuerUnknown
	fb, err := compileRuleSet(fallback, KindFallback)
	if err != nil {
		return nil, fmt.Errorf("fallback: %w", err)
	}
	reg.fallback = fb

	return reg, nil
}

// Lookup returns the dedicated rule set for issuer, or the fallback set
// when the issuer has none.
func (r *Registry) Lookup(issuer models.Issuer) *RuleSet {
	if set, ok := r.sets[issuer]; ok {
		return set
	}
	return r.fallback
}

// Issuers lists the issuers with a dedicated rule set in declaration order.
func (r *Registry) Issuers() []models.Issuer {
	return slices.Clone(r.order)
}
