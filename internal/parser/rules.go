package parser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// periodSeparator joins the two captured ends of a composite value.
const periodSeparator = " to "

// Rule is one candidate pattern for a field. Rules for a field are tried in
// the order they are declared; the first rule yielding a value wins.
type Rule struct {
	// Pattern is an RE2 expression. It is compiled case-insensitively.
	Pattern string
	// Groups lists alternative capture groups; the first non-empty one
	// supplies the value. Defaults to group 1.
	Groups []int
	// Join names exactly two groups whose values are combined as "A to B".
	// When set, Groups is ignored.
	Join []int
	// Until cuts the captured value at the first match of this expression.
	Until string
	// RequireStop rejects a match whose value is neither cut by Until nor
	// runs to the end of the text.
	RequireStop bool
}

type compiledRule struct {
	source      string
	re          *regexp.Regexp
	groups      []int
	join        []int
	until       *regexp.Regexp
	requireStop bool
}

func compileRule(r Rule) (*compiledRule, error) {
	if strings.TrimSpace(r.Pattern) == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	re, err := regexp.Compile(`(?i)` + r.Pattern)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", r.Pattern, err)
	}

	c := &compiledRule{
		source:      r.Pattern,
		re:          re,
		groups:      r.Groups,
		join:        r.Join,
		requireStop: r.RequireStop,
	}

	switch {
	case len(r.Join) != 0:
		if len(r.Join) != 2 {
			return nil, fmt.Errorf("pattern %q: join needs exactly 2 groups, got %d", r.Pattern, len(r.Join))
		}
		if err := checkGroups(re, r.Join); err != nil {
			return nil, fmt.Errorf("pattern %q: %w", r.Pattern, err)
		}
	case len(r.Groups) == 0:
		c.groups = []int{1}
		fallthrough
	default:
		if err := checkGroups(re, c.groups); err != nil {
			return nil, fmt.Errorf("pattern %q: %w", r.Pattern, err)
		}
	}

	if r.Until != "" {
		until, err := regexp.Compile(`(?i)` + r.Until)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: terminator %q: %w", r.Pattern, r.Until, err)
		}
		c.until = until
	} else if r.RequireStop {
		return nil, fmt.Errorf("pattern %q: RequireStop without a terminator", r.Pattern)
	}

	return c, nil
}

func checkGroups(re *regexp.Regexp, groups []int) error {
	for _, g := range groups {
		if g < 1 || g > re.NumSubexp() {
			return fmt.Errorf("capture group %d out of range (pattern has %d)", g, re.NumSubexp())
		}
	}
	return nil
}

// find returns the first usable value of the rule. When a match yields
// nothing the search resumes one rune after where that match started, so a
// label nested inside a rejected match is still seen.
func (r *compiledRule) find(text string) (string, bool) {
	for start := 0; start < len(text); {
		loc := r.re.FindStringSubmatchIndex(text[start:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += start
			}
		}
		if v, ok := r.value(text, loc); ok {
			return v, true
		}
		_, size := utf8.DecodeRuneInString(text[loc[0]:])
		start = loc[0] + max(size, 1)
	}
	return "", false
}

func (r *compiledRule) value(text string, loc []int) (string, bool) {
	if len(r.join) == 2 {
		from, ok := r.capture(text, loc, r.join[0])
		if !ok {
			return "", false
		}
		to, ok := r.capture(text, loc, r.join[1])
		if !ok {
			return "", false
		}
		return from + periodSeparator + to, true
	}

	for _, g := range r.groups {
		if v, ok := r.capture(text, loc, g); ok {
			return v, true
		}
	}
	return "", false
}

// capture returns group g of a match, cut at the terminator and trimmed.
// Empty results do not count as a value.
func (r *compiledRule) capture(text string, loc []int, g int) (string, bool) {
	start, end := loc[2*g], loc[2*g+1]
	if start < 0 {
		return "", false
	}
	v := text[start:end]

	if r.until != nil {
		if stop := r.until.FindStringIndex(v); stop != nil {
			v = v[:stop[0]]
		} else if r.requireStop && end != len(text) {
			return "", false
		}
	}

	v = strings.TrimSpace(v)
	return v, v != ""
}
