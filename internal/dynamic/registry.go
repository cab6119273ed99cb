package dynamic

import (
	"fmt"
	"regexp"
	"strings"
)

// Registry parses dynamic tokens. Variants are enumerated statically and
// tried in registration order, which resolves any prefix ambiguity
// deterministically: the first variant that accepts the text wins.
type Registry struct {
	variants []variant
	provider LocationProvider
}

type variant struct {
	// prefixes attribute parse failures: a text that carries a variant's
	// prefix but fails its parse reports that variant's error instead of
	// the generic unmatched message.
	prefixes []string
	parse    func(text string) (Dynamic, error)
}

// Option configures a Registry.
type Option func(*Registry)

// WithLocationProvider supplies the position source location dynamics read.
// Without one, location dynamics parse but treat the position as unknown.
func WithLocationProvider(p LocationProvider) Option {
	return func(r *Registry) { r.provider = p }
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	r.variants = []variant{
		{peakedPrefixes, parseLinearWithPeak},
		{linearPrefixes, parseLinear},
		{absoluteLinearPrefixes, parseAbsoluteLinear},
		{[]string{"dynamic-step-due."}, parseStepDueDate},
		{[]string{"static-offset."}, parseStaticOffset},
		{[]string{"dynamic-location.", "location."}, func(text string) (Dynamic, error) {
			return parseLocation(text, r.provider)
		}},
	}
	return r
}

// operatorPattern splits combined expressions; longest token first so that
// "(|+)" never reads as "(" + "(+)".
var operatorPattern = regexp.MustCompile(`\(\|\+\)|\(\+\)|\(-\)`)

// Parse converts a text token into a Dynamic. Empty input yields nil:
// a task with no dynamic stores the empty string.
func (r *Registry) Parse(text string) (Dynamic, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	ops := operatorPattern.FindAllString(text, -1)
	if len(ops) == 0 {
		return r.parsePlain(text)
	}

	parts := operatorPattern.Split(text, -1)
	children := make([]Dynamic, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("invalid combined dynamic: %q", text)
		}
		// Operands are plain variants only; combined expressions do not nest
		// through the text form.
		child, err := r.parsePlain(part)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if len(children) != len(ops)+1 {
		return nil, fmt.Errorf("invalid combined dynamic: %q", text)
	}

	operators := make([]Op, len(ops))
	for i, op := range ops {
		operators[i] = Op(op)
	}
	return &Combined{Children: children, Operators: operators}, nil
}

func (r *Registry) parsePlain(text string) (Dynamic, error) {
	var prefixErr error
	for _, v := range r.variants {
		d, err := v.parse(text)
		if err == nil {
			return d, nil
		}
		if prefixErr == nil && hasAnyPrefix(text, v.prefixes) {
			prefixErr = err
		}
	}
	if prefixErr != nil {
		return nil, prefixErr
	}
	return nil, fmt.Errorf("dynamic %q could not be matched to a variant; known prefixes: %s",
		text, strings.Join(r.knownPrefixes(), ", "))
}

func hasAnyPrefix(text string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

func (r *Registry) knownPrefixes() []string {
	var all []string
	for _, v := range r.variants {
		all = append(all, v.prefixes...)
	}
	return all
}
