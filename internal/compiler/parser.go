// Package compiler turns compact strategy expressions into strategy specs.
//
// The grammar follows the command line notation:
//
//	strategy  := phase { phase }
//	phase     := generator "(" condition ")"
//	condition := term { ("or" | "||") term }
//	term      := factor { ("and" | "&&") factor }
//	factor    := name "(" [ arg { "," arg } ] ")" | "(" condition ")"
//
// For example "a_star(reached_vertex(v_Home)) random(edge_coverage(100) or test_length(50))".
package compiler

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/hodaniel/graphwalker/pkg/condition"
	"github.com/hodaniel/graphwalker/pkg/strategy"
)

// Parser is responsible for converting an expression into a strategy.Spec.
type Parser struct {
	tokens []string
	pos    int
}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse compiles expr into a strategy spec.
func (p *Parser) Parse(expr string) (strategy.Spec, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return strategy.Spec{}, err
	}
	p.tokens, p.pos = tokens, 0

	var spec strategy.Spec
	for !p.done() {
		phase, err := p.phase()
		if err != nil {
			return strategy.Spec{}, err
		}
		spec.Phases = append(spec.Phases, phase)
	}
	if len(spec.Phases) == 0 {
		return strategy.Spec{}, fmt.Errorf("empty strategy expression")
	}
	spec.Name = strings.TrimSpace(expr)
	return spec, nil
}

func (p *Parser) done() bool { return p.pos >= len(p.tokens) }

func (p *Parser) peek() string {
	if p.done() {
		return ""
	}
	return p.tokens[p.pos]
}

func (p *Parser) next() string {
	tok := p.peek()
	p.pos++
	return tok
}

func (p *Parser) expect(tok string) error {
	if got := p.next(); got != tok {
		return fmt.Errorf("expected %q, got %q", tok, got)
	}
	return nil
}

func (p *Parser) phase() (strategy.Phase, error) {
	gen := p.next()
	if err := p.expect("("); err != nil {
		return strategy.Phase{}, fmt.Errorf("generator %s: %w", gen, err)
	}
	cond, err := p.condition()
	if err != nil {
		return strategy.Phase{}, fmt.Errorf("generator %s: %w", gen, err)
	}
	if err := p.expect(")"); err != nil {
		return strategy.Phase{}, fmt.Errorf("generator %s: %w", gen, err)
	}
	return strategy.Phase{Generator: strings.ToLower(gen), StopCondition: cond}, nil
}

func (p *Parser) condition() (condition.Spec, error) {
	return p.binary(condition.TypeAlternative, []string{"or", "||"}, func() (condition.Spec, error) {
		return p.binary(condition.TypeCombinational, []string{"and", "&&"}, p.factor)
	})
}

func (p *Parser) binary(kind string, ops []string, operand func() (condition.Spec, error)) (condition.Spec, error) {
	first, err := operand()
	if err != nil {
		return condition.Spec{}, err
	}
	children := []condition.Spec{first}
	for isOneOf(strings.ToLower(p.peek()), ops) {
		p.next()
		child, err := operand()
		if err != nil {
			return condition.Spec{}, err
		}
		children = append(children, child)
	}
	if len(children) == 1 {
		return first, nil
	}
	return condition.Spec{Type: kind, Conditions: children}, nil
}

func (p *Parser) factor() (condition.Spec, error) {
	if p.peek() == "(" {
		p.next()
		inner, err := p.condition()
		if err != nil {
			return condition.Spec{}, err
		}
		return inner, p.expect(")")
	}

	name := strings.ToLower(p.next())
	if err := p.expect("("); err != nil {
		return condition.Spec{}, fmt.Errorf("condition %s: %w", name, err)
	}
	var args []string
	for p.peek() != ")" {
		if p.done() {
			return condition.Spec{}, fmt.Errorf("condition %s: unterminated argument list", name)
		}
		if len(args) > 0 {
			if err := p.expect(","); err != nil {
				return condition.Spec{}, fmt.Errorf("condition %s: %w", name, err)
			}
		}
		args = append(args, p.next())
	}
	p.next()
	return conditionSpec(name, args)
}

// conditionSpec maps positional arguments onto the named parameters Build expects.
func conditionSpec(name string, args []string) (condition.Spec, error) {
	spec := condition.Spec{Type: name}
	single := func(key string) (condition.Spec, error) {
		if len(args) != 1 {
			return condition.Spec{}, fmt.Errorf("condition %s takes one argument, got %d", name, len(args))
		}
		spec.Params = map[string]any{key: args[0]}
		return spec, nil
	}

	switch name {
	case condition.TypeEdgeCoverage, condition.TypeVertexCoverage:
		return single("percent")
	case condition.TypeReachedVertex, condition.TypeReachedEdge:
		return single("name")
	case condition.TypeTestLength:
		return single("length")
	case condition.TypeEdgesWalked:
		spec.Params = map[string]any{"edges": args}
		return spec, nil
	case condition.TypeNever:
		return spec, nil
	default:
		return condition.Spec{}, fmt.Errorf("%w: %q", condition.ErrUnknownCondition, name)
	}
}

func tokenize(expr string) ([]string, error) {
	var (
		tokens []string
		word   strings.Builder
	)
	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}

	runes := []rune(expr)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			flush()
		case r == '(' || r == ')' || r == ',':
			flush()
			tokens = append(tokens, string(r))
		case (r == '&' || r == '|') && i+1 < len(runes) && runes[i+1] == r:
			flush()
			tokens = append(tokens, string([]rune{r, r}))
			i++
		case unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("_-./:", r):
			word.WriteRune(r)
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d", r, i)
		}
	}
	flush()
	return tokens, nil
}

func isOneOf(s string, options []string) bool {
	for _, o := range options {
		if s == o {
			return true
		}
	}
	return false
}
