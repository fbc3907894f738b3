// Package celfilter validates settings values with CEL expressions. Each Rule
// is a boolean expression over the variables page, key and value; a rule that
// evaluates to false rejects the value with the rule's message.
package celfilter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"

	"github.com/goliatone/go-optionspage/pkg/validation"
)

// AnyKey matches every field key.
const AnyKey = "*"

// ErrNotBool is returned when an expression does not produce a bool.
var ErrNotBool = errors.New("celfilter: expression must evaluate to bool")

// Rule binds an expression to a field key.
type Rule struct {
	Key     string `yaml:"key" json:"key"`
	Expr    string `yaml:"expr" json:"expr"`
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

type compiled struct {
	rule    Rule
	program cel.Program
}

// Rules is a compiled rule set, safe for concurrent use.
type Rules struct {
	rules []compiled
}

// Compile type-checks every rule. Rules with an empty key apply to all keys.
func Compile(rules ...Rule) (*Rules, error) {
	env, err := cel.NewEnv(
		cel.Variable("page", cel.StringType),
		cel.Variable("key", cel.StringType),
		cel.Variable("value", cel.StringType),
		ext.Strings(),
	)
	if err != nil {
		return nil, fmt.Errorf("celfilter: environment: %w", err)
	}

	out := &Rules{rules: make([]compiled, 0, len(rules))}
	for i, rule := range rules {
		rule.Key = strings.TrimSpace(rule.Key)
		if rule.Key == "" {
			rule.Key = AnyKey
		}
		ast, iss := env.Compile(rule.Expr)
		if iss != nil && iss.Err() != nil {
			return nil, fmt.Errorf("celfilter: rule %d (%s): %w", i, rule.Key, iss.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, fmt.Errorf("celfilter: rule %d (%s): %w", i, rule.Key, ErrNotBool)
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("celfilter: rule %d (%s): %w", i, rule.Key, err)
		}
		out.rules = append(out.rules, compiled{rule: rule, program: prg})
	}
	return out, nil
}

// Len reports the number of compiled rules.
func (r *Rules) Len() int {
	if r == nil {
		return 0
	}
	return len(r.rules)
}

// Filter adapts the rule set to validation.Filter.
func (r *Rules) Filter() validation.Filter {
	return r.Validate
}

// Validate evaluates every rule matching key in order. Values pass through
// unchanged when all rules hold.
func (r *Rules) Validate(ctx context.Context, pageID, key, value string) (string, error) {
	if r == nil {
		return value, nil
	}
	vars := map[string]any{"page": pageID, "key": key, "value": value}
	for _, c := range r.rules {
		if c.rule.Key != AnyKey && c.rule.Key != key {
			continue
		}
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return "", err
			}
		}
		out, _, err := c.program.Eval(vars)
		if err != nil {
			return "", fmt.Errorf("celfilter: %s: %w", key, err)
		}
		ok, isBool := out.Value().(bool)
		if !isBool {
			return "", fmt.Errorf("celfilter: %s: %w", key, ErrNotBool)
		}
		if !ok {
			message := c.rule.Message
			if message == "" {
				message = fmt.Sprintf("Invalid value for %s.", key)
			}
			return "", validation.Reject(key, message)
		}
	}
	return value, nil
}
