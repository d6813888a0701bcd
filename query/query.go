// Package query compiles boolean expressions (expr-lang syntax) into
// predicates over jsonkit trees.
//
// An object's fields are visible as variables; the whole value is also
// available as "it". Unknown names evaluate to nil; guard optional fields
// with `age != nil && age > 30`.
//
//	p, _ := query.Compile(`role == "admin" && len(tags) > 0`)
//	admins, _ := query.Filter(users, p)
package query

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	jsonkit "github.com/reoring/jsonkit"
)

// Predicate is a compiled expression. It is safe for concurrent use.
type Predicate struct {
	src string
	prg *vm.Program
}

// Compile parses src. Syntax errors and expressions that cannot yield a
// boolean fail with an invalid_argument *jsonkit.Error.
func Compile(src string) (*Predicate, error) {
	prg, err := expr.Compile(src, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, jsonkit.WrapError(jsonkit.CodeInvalidArgument, err).
			AddExtra(jsonkit.ObjectOf(jsonkit.KV("expression", src)))
	}
	return &Predicate{src: src, prg: prg}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string) *Predicate {
	p, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Predicate) String() string { return p.src }

// Match evaluates the predicate against n. A nil result counts as false.
func (p *Predicate) Match(n *jsonkit.Node) (bool, error) {
	env := map[string]any{}
	if m, ok := n.Native().(map[string]any); ok {
		for k, v := range m {
			env[k] = v
		}
	}
	env["it"] = n.Native()
	out, err := expr.Run(p.prg, env)
	if err != nil {
		return false, jsonkit.WrapError(jsonkit.CodeInvalidArgument, err).
			AddExtra(jsonkit.ObjectOf(jsonkit.KV("expression", p.src), jsonkit.KV("json", n)))
	}
	switch v := out.(type) {
	case bool:
		return v, nil
	case nil:
		return false, nil
	}
	return false, jsonkit.NewError(jsonkit.CodeInvalidArgument, "Expression did not yield a boolean",
		jsonkit.ObjectOf(jsonkit.KV("expression", p.src), jsonkit.KV("type", fmt.Sprintf("%T", out))))
}

// Filter returns the elements of array matching p, in order.
func Filter(array *jsonkit.Node, p *Predicate) (*jsonkit.Node, error) {
	var first error
	out, err := jsonkit.Filter(array, func(n *jsonkit.Node) bool {
		if first != nil {
			return false
		}
		ok, err := p.Match(n)
		if err != nil {
			first = err
		}
		return ok
	})
	if err != nil {
		return nil, err
	}
	if first != nil {
		return nil, first
	}
	return out, nil
}

// Find returns the first element of array matching p, or Missing.
func Find(array *jsonkit.Node, p *Predicate) (*jsonkit.Node, error) {
	var first error
	out, err := jsonkit.Find(array, func(n *jsonkit.Node) bool {
		if first != nil {
			return true
		}
		ok, err := p.Match(n)
		if err != nil {
			first = err
			return true
		}
		return ok
	})
	if err != nil {
		return nil, err
	}
	if first != nil {
		return nil, first
	}
	return out, nil
}
