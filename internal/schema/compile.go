package schema

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mmrzaf/sdstats/internal/domain"
	"github.com/mmrzaf/sdstats/internal/generators"
)

const providerMethodKey = "provider_method"

// Compiled is a blueprint whose provider methods have all been resolved
// and validated against one Field.
type Compiled struct {
	Blueprint *domain.Blueprint
	field     *Field
	variables []compiledVariable
}

type compiledVariable struct {
	name string
	call *callNode
}

// Compile resolves every provider method in bp, including nested calls in
// kwargs, and validates their arguments. Unknown methods fail here rather
// than during generation.
func Compile(field *Field, bp *domain.Blueprint) (*Compiled, error) {
	if bp == nil {
		return nil, errors.New("blueprint is nil")
	}
	if len(bp.Variables) == 0 {
		return nil, errors.New("blueprint must have at least one variable")
	}

	c := &Compiled{Blueprint: bp, field: field}
	seen := make(map[string]bool, len(bp.Variables))
	for i, v := range bp.Variables {
		if v.Name == "" {
			return nil, fmt.Errorf("variable %d: name is empty", i)
		}
		if seen[v.Name] {
			return nil, fmt.Errorf("variable %s: %w", v.Name, ErrDuplicateKey)
		}
		seen[v.Name] = true

		call, err := compileCall(field, v.ProviderMethod, v.Kwargs)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", v.Name, err)
		}
		c.variables = append(c.variables, compiledVariable{name: v.Name, call: call})
	}
	return c, nil
}

// Schema returns the record function for this blueprint.
func (c *Compiled) Schema() SchemaFunc {
	return func(row int) (*domain.Record, error) {
		c.field.setRow(row)
		rec := domain.NewRecord()
		for _, v := range c.variables {
			val, err := v.call.eval()
			if err != nil {
				return nil, fmt.Errorf("variable %s: %w", v.name, err)
			}
			rec.Set(v.name, val)
		}
		return rec, nil
	}
}

func (c *Compiled) StatsSchema() *StatsSchema {
	return New(c.Schema())
}

// Methods lists the resolved top-level provider keys in variable order.
func (c *Compiled) Methods() []string {
	out := make([]string, len(c.variables))
	for i, v := range c.variables {
		out[i] = v.call.method.Name
	}
	return out
}

type node interface {
	eval() (interface{}, error)
	// static is the value seen at compile time, with nested calls replaced
	// by generators.Deferred.
	static() interface{}
}

type literal struct{ v interface{} }

func (l literal) eval() (interface{}, error) { return l.v, nil }
func (l literal) static() interface{}        { return l.v }

type listNode []node

func (l listNode) eval() (interface{}, error) {
	out := make([]interface{}, len(l))
	for i, n := range l {
		v, err := n.eval()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (l listNode) static() interface{} {
	out := make([]interface{}, len(l))
	for i, n := range l {
		out[i] = n.static()
	}
	return out
}

// mapNode evaluates its entries in key order so nested draws are repeatable.
type mapNode struct {
	keys []string
	vals map[string]node
}

func (m mapNode) evalMap() (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(m.keys))
	for _, k := range m.keys {
		v, err := m.vals[k].eval()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

func (m mapNode) eval() (interface{}, error) { return m.evalMap() }

func (m mapNode) staticMap() map[string]interface{} {
	out := make(map[string]interface{}, len(m.keys))
	for _, k := range m.keys {
		out[k] = m.vals[k].static()
	}
	return out
}

func (m mapNode) static() interface{} { return m.staticMap() }

type callNode struct {
	method *Method
	kwargs mapNode
}

func (c *callNode) eval() (interface{}, error) {
	params, err := c.kwargs.evalMap()
	if err != nil {
		return nil, err
	}
	return c.method.Call(params)
}

func (c *callNode) static() interface{} {
	return generators.Deferred{Method: c.method.Name}
}

func compileCall(field *Field, method string, kw map[string]interface{}) (*callNode, error) {
	if method == "" {
		return nil, errors.New("provider_method is empty")
	}
	m, err := field.Bind(method)
	if err != nil {
		return nil, err
	}
	args, err := compileMap(field, kw)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(args.staticMap()); err != nil {
		return nil, fmt.Errorf("%s: %w", m.Name, err)
	}
	return &callNode{method: m, kwargs: args}, nil
}

func compileMap(field *Field, kw map[string]interface{}) (mapNode, error) {
	m := mapNode{vals: make(map[string]node, len(kw))}
	for k := range kw {
		m.keys = append(m.keys, k)
	}
	sort.Strings(m.keys)
	for _, k := range m.keys {
		n, err := compileValue(field, kw[k])
		if err != nil {
			return mapNode{}, fmt.Errorf("%s: %w", k, err)
		}
		m.vals[k] = n
	}
	return m, nil
}

func compileValue(field *Field, v interface{}) (node, error) {
	switch val := v.(type) {
	case map[string]interface{}:
		if raw, ok := val[providerMethodKey]; ok {
			method, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("%s must be a string, got %T", providerMethodKey, raw)
			}
			var kw map[string]interface{}
			if rawKw, ok := val["kwargs"]; ok && rawKw != nil {
				kw, ok = rawKw.(map[string]interface{})
				if !ok {
					return nil, fmt.Errorf("kwargs of %s must be a mapping, got %T", method, rawKw)
				}
			}
			return compileCall(field, method, kw)
		}
		return compileMap(field, val)
	case []interface{}:
		out := make(listNode, len(val))
		for i, item := range val {
			n, err := compileValue(field, item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = n
		}
		return out, nil
	default:
		return literal{v: v}, nil
	}
}
