package argparse

import (
	"gopkg.in/yaml.v3"
)

// Result maps canonical argument names to their coerced values. Scalars are
// string, float64 or bool, arrays are []string, []float64 or []bool, and an
// optional argument that was never bound holds nil.
type Result map[string]any

// merge appends to the argument's sequence when it is an array, otherwise it
// overwrites the previous value.
func (r Result) merge(arg *Argument, v any) {
	if !arg.IsArray {
		r[arg.Name] = v
		return
	}

	switch val := v.(type) {
	case float64:
		cur, _ := r[arg.Name].([]float64)
		r[arg.Name] = append(cur, val)
	case bool:
		cur, _ := r[arg.Name].([]bool)
		r[arg.Name] = append(cur, val)
	case string:
		cur, _ := r[arg.Name].([]string)
		r[arg.Name] = append(cur, val)
	}
}

func (r Result) Has(name string) bool {
	v, ok := r[name]
	return ok && v != nil
}

func (r Result) Get(name string) any {
	return r[name]
}

func (r Result) String(name string) (string, bool) {
	v, ok := r[name].(string)
	return v, ok
}

func (r Result) Number(name string) (float64, bool) {
	v, ok := r[name].(float64)
	return v, ok
}

func (r Result) Bool(name string) bool {
	v, _ := r[name].(bool)
	return v
}

func (r Result) Strings(name string) []string {
	v, _ := r[name].([]string)
	return v
}

func (r Result) Numbers(name string) []float64 {
	v, _ := r[name].([]float64)
	return v
}

func (r Result) Bools(name string) []bool {
	v, _ := r[name].([]bool)
	return v
}

// Decode binds the result onto out, which is usually a pointer to a struct
// whose fields carry yaml tags named after the arguments.
func (r Result) Decode(out any) error {
	var node yaml.Node
	if err := node.Encode(map[string]any(r)); err != nil {
		return err
	}

	return node.Decode(out)
}
