package defaults

// Result holds the outcome of a parse: one value per destination, filled
// from installed defaults and overridden by explicit CLI values, plus any
// positional arguments that were not verbs.
type Result struct {
	values      map[string]any
	explicit    map[string]bool
	positionals []string
}

func newResult() *Result {
	return &Result{
		values:   map[string]any{},
		explicit: map[string]bool{},
	}
}

// set records an explicit CLI value; explicit values are never overridden
// by defaults installed later along the verb chain.
func (r *Result) set(dest string, v any) {
	r.values[dest] = v
	r.explicit[dest] = true
}

// Has reports whether the destination holds a value, default or explicit.
func (r *Result) Has(dest string) bool {
	_, ok := r.values[dest]
	return ok
}

// Get returns the raw value of the destination, or nil.
func (r *Result) Get(dest string) any {
	return r.values[dest]
}

func (r *Result) String(dest string) string {
	s, _ := r.values[dest].(string)
	return s
}

func (r *Result) Int(dest string) int {
	i, _ := r.values[dest].(int)
	return i
}

func (r *Result) Bool(dest string) bool {
	b, _ := r.values[dest].(bool)
	return b
}

func (r *Result) Strings(dest string) []string {
	switch v := r.values[dest].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil
			}
			out = append(out, s)
		}
		return out
	default:
		return nil
	}
}

func (r *Result) Ints(dest string) []int {
	switch v := r.values[dest].(type) {
	case []int:
		return v
	case []any:
		out := make([]int, 0, len(v))
		for _, e := range v {
			i, ok := e.(int)
			if !ok {
				return nil
			}
			out = append(out, i)
		}
		return out
	default:
		return nil
	}
}

// Positionals returns the positional arguments in order of appearance.
func (r *Result) Positionals() []string {
	return r.positionals
}
