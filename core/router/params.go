package router

// Param is a single path parameter bound during matching.
type Param struct {
	Key   string
	Value string
}

// Params holds path parameters in the order they appear in the path.
type Params []Param

// Get returns the value bound to key and whether it was present.
func (ps Params) Get(key string) (string, bool) {
	for _, p := range ps {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// ByName returns the value bound to key, or an empty string.
func (ps Params) ByName(key string) string {
	v, _ := ps.Get(key)
	return v
}

// Map copies the parameters into a map. Returns nil when there are none.
func (ps Params) Map() map[string]string {
	if len(ps) == 0 {
		return nil
	}
	m := make(map[string]string, len(ps))
	for _, p := range ps {
		m[p.Key] = p.Value
	}
	return m
}
