package matching

// Context is the set of runtime facts a rule is matched against for
// configuration generation. It is an open mapping from category name to
// a set of string values; the well-known categories have accessors.
type Context map[string][]string

// Values returns the context's values for a category, or nil when the
// category is absent
func (c Context) Values(category string) []string {
	if c == nil {
		return nil
	}
	return c[category]
}

// Has reports whether the context carries the given value under category
func (c Context) Has(category, value string) bool {
	for _, v := range c.Values(category) {
		if v == value {
			return true
		}
	}
	return false
}

// Phase returns the context's phase values
func (c Context) Phase() []string { return c.Values("phase") }

// Technologies returns the context's technology values
func (c Context) Technologies() []string { return c.Values("technologies") }

// ProjectType returns the context's project type values
func (c Context) ProjectType() []string { return c.Values("project_type") }
