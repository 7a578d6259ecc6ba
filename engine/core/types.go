package core

// Input is the raw parameter bag attached to a workflow item.
type Input map[string]any

// Prop returns the value stored under key, or nil.
func (i Input) Prop(key string) any {
	if i == nil {
		return nil
	}
	return i[key]
}

// Has reports whether key is present, even when its value is the zero value.
func (i Input) Has(key string) bool {
	if i == nil {
		return false
	}
	_, ok := i[key]
	return ok
}
