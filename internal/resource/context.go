package resource

// Context provides the fetched sub-resources of one repository to the record
// shaping step. A kind that is absent from the context failed to fetch; the
// diagnostic for it lives in the per-repository error map, not here.
type Context interface {
	Get(kind Kind) (any, bool)
}

// MapContext is a simple read-only map-based implementation of Context.
type MapContext struct {
	data map[Kind]any
}

func NewMapContext(data map[Kind]any) *MapContext {
	// A nil map is treated as an empty context.
	// Keeping it nil avoids hidden initialization and ensures the context is read-only.
	return &MapContext{data: data}
}

func (c *MapContext) Get(kind Kind) (any, bool) {
	if c == nil {
		return nil, false
	}
	val, ok := c.data[kind]
	return val, ok
}
