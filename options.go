package graft

// Options control how patchsets are computed.
type Options struct {
	shallowUpdates bool
}

// The default options.
var DefaultOptions = Options{}

// WithShallowUpdates creates a new option object with shallow updates
// enabled or disabled.
//
// With shallow updates, any pair of corresponding nodes that differ at
// all produces a single update patch replacing the whole subtree,
// instead of recursing to find the smallest set of edits. The resulting
// patchsets are larger but trivially reviewable.
func (options Options) WithShallowUpdates(shallow bool) Options {
	options.shallowUpdates = shallow
	return options
}
