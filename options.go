package legacyir

// Options holds the resolved configuration of a compilation run. The zero
// value is a usable default. Only MergeInFieldsFromFragmentSpreads and
// GenerateOperationIDs change what the lowering itself produces; the other
// fields are carried through to downstream code generators untouched.
type Options struct {
	AddTypename                      bool
	MergeInFieldsFromFragmentSpreads bool
	PassthroughCustomScalars         bool
	CustomScalarsPrefix              string
	Namespace                        string
	GenerateOperationIDs             bool
}

type Option func(opts *Options)

func WithAddTypename(addTypename bool) Option {
	return func(opts *Options) {
		opts.AddTypename = addTypename
	}
}

func WithMergeInFieldsFromFragmentSpreads(merge bool) Option {
	return func(opts *Options) {
		opts.MergeInFieldsFromFragmentSpreads = merge
	}
}

func WithPassthroughCustomScalars(passthrough bool) Option {
	return func(opts *Options) {
		opts.PassthroughCustomScalars = passthrough
	}
}

func WithCustomScalarsPrefix(prefix string) Option {
	return func(opts *Options) {
		opts.CustomScalarsPrefix = prefix
	}
}

func WithNamespace(namespace string) Option {
	return func(opts *Options) {
		opts.Namespace = namespace
	}
}

func WithGenerateOperationIDs(generate bool) Option {
	return func(opts *Options) {
		opts.GenerateOperationIDs = generate
	}
}
