package kd

// Option configures an Index.
type Option func(*Index)

// WithCompression toggles zstd compression of the serialized index.
func WithCompression(enabled bool) Option {
	return func(i *Index) { i.compress = enabled }
}
