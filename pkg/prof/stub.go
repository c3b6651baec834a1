//go:build !profile

package prof

// Available reports whether profiling support is compiled in.
const Available = false

// Start is a no-op when built without the "profile" tag.
func Start(_ Options) (stop func() error, err error) {
	return func() error { return nil }, nil
}
