//go:build !pprof

package profile

// Modes returns nothing when built without the pprof build tag.
func Modes() []string { return nil }

func start(string, string) func() { return func() {} }
