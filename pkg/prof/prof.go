//go:build profile

package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
)

// Available reports whether profiling support is compiled in.
const Available = true

var (
	// mu guards active.
	mu     sync.Mutex
	active bool
)

// Start begins the profiles selected by o and returns a function that
// stops them and writes the snapshot profiles. Returns [ErrProfileActive]
// if a previous session has not been stopped.
func Start(o Options) (stop func() error, err error) {
	mu.Lock()
	defer mu.Unlock()

	if active {
		return nil, ErrProfileActive
	}

	var cpu *os.File
	if o.CPU != "" {
		cpu, err = os.Create(o.CPU)
		if err != nil {
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(cpu); err != nil {
			cpu.Close()
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
	}
	if o.Mutex != "" {
		runtime.SetMutexProfileFraction(1)
	}
	if o.Block != "" {
		runtime.SetBlockProfileRate(1)
	}
	active = true

	var once sync.Once
	return func() error {
		var errs []error
		once.Do(func() {
			mu.Lock()
			defer mu.Unlock()

			if cpu != nil {
				pprof.StopCPUProfile()
				errs = append(errs, cpu.Close())
			}
			for _, s := range o.snapshots() {
				errs = append(errs, write(s.profile, s.path))
			}
			if o.Mutex != "" {
				runtime.SetMutexProfileFraction(0)
			}
			if o.Block != "" {
				runtime.SetBlockProfileRate(0)
			}
			active = false
		})
		return errors.Join(errs...)
	}, nil
}

func write(p Profile, path string) error {
	lp := pprof.Lookup(string(p))
	if lp == nil {
		return fmt.Errorf("%s profile: unknown", p)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%s profile: %w", p, err)
	}
	defer f.Close()
	if err := lp.WriteTo(f, 0); err != nil {
		return fmt.Errorf("%s profile: %w", p, err)
	}
	return nil
}
