package prof

import "errors"

// ErrProfileActive indicates a profiling session is already running.
var ErrProfileActive = errors.New("profile already active")

// Profile names a pprof profile.
type Profile string

// Profiles written by Start.
const (
	ProfileCPU   Profile = "cpu"
	ProfileHeap  Profile = "heap"
	ProfileMutex Profile = "mutex"
	ProfileBlock Profile = "block"
)

// String returns the pprof name of the profile.
func (p Profile) String() string {
	return string(p)
}

// Options selects the profiles to capture. An empty path disables that
// profile.
type Options struct {
	CPU   string
	Heap  string
	Mutex string
	Block string
}

// Enabled reports whether any profile is selected.
func (o Options) Enabled() bool {
	return o.CPU != "" || o.Heap != "" || o.Mutex != "" || o.Block != ""
}

// snapshots returns the snapshot profiles selected by o, in write order.
func (o Options) snapshots() []struct {
	profile Profile
	path    string
} {
	var out []struct {
		profile Profile
		path    string
	}
	for _, s := range []struct {
		profile Profile
		path    string
	}{
		{ProfileHeap, o.Heap},
		{ProfileMutex, o.Mutex},
		{ProfileBlock, o.Block},
	} {
		if s.path != "" {
			out = append(out, s)
		}
	}
	return out
}
