// Package prof captures pprof profiles around a simulator run.
//
// The package is conditionally compiled using the "profile" build tag:
//
//	go build -tags profile ./cmd/otgsim
//
// Without the tag, [Available] is false and [Start] returns a stop
// function that does nothing, so callers can leave profiling hooks in
// place.
//
// # Usage
//
//	stop, err := prof.Start(prof.Options{
//	    CPU:   "cpu.prof",
//	    Mutex: "mutex.prof",
//	})
//	if err != nil {
//	    return err
//	}
//	defer stop()
//
// The CPU profile streams while the run is active. Snapshot profiles
// ([ProfileHeap], [ProfileMutex], [ProfileBlock]) are written when the
// stop function is called. Mutex and block sampling are enabled by Start
// only when the matching path is set.
package prof
