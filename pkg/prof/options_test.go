package prof

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOptions_Enabled(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want bool
	}{
		{"empty", Options{}, false},
		{"cpu", Options{CPU: "cpu.prof"}, true},
		{"heap", Options{Heap: "heap.prof"}, true},
		{"mutex", Options{Mutex: "mutex.prof"}, true},
		{"block", Options{Block: "block.prof"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOptions_Snapshots(t *testing.T) {
	o := Options{CPU: "cpu.prof", Block: "block.prof", Heap: "heap.prof"}

	var got []Profile
	for _, s := range o.snapshots() {
		got = append(got, s.profile)
	}
	want := []Profile{ProfileHeap, ProfileBlock}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshots() mismatch (-want +got):\n%s", diff)
	}
}

func TestStart_NoProfiles(t *testing.T) {
	stop, err := Start(Options{})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := stop(); err != nil {
		t.Errorf("stop() error = %v", err)
	}
}
