//go:build profile

package prof

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStart_WritesProfiles(t *testing.T) {
	dir := t.TempDir()
	o := Options{
		CPU:   filepath.Join(dir, "cpu.prof"),
		Heap:  filepath.Join(dir, "heap.prof"),
		Mutex: filepath.Join(dir, "mutex.prof"),
	}

	stop, err := Start(o)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop() error = %v", err)
	}

	for _, path := range []string{o.CPU, o.Heap, o.Mutex} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("profile %s not written: %v", filepath.Base(path), err)
		}
	}
}

func TestStart_FailFastWhenActive(t *testing.T) {
	stop, err := Start(Options{Heap: filepath.Join(t.TempDir(), "heap.prof")})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer stop()

	if _, err := Start(Options{}); !errors.Is(err, ErrProfileActive) {
		t.Errorf("Start() error = %v, want ErrProfileActive", err)
	}
}

func TestStart_StopTwice(t *testing.T) {
	stop, err := Start(Options{})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop() error = %v", err)
	}
	if err := stop(); err != nil {
		t.Errorf("second stop() error = %v", err)
	}

	stop, err = Start(Options{})
	if err != nil {
		t.Fatalf("Start() after stop error = %v", err)
	}
	stop()
}

func TestStart_InvalidPath(t *testing.T) {
	if _, err := Start(Options{CPU: "/nonexistent/directory/cpu.prof"}); err == nil {
		t.Error("Start() error = nil, want error for invalid path")
	}
	stop, err := Start(Options{})
	if err != nil {
		t.Fatalf("Start() after failure error = %v", err)
	}
	stop()
}
