package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/otgfs/device"
	"github.com/ardnew/otgfs/device/hal/otgfs/reg"
)

func TestRunner_Enumerate(t *testing.T) {
	sc, err := LoadScenario("testdata/enumerate.yaml")
	if err != nil {
		t.Fatalf("LoadScenario() error = %v", err)
	}

	var out bytes.Buffer
	r, err := newRunner(sc, &out)
	if err != nil {
		t.Fatalf("newRunner() error = %v", err)
	}
	if err := r.run(sc.Steps, nil); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	want := []string{
		"[1] bus reset",
		`event: reset speed="Full Speed"`,
		"[2] get device descriptor",
		"event: data-received ep=0 count=8",
		"event: transfer ep=0 phase=SETUP",
		"setup: SETUP[IN Standard Device] GET_DESCRIPTOR Value=0x0100 Index=0x0000 Length=64",
		"event: continue-in ep=0",
		"host read ep0: 12 01 00 02 00 00 00 40 34 12 78 56 00 01 01 02 03 01 00 00",
		"event: transfer ep=0 phase=IN",
		"transmitted ep0",
		"event: data-received ep=2 count=5",
		"event: transfer ep=2 phase=OUT",
		"received ep2: 68 65 6c 6c 6f",
		"error: write ep 1: resource busy",
		"host read ep1: 77 6f 72 6c 64 00 00 00",
		"transmitted ep1",
		"event: sof frame=1025",
		"event: suspend",
		`state=Suspended speed="Full Speed" frame=1025`,
	}

	got := out.String()
	pos := 0
	for _, w := range want {
		i := strings.Index(got[pos:], w)
		if i < 0 {
			t.Fatalf("output missing %q after offset %d:\n%s", w, pos, got)
		}
		pos += i + len(w)
	}

	if r.session.State() != device.StateSuspended {
		t.Errorf("State() = %v, want Suspended", r.session.State())
	}
}

func TestRunner_StandardRequests(t *testing.T) {
	sc, err := LoadScenario("testdata/address.yaml")
	if err != nil {
		t.Fatalf("LoadScenario() error = %v", err)
	}

	var out bytes.Buffer
	r, err := newRunner(sc, &out)
	if err != nil {
		t.Fatalf("newRunner() error = %v", err)
	}
	if err := r.run(sc.Steps, nil); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	want := []string{
		"[2] request get_descriptor",
		"setup: SETUP[IN Standard Device] GET_DESCRIPTOR Value=0x0100 Index=0x0000 Length=18",
		"[3] request set_address",
		"setup: SETUP[OUT Standard Device] SET_ADDRESS Value=0x0007",
		"[4] request set_configuration",
		"setup: SETUP[OUT Standard Device] SET_CONFIGURATION Value=0x0001",
		`state=Configured speed="Full Speed"`,
	}
	got := out.String()
	pos := 0
	for _, w := range want {
		i := strings.Index(got[pos:], w)
		if i < 0 {
			t.Fatalf("output missing %q after offset %d:\n%s", w, pos, got)
		}
		pos += i + len(w)
	}
	if strings.Contains(got, "error:") {
		t.Errorf("unexpected error note:\n%s", got)
	}

	if dad := (r.bank.Peek(reg.DCFG) & reg.DCFG_DAD) >> reg.DCFG_DAD_Pos; dad != 7 {
		t.Errorf("DCFG.DAD = %d, want 7", dad)
	}
}

func TestRunner_WaitError(t *testing.T) {
	sc := &Scenario{Steps: []Step{{Reset: true}}}
	r, err := newRunner(sc, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("newRunner() error = %v", err)
	}

	errQuit := errors.New("quit")
	if err := r.run(sc.Steps, func() error { return errQuit }); !errors.Is(err, errQuit) {
		t.Errorf("run() error = %v, want %v", err, errQuit)
	}
}

func TestRunner_WakeupProducesNoEvent(t *testing.T) {
	sc := &Scenario{Steps: []Step{{Reset: true}, {Wakeup: true}}}
	var out bytes.Buffer
	r, err := newRunner(sc, &out)
	if err != nil {
		t.Fatalf("newRunner() error = %v", err)
	}
	if err := r.step(sc.Steps[1]); err != nil {
		t.Fatalf("step() error = %v", err)
	}
	if strings.Contains(out.String(), "event:") {
		t.Errorf("wakeup produced events:\n%s", out.String())
	}
}

func TestRunCmd_WithProfiles(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{
		"run", "testdata/enumerate.yaml",
		"--heap-profile", filepath.Join(t.TempDir(), "heap.prof"),
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "state=") {
		t.Errorf("output missing final state line:\n%s", out.String())
	}
}
