package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/mattn/go-tty"
	"github.com/spf13/cobra"

	"github.com/ardnew/otgfs/device"
	"github.com/ardnew/otgfs/device/hal"
	"github.com/ardnew/otgfs/device/hal/otgfs"
	"github.com/ardnew/otgfs/device/hal/otgfs/reg"
	"github.com/ardnew/otgfs/device/hal/sim"
	"github.com/ardnew/otgfs/pkg"
	"github.com/ardnew/otgfs/pkg/prof"
)

// maxPasses bounds the dispatch passes serviced after one step.
const maxPasses = 64

func newRunCmd() *cobra.Command {
	var (
		step     bool
		profiles prof.Options
	)

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Replay a bus scenario against the simulated controller",
		Long: "Replay a YAML bus scenario against a simulated OTG FS controller and " +
			"print every event the interrupt front-end reports to the Device Core.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := LoadScenario(args[0])
			if err != nil {
				return err
			}

			var wait func() error
			if step {
				t, err := tty.Open()
				if err != nil {
					return fmt.Errorf("open terminal: %w", err)
				}
				defer t.Close()
				wait = func() error {
					fmt.Fprint(cmd.ErrOrStderr(), "-- press any key --\r")
					_, err := t.ReadRune()
					return err
				}
			}

			r, err := newRunner(sc, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			if profiles.Enabled() && !prof.Available {
				pkg.LogWarn(pkg.ComponentCLI, "profiling not compiled in, rebuild with -tags profile")
			}
			stop, err := prof.Start(profiles)
			if err != nil {
				return err
			}
			if err := r.run(sc.Steps, wait); err != nil {
				stop()
				return err
			}
			return stop()
		},
	}

	cmd.Flags().BoolVar(&step, "step", false, "wait for a key press before each step")
	cmd.Flags().StringVar(&profiles.CPU, "cpu-profile", "", "write a CPU profile of the run to `file`")
	cmd.Flags().StringVar(&profiles.Heap, "heap-profile", "", "write a heap profile after the run to `file`")
	cmd.Flags().StringVar(&profiles.Mutex, "mutex-profile", "", "write a mutex contention profile after the run to `file`")
	return cmd
}

// runner drives a simulated controller and a reference Device Core
// through scenario steps.
type runner struct {
	out     io.Writer
	enumspd uint32

	bank    *sim.Bank
	session *device.Session
	rec     *sim.Recorder
	ctrl    *otgfs.Controller

	notes []string
}

func newRunner(sc *Scenario, out io.Writer) (*runner, error) {
	enumspd, err := sc.EnumSpeed()
	if err != nil {
		return nil, err
	}

	bank := sim.New()
	session := device.NewSession(bank, sc.Endpoints)
	rec := sim.NewRecorder(session)
	ctrl := otgfs.New(bank, rec, otgfs.Config{Endpoints: sc.Endpoints})
	ctrl.EnableInterrupts(sc.SOF)

	r := &runner{
		out:     out,
		enumspd: enumspd,
		bank:    bank,
		session: session,
		rec:     rec,
		ctrl:    ctrl,
	}

	session.SetOnSetup(func(setup hal.SetupPacket) {
		r.note("setup: %s", device.DescribeSetup(setup))
		r.apply(setup)
	})
	session.SetOnReceive(func(ep uint8, data []byte) {
		r.note("received ep%d: %s", ep, formatHex(data))
	})
	session.SetOnTransmitted(func(ep uint8) {
		r.note("transmitted ep%d", ep)
	})
	return r, nil
}

// apply carries out the standard requests that change device state.
func (r *runner) apply(setup hal.SetupPacket) {
	if setup.RequestType&device.RequestTypeTypeMask != device.RequestTypeStandard {
		return
	}

	var err error
	switch setup.Request {
	case device.RequestSetAddress:
		err = r.session.SetAddress(uint8(setup.Value))
	case device.RequestSetConfiguration:
		err = r.session.SetConfigured(setup.Value != 0)
	default:
		return
	}
	if err != nil {
		r.note("error: %v", err)
	}
}

func (r *runner) note(format string, args ...any) {
	r.notes = append(r.notes, fmt.Sprintf(format, args...))
}

func (r *runner) run(steps []Step, wait func() error) error {
	for i, st := range steps {
		if wait != nil {
			if err := wait(); err != nil {
				return err
			}
		}
		fmt.Fprintf(r.out, "[%d] %s\n", i+1, st.Action())
		if err := r.step(st); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	fmt.Fprintf(r.out, "state=%v speed=%q frame=%d\n",
		r.session.State(), r.session.Speed(), r.session.Frame())
	return nil
}

// step applies one action, services the interrupts it raised, and prints
// what happened.
func (r *runner) step(st Step) error {
	r.rec.Clear()
	r.notes = r.notes[:0]

	switch {
	case st.Reset:
		r.bank.SetEnumSpeed(r.enumspd)
		r.bank.Raise(reg.GINTSTS_USBRST | reg.GINTSTS_ENUMDNE)
	case st.Activate != nil:
		ep, err := st.Activate.Endpoint()
		if err != nil {
			return err
		}
		if err := r.session.ActivateEndpoint(ep); err != nil {
			r.note("error: %v", err)
		}
	case st.Setup != nil:
		r.bank.Receive(0, reg.PacketSetupReceived, st.Setup)
		r.bank.RaiseOut(0, reg.DOEPINT_STUP)
	case st.Request != nil:
		data, err := st.Request.Bytes()
		if err != nil {
			return err
		}
		r.bank.Receive(0, reg.PacketSetupReceived, data)
		r.bank.RaiseOut(0, reg.DOEPINT_STUP)
	case st.Out != nil:
		r.bank.Receive(st.Out.Endpoint, reg.PacketOutReceived, st.Out.Data)
		if st.Out.Complete {
			r.bank.RaiseOut(int(st.Out.Endpoint), reg.DOEPINT_XFRC)
		}
	case st.Write != nil:
		if err := r.session.Write(st.Write.Endpoint, st.Write.Data); err != nil {
			if !errors.Is(err, pkg.ErrBusy) && !errors.Is(err, pkg.ErrInvalidState) {
				return err
			}
			r.note("error: %v", err)
		}
	case st.TxEmpty != nil:
		r.bank.RaiseIn(int(*st.TxEmpty), reg.DIEPINT_TXFE)
	case st.InComplete != nil:
		r.bank.RaiseIn(int(*st.InComplete), reg.DIEPINT_XFRC)
	case st.Suspend:
		r.bank.Raise(reg.GINTSTS_USBSUSP)
	case st.Wakeup:
		r.bank.Raise(reg.GINTSTS_WKUPINT)
	case st.SOF != nil:
		r.bank.SetFrame(*st.SOF)
		r.bank.Raise(reg.GINTSTS_SOF)
	}

	r.service()

	if st.TxEmpty != nil {
		if words := r.bank.DrainTxFIFO(int(*st.TxEmpty)); len(words) > 0 {
			r.note("host read ep%d: %s", *st.TxEmpty, formatHex(sim.UnpackWords(words, 4*len(words))))
		}
	}

	for _, e := range r.rec.Events() {
		fmt.Fprintf(r.out, "    event: %v\n", e)
	}
	for _, n := range r.notes {
		fmt.Fprintf(r.out, "    %s\n", n)
	}
	return nil
}

// service runs dispatch passes until no enabled interrupt is pending.
func (r *runner) service() {
	for i := 0; i < maxPasses && r.bank.Pending(); i++ {
		r.ctrl.HandleInterrupt()
	}
	if r.bank.Pending() {
		pkg.LogWarn(pkg.ComponentCLI, "interrupts still pending", "passes", maxPasses)
	}
}
