package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ardnew/otgfs/device"
	"github.com/ardnew/otgfs/device/hal"
	"github.com/ardnew/otgfs/device/hal/otgfs/reg"
	"github.com/ardnew/otgfs/pkg"
)

// Scenario is a scripted sequence of bus events replayed against the
// simulated controller.
type Scenario struct {
	Endpoints int    `yaml:"endpoints"`
	Speed     string `yaml:"speed"`
	SOF       bool   `yaml:"sof"`
	Steps     []Step `yaml:"steps"`
}

// Step is one scenario action. Exactly one field other than Name is set.
type Step struct {
	Name string `yaml:"name,omitempty"`

	Reset      bool          `yaml:"reset,omitempty"`
	Activate   *EndpointSpec `yaml:"activate,omitempty"`
	Setup      HexBytes      `yaml:"setup,omitempty"`
	Request    *RequestSpec  `yaml:"request,omitempty"`
	Out        *Packet       `yaml:"out,omitempty"`
	Write      *Packet       `yaml:"write,omitempty"`
	TxEmpty    *uint8        `yaml:"tx_empty,omitempty"`
	InComplete *uint8        `yaml:"in_complete,omitempty"`
	Suspend    bool          `yaml:"suspend,omitempty"`
	Wakeup     bool          `yaml:"wakeup,omitempty"`
	SOF        *uint16       `yaml:"sof,omitempty"`
}

// Packet is data sent to or queued on an endpoint. For OUT packets,
// Complete also raises transfer complete on the endpoint.
type Packet struct {
	Endpoint uint8    `yaml:"endpoint"`
	Data     HexBytes `yaml:"data"`
	Complete bool     `yaml:"complete,omitempty"`
}

// EndpointSpec describes an endpoint to activate.
type EndpointSpec struct {
	Address   uint8  `yaml:"address"`
	Type      string `yaml:"type"`
	MaxPacket uint16 `yaml:"max_packet"`
}

// RequestSpec is a standard request sent to EP0 as a SETUP packet.
// Value is the address for set_address and the configuration for
// set_configuration; Type, Index and Length select a descriptor.
type RequestSpec struct {
	Name   string `yaml:"name"`
	Value  uint8  `yaml:"value,omitempty"`
	Type   uint8  `yaml:"type,omitempty"`
	Index  uint8  `yaml:"index,omitempty"`
	Length uint16 `yaml:"length,omitempty"`
}

// Packet builds the SETUP packet for the request.
func (r RequestSpec) Packet() (hal.SetupPacket, error) {
	switch strings.ToLower(r.Name) {
	case "get_descriptor":
		if r.Type == 0 {
			return hal.SetupPacket{}, fmt.Errorf("get_descriptor has no type: %w", pkg.ErrInvalidScenario)
		}
		return device.GetDescriptorSetup(r.Type, r.Index, r.Length), nil
	case "set_address":
		if r.Value > 127 {
			return hal.SetupPacket{}, fmt.Errorf("address %d: %w", r.Value, pkg.ErrInvalidScenario)
		}
		return device.SetAddressSetup(r.Value), nil
	case "set_configuration":
		return device.SetConfigurationSetup(r.Value), nil
	default:
		return hal.SetupPacket{}, fmt.Errorf("request %q: %w", r.Name, pkg.ErrInvalidScenario)
	}
}

// Bytes returns the request as it appears on the wire.
func (r RequestSpec) Bytes() (HexBytes, error) {
	setup, err := r.Packet()
	if err != nil {
		return nil, err
	}
	buf := make(HexBytes, hal.SetupPacketSize)
	setup.MarshalTo(buf)
	return buf, nil
}

// HexBytes is a byte slice written in YAML as a hex string. Spaces, colons
// and an optional 0x prefix are ignored, so "80 06 00 01" and "0x80060001"
// are equivalent.
type HexBytes []byte

// UnmarshalYAML implements yaml.Unmarshaler.
func (h *HexBytes) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	b, err := parseHex(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*h = b
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (h HexBytes) MarshalYAML() (any, error) {
	return formatHex(h), nil
}

func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.NewReplacer(" ", "", ":", "", "\t", "").Replace(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("hex data %q: %w", s, pkg.ErrInvalidScenario)
	}
	return b, nil
}

func formatHex(b []byte) string {
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("%02x", c)
	}
	return strings.Join(parts, " ")
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseScenario(f)
}

// ParseScenario decodes and validates a scenario.
func ParseScenario(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty scenario: %w", pkg.ErrInvalidScenario)
		}
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the scenario for structural errors.
func (sc *Scenario) Validate() error {
	if sc.Endpoints < 0 || sc.Endpoints > reg.MaxEndpoints {
		return fmt.Errorf("endpoints %d: %w", sc.Endpoints, pkg.ErrInvalidScenario)
	}
	if _, err := sc.EnumSpeed(); err != nil {
		return err
	}
	if len(sc.Steps) == 0 {
		return fmt.Errorf("no steps: %w", pkg.ErrInvalidScenario)
	}
	for i, st := range sc.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

// EnumSpeed returns the DSTS.ENUMSPD value of the scenario speed. The
// default is full speed.
func (sc *Scenario) EnumSpeed() (uint32, error) {
	switch strings.ToLower(sc.Speed) {
	case "", "full":
		return reg.EnumSpeedFull48, nil
	case "low":
		return reg.EnumSpeedLow, nil
	case "high":
		return reg.EnumSpeedHigh, nil
	default:
		return 0, fmt.Errorf("speed %q: %w", sc.Speed, pkg.ErrInvalidScenario)
	}
}

func (st Step) validate() error {
	n := 0
	for _, set := range []bool{
		st.Reset,
		st.Activate != nil,
		st.Setup != nil,
		st.Request != nil,
		st.Out != nil,
		st.Write != nil,
		st.TxEmpty != nil,
		st.InComplete != nil,
		st.Suspend,
		st.Wakeup,
		st.SOF != nil,
	} {
		if set {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("%d actions, want exactly one: %w", n, pkg.ErrInvalidScenario)
	}

	if st.Setup != nil && len(st.Setup) != 8 {
		return fmt.Errorf("setup is %d bytes, want 8: %w", len(st.Setup), pkg.ErrInvalidScenario)
	}
	if st.Activate != nil {
		if _, err := st.Activate.Endpoint(); err != nil {
			return err
		}
	}
	if st.Request != nil {
		if _, err := st.Request.Packet(); err != nil {
			return err
		}
	}
	return nil
}

// Action returns a short description of the step.
func (st Step) Action() string {
	if st.Name != "" {
		return st.Name
	}
	switch {
	case st.Reset:
		return "bus reset"
	case st.Activate != nil:
		return fmt.Sprintf("activate 0x%02X", st.Activate.Address)
	case st.Setup != nil:
		return "SETUP " + formatHex(st.Setup)
	case st.Request != nil:
		return "request " + strings.ToLower(st.Request.Name)
	case st.Out != nil:
		return fmt.Sprintf("OUT ep%d %d bytes", st.Out.Endpoint, len(st.Out.Data))
	case st.Write != nil:
		return fmt.Sprintf("write ep%d %d bytes", st.Write.Endpoint, len(st.Write.Data))
	case st.TxEmpty != nil:
		return fmt.Sprintf("TX FIFO empty ep%d", *st.TxEmpty)
	case st.InComplete != nil:
		return fmt.Sprintf("IN complete ep%d", *st.InComplete)
	case st.Suspend:
		return "suspend"
	case st.Wakeup:
		return "wakeup"
	case st.SOF != nil:
		return fmt.Sprintf("SOF %d", *st.SOF)
	default:
		return "nothing"
	}
}

// Endpoint converts e to a device.Endpoint.
func (e EndpointSpec) Endpoint() (device.Endpoint, error) {
	var typ uint8
	switch strings.ToLower(e.Type) {
	case "isochronous", "iso":
		typ = device.EndpointTypeIsochronous
	case "bulk":
		typ = device.EndpointTypeBulk
	case "interrupt":
		typ = device.EndpointTypeInterrupt
	default:
		return device.Endpoint{}, fmt.Errorf("endpoint type %q: %w", e.Type, pkg.ErrInvalidScenario)
	}
	if e.MaxPacket == 0 {
		return device.Endpoint{}, fmt.Errorf("endpoint 0x%02X has no max_packet: %w", e.Address, pkg.ErrInvalidScenario)
	}
	return device.Endpoint{Address: e.Address, Attributes: typ, MaxPacketSize: e.MaxPacket}, nil
}
