package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ardnew/otgfs/device/hal/otgfs/reg"
	"github.com/ardnew/otgfs/pkg"
)

// field is one named field of a decoded register value.
type field struct {
	Name  string
	Value string
}

// gintstsNames lists the GINTSTS event bits in bit order.
var gintstsNames = []struct {
	bit  uint32
	name string
}{
	{reg.GINTSTS_MMIS, "MMIS"},
	{reg.GINTSTS_OTGINT, "OTGINT"},
	{reg.GINTSTS_SOF, "SOF"},
	{reg.GINTSTS_RXFLVL, "RXFLVL"},
	{reg.GINTSTS_NPTXFE, "NPTXFE"},
	{reg.GINTSTS_GINAKEFF, "GINAKEFF"},
	{reg.GINTSTS_GONAKEFF, "GONAKEFF"},
	{reg.GINTSTS_ESUSP, "ESUSP"},
	{reg.GINTSTS_USBSUSP, "USBSUSP"},
	{reg.GINTSTS_USBRST, "USBRST"},
	{reg.GINTSTS_ENUMDNE, "ENUMDNE"},
	{reg.GINTSTS_ISOODRP, "ISOODRP"},
	{reg.GINTSTS_EOPF, "EOPF"},
	{reg.GINTSTS_IEPINT, "IEPINT"},
	{reg.GINTSTS_OEPINT, "OEPINT"},
	{reg.GINTSTS_IISOIXFR, "IISOIXFR"},
	{reg.GINTSTS_IPXFR, "IPXFR"},
	{reg.GINTSTS_SRQINT, "SRQINT"},
	{reg.GINTSTS_WKUPINT, "WKUPINT"},
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <register> <value>",
		Short: "Print the fields of a register value",
		Long: "Print the named fields of a GINTSTS, DAINT, GRXSTS or DSTS value. " +
			"The value may be decimal, or hexadecimal with a 0x prefix.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseUint(args[1], 0, 32)
			if err != nil {
				return fmt.Errorf("value %q: %w", args[1], pkg.ErrInvalidParameter)
			}
			fields, err := decodeRegister(args[0], uint32(v))
			if err != nil {
				return err
			}
			for _, f := range fields {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", f.Name, f.Value)
			}
			return nil
		},
	}
}

func decodeRegister(name string, v uint32) ([]field, error) {
	switch strings.ToUpper(name) {
	case "GINTSTS", "GINTMSK":
		return decodeInterruptStatus(v), nil
	case "DAINT", "DAINTMSK":
		return []field{
			{"IN", endpointList(reg.InEndpoints(v))},
			{"OUT", endpointList(reg.OutEndpoints(v))},
		}, nil
	case "GRXSTS", "GRXSTSR", "GRXSTSP":
		return []field{
			{"EPNUM", strconv.Itoa(int(reg.PacketEndpoint(v)))},
			{"BCNT", strconv.Itoa(int(reg.PacketCount(v)))},
			{"DPID", fmt.Sprintf("DATA%d", reg.PacketDataPID(v))},
			{"PKTSTS", fmt.Sprintf("%d (%v)", reg.PacketStatusOf(v), reg.PacketStatusOf(v))},
		}, nil
	case "DSTS":
		return []field{
			{"SUSPSTS", strconv.FormatBool(v&reg.DSTS_SUSPSTS != 0)},
			{"ENUMSPD", fmt.Sprintf("%d (%s)", reg.EnumSpeed(v), enumSpeedName(reg.EnumSpeed(v)))},
			{"FNSOF", strconv.Itoa(int(reg.FrameNumber(v)))},
		}, nil
	default:
		return nil, fmt.Errorf("register %q: %w", name, pkg.ErrInvalidParameter)
	}
}

func decodeInterruptStatus(v uint32) []field {
	var set []string
	for _, b := range gintstsNames {
		if v&b.bit != 0 {
			set = append(set, b.name)
		}
	}
	mode := "device"
	if v&reg.GINTSTS_CMOD != 0 {
		mode = "host"
	}
	return []field{
		{"MODE", mode},
		{"PENDING", listOrNone(set)},
	}
}

func endpointList(bits uint16) string {
	var eps []string
	for n := 0; bits != 0; n, bits = n+1, bits>>1 {
		if bits&1 != 0 {
			eps = append(eps, strconv.Itoa(n))
		}
	}
	return listOrNone(eps)
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, " ")
}

func enumSpeedName(enumspd uint32) string {
	switch enumspd {
	case reg.EnumSpeedHigh:
		return "high"
	case reg.EnumSpeedFull30, reg.EnumSpeedFull48:
		return "full"
	case reg.EnumSpeedLow:
		return "low"
	default:
		return "unknown"
	}
}
