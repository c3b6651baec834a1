package device

import (
	"fmt"

	"github.com/ardnew/otgfs/device/hal"
)

// Standard USB request codes (USB 2.0 Spec Table 9-4).
const (
	RequestGetStatus        = 0x00
	RequestClearFeature     = 0x01
	RequestSetFeature       = 0x03
	RequestSetAddress       = 0x05
	RequestGetDescriptor    = 0x06
	RequestSetDescriptor    = 0x07
	RequestGetConfiguration = 0x08
	RequestSetConfiguration = 0x09
	RequestGetInterface     = 0x0A
	RequestSetInterface     = 0x0B
	RequestSynchFrame       = 0x0C
)

// Request type masks (USB 2.0 Spec Table 9-2).
const (
	RequestTypeDirectionMask = 0x80 // Direction bit mask
	RequestTypeTypeMask      = 0x60 // Type bits mask
	RequestTypeRecipientMask = 0x1F // Recipient bits mask
)

// Request type direction values.
const (
	RequestDirectionHostToDevice = 0x00 // Host to device
	RequestDirectionDeviceToHost = 0x80 // Device to host
)

// Request type values.
const (
	RequestTypeStandard = 0x00 // Standard request
	RequestTypeClass    = 0x20 // Class-specific request
	RequestTypeVendor   = 0x40 // Vendor-specific request
)

// Request recipient values.
const (
	RequestRecipientDevice    = 0x00 // Device recipient
	RequestRecipientInterface = 0x01 // Interface recipient
	RequestRecipientEndpoint  = 0x02 // Endpoint recipient
	RequestRecipientOther     = 0x03 // Other recipient
)

// RequestName returns the name of a standard request code.
func RequestName(code uint8) string {
	switch code {
	case RequestGetStatus:
		return "GET_STATUS"
	case RequestClearFeature:
		return "CLEAR_FEATURE"
	case RequestSetFeature:
		return "SET_FEATURE"
	case RequestSetAddress:
		return "SET_ADDRESS"
	case RequestGetDescriptor:
		return "GET_DESCRIPTOR"
	case RequestSetDescriptor:
		return "SET_DESCRIPTOR"
	case RequestGetConfiguration:
		return "GET_CONFIGURATION"
	case RequestSetConfiguration:
		return "SET_CONFIGURATION"
	case RequestGetInterface:
		return "GET_INTERFACE"
	case RequestSetInterface:
		return "SET_INTERFACE"
	case RequestSynchFrame:
		return "SYNCH_FRAME"
	default:
		return fmt.Sprintf("0x%02X", code)
	}
}

// DescribeSetup returns a human-readable representation of a setup packet.
// Standard requests are named; others show the raw request code.
func DescribeSetup(s hal.SetupPacket) string {
	dir := "OUT"
	if s.RequestType&RequestTypeDirectionMask == RequestDirectionDeviceToHost {
		dir = "IN"
	}
	reqType := "Standard"
	switch s.RequestType & RequestTypeTypeMask {
	case RequestTypeClass:
		reqType = "Class"
	case RequestTypeVendor:
		reqType = "Vendor"
	}
	recip := "Device"
	switch s.RequestType & RequestTypeRecipientMask {
	case RequestRecipientInterface:
		recip = "Interface"
	case RequestRecipientEndpoint:
		recip = "Endpoint"
	case RequestRecipientOther:
		recip = "Other"
	}

	req := fmt.Sprintf("0x%02X", s.Request)
	if reqType == "Standard" {
		req = RequestName(s.Request)
	}
	return fmt.Sprintf("SETUP[%s %s %s] %s Value=0x%04X Index=0x%04X Length=%d",
		dir, reqType, recip, req, s.Value, s.Index, s.Length)
}

// GetDescriptorSetup returns a GET_DESCRIPTOR setup packet.
func GetDescriptorSetup(descType, descIndex uint8, length uint16) hal.SetupPacket {
	return hal.SetupPacket{
		RequestType: RequestDirectionDeviceToHost | RequestTypeStandard | RequestRecipientDevice,
		Request:     RequestGetDescriptor,
		Value:       uint16(descType)<<8 | uint16(descIndex),
		Length:      length,
	}
}

// SetAddressSetup returns a SET_ADDRESS setup packet.
func SetAddressSetup(address uint8) hal.SetupPacket {
	return hal.SetupPacket{
		RequestType: RequestDirectionHostToDevice | RequestTypeStandard | RequestRecipientDevice,
		Request:     RequestSetAddress,
		Value:       uint16(address),
	}
}

// SetConfigurationSetup returns a SET_CONFIGURATION setup packet.
func SetConfigurationSetup(config uint8) hal.SetupPacket {
	return hal.SetupPacket{
		RequestType: RequestDirectionHostToDevice | RequestTypeStandard | RequestRecipientDevice,
		Request:     RequestSetConfiguration,
		Value:       uint16(config),
	}
}
