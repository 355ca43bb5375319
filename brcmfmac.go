// Package brcmfmac provides access to Broadcom FullMAC firmware variables
// ("iovars") through the mainline brcmfmac driver's nl80211 vendor command
// interface.
//
// No proprietary tooling or kernel patches are required, but the caller
// must hold CAP_NET_ADMIN.
package brcmfmac

import (
	"errors"
	"fmt"
	"net"
	"syscall"
)

// Errors which may be returned by Client methods. Use errors.Is to check for
// them, as they are usually wrapped with more detail.
var (
	// ErrResourceExhausted indicates that a netlink socket could not be
	// allocated.
	ErrResourceExhausted = errors.New("unable to allocate netlink resources")

	// ErrTransportUnavailable indicates that the nl80211 generic netlink
	// family could not be resolved, usually because cfg80211 is not loaded.
	ErrTransportUnavailable = errors.New("nl80211 not available")

	// ErrSendFailure indicates that the kernel rejected the request message.
	ErrSendFailure = errors.New("failed to send vendor command")

	// ErrReceiveFailure indicates that the netlink socket failed while
	// waiting for a reply, such as on a deadline or a receive buffer
	// overrun. Errors reported by the kernel are *RemoteError instead.
	ErrReceiveFailure = errors.New("failed to receive vendor command reply")

	// ErrInsufficientData indicates that the firmware returned fewer bytes
	// than required to decode the requested type.
	ErrInsufficientData = errors.New("insufficient data in firmware response")

	// ErrInterfaceNotFound indicates that no nl80211 interface matched the
	// requested name.
	ErrInterfaceNotFound = errors.New("interface not found")

	// ErrInvalidName indicates an iovar name which cannot be sent to
	// firmware.
	ErrInvalidName = errors.New("invalid iovar name")

	// ErrUnimplemented is returned on platforms without nl80211.
	ErrUnimplemented = errors.New("not implemented on this platform")
)

// A RemoteError is a negative error code signaled by the kernel, the driver
// or the firmware in response to a vendor command.
type RemoteError struct {
	// Code is the negative errno value carried by the netlink error message.
	Code int
}

// Error implements error.
func (e *RemoteError) Error() string {
	return fmt.Sprintf("%d (%s)", e.Code, e.Errno().Error())
}

// Errno returns the positive system error number for e.
func (e *RemoteError) Errno() syscall.Errno {
	code := e.Code
	if code < 0 {
		code = -code
	}

	return syscall.Errno(code)
}

// Unwrap returns the underlying system error number, which allows checks
// such as errors.Is(err, os.ErrPermission).
func (e *RemoteError) Unwrap() error { return e.Errno() }

// An InterfaceType is the operating mode of an Interface.
//
// The ordering of values matches nl80211's interface type constants.
type InterfaceType int

// Possible InterfaceType values.
const (
	InterfaceTypeUnspecified InterfaceType = iota
	InterfaceTypeAdHoc
	InterfaceTypeStation
	InterfaceTypeAP
	InterfaceTypeAPVLAN
	InterfaceTypeWDS
	InterfaceTypeMonitor
	InterfaceTypeMeshPoint
	InterfaceTypeP2PClient
	InterfaceTypeP2PGroupOwner
	InterfaceTypeP2PDevice
	InterfaceTypeOCB
	InterfaceTypeNAN
)

var interfaceTypeNames = [...]string{
	InterfaceTypeUnspecified:   "unspecified",
	InterfaceTypeAdHoc:         "ad-hoc",
	InterfaceTypeStation:       "station",
	InterfaceTypeAP:            "access point",
	InterfaceTypeAPVLAN:        "access point/VLAN",
	InterfaceTypeWDS:           "wireless distribution",
	InterfaceTypeMonitor:       "monitor",
	InterfaceTypeMeshPoint:     "mesh point",
	InterfaceTypeP2PClient:     "P2P client",
	InterfaceTypeP2PGroupOwner: "P2P group owner",
	InterfaceTypeP2PDevice:     "P2P device",
	InterfaceTypeOCB:           "outside context of BSS",
	InterfaceTypeNAN:           "near-me area network",
}

// String returns the string representation of an InterfaceType.
func (t InterfaceType) String() string {
	if t < 0 || int(t) >= len(interfaceTypeNames) {
		return fmt.Sprintf("unknown(%d)", t)
	}

	return interfaceTypeNames[t]
}

// An Interface is a WiFi network interface managed by nl80211.
type Interface struct {
	// The index of the interface.
	Index int

	// The name of the interface.
	Name string

	// The hardware address of the interface.
	HardwareAddr net.HardwareAddr

	// The physical device that this interface belongs to.
	PHY int

	// The virtual device number of this interface within a PHY.
	Device int

	// The operating mode of the interface.
	Type InterfaceType
}

// A BTCoexMode is a Bluetooth coexistence mode, as stored in the btc_mode
// iovar.
type BTCoexMode uint32

// Known BTCoexMode values.
const (
	// BTCoexDisabled disables Bluetooth coexistence.
	BTCoexDisabled BTCoexMode = 0

	// BTCoexDefault enables basic coexistence.
	BTCoexDefault BTCoexMode = 1

	// BTCoexSerial enables SECI-based serial coexistence.
	BTCoexSerial BTCoexMode = 2

	// BTCoexFullTDM enables full time-division multiplexing, which is the
	// recommended mode for A2DP audio streaming.
	BTCoexFullTDM BTCoexMode = 4
)

// String returns the string representation of a BTCoexMode.
func (m BTCoexMode) String() string {
	switch m {
	case BTCoexDisabled:
		return "disabled"
	case BTCoexDefault:
		return "default"
	case BTCoexSerial:
		return "serial"
	case BTCoexFullTDM:
		return "full TDM"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(m))
	}
}
