// Package brcmf contains protocol constants shared with the mainline
// brcmfmac driver's nl80211 vendor command interface.
//
// Values are taken from drivers/net/wireless/broadcom/brcm80211/brcmfmac
// (vendor.c, vendor.h and fwil.h) and must match the kernel exactly.
package brcmf

// OUI is the Broadcom organizationally unique identifier used as the
// nl80211 vendor ID.
const OUI = 0x001018

// brcmf_vndr_cmds enumeration from vendor.h.
const (
	VendorCmdUnspec = iota
	VendorCmdDCmd
)

// brcmf_nlattrs enumeration from vendor.h, used inside
// NL80211_ATTR_VENDOR_DATA of vendor command replies.
const (
	AttrUnspec = iota
	AttrLen
	AttrData
)

// Firmware interface layer commands from fwil.h.
const (
	CmdGetVar = 262
	CmdSetVar = 263
)

// DCmdMaxLen is the largest buffer the driver will pass to firmware for a
// single dongle command.
const DCmdMaxLen = 8192
