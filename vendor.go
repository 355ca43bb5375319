package brcmfmac

import (
	"errors"

	"github.com/josharian/native"
)

// vendorHeaderLen is the size of struct brcmf_vndr_dcmd_hdr.
const vendorHeaderLen = 20

var errShortVendorHeader = errors.New("vendor command header too short")

// A vendorHeader is the kernel's struct brcmf_vndr_dcmd_hdr, which prefixes
// the payload of every brcmfmac dongle command. The driver reads it in place,
// so fields are encoded in host byte order.
type vendorHeader struct {
	// Firmware command: brcmf.CmdGetVar or brcmf.CmdSetVar.
	Cmd uint32

	// Size of the buffer the firmware should allocate and return.
	Len int32

	// Offset of the payload within the vendor data blob.
	Offset uint32

	// 0 for get, 1 for set.
	Set uint32

	// Not validated by the mainline driver; always zero.
	Magic uint32
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (h vendorHeader) MarshalBinary() ([]byte, error) {
	b := make([]byte, vendorHeaderLen)
	h.put(b)
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (h *vendorHeader) UnmarshalBinary(b []byte) error {
	if len(b) < vendorHeaderLen {
		return errShortVendorHeader
	}

	*h = vendorHeader{
		Cmd:    native.Endian.Uint32(b[0:4]),
		Len:    int32(native.Endian.Uint32(b[4:8])),
		Offset: native.Endian.Uint32(b[8:12]),
		Set:    native.Endian.Uint32(b[12:16]),
		Magic:  native.Endian.Uint32(b[16:20]),
	}

	return nil
}

func (h vendorHeader) put(b []byte) {
	native.Endian.PutUint32(b[0:4], h.Cmd)
	native.Endian.PutUint32(b[4:8], uint32(h.Len))
	native.Endian.PutUint32(b[8:12], h.Offset)
	native.Endian.PutUint32(b[12:16], h.Set)
	native.Endian.PutUint32(b[16:20], h.Magic)
}

// vendorData builds the blob carried in NL80211_ATTR_VENDOR_DATA: a header
// immediately followed by payload.
func vendorData(cmd uint32, set bool, payload []byte, retLen int32) []byte {
	h := vendorHeader{
		Cmd:    cmd,
		Len:    retLen,
		Offset: vendorHeaderLen,
	}
	if set {
		h.Set = 1
	}

	b := make([]byte, vendorHeaderLen+len(payload))
	h.put(b)
	copy(b[vendorHeaderLen:], payload)

	return b
}
