package brcmfmac

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/mdlayher/brcmfmac/internal/brcmf"
)

// DefaultGetBufferLen is the default size of the buffer requested from
// firmware when reading an iovar.
//
// Firmware reuses the request buffer to write back its response, but the
// minimum it requires is not documented; this value is an empirical floor,
// not a verified contract.
const DefaultGetBufferLen = 256

// uint32Len is the size of a 32-bit integer iovar value.
const uint32Len = 4

// iovarName returns name with its NUL terminator, as firmware expects.
func iovarName(name string) ([]byte, error) {
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: empty name", ErrInvalidName)
	case strings.IndexByte(name, 0) != -1:
		return nil, fmt.Errorf("%w: %q contains NUL", ErrInvalidName, name)
	case len(name)+1+uint32Len > brcmf.DCmdMaxLen:
		return nil, fmt.Errorf("%w: %d bytes exceeds driver maximum of %d",
			ErrInvalidName, len(name)+1, brcmf.DCmdMaxLen)
	}

	b := make([]byte, len(name)+1)
	copy(b, name)
	return b, nil
}

// getReturnLen computes the buffer length requested when reading an iovar
// whose NUL-terminated name is nameLen bytes. floor is raised to hold both
// the name and an integer response when the name does not fit.
func getReturnLen(nameLen, floor int) int32 {
	if nameLen > floor {
		return int32(nameLen + uint32Len)
	}

	return int32(floor)
}

// getIntRequest packs the payload and return length of a GET_VAR for a
// 32-bit integer.
func getIntRequest(name string, floor int) ([]byte, int32, error) {
	b, err := iovarName(name)
	if err != nil {
		return nil, 0, err
	}

	return b, getReturnLen(len(b), floor), nil
}

// setIntRequest packs the payload of a SET_VAR for a 32-bit integer: the
// terminated name immediately followed by the little-endian value.
func setIntRequest(name string, value uint32) ([]byte, error) {
	b, err := iovarName(name)
	if err != nil {
		return nil, err
	}

	return binary.LittleEndian.AppendUint32(b, value), nil
}

// decodeUint32 decodes a little-endian 32-bit integer from the start of a
// firmware response.
func decodeUint32(b []byte) (uint32, error) {
	if len(b) < uint32Len {
		return 0, fmt.Errorf("%w: got %d bytes, need %d",
			ErrInsufficientData, len(b), uint32Len)
	}

	return binary.LittleEndian.Uint32(b[:uint32Len]), nil
}
