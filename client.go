package brcmfmac

import (
	"context"
	"fmt"

	"github.com/loopholelabs/logging/types"
	"github.com/mdlayher/brcmfmac/internal/brcmf"
)

// errNilInterface is returned when a vendor command has no target.
var errNilInterface = fmt.Errorf("%w: nil Interface", ErrInterfaceNotFound)

// btcMode is the iovar which stores the Bluetooth coexistence mode.
const btcMode = "btc_mode"

// An osClient is the operating system-specific implementation of Client.
type osClient interface {
	// vendorCommand executes a single brcmfmac dongle command and returns
	// any bytes the firmware sent back.
	vendorCommand(ctx context.Context, ifi *Interface, cmd uint32, set bool, payload []byte, retLen int32) ([]byte, error)

	interfaces(ctx context.Context) ([]*Interface, error)
}

// Config configures a Client. The zero value is valid.
type Config struct {
	// GetBufferLen is the minimum buffer length requested from firmware
	// when reading an iovar. If zero, DefaultGetBufferLen is used. Values
	// below DefaultGetBufferLen are rejected.
	GetBufferLen int

	// Logger, if set, receives debug logs for each vendor command.
	Logger types.Logger
}

// A Client reads and writes firmware iovars of brcmfmac interfaces.
//
// Each method opens its own netlink connection and closes it before
// returning, so a Client is safe for concurrent use.
type Client struct {
	c      osClient
	getLen int
	log    types.Logger
}

// New creates a new Client. cfg may be nil to use the defaults.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	getLen := cfg.GetBufferLen
	switch {
	case getLen == 0:
		getLen = DefaultGetBufferLen
	case getLen < DefaultGetBufferLen || getLen > brcmf.DCmdMaxLen:
		return nil, fmt.Errorf("brcmfmac: get buffer length %d out of range [%d, %d]",
			getLen, DefaultGetBufferLen, brcmf.DCmdMaxLen)
	}

	c, err := newClient(cfg.Logger)
	if err != nil {
		return nil, err
	}

	return &Client{
		c:      c,
		getLen: getLen,
		log:    cfg.Logger,
	}, nil
}

// Interfaces returns a list of the system's nl80211 interfaces.
func (c *Client) Interfaces(ctx context.Context) ([]*Interface, error) {
	return c.c.interfaces(ctx)
}

// InterfaceByName returns the nl80211 interface with the specified name.
// If none exists, an error wrapping ErrInterfaceNotFound is returned.
func (c *Client) InterfaceByName(ctx context.Context, name string) (*Interface, error) {
	ifis, err := c.c.interfaces(ctx)
	if err != nil {
		return nil, err
	}

	for _, ifi := range ifis {
		if ifi.Name == name {
			return ifi, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrInterfaceNotFound, name)
}

// GetInt reads the 32-bit integer iovar name from the firmware behind ifi.
//
// A response shorter than 4 bytes produces an error wrapping
// ErrInsufficientData. Errors signaled by the kernel or firmware are
// returned as *RemoteError.
func (c *Client) GetInt(ctx context.Context, ifi *Interface, name string) (uint32, error) {
	if ifi == nil {
		return 0, errNilInterface
	}

	payload, retLen, err := getIntRequest(name, c.getLen)
	if err != nil {
		return 0, err
	}

	b, err := c.c.vendorCommand(ctx, ifi, brcmf.CmdGetVar, false, payload, retLen)
	if err != nil {
		return 0, err
	}

	v, err := decodeUint32(b)
	if err != nil {
		return 0, fmt.Errorf("get %q: %w", name, err)
	}

	if c.log != nil {
		c.log.Debug().
			Str("iovar", name).
			Int64("value", int64(v)).
			Int("response", len(b)).
			Msg("get_int")
	}

	return v, nil
}

// SetInt writes value to the 32-bit integer iovar name of the firmware
// behind ifi. Any bytes returned by the firmware are ignored.
func (c *Client) SetInt(ctx context.Context, ifi *Interface, name string, value uint32) error {
	if ifi == nil {
		return errNilInterface
	}

	payload, err := setIntRequest(name, value)
	if err != nil {
		return err
	}

	// Firmware needs no scratch space beyond the payload for a set.
	if _, err := c.c.vendorCommand(ctx, ifi, brcmf.CmdSetVar, true, payload, int32(len(payload))); err != nil {
		return err
	}

	if c.log != nil {
		c.log.Debug().
			Str("iovar", name).
			Int64("value", int64(value)).
			Msg("set_int")
	}

	return nil
}

// BTCoexMode reads the Bluetooth coexistence mode of ifi.
func (c *Client) BTCoexMode(ctx context.Context, ifi *Interface) (BTCoexMode, error) {
	v, err := c.GetInt(ctx, ifi, btcMode)
	if err != nil {
		return 0, err
	}

	return BTCoexMode(v), nil
}

// SetBTCoexMode sets the Bluetooth coexistence mode of ifi.
func (c *Client) SetBTCoexMode(ctx context.Context, ifi *Interface, mode BTCoexMode) error {
	return c.SetInt(ctx, ifi, btcMode, uint32(mode))
}
