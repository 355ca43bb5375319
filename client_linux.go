//go:build linux
// +build linux

package brcmfmac

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/loopholelabs/logging/types"
	"github.com/mdlayher/brcmfmac/internal/brcmf"
	"github.com/mdlayher/genetlink"
	"github.com/mdlayher/netlink"
	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"
)

var _ osClient = &client{}

// A client is the Linux implementation of osClient, which makes use of
// netlink, generic netlink, and nl80211 vendor commands to reach brcmfmac
// firmware.
type client struct {
	// dial opens a fresh generic netlink socket for each request.
	dial func() (*netlink.Conn, error)
	log  types.Logger
}

// newClient creates a client which dials the kernel's generic netlink
// socket.
func newClient(log types.Logger) (*client, error) {
	return &client{
		dial: dialGeneric,
		log:  log,
	}, nil
}

// dialGeneric dials a generic netlink socket.
func dialGeneric() (*netlink.Conn, error) {
	c, err := netlink.Dial(unix.NETLINK_GENERIC, nil)
	if err != nil {
		return nil, err
	}

	// Make a best effort to apply the strict options set to provide better
	// errors and validation, as older kernels may not support them.
	for _, o := range []netlink.ConnOption{
		netlink.ExtendedAcknowledge,
		netlink.GetStrictCheck,
	} {
		_ = c.SetOption(o, true)
	}

	return c, nil
}

// open dials a connection and resolves the nl80211 family. The caller must
// close the returned connection.
func (c *client) open(ctx context.Context) (*netlink.Conn, *genetlink.Conn, genetlink.Family, error) {
	nc, err := c.dial()
	if err != nil {
		return nil, nil, genetlink.Family{}, fmt.Errorf("%w: %w", ErrResourceExhausted, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := nc.SetDeadline(deadline); err != nil {
			_ = nc.Close()
			return nil, nil, genetlink.Family{}, err
		}
	}

	gc := genetlink.NewConn(nc)
	family, err := gc.GetFamily(unix.NL80211_GENL_NAME)
	if err != nil {
		// Ensure the socket is closed on error to avoid leaking file
		// descriptors.
		_ = nc.Close()
		return nil, nil, genetlink.Family{}, fmt.Errorf("%w: %w", ErrTransportUnavailable, err)
	}

	return nc, gc, family, nil
}

// interfaces requests that nl80211 return a list of all WiFi interfaces
// present on this system.
func (c *client) interfaces(ctx context.Context) ([]*Interface, error) {
	nc, gc, family, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer nc.Close()

	msgs, err := gc.Execute(
		genetlink.Message{
			Header: genetlink.Header{
				Command: unix.NL80211_CMD_GET_INTERFACE,
				Version: family.Version,
			},
		},
		family.ID,
		netlink.Request|netlink.Dump,
	)
	if err != nil {
		return nil, err
	}

	return parseInterfaces(msgs)
}

// vendorCommand sends one NL80211_CMD_VENDOR request carrying a brcmfmac
// dongle command and blocks until the kernel produces a terminal reply.
func (c *client) vendorCommand(
	ctx context.Context,
	ifi *Interface,
	cmd uint32,
	set bool,
	payload []byte,
	retLen int32,
) ([]byte, error) {
	nc, gc, family, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer nc.Close()

	data := vendorData(cmd, set, payload, retLen)

	ae := netlink.NewAttributeEncoder()
	ifi.encode(ae)
	ae.Uint32(unix.NL80211_ATTR_VENDOR_ID, brcmf.OUI)
	ae.Uint32(unix.NL80211_ATTR_VENDOR_SUBCMD, brcmf.VendorCmdDCmd)
	ae.Bytes(unix.NL80211_ATTR_VENDOR_DATA, data)

	b, err := ae.Encode()
	if err != nil {
		return nil, err
	}

	if c.log != nil {
		c.log.Debug().
			Int("ifindex", ifi.Index).
			Int64("cmd", int64(cmd)).
			Int64("len", int64(retLen)).
			Int("payload", len(payload)).
			Msg("sending vendor command")
	}

	// Ask for an acknowledgement: set commands may produce no other reply.
	req, err := gc.Send(
		genetlink.Message{
			Header: genetlink.Header{
				Command: unix.NL80211_CMD_VENDOR,
				Version: family.Version,
			},
			Data: b,
		},
		family.ID,
		netlink.Request|netlink.Acknowledge,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSendFailure, err)
	}

	var r response
	dispatch := func(e event) {
		r.dispatch(e)

		if c.log != nil {
			c.log.Debug().
				Str("event", e.kind.String()).
				Str("state", r.state.String()).
				Msg("vendor command reply")
		}
	}

	for r.pending() {
		msgs, err := nc.Receive()
		if err != nil {
			if code, ok := replyErrno(err); ok {
				dispatch(event{kind: eventError, code: code})
			} else {
				r.fail(fmt.Errorf("%w: %w", ErrReceiveFailure, err))
			}
			break
		}

		if err := netlink.Validate(req, msgs); err != nil {
			r.fail(err)
			break
		}

		for _, m := range msgs {
			dispatch(classify(m))
		}

		// Receive only returns a multi-part reply once it has read the
		// terminating done message, which it drops.
		if n := len(msgs); n > 0 && msgs[n-1].Header.Flags&netlink.Multi != 0 {
			dispatch(event{kind: eventFinish})
		}
	}

	return r.result()
}

// replyErrno returns the negative error number carried by a netlink error
// message in reply to a request. Socket errors such as ENOBUFS reach the
// caller wrapped in *os.SyscallError and are not replies.
func replyErrno(err error) (int, bool) {
	var oerr *netlink.OpError
	if !errors.As(err, &oerr) {
		return 0, false
	}

	errno, ok := oerr.Err.(unix.Errno)
	if !ok {
		return 0, false
	}

	return -int(errno), true
}

// classify maps a reply message to the event it represents. Error messages
// with a non-zero code never reach classify, as netlink.Conn.Receive turns
// them into errors.
func classify(m netlink.Message) event {
	switch m.Header.Type {
	case netlink.Error:
		return event{kind: eventAck}
	case netlink.Done:
		return event{kind: eventFinish}
	}

	var gm genetlink.Message
	if err := gm.UnmarshalBinary(m.Data); err != nil {
		return event{kind: eventValid, err: err}
	}

	b, err := parseVendorReply(gm.Data)
	if err != nil {
		return event{kind: eventValid, err: err}
	}

	return event{kind: eventValid, data: b}
}

// parseVendorReply extracts the BRCMF_NLATTR_DATA chunk nested in the
// NL80211_ATTR_VENDOR_DATA attribute of a vendor command reply.
func parseVendorReply(b []byte) ([]byte, error) {
	ad, err := netlink.NewAttributeDecoder(b)
	if err != nil {
		return nil, err
	}

	var (
		found bool
		data  []byte
	)

	for ad.Next() {
		if ad.Type() != unix.NL80211_ATTR_VENDOR_DATA {
			continue
		}

		found = true
		ad.Nested(func(nad *netlink.AttributeDecoder) error {
			for nad.Next() {
				if nad.Type() == brcmf.AttrData {
					data = nad.Bytes()
					return nil
				}
			}

			return nil
		})
	}

	if err := ad.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, &RemoteError{Code: -int(unix.ENODATA)}
	}

	return data, nil
}

// parseInterfaces parses zero or more Interfaces from nl80211 interface
// messages.
func parseInterfaces(msgs []genetlink.Message) ([]*Interface, error) {
	ifis := make([]*Interface, 0, len(msgs))
	for _, m := range msgs {
		attrs, err := netlink.UnmarshalAttributes(m.Data)
		if err != nil {
			return nil, err
		}

		var ifi Interface
		(&ifi).parseAttributes(attrs)

		ifis = append(ifis, &ifi)
	}

	return ifis, nil
}

// encode provides an encoding function for ifi's attributes. If ifi is nil,
// encode is a no-op.
func (ifi *Interface) encode(ae *netlink.AttributeEncoder) {
	if ifi == nil {
		return
	}

	ae.Uint32(unix.NL80211_ATTR_IFINDEX, uint32(ifi.Index))
}

// parseAttributes parses netlink attributes into an Interface's fields.
func (ifi *Interface) parseAttributes(attrs []netlink.Attribute) {
	for _, a := range attrs {
		switch a.Type {
		case unix.NL80211_ATTR_IFINDEX:
			ifi.Index = int(nlenc.Uint32(a.Data))
		case unix.NL80211_ATTR_IFNAME:
			ifi.Name = nlenc.String(a.Data)
		case unix.NL80211_ATTR_MAC:
			ifi.HardwareAddr = net.HardwareAddr(a.Data)
		case unix.NL80211_ATTR_WIPHY:
			ifi.PHY = int(nlenc.Uint32(a.Data))
		case unix.NL80211_ATTR_IFTYPE:
			ifi.Type = InterfaceType(nlenc.Uint32(a.Data))
		case unix.NL80211_ATTR_WDEV:
			ifi.Device = int(nlenc.Uint64(a.Data))
		}
	}
}
