//go:build !linux
// +build !linux

package brcmfmac

import (
	"context"

	"github.com/loopholelabs/logging/types"
)

var _ osClient = &client{}

// A client is the no-op implementation of osClient on platforms without
// nl80211.
type client struct{}

func newClient(_ types.Logger) (*client, error) { return nil, ErrUnimplemented }

func (*client) interfaces(_ context.Context) ([]*Interface, error) { return nil, ErrUnimplemented }

func (*client) vendorCommand(_ context.Context, _ *Interface, _ uint32, _ bool, _ []byte, _ int32) ([]byte, error) {
	return nil, ErrUnimplemented
}
