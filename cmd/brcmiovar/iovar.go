package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/loopholelabs/logging"
	"github.com/loopholelabs/logging/types"
	"github.com/mdlayher/brcmfmac"
	"github.com/mdlayher/brcmfmac/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// errUsage indicates invalid arguments; usage text has already been written.
var errUsage = errors.New("invalid arguments")

// An iovarClient is the subset of *brcmfmac.Client used by brcmiovar.
type iovarClient interface {
	InterfaceByName(ctx context.Context, name string) (*brcmfmac.Interface, error)
	GetInt(ctx context.Context, ifi *brcmfmac.Interface, name string) (uint32, error)
	SetInt(ctx context.Context, ifi *brcmfmac.Interface, name string, value uint32) error
}

// A clientFunc creates an iovarClient.
type clientFunc func(cfg *brcmfmac.Config) (iovarClient, error)

func newClient(cfg *brcmfmac.Config) (iovarClient, error) {
	return brcmfmac.New(cfg)
}

func runIovar(cmd *cobra.Command, args []string, f *flags, newClient clientFunc) error {
	if len(args) < 3 {
		return usage(cmd, "")
	}

	ifname, command, iovar := args[0], args[1], args[2]

	var value uint32
	switch command {
	case "get_int":
	case "set_int":
		if len(args) < 4 {
			return usage(cmd, "set_int requires a value argument")
		}

		v, err := parseValue(args[3])
		if err != nil {
			return err
		}
		value = v
	default:
		return usage(cmd, fmt.Sprintf("Unknown command '%s'", command))
	}

	cfg, err := config.Read(f.config, cmd.Flags().Changed("config"))
	if err != nil {
		return errors.Wrap(err, "failed to read configuration")
	}

	log, err := newLogger(cfg, f.debug)
	if err != nil {
		return err
	}

	getLen := cfg.GetBufferLen
	if cmd.Flags().Changed("get-buffer-len") {
		getLen = f.getBufferLen
	}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("timeout") {
		timeout = f.timeout
	}

	ccfg := &brcmfmac.Config{GetBufferLen: getLen}
	if log != nil {
		ccfg.Logger = log
	}

	c, err := newClient(ccfg)
	if err != nil {
		return errors.Wrap(err, "failed to create client")
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ifi, err := c.InterfaceByName(ctx, ifname)
	if err != nil {
		return err
	}

	if log != nil {
		log.Debug().
			Str("interface", ifi.Name).
			Int("ifindex", ifi.Index).
			Str("type", ifi.Type.String()).
			Msg("resolved interface")
	}

	out := cmd.OutOrStdout()

	if command == "get_int" {
		v, err := c.GetInt(ctx, ifi, iovar)
		if err != nil {
			return errors.Wrapf(err, "GET_VAR '%s' failed", iovar)
		}

		fmt.Fprintf(out, "%s = %d\n", iovar, v)
		return nil
	}

	if err := c.SetInt(ctx, ifi, iovar, value); err != nil {
		return errors.Wrapf(err, "SET_VAR '%s' = %d failed", iovar, value)
	}

	fmt.Fprintf(out, "%s set to %d\n", iovar, value)
	return nil
}

// usage writes an optional message and the usage text to the error stream.
func usage(cmd *cobra.Command, msg string) error {
	w := cmd.ErrOrStderr()
	if msg != "" {
		fmt.Fprintf(w, "ERROR: %s\n", msg)
	}

	cmd.SetOut(w)
	_ = cmd.Usage()

	return errUsage
}

// parseValue parses an unsigned 32-bit value in decimal, hexadecimal (0x) or
// octal (leading 0) notation. A leading minus sign negates the value modulo
// 2^32, so -1 is 4294967295.
func parseValue(s string) (uint32, error) {
	digits, neg := strings.CutPrefix(s, "-")

	v, err := strconv.ParseUint(digits, 0, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid value %q", s)
	}

	if neg {
		return -uint32(v), nil
	}

	return uint32(v), nil
}

// newLogger returns a logger if debug output was requested, or nil.
func newLogger(cfg *config.Config, debug bool) (types.RootLogger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	if debug {
		level = types.TraceLevel
	}

	if level == types.InfoLevel {
		return nil, nil
	}

	log := logging.New(logging.Zerolog, "brcmiovar", os.Stderr)
	log.SetLevel(level)

	return log, nil
}

// reported reports whether err was already written to the error stream.
func reported(err error) bool { return errors.Is(err, errUsage) }
