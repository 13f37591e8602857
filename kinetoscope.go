// Package kinetoscope provides a Go library that emulates the Sega
// Kinetoscope streaming cartridge: a register-backed command processor
// that drives a double-buffered SRAM fill pipeline from a canned-video
// HTTP server, exactly as the original microcontroller firmware does.
//
// Basic usage:
//
//	dev, err := kinetoscope.New(
//	    kinetoscope.WithServerHost("storage.googleapis.com"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	dev.WritePort(kinetoscope.PortCommand, uint16(kinetoscope.CmdStartVideo))
//	dev.WritePort(kinetoscope.PortArg, 0)
//	dev.WritePort(kinetoscope.PortToken, kinetoscope.TokenDeviceOwned)
package kinetoscope

import (
	"time"

	"github.com/joeyparrish/kinetoscope/internal/clock"
	"github.com/joeyparrish/kinetoscope/internal/config"
	"github.com/joeyparrish/kinetoscope/internal/registers"
	"github.com/joeyparrish/kinetoscope/internal/reporter"
	"github.com/joeyparrish/kinetoscope/internal/sram"
)

// Port offsets and command codes, re-exported so callers never need to
// import internal/registers directly.
const (
	PortCommand = registers.PortCommand
	PortArg     = registers.PortArg
	PortToken   = registers.PortToken
	PortError   = registers.PortError

	TokenConsoleOwned = registers.TokenConsoleOwned
	TokenDeviceOwned  = registers.TokenDeviceOwned

	CmdEcho       = registers.CmdEcho
	CmdListVideos = registers.CmdListVideos
	CmdStartVideo = registers.CmdStartVideo
	CmdStopVideo  = registers.CmdStopVideo
	CmdFlipRegion = registers.CmdFlipRegion
	CmdGetError   = registers.CmdGetError
	CmdConnectNet = registers.CmdConnectNet
	CmdMarchTest  = registers.CmdMarchTest
)

// Bank layout, re-exported from internal/sram for callers reading the
// data window directly instead of through the port protocol.
const (
	BankSize        = sram.BankSize
	Bank0HostOffset = sram.Bank0HostOffset
	Bank1HostOffset = sram.Bank1HostOffset
)

// Device is the emulated Kinetoscope cartridge. It owns the shared SRAM
// buffer, the HTTP fetcher, and the command/argument/token/error
// registers the console drives it through.
type Device struct {
	reg *registers.Device
	buf *sram.Buffer
}

// Option configures a Device before construction.
type Option func(*config.Config)

// New allocates a Device's SRAM buffer and constructs its command
// processor with the given options applied over the default
// configuration (the real canned-video CDN, a 1ms read backoff, and the
// emulator's 100ms simulated dispatch delay).
func New(opts ...Option) (*Device, error) {
	cfg := config.NewConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	buf, err := sram.NewBuffer()
	if err != nil {
		return nil, err
	}

	return &Device{
		reg: registers.NewDevice(cfg, buf, clock.Real{}, reporter.NullReporter{}),
		buf: buf,
	}, nil
}

// NewWithReporter is like New but routes device activity events to rep
// instead of discarding them.
func NewWithReporter(rep Reporter, opts ...Option) (*Device, error) {
	cfg := config.NewConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	buf, err := sram.NewBuffer()
	if err != nil {
		return nil, err
	}
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	return &Device{
		reg: registers.NewDevice(cfg, buf, clock.Real{}, rep),
		buf: buf,
	}, nil
}

// NewWithEventHandler is like New but routes device activity events
// through handler as JSON-taggable Event values, for callers (e.g. a
// Spindle-style integration) that want events without depending on
// internal/reporter.
func NewWithEventHandler(handler EventHandler, opts ...Option) (*Device, error) {
	var rep Reporter = reporter.NullReporter{}
	if handler != nil {
		rep = newEventReporter(handler)
	}
	return NewWithReporter(rep, opts...)
}

// WithServerHost sets the canned-video CDN host.
func WithServerHost(host string) Option {
	return func(c *config.Config) { c.ServerHost = host }
}

// WithServerPort sets the canned-video CDN port.
func WithServerPort(port int) Option {
	return func(c *config.Config) { c.ServerPort = port }
}

// WithBasePath sets the base path videos and the catalog are served
// under.
func WithBasePath(path string) Option {
	return func(c *config.Config) { c.BasePath = path }
}

// WithSimulatedDispatchDelay overrides the emulator's artificial
// per-command processing delay. Real firmware applies none; pass 0 to
// match that for timing-sensitive tests.
func WithSimulatedDispatchDelay(d time.Duration) Option {
	return func(c *config.Config) { c.SimulatedDispatchDelay = d }
}

// WritePort performs a console-side write to one of the four control
// ports (PortCommand, PortArg, PortToken, PortError). Writing PortToken
// dispatches the pending command.
func (d *Device) WritePort(port int, value uint16) {
	d.reg.WritePort(port, value)
}

// ReadPort performs a console-side read from one of the four control
// ports.
func (d *Device) ReadPort(port int) uint16 {
	return d.reg.ReadPort(port)
}

// SRAMBuffer returns the device's underlying SRAM buffer, for callers
// (the CLI's march subcommand, tests) that need console-side
// verification via internal/marchcheck instead of just the raw bytes
// Bank exposes.
func (d *Device) SRAMBuffer() *sram.Buffer {
	return d.buf
}

// Bank returns a read-only view of the given SRAM bank's raw physical
// bytes, including the console's XOR-1 byte-swap — useful for asserting
// on the swap itself, not for reading logical content.
func (d *Device) Bank(bank int) []byte {
	return d.buf.Bank(bank)
}

// ReadLogical reads n bytes starting at logical offset off within the
// given bank, undoing the XOR-1 swap — this is what the console actually
// perceives when it interprets bank content as a string or structured
// data, and is what callers should use outside of swap-specific tests.
func (d *Device) ReadLogical(bank int, off uint32, n int) []byte {
	return d.buf.ReadLogical(bank, off, n)
}

// Close releases the device's HTTP connection and SRAM allocation.
func (d *Device) Close() error {
	if err := d.reg.Close(); err != nil {
		return err
	}
	return d.buf.Close()
}
