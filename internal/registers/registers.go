// Package registers implements the command/argument/token/error register
// protocol the console uses to drive the streaming core, dispatching each
// command to the wire/rle/sram/httpfetch/stream/march packages exactly as
// spec.md §4.F describes. It mirrors the teacher's
// internal/processing.ProcessVideos orchestration style (single entry
// point, reporter events at each stage) adapted to a register-driven
// command loop instead of a one-shot batch job.
package registers

import (
	"fmt"
	"sync"

	"github.com/joeyparrish/kinetoscope/internal/clock"
	"github.com/joeyparrish/kinetoscope/internal/config"
	"github.com/joeyparrish/kinetoscope/internal/httpfetch"
	"github.com/joeyparrish/kinetoscope/internal/reporter"
	"github.com/joeyparrish/kinetoscope/internal/sram"
	"github.com/joeyparrish/kinetoscope/internal/stream"
)

// Command codes, bit-exact with spec.md §4.F.
const (
	CmdEcho        uint8 = 0x00
	CmdListVideos  uint8 = 0x01
	CmdStartVideo  uint8 = 0x02
	CmdStopVideo   uint8 = 0x03
	CmdFlipRegion  uint8 = 0x04
	CmdGetError    uint8 = 0x05
	CmdConnectNet  uint8 = 0x06
	CmdMarchTest   uint8 = 0x07
)

// Port offsets, bit-exact with spec.md §6 (host-bus fixed addresses).
const (
	PortCommand = 0x10
	PortArg     = 0x12
	PortToken   = 0x08
	PortError   = 0x0A
)

// Token ownership.
const (
	TokenConsoleOwned = 0
	TokenDeviceOwned  = 1
)

// maxErrorStringBytes bounds error_str, incl. terminator, per spec.md §3.
const maxErrorStringBytes = 256

// Device is a register-backed command processor: the single point
// through which the console drives the streaming core. It owns the
// control registers, the latched error channel, and the streaming
// session, and dispatches each command to the wire/rle/sram/httpfetch/
// stream/march packages.
type Device struct {
	mu sync.Mutex

	cfg     *config.Config
	sram    *sram.Buffer
	fetcher *httpfetch.Fetcher
	clock   clock.Clock
	rep     reporter.Reporter

	command uint8
	arg     uint16
	token   int

	errorFlag bool
	errorStr  string

	session *stream.Session

	netUp bool
}

// NewDevice constructs a Device around an owned SRAM buffer and HTTP
// fetcher. cfg must already be validated. clk is injected so tests can
// use clock.Zero to skip the simulated dispatch delay.
func NewDevice(cfg *config.Config, buf *sram.Buffer, clk clock.Clock, rep reporter.Reporter) *Device {
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	return &Device{
		cfg:     cfg,
		sram:    buf,
		fetcher: httpfetch.New(),
		clock:   clk,
		rep:     rep,
		token:   TokenConsoleOwned,
	}
}

// Close releases the device's HTTP connection.
func (d *Device) Close() error {
	return d.fetcher.Close()
}

// WritePort performs a console-side write to one of the four control
// ports. Writing PortToken with any value transfers the token to the
// device and, per the Design Notes' faithfully-kept quirk, dispatches the
// pending command synchronously from within this call (the real firmware
// dispatches when the command loop next observes the token; the emulator
// folds that polling into the token write itself).
func (d *Device) WritePort(port int, value uint16) {
	d.mu.Lock()
	switch port {
	case PortCommand:
		d.command = uint8(value)
		d.mu.Unlock()
	case PortArg:
		d.arg = value
		d.mu.Unlock()
	case PortError:
		d.errorFlag = false
		d.mu.Unlock()
	case PortToken:
		command, arg := d.command, d.arg
		d.token = TokenDeviceOwned
		d.mu.Unlock()
		d.dispatch(command, arg)
		d.mu.Lock()
		d.token = TokenConsoleOwned
		d.mu.Unlock()
	default:
		d.mu.Unlock()
	}
}

// ReadPort performs a console-side read from one of the four control
// ports.
func (d *Device) ReadPort(port int) uint16 {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch port {
	case PortCommand:
		return uint16(d.command)
	case PortArg:
		return d.arg
	case PortToken:
		return uint16(d.token)
	case PortError:
		if d.errorFlag {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// dispatch applies the simulated processing delay, then routes to the
// command handler. The error latch rule (first error wins per handler)
// is enforced by latchError.
func (d *Device) dispatch(command uint8, arg uint16) {
	if d.clock != nil {
		d.clock.Sleep(d.cfg.SimulatedDispatchDelay)
	}

	handlerRanError := false
	latch := func(message string) {
		d.mu.Lock()
		defer d.mu.Unlock()
		if handlerRanError {
			d.rep.Warning(fmt.Sprintf("error after latch (dropped): %s", message))
			return
		}
		handlerRanError = true
		d.errorFlag = true
		if len(message)+1 > maxErrorStringBytes {
			message = message[:maxErrorStringBytes-1]
		}
		d.errorStr = message
		d.rep.Error(reporter.ReporterError{Title: "device error", Message: message})
	}

	switch command {
	case CmdEcho:
		d.handleEcho(arg)
	case CmdListVideos:
		d.handleListVideos(latch)
	case CmdStartVideo:
		d.handleStartVideo(arg, latch)
	case CmdStopVideo:
		d.handleStopVideo()
	case CmdFlipRegion:
		d.handleFlipRegion(latch)
	case CmdGetError:
		d.handleGetError()
	case CmdConnectNet:
		d.handleConnectNet()
	case CmdMarchTest:
		d.handleMarchTest(arg, latch)
	default:
		latch(fmt.Sprintf("Unrecognized command 0x%02X!", command))
	}
}

func (d *Device) handleEcho(value uint16) {
	// Bank 0 byte 0 is the argument's low byte (spec.md §8 scenario 1).
	buf := []byte{byte(value), byte(value >> 8)}
	d.sram.ResetBank(0)
	d.sram.Write(buf)
	d.rep.Verbose(fmt.Sprintf("echo 0x%04X", value))
}

func (d *Device) handleConnectNet() {
	d.mu.Lock()
	d.netUp = true
	d.mu.Unlock()
	d.rep.StageProgress(reporter.StageProgress{Stage: "Network", Message: "link up"})
}

func (d *Device) handleGetError() {
	d.mu.Lock()
	msg := d.errorStr
	d.mu.Unlock()

	buf := make([]byte, maxErrorStringBytes)
	copy(buf, msg)
	d.sram.ResetBank(0)
	d.sram.Write(buf)
}

// errorLatcher lets handlers report an error without taking d.mu
// themselves (dispatch already manages the latch's own lock).
type errorLatcher func(message string)
