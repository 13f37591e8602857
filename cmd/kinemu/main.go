// Package main provides the CLI entry point for the Kinetoscope emulator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joeyparrish/kinetoscope"
	"github.com/joeyparrish/kinetoscope/internal/logging"
	"github.com/joeyparrish/kinetoscope/internal/march"
	"github.com/joeyparrish/kinetoscope/internal/marchcheck"
	"github.com/joeyparrish/kinetoscope/internal/reporter"
)

const (
	appName    = "kinemu"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "probe":
		err = runProbe(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	case "stream":
		err = runStream(os.Args[2:])
	case "march":
		err = runMarch(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("%s version %s\n", appName, appVersion)
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - Kinetoscope streaming cartridge emulator

Usage:
  %s <command> [options]

Commands:
  probe     Hardware probe: ECHO round-trip
  list      Fetch the video catalog and report its entry count and size
  stream    Start a video and drive flip_region to steady state
  march     Run the SRAM march self-test and verify it console-side
  version   Print version information
  help      Show this help message

Run '%s <command> --help' for command-specific options.
`, appName, appName, appName)
}

// commonFlags holds the options shared by every subcommand.
type commonFlags struct {
	serverHost string
	serverPort int
	basePath   string
	logDir     string
	verbose    bool
	noLog      bool
}

func addCommonFlags(fs *flag.FlagSet, cf *commonFlags) {
	fs.StringVar(&cf.serverHost, "server-host", "storage.googleapis.com", "Canned-video CDN host")
	fs.IntVar(&cf.serverPort, "server-port", 80, "Canned-video CDN port")
	fs.StringVar(&cf.basePath, "base-path", "/sega-kinetoscope/canned-videos/", "Base path videos are served under")
	fs.StringVar(&cf.logDir, "log-dir", "", "Log directory (defaults to the XDG state dir)")
	fs.BoolVar(&cf.verbose, "verbose", false, "Enable verbose output")
	fs.BoolVar(&cf.noLog, "no-log", false, "Disable log file creation")
}

func (cf *commonFlags) newDevice() (*kinetoscope.Device, *logging.Logger, reporter.Reporter, error) {
	logDir := cf.logDir
	if logDir == "" {
		logDir = logging.DefaultLogDir()
	}
	logger, err := logging.Setup(logDir, cf.verbose, cf.noLog, os.Args)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	termRep := reporter.NewTerminalReporterVerbose(cf.verbose)
	var rep reporter.Reporter = termRep
	if logger != nil {
		logRep := reporter.NewLogReporter(logger.Writer())
		rep = reporter.NewCompositeReporter(termRep, logRep)
	}

	dev, err := kinetoscope.NewWithReporter(rep,
		kinetoscope.WithServerHost(cf.serverHost),
		kinetoscope.WithServerPort(cf.serverPort),
		kinetoscope.WithBasePath(cf.basePath),
	)
	if err != nil {
		if logger != nil {
			_ = logger.Close()
		}
		return nil, nil, nil, err
	}
	return dev, logger, rep, nil
}

// installSignalCancel arranges for ctx to be canceled on SIGINT/SIGTERM.
func installSignalCancel() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}

// dispatch performs one console-side command/arg/token cycle and returns
// the latched error string, if any.
func dispatch(dev *kinetoscope.Device, command uint8, arg uint16) string {
	dev.WritePort(kinetoscope.PortCommand, uint16(command))
	dev.WritePort(kinetoscope.PortArg, arg)
	dev.WritePort(kinetoscope.PortToken, kinetoscope.TokenDeviceOwned)
	if dev.ReadPort(kinetoscope.PortError) == 0 {
		return ""
	}
	dev.WritePort(kinetoscope.PortCommand, uint16(kinetoscope.CmdGetError))
	dev.WritePort(kinetoscope.PortToken, kinetoscope.TokenDeviceOwned)
	raw := dev.ReadLogical(0, 0, 256)
	n := 0
	for n < len(raw) && raw[n] != 0 {
		n++
	}
	return string(raw[:n])
}

func runProbe(args []string) error {
	fs := flag.NewFlagSet("probe", flag.ExitOnError)
	var cf commonFlags
	addCommonFlags(fs, &cf)
	if err := fs.Parse(args); err != nil {
		return err
	}

	dev, logger, _, err := cf.newDevice()
	if err != nil {
		return err
	}
	defer func() {
		_ = dev.Close()
		if logger != nil {
			_ = logger.Close()
		}
	}()

	for _, value := range []uint16{0x55, 0xAA} {
		if msg := dispatch(dev, kinetoscope.CmdEcho, value); msg != "" {
			return fmt.Errorf("echo 0x%04x failed: %s", value, msg)
		}
		got := dev.ReadLogical(0, 0, 1)[0]
		if got != byte(value) {
			return fmt.Errorf("echo 0x%04x: bank0 byte0 = 0x%02x, want 0x%02x", value, got, byte(value))
		}
	}

	fmt.Println("probe ok")
	return nil
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	var cf commonFlags
	addCommonFlags(fs, &cf)
	if err := fs.Parse(args); err != nil {
		return err
	}

	dev, logger, _, err := cf.newDevice()
	if err != nil {
		return err
	}
	defer func() {
		_ = dev.Close()
		if logger != nil {
			_ = logger.Close()
		}
	}()

	if msg := dispatch(dev, kinetoscope.CmdListVideos, 0); msg != "" {
		return fmt.Errorf("list_videos failed: %s", msg)
	}
	return nil
}

func runStream(args []string) error {
	fs := flag.NewFlagSet("stream", flag.ExitOnError)
	var cf commonFlags
	var index uint
	var flips int
	var interval time.Duration
	fs.UintVar(&index, "index", 0, "Catalog index to stream")
	fs.IntVar(&flips, "flips", 4, "Number of flip_region cycles to drive")
	fs.DurationVar(&interval, "interval", 200*time.Millisecond, "Delay between flip_region calls")
	addCommonFlags(fs, &cf)
	if err := fs.Parse(args); err != nil {
		return err
	}

	dev, logger, _, err := cf.newDevice()
	if err != nil {
		return err
	}
	defer func() {
		_ = dev.Close()
		if logger != nil {
			_ = logger.Close()
		}
	}()

	ctx, cancel := installSignalCancel()
	defer cancel()

	if msg := dispatch(dev, kinetoscope.CmdStartVideo, uint16(index)); msg != "" {
		return fmt.Errorf("start_video %d failed: %s", index, msg)
	}

	for i := 0; i < flips; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
		if msg := dispatch(dev, kinetoscope.CmdFlipRegion, 0); msg != "" {
			return fmt.Errorf("flip_region %d failed: %s", i, msg)
		}
	}

	dispatch(dev, kinetoscope.CmdStopVideo, 0)
	fmt.Println("stream complete")
	return nil
}

func runMarch(args []string) error {
	fs := flag.NewFlagSet("march", flag.ExitOnError)
	var cf commonFlags
	addCommonFlags(fs, &cf)
	if err := fs.Parse(args); err != nil {
		return err
	}

	dev, logger, rep, err := cf.newDevice()
	if err != nil {
		return err
	}
	defer func() {
		_ = dev.Close()
		if logger != nil {
			_ = logger.Close()
		}
	}()

	for pass := 0; pass < march.NumPasses; pass++ {
		if msg := dispatch(dev, kinetoscope.CmdMarchTest, uint16(pass)); msg != "" {
			return fmt.Errorf("march test pass %d failed: %s", pass, msg)
		}
		result := marchcheck.VerifyBank(dev.SRAMBuffer(), pass)
		rep.MarchTestPass(reporter.MarchTestUpdate{Pass: pass, Bank: result.Bank, Passed: result.Passed})
		if !result.Passed {
			return fmt.Errorf("%s", result.Message)
		}
	}

	rep.OperationComplete("march test: all 22 passes verified")
	return nil
}
