package main

import (
	"flag"
	"fmt"
	"os"
)

// Command-line flags
var (
	configFile  = flag.String("config", "", "Config file path")
	showVersion = flag.Bool("version", false, "Show version information")
	testEvent   = flag.Bool("test-event", false, "Dispatch one test error event, flush, and exit")
)

type FlagConfig struct {
	ConfigFile  string
	ShowVersion bool
	TestEvent   bool
}

func init() {
	flag.Usage = customUsage
}

func customUsage() {
	fmt.Fprintf(os.Stderr, "tattle - Telemetry Sink Agent\n\n")
	fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Options:\n")
	fmt.Fprintf(os.Stderr, "  -config string\n\tConfig file path\n")
	fmt.Fprintf(os.Stderr, "  -test-event\n\tDispatch one test error event, flush, and exit\n")
	fmt.Fprintf(os.Stderr, "  -version\n\tShow version information\n")
	fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
	fmt.Fprintf(os.Stderr, "  TATTLE_NO_TELEMETRY\n\tAny non-empty value disables telemetry entirely\n")
	fmt.Fprintf(os.Stderr, "  TATTLE_CONFIG_FILE, TATTLE_CONFIG_DIR\n\tConfig file resolution\n")
}

func ParseFlags() (*FlagConfig, error) {
	flag.Parse()

	if flag.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", flag.Args())
	}

	return &FlagConfig{
		ConfigFile:  *configFile,
		ShowVersion: *showVersion,
		TestEvent:   *testEvent,
	}, nil
}
