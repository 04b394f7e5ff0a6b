// Package runconfig holds the parsed, validated CLI-flag surface each
// executable operates on (spec §3.1, §6). It is the flag-only analog of
// a viper-sourced config struct: populated once at process start from a
// pflag.FlagSet, handed to the rest of the program as a read-only value.
package runconfig

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/rgareus/mtc-tools/pkg/timecode"
)

// ReaderConfig is the CLI surface for cmd/mtcdump.
type ReaderConfig struct {
	Help    bool
	Version bool
	Newline bool

	MTCPort  string
	LTCPort1 string
	LTCPort2 string
}

// ParseReaderConfig parses argv into a ReaderConfig using the same
// short/long combined-flag style doismellburning-samoyed/cmd/direwolf
// declares its flags with, including a pflag.Usage override that prints
// to stderr.
func ParseReaderConfig(progName string, argv []string) (ReaderConfig, error) {
	fs := pflag.NewFlagSet(progName, pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	help := fs.BoolP("help", "h", false, "Display help text.")
	version := fs.BoolP("version", "V", false, "Print version and exit.")
	newline := fs.BoolP("newline", "n", false, "Use \\n instead of \\r between updates.")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] mtc-port ltc-port-1 ltc-port-2\n", progName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(argv); err != nil {
		return ReaderConfig{}, err
	}

	cfg := ReaderConfig{Help: *help, Version: *version, Newline: *newline}
	if cfg.Help {
		fs.Usage()
	}
	if cfg.Help || cfg.Version {
		return cfg, nil
	}

	args := fs.Args()
	if len(args) > 0 {
		cfg.MTCPort = args[0]
	}
	if len(args) > 1 {
		cfg.LTCPort1 = args[1]
	}
	if len(args) > 2 {
		cfg.LTCPort2 = args[2]
	}
	return cfg, nil
}

// GeneratorConfig is the CLI surface for cmd/mtcgen.
type GeneratorConfig struct {
	Help    bool
	Version bool
	Debug   bool

	Rate            timecode.Rate
	HasRate         bool
	FollowJackVideo bool

	AutoConnectPorts []string
}

// ParseGeneratorConfig parses argv into a GeneratorConfig. -f takes
// NUM[/DEN] and is validated against the four MTC-valid rates via
// timecode.ParseRate; an invalid rate is a parse error, not a silent
// fallback.
func ParseGeneratorConfig(progName string, argv []string) (GeneratorConfig, error) {
	fs := pflag.NewFlagSet(progName, pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	help := fs.BoolP("help", "h", false, "Display help text.")
	version := fs.BoolP("version", "V", false, "Print version and exit.")
	debug := fs.BoolP("debug", "d", false, "Enable debug logging on the RT log ring.")
	rateStr := fs.StringP("rate", "f", "", "MTC rate as NUM[/DEN], e.g. 25 or 30000/1001.")
	followVideo := fs.BoolP("jackvideo", "F", false, "Follow the host's video rate instead of -f.")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [port...]\n", progName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(argv); err != nil {
		return GeneratorConfig{}, err
	}

	cfg := GeneratorConfig{
		Help:            *help,
		Version:         *version,
		Debug:           *debug,
		FollowJackVideo: *followVideo,
	}
	if cfg.Help {
		fs.Usage()
	}
	if cfg.Help || cfg.Version {
		return cfg, nil
	}

	if *rateStr != "" {
		rate, err := parseRateFlag(*rateStr)
		if err != nil {
			return GeneratorConfig{}, fmt.Errorf("runconfig: -f %q: %w", *rateStr, err)
		}
		cfg.Rate = rate
		cfg.HasRate = true
	}

	cfg.AutoConnectPorts = fs.Args()
	return cfg, nil
}

// parseRateFlag parses "NUM" or "NUM/DEN" and matches it to one of the
// four MTC rates via timecode.ParseRate; any other value is an error.
func parseRateFlag(s string) (timecode.Rate, error) {
	var num, den int
	n, err := fmt.Sscanf(s, "%d/%d", &num, &den)
	if err != nil || n != 2 {
		den = 1
		if _, err := fmt.Sscanf(s, "%d", &num); err != nil {
			return timecode.Rate{}, fmt.Errorf("not a number or NUM/DEN pair")
		}
	}
	return timecode.ParseRate(num, den)
}
