// Command mtcgen observes a host transport's position and emits a
// sample-accurate MIDI Time Code stream: quarter-frames while rolling,
// Full-Frame SysEx locate messages while stopped or locating. See spec
// §4.2-§4.4.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/rgareus/mtc-tools/pkg/dispatcher"
	"github.com/rgareus/mtc-tools/pkg/jackhost/fakehost"
	"github.com/rgareus/mtc-tools/pkg/logger"
	"github.com/rgareus/mtc-tools/pkg/ring"
	"github.com/rgareus/mtc-tools/pkg/runconfig"
	"github.com/rgareus/mtc-tools/pkg/timecode"
)

// version is set at build time via -ldflags "-X main.version=...", the
// same pattern doismellburning-samoyed/src/version.go uses around
// runtime/debug.ReadBuildInfo for its fallback.
var version = "dev"

// logRingCapacity is the async log ring's byte-equivalent capacity from
// spec §4.6; here it is a record count rather than a byte count, since
// the Go ring is generic over LogRecord rather than raw bytes.
const logRingCapacity = 4096

// sampleRate stands in for the host's reported sample rate: there is no
// real JACK adapter in this build (see pkg/jackhost/jackaudio), so
// fakehost is driven at a fixed nominal rate.
const sampleRate = 48000

func main() {
	cfg, err := runconfig.ParseGeneratorConfig("mtcgen", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg.Help {
		return
	}
	if cfg.Version {
		printVersion()
		return
	}

	log := logger.New(logger.Config{Level: "info"})
	if cfg.Debug {
		log = logger.New(logger.Config{Level: "debug"})
	}

	if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
		log.Warn("failed to lock memory, continuing without mlockall", logger.Error(err))
	}

	rate := timecode.Rate30
	if cfg.HasRate {
		rate = cfg.Rate
	}

	host := fakehost.New(sampleRate)

	logRing := ring.New[logger.LogRecord](logRingCapacity)
	sink := logger.NewRingSink(logRing, nil)

	gd, err := dispatcher.NewGeneratorDispatcher(host, rate, cfg.FollowJackVideo, sink)
	if err != nil {
		log.Error("failed to initialize generator dispatcher", logger.Error(err))
		os.Exit(1)
	}
	if err := host.SetProcessCallback(gd.Process); err != nil {
		log.Error("failed to set process callback", logger.Error(err))
		os.Exit(1)
	}
	if err := host.Activate(); err != nil {
		log.Error("failed to activate host client", logger.Error(err))
		os.Exit(1)
	}
	defer host.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	// The consumer: drains the async log ring and replays each record
	// through the real logger, per spec §4.6/§9 - the RT side never
	// formats or allocates a string itself.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			records := logRing.Drain()
			logger.Drain(log, records)
			if len(records) > 0 {
				continue
			}
			if !logRing.Alive() {
				return
			}
			logRing.Wait()
		}
	}()

	// fakehost has no real audio server driving it, so a ticker stands in
	// for the RT callback source at a nominal cycle size, per
	// pkg/jackhost/fakehost's documented usage.
	const nframes = 256
	period := time.Duration(nframes) * time.Second / time.Duration(sampleRate)

	log.Info("mtcgen starting", logger.String("version", version), logger.Int("rate_num", rate.Num), logger.Int("rate_den", rate.Den))

	ticker := time.NewTicker(period)
	defer ticker.Stop()
runLoop:
	for {
		select {
		case <-ctx.Done():
			break runLoop
		case sig := <-sigChan:
			log.Info("received shutdown signal", logger.String("signal", sig.String()))
			cancel()
			break runLoop
		case <-ticker.C:
			host.Process(nframes)
		}
	}

	logRing.Shutdown()
	wg.Wait()
	log.Info("mtcgen stopped")
}

func printVersion() {
	fmt.Printf("mtcgen %s\n", version)
	if bi, ok := debug.ReadBuildInfo(); ok {
		fmt.Printf("go: %s\n", bi.GoVersion)
	}
}
