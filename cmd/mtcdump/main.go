// Command mtcdump simultaneously decodes MIDI Time Code quarter-frame
// messages and up to two Linear Time Code audio streams, correlating all
// three against the host's sample clock and printing one line per
// decoded record. See spec §4.1, §4.5, §4.6.
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
)

var version = "dev"

// recordRingCapacity is the 20-record capacity spec §4.6 names for the
// reader's decoded-record ring.
const recordRingCapacity = 20

// logRingCapacity is the async log ring's byte-equivalent capacity from
// spec §4.6 (record count here, since the Go ring is generic over
// LogRecord rather than raw bytes).
const logRingCapacity = 4096

const sampleRate = 48000

func main() {
	cfg, err := runconfig.ParseReaderConfig("mtcdump", os.Args[1:])
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

	if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
		log.Warn("failed to lock memory, continuing without mlockall", logger.Error(err))
	}

	host := fakehost.New(sampleRate)
	recordRing := ring.New[dispatcher.DecodedRecord](recordRingCapacity)
	logRing := ring.New[logger.LogRecord](logRingCapacity)
	logSink := logger.NewRingSink(logRing, nil)

	hasLTC2 := cfg.LTCPort2 != ""
	rd, err := dispatcher.NewReaderDispatcher(host, hasLTC2, logSink, recordRing)
	if err != nil {
		log.Error("failed to initialize reader dispatcher", logger.Error(err))
		os.Exit(1)
	}
	if err := host.SetProcessCallback(rd.Process); err != nil {
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

	printer := dispatcher.NewPrinter(func(line string) {
		fmt.Print(line)
	}, cfg.Newline)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			records := recordRing.Drain()
			for _, rec := range records {
				printer.Print(rec)
			}
			if len(records) > 0 {
				continue
			}
			if !recordRing.Alive() {
				return
			}
			recordRing.Wait()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			logRecords := logRing.Drain()
			logger.Drain(log, logRecords)
			if len(logRecords) > 0 {
				continue
			}
			if !logRing.Alive() {
				return
			}
			logRing.Wait()
		}
	}()

	const nframes = 256
	period := time.Duration(nframes) * time.Second / time.Duration(sampleRate)

	log.Info("mtcdump starting", logger.String("version", version),
		logger.String("mtc_port", cfg.MTCPort), logger.String("ltc_port_1", cfg.LTCPort1))

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

	recordRing.Shutdown()
	logRing.Shutdown()
	wg.Wait()
	log.Info("mtcdump stopped")
}

func printVersion() {
	fmt.Printf("mtcdump %s\n", version)
	if bi, ok := debug.ReadBuildInfo(); ok {
		fmt.Printf("go: %s\n", bi.GoVersion)
	}
}
