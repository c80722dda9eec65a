package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"unsafe"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sentinel-mon/sentinel/pkg/bedrock"
	"github.com/sentinel-mon/sentinel/pkg/bedrock/sinks/async"
	"github.com/sentinel-mon/sentinel/pkg/bedrock/sinks/console"
	"github.com/sentinel-mon/sentinel/pkg/bedrock/sinks/multi"
	"github.com/sentinel-mon/sentinel/pkg/diag"
	"github.com/sentinel-mon/sentinel/pkg/trap"
)

// faultCmd installs the interceptor and deliberately triggers memory
// faults so the forensic pipeline can be observed end to end.
var faultCmd = &cobra.Command{
	Use:   "fault",
	Short: "Install the interceptor and trigger demonstration faults",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}

		summary := newSummarySink()
		var eventSink bedrock.Sink = summary
		icptLog := bedrock.DiagnosticLog(log)
		if viper.GetBool("verbose") {
			// The verbose console sink renders each event's forensic
			// line itself; silence the interceptor's direct channel so
			// lines are not printed twice.
			eventSink = multi.NewMultiSink(summary,
				console.NewConsoleSink(console.WithLog(log), console.WithVerbose()))
			icptLog = diag.New(diag.WithStreams(io.Discard, io.Discard))
		}

		collector := bedrock.NewCollector(
			bedrock.WithSink(async.NewAsyncSink(eventSink, async.WithQueueSize(64))),
			bedrock.WithSystemState(),
		)
		defer collector.Close()

		icpt := bedrock.NewInterceptor(
			bedrock.WithLog(icptLog),
			bedrock.WithCollector(collector),
		)
		if !icpt.Install() {
			return errors.New("failed to install crash interceptor")
		}

		log.LogInfo("Triggering nil dereference...")
		observe(func() {
			var p *int
			sinkhole = *p
		})

		log.LogInfo("Triggering guard page access...")
		if err := touchGuardPage(); err != nil {
			log.LogError("guard page demo unavailable: " + err.Error())
		}

		if err := collector.Flush(cmd.Context()); err != nil {
			return fmt.Errorf("flush fault events: %w", err)
		}

		for _, line := range summary.lines() {
			log.LogInfo(line)
		}
		log.LogInfo("Fault demonstration complete")
		return nil
	},
}

// sinkhole defeats dead-store elimination in the fault triggers.
var sinkhole int

// observe runs fn under the trap adapter and absorbs the propagated fault.
// The interceptor only observes; the fault still unwinds, and here the
// demo plays the role of the process's normal handling.
func observe(fn func()) {
	defer func() {
		_ = recover()
	}()
	_ = trap.Do(fn)
}

// touchGuardPage arms a trap-on-access region and reads from it, producing
// a guard-page violation for the interceptor to classify.
func touchGuardPage() error {
	region, err := trap.NewGuardRegion(1)
	if err != nil {
		return err
	}
	defer region.Close()

	if err := region.Arm(); err != nil {
		return err
	}

	addr := region.Addr()
	observe(func() {
		sinkhole = int(*(*byte)(unsafe.Pointer(addr)))
	})
	return nil
}

func init() {
	rootCmd.AddCommand(faultCmd)
}

// summarySink aggregates fault events by fingerprint for an end-of-run
// report.
type summarySink struct {
	mu     sync.Mutex
	counts map[string]int
	sample map[string]bedrock.FaultEvent
}

func newSummarySink() *summarySink {
	return &summarySink{
		counts: make(map[string]int),
		sample: make(map[string]bedrock.FaultEvent),
	}
}

func (s *summarySink) Write(ctx context.Context, event bedrock.FaultEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[event.Fingerprint]++
	s.sample[event.Fingerprint] = event
	return nil
}

func (s *summarySink) Flush(ctx context.Context) error { return nil }

func (s *summarySink) Close() error { return nil }

func (s *summarySink) lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	fps := make([]string, 0, len(s.counts))
	for fp := range s.counts {
		fps = append(fps, fp)
	}
	sort.Strings(fps)

	out := make([]string, 0, len(fps)+1)
	out = append(out, fmt.Sprintf("Observed %d distinct fault group(s)", len(fps)))
	for _, fp := range fps {
		ev := s.sample[fp]
		out = append(out, fmt.Sprintf("  %s x%d code 0x%08X page 0x%016X",
			fp, s.counts[fp], uint32(ev.Code), uint64(ev.Page)))
	}
	return out
}
