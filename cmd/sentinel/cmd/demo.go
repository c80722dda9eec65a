package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// demoCmd exercises the diagnostic sink from several goroutines at once.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Exercise the thread-safe diagnostic sink",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}

		log.LogInfo("Sentinel System Monitor - diagnostic sink demo")
		log.LogInfo("Testing thread-safe logger with colored output")
		log.LogError("This is a test error message")

		log.LogInfo("Starting multi-threaded test...")

		var g errgroup.Group
		for id := 1; id <= 3; id++ {
			id := id
			g.Go(func() error {
				for i := 0; i < 3; i++ {
					log.LogInfo(fmt.Sprintf("Worker %d - Message %d", id, i))
					time.Sleep(10 * time.Millisecond)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		log.LogInfo("Multi-threaded test completed successfully")
		log.LogInfo("Logger demonstration complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
