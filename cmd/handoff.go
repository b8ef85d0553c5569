package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"get.pme.sh/atomix/batch"
	"get.pme.sh/atomix/concurrent"
	"get.pme.sh/atomix/config"
	"get.pme.sh/atomix/rundown"
	"get.pme.sh/atomix/snowflake"
	"get.pme.sh/atomix/ui"
	"get.pme.sh/atomix/xlog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type handoffReport struct {
	Produced   int64         `json:"produced"`
	Pushed     int64         `json:"pushed"`
	Handled    int64         `json:"handled"`
	Dropped    int64         `json:"dropped"`
	Deferred   int64         `json:"deferred"`
	Flushes    int64         `json:"flushes"`
	Duplicates int64         `json:"duplicates"` // ids handled successfully more than once
	Lost       int64         `json:"lost"`
	Elapsed    time.Duration `json:"elapsed"`
}

// runHandoff pushes snowflake ids from h.Producers goroutines into an
// accumulator while a consumer flushes it, then checks every produced id was
// either handled once or dropped.
func runHandoff(ctx context.Context, h config.Handoff) (report handoffReport, err error) {
	logger := xlog.NewDomain("handoff")
	start := time.Now()

	var successes concurrent.Map[snowflake.ID, *int]
	handler := func(_ context.Context, items []snowflake.ID) (failed []snowflake.ID, _ error) {
		for _, id := range items {
			if rand.Float64() < h.FailureRate {
				failed = append(failed, id)
				continue
			}
			*concurrent.GetOrAddNew[snowflake.ID, int](&successes, id)++
		}
		return failed, nil
	}
	acc, err := batch.New(handler,
		batch.WithPolicy(h.Retry),
		batch.WithInterval(h.Interval),
		batch.WithFlushTimeout(h.Timeout),
		batch.WithLogger(logger))
	if err != nil {
		return report, err
	}

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	consumer := make(chan error, 1)
	go func() { consumer <- acc.Run(consumerCtx) }()

	var produced, pushed atomic.Int64
	group, gctx := errgroup.WithContext(ctx)
	for p := range h.Producers {
		group.Go(func() error {
			n := 0
			for range h.Items {
				if err := gctx.Err(); err != nil {
					return err
				}
				id := snowflake.New()
				ids := []snowflake.ID{id}
				if rand.Float64() < h.Duplicates {
					ids = append(ids, id)
				}
				produced.Add(1)
				pushed.Add(int64(acc.Push(ids...)))
				n++
			}
			logger.Debug().Int("producer", p).Int("ids", n).Msg("Producer done")
			return nil
		})
	}
	err = group.Wait()
	stopConsumer()
	if cerr := <-consumer; err == nil {
		err = cerr
	}

	stats := acc.Stats()
	report = handoffReport{
		Produced: produced.Load(),
		Pushed:   pushed.Load(),
		Handled:  stats.Handled,
		Dropped:  stats.Dropped,
		Deferred: stats.Deferred,
		Flushes:  stats.Flushes,
		Elapsed:  time.Since(start),
	}
	successes.RangeKV(func(_ snowflake.ID, n *int) bool {
		if *n > 1 {
			report.Duplicates++
		}
		return true
	})
	report.Lost = report.Produced - int64(successes.Len()) - report.Dropped
	return report, err
}

func init() {
	cmd := &cobra.Command{
		Use:     "handoff",
		Short:   "Runs producers against a batch accumulator and verifies nothing is lost",
		GroupID: refGroup("demo", "Workloads"),
		Args:    cobra.NoArgs,
	}
	profile := cmd.Flags().StringP("profile", "p", "", "YAML profile overriding the default workload")
	producers := cmd.Flags().IntP("producers", "n", 0, "Number of producers, overrides the profile")
	report := cmd.Flags().StringP("report", "r", "", "Write the JSON report to this file, relative to the report directory")
	cmd.RunE = func(_ *cobra.Command, _ []string) error {
		h, err := config.LoadHandoff(*profile)
		if err != nil {
			return err
		}
		if *producers > 0 {
			h.Producers = *producers
		}

		ctx, cancel := rundown.WithContext(context.Background())
		defer cancel()
		res, err := runHandoff(ctx, h)
		if err != nil {
			return err
		}
		if *report != "" {
			path := config.ReportPath(*report)
			if err := config.WriteReport(ctx, h.Retry, path, res); err != nil {
				return err
			}
			xlog.Debug().Str("path", path).Msg("Report written")
		}

		fmt.Println(ui.RenderSummary("Handoff",
			ui.Pair{Key: "produced", Value: res.Produced},
			ui.Pair{Key: "pushed", Value: res.Pushed},
			ui.Pair{Key: "handled", Value: res.Handled},
			ui.Pair{Key: "deferred", Value: res.Deferred},
			ui.Pair{Key: "dropped", Value: res.Dropped},
			ui.Pair{Key: "flushes", Value: res.Flushes},
			ui.Pair{Key: "elapsed", Value: res.Elapsed},
		))
		if res.Lost != 0 || res.Duplicates != 0 {
			return fmt.Errorf("handoff lost %d and duplicated %d items", res.Lost, res.Duplicates)
		}
		fmt.Println(ui.RenderOkLine("every item was handled once or dropped"))
		return nil
	}
	config.RootCommand.AddCommand(cmd)
}
