package cmd

import (
	"fmt"
	"slices"
	"strconv"
	"sync"

	"get.pme.sh/atomix/concurrent"
	"get.pme.sh/atomix/config"
	"get.pme.sh/atomix/ui"

	"github.com/spf13/cobra"
)

// drainOnce fills a set from one goroutine and empties it with TryConsume
// from another, returning what the consumer collected.
func drainOnce(items []int) (collected []int, remaining int) {
	set := concurrent.NewSet[int]()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		set.AddRange(items...)
	}()
	wg.Wait()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			item, ok := set.TryConsume()
			if !ok {
				return
			}
			collected = append(collected, item)
		}
	}()
	wg.Wait()

	slices.Sort(collected)
	return collected, set.Len()
}

func init() {
	config.RootCommand.AddCommand(&cobra.Command{
		Use:     "drain [items...]",
		Short:   "Adds items to a set on one goroutine and drains it on another",
		GroupID: refGroup("demo", "Workloads"),
		RunE: func(_ *cobra.Command, args []string) error {
			items := []int{1, 2, 3}
			if len(args) > 0 {
				items = items[:0]
				for _, a := range args {
					n, err := strconv.Atoi(a)
					if err != nil {
						return fmt.Errorf("invalid item %q: %w", a, err)
					}
					items = append(items, n)
				}
			}
			collected, remaining := drainOnce(items)
			fmt.Println(ui.RenderSummary("Drain",
				ui.Pair{Key: "collected", Value: fmt.Sprint(collected)},
				ui.Pair{Key: "remaining", Value: remaining},
			))
			return nil
		},
	})
}
