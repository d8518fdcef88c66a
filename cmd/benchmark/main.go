package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/statewire/statewire/reactive"
	"github.com/urfave/cli/v3"
)

var (
	ww = []int{1, 10, 100}
	hh = []int{1, 10, 100}
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "measure write propagation latency across derived chains",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "iters",
				Usage: "writes per grid cell",
				Value: 100,
			},
			&cli.StringFlag{
				Name:  "profile",
				Usage: "write a CPU profile to this path",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if path := cmd.String("profile"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := pprof.StartCPUProfile(f); err != nil {
					return err
				}
				defer pprof.StopCPUProfile()
			}

			log.Printf("warming up")
			benchmarkPropagate(int(cmd.Int("iters")), true)
			return nil
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func benchmarkPropagate(iters int, shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Statewire")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			rs := reactive.New(func(from reactive.Source, err error) {
				log.Panic(err)
			})
			state := rs.WrapObject(map[string]any{"src": 1})
			for i := 0; i < w; i++ {
				last := "src"
				for j := 0; j < h; j++ {
					prev := last
					last = fmt.Sprintf("chain_%d_%d", i, j)
					if _, err := state.Derive(last, func() (any, error) {
						return state.Get(prev).(int) + 1, nil
					}); err != nil {
						log.Panic(err)
					}
				}

				leaf := last
				rs.Effect(func() error {
					state.Get(leaf)
					return nil
				})
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				state.Set("src", state.Get("src").(int)+1)
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	if shouldRender {
		tbl.Render()
	}
}
