// Command calibrate evolves every scene over several seeds and reports the
// population statistics used to pick a variant's health midpoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"lifeboard/internal/config"
	"lifeboard/internal/core"
	"lifeboard/internal/scene"
)

type intList []int

func (l *intList) String() string {
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (l *intList) Set(value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	*l = append(*l, v)
	return nil
}

func main() {
	variant := flag.String("variant", "small", "world variant to calibrate")
	gens := flag.Int("gens", 600, "generations to evolve per run")
	seeds := flag.Int("seeds", 8, "seeds per scene")
	firstSeed := flag.Uint("first-seed", 1, "first seed; the rest follow consecutively")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel runs")
	csvPath := flag.String("csv", "", "write per-run results to this CSV file")
	logLevel := flag.String("log-level", "info", "log level")
	var scenes intList
	flag.Var(&scenes, "scene", "scene index to run (repeatable, default all)")
	flag.Parse()

	logger := config.LogConfig{Level: *logLevel}.NewLogger(os.Stderr)
	v, ok := core.Lookup(*variant)
	if !ok {
		logger.Error("unknown variant", "variant", *variant, "available", core.Variants())
		os.Exit(2)
	}
	table := scene.Default()
	if len(scenes) == 0 {
		for i := 0; i < table.Len(); i++ {
			scenes = append(scenes, i)
		}
	}
	seedList := make([]uint32, *seeds)
	for i := range seedList {
		seedList[i] = uint32(*firstSeed) + uint32(i)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("calibrating", "variant", v.Name, "scenes", len(scenes), "seeds", *seeds, "gens", *gens, "workers", *workers)
	start := time.Now()
	results, err := sweep(ctx, v, table, scenes, seedList, *gens, *workers)
	if err != nil {
		logger.Error("sweep failed", "err", err)
		os.Exit(1)
	}
	logger.Info("sweep done", "runs", len(results), "elapsed", time.Since(start).Round(time.Millisecond))

	report(os.Stdout, v, results)
	if *csvPath != "" {
		if err := writeCSV(*csvPath, results); err != nil {
			logger.Error("writing csv", "err", err)
			os.Exit(1)
		}
		logger.Info("wrote results", "path", *csvPath)
	}
}

func report(w io.Writer, v core.Variant, results []runResult) {
	fmt.Fprintf(w, "%-24s %5s %10s %10s %10s %8s\n", "scene", "runs", "pop_mean", "pop_std", "final", "extinct")
	for _, s := range summarize(results) {
		fmt.Fprintf(w, "%-24s %5d %10.1f %10.1f %10.1f %8d\n", s.Scene, s.Runs, s.MeanPop, s.StdPop, s.MeanFinal, s.Extinct)
	}
	fmt.Fprintf(w, "\nmidpoint: current %d, suggested %d\n", v.Midpoint, suggestMidpoint(results))
}

func writeCSV(path string, results []runResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gocsv.MarshalFile(&results, f); err != nil {
		f.Close()
		return fmt.Errorf("encoding results: %w", err)
	}
	return f.Close()
}
