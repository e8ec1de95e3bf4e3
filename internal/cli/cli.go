// Package cli implements the command-line interface for the ibu tool.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/eunmann/ibu/internal/logctx"
	"github.com/eunmann/ibu/pkg/export"
	"github.com/eunmann/ibu/pkg/humanfmt"
	"github.com/eunmann/ibu/pkg/ibu"
)

const usage = "usage: ibu <command> [options]\ncommands: info, count, merge, export"

// Run executes the CLI with the given arguments.
func Run(args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	switch args[0] {
	case "info":
		return runInfo(args[1:])
	case "count":
		return runCount(args[1:])
	case "merge":
		return runMerge(args[1:])
	case "export":
		return runExport(args[1:])
	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], usage)
	}
}

// loggingFlags registers the shared logging flags on fs and returns a context
// builder to call after parsing.
func loggingFlags(fs *flag.FlagSet) func() context.Context {
	debug := fs.Bool("debug", false, "enable debug logging")
	human := fs.Bool("human", false, "human-friendly console logging")
	return func() context.Context {
		return logctx.WithLogger(context.Background(), logctx.Configure(*debug, *human))
	}
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	ctxOf := loggingFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: ibu info <file>")
	}
	_ = ctxOf()

	path := fs.Arg(0)
	r, err := ibu.OpenReader(path)
	if err != nil {
		return err
	}
	defer r.Close()
	h := r.Header()

	size := int64(-1)
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	fmt.Printf("file:         %s\n", path)
	fmt.Printf("version:      %d\n", h.Version)
	fmt.Printf("barcode len:  %d\n", h.BCLen)
	fmt.Printf("umi len:      %d\n", h.UMILen)
	fmt.Printf("sorted:       %t\n", h.Sorted())
	fmt.Printf("record count: %s (0 = unknown)\n", humanfmt.Count(h.RecordCount))
	if size >= 0 {
		fmt.Printf("file size:    %s\n", humanfmt.Bytes(size))
	}
	return nil
}

// countProcessor counts records per chunk and folds the per-chunk totals into
// a shared counter at each chunk join point.
type countProcessor struct {
	local uint64
	total *atomic.Uint64
}

func (p *countProcessor) ProcessRecord(ibu.Record) error {
	p.local++
	return nil
}

func (p *countProcessor) OnChunkComplete() error {
	p.total.Add(p.local)
	p.local = 0
	return nil
}

func (p *countProcessor) Clone() ibu.Processor {
	return &countProcessor{total: p.total}
}

func runCount(args []string) error {
	fs := flag.NewFlagSet("count", flag.ContinueOnError)
	ctxOf := loggingFlags(fs)
	threads := fs.Int("threads", 0, "worker count (0 = all cores)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: ibu count [-threads n] <file>")
	}
	ctx := logctx.WithStr(ctxOf(), "input", fs.Arg(0))

	r, err := ibu.NewMmapReader(fs.Arg(0))
	if err != nil {
		return err
	}
	defer r.Close()

	var total atomic.Uint64
	start := time.Now()
	if err := r.ProcessParallel(ctx, &countProcessor{total: &total}, *threads); err != nil {
		return err
	}
	elapsed := time.Since(start)

	log := logctx.FromContext(ctx)
	log.Info().
		Uint64("records_count", total.Load()).
		Str("rate", humanfmt.Rate(total.Load(), elapsed)).
		Msg("count complete")
	fmt.Printf("%d\n", total.Load())
	return nil
}

func runMerge(args []string) error {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	ctxOf := loggingFlags(fs)
	out := fs.String("out", "", "output file (required)")
	sorted := fs.Bool("sorted", false, "assert that the merged output is sorted")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errors.New("--out is required")
	}
	if fs.NArg() == 0 {
		return errors.New("at least one input file is required")
	}
	ctx := ctxOf()
	log := logctx.FromContext(ctx)

	// The first input's dimensions define the output; Ingest rejects any
	// input that disagrees.
	first, err := ibu.OpenReader(fs.Arg(0))
	if err != nil {
		return err
	}
	header := ibu.NewHeader(first.Header().BCLen, first.Header().UMILen)
	if *sorted {
		header.SetSorted()
	}

	w, err := ibu.CreateFile(*out, header)
	if err != nil {
		first.Close()
		return err
	}

	inputs := fs.Args()
	for i, path := range inputs {
		r := first
		if i > 0 {
			r, err = ibu.OpenReader(path)
			if err != nil {
				w.Close()
				os.Remove(*out)
				return err
			}
		}
		err = w.Ingest(r)
		r.Close()
		if err != nil {
			w.Close()
			os.Remove(*out)
			return fmt.Errorf("merge %s: %w", path, err)
		}
		log.Debug().Str("input", path).Uint64("records_count", w.RecordsWritten()).Msg("input merged")
	}

	if err := w.Close(); err != nil {
		os.Remove(*out)
		return err
	}
	log.Info().
		Int("inputs_count", len(inputs)).
		Str("output", *out).
		Uint64("records_count", w.RecordsWritten()).
		Msg("merge complete")
	return nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	ctxOf := loggingFlags(fs)
	out := fs.String("out", "", "output parquet file (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errors.New("--out is required")
	}
	if fs.NArg() != 1 {
		return errors.New("usage: ibu export --out <file.parquet> <file>")
	}
	ctx := ctxOf()

	r, err := ibu.OpenReader(fs.Arg(0))
	if err != nil {
		return err
	}
	defer r.Close()

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}

	rows, err := export.ToParquet(f, r)
	if err != nil {
		f.Close()
		os.Remove(*out)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(*out)
		return fmt.Errorf("close %s: %w", *out, err)
	}

	log := logctx.FromContext(ctx)
	log.Info().
		Str("input", fs.Arg(0)).
		Str("output", *out).
		Uint64("rows_count", rows).
		Msg("export complete")
	return nil
}
