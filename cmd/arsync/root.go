// Package main is arsync's command-line entry point: a cobra root
// command wiring internal/engine together with the concurrency,
// buffer-pool, hard-link, and statistics singletons into one run.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jmalicki/arsync-sub000/internal/bufpool"
	"github.com/jmalicki/arsync-sub000/internal/copier"
	"github.com/jmalicki/arsync-sub000/internal/engine"
	"github.com/jmalicki/arsync-sub000/internal/hardlink"
	"github.com/jmalicki/arsync-sub000/internal/limiter"
	"github.com/jmalicki/arsync-sub000/internal/metaapply"
	"github.com/jmalicki/arsync-sub000/internal/rlog"
	"github.com/jmalicki/arsync-sub000/internal/runtime"
	"github.com/jmalicki/arsync-sub000/internal/stats"
)

var opts struct {
	archive          bool
	perms            bool
	times            bool
	owner            bool
	group            bool
	xattrs           bool
	links            bool
	devices          bool
	oneFileSystem    bool
	dryRun           bool
	fsync            bool
	exclude          []string
	include          []string
	parallelThresh   int64
	parallelDepth    int
	chunkSizeKiB     int64
	concurrencyMax   int64
	concurrencyFloor int64
	blockingWorkers  int64
	metricsAddr      string
	verbose          bool
	progressEvery    time.Duration
}

func init() {
	cmdFlags := rootCommand.Flags()
	cmdFlags.BoolVarP(&opts.archive, "archive", "a", true, "preserve permissions, timestamps, and ownership")
	cmdFlags.BoolVar(&opts.xattrs, "xattrs", false, "preserve extended attributes")
	cmdFlags.BoolVar(&opts.links, "links", true, "recreate symlinks instead of dereferencing them")
	cmdFlags.BoolVar(&opts.devices, "devices", false, "recreate device and special files (requires privilege)")
	cmdFlags.BoolVar(&opts.oneFileSystem, "one-file-system", false, "don't cross filesystem boundaries")
	cmdFlags.BoolVarP(&opts.dryRun, "dry-run", "n", false, "show what would be copied without writing anything")
	cmdFlags.BoolVar(&opts.fsync, "fsync", false, "fsync each destination file after writing")
	cmdFlags.StringArrayVar(&opts.exclude, "exclude", nil, "glob pattern to exclude (repeatable)")
	cmdFlags.StringArrayVar(&opts.include, "include", nil, "glob pattern to force-include (repeatable)")
	cmdFlags.Int64Var(&opts.parallelThresh, "min-parallel-size", 32<<20, "minimum file size in bytes before region-parallel copy kicks in")
	cmdFlags.IntVar(&opts.parallelDepth, "parallel-regions-log2", 2, "log2 of the number of regions for region-parallel copy")
	cmdFlags.Int64Var(&opts.chunkSizeKiB, "chunk-size-kib", 2048, "per-request I/O chunk size in KiB")
	cmdFlags.Int64Var(&opts.concurrencyMax, "max-concurrency", 256, "hard ceiling on concurrent in-flight operations")
	cmdFlags.Int64Var(&opts.concurrencyFloor, "min-concurrency", 4, "floor the adaptive limiter will not shrink below")
	cmdFlags.Int64Var(&opts.blockingWorkers, "blocking-workers", 64, "size of the dedicated pool for blocking directory-enumeration calls")
	cmdFlags.StringVar(&opts.metricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090)")
	cmdFlags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	cmdFlags.DurationVar(&opts.progressEvery, "progress-interval", 0, "print a stats snapshot to stderr at this interval (0 disables)")
}

var rootCommand = &cobra.Command{
	Use:   "arsync SOURCE DEST",
	Short: "High-throughput single-host directory-tree replicator",
	Long: `arsync copies a directory tree from SOURCE to DEST, preserving
permissions, timestamps, ownership, xattrs, symlinks, and hard links,
using a dirfd-relative traversal and a bounded worker pool to overlap
directory enumeration, metadata application, and file content copies.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0], args[1])
	},
}

func run(src, dst string) error {
	if opts.verbose {
		rlog.Logger.SetLevel(logrus.DebugLevel)
	}

	counters := stats.New()
	if opts.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(stats.NewCollector(counters))
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(opts.metricsAddr, mux); err != nil {
				rlog.Errorf(opts.metricsAddr, "metrics server stopped: %v", err)
			}
		}()
	}

	initialConcurrency := opts.concurrencyMax
	var rl syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rl); err == nil && int64(rl.Cur) > 0 {
		initialConcurrency = limiter.InitialCeiling(opts.concurrencyMax, int64(rl.Cur))
	}

	tc := &engine.TraversalContext{
		Options: engine.Options{
			Meta: metaapply.Config{
				Archive: opts.archive,
				Perms:   opts.perms,
				Times:   opts.times,
				Owner:   opts.owner,
				Group:   opts.group,
				Xattrs:  opts.xattrs,
			},
			Copy: copier.Config{
				ParallelThreshold: opts.parallelThresh,
				ParallelDepth:     opts.parallelDepth,
				ChunkSize:         opts.chunkSizeKiB * 1024,
				Fsync:             opts.fsync,
			},
			PreserveSymlinks: opts.links,
			PreserveDevices:  opts.devices,
			OneFileSystem:    opts.oneFileSystem,
			DryRun:           opts.dryRun,
			Filter:           filterFromFlags(),
		},
		Limiter: limiter.New(limiter.Config{
			Max:           opts.concurrencyMax,
			Initial:       initialConcurrency,
			Floor:         opts.concurrencyFloor,
			HalvingFactor: 2,
		}),
		Pools:    bufpool.NewPools(int(opts.chunkSizeKiB * 1024)),
		Hard:     hardlink.New(),
		Stats:    counters,
		Runtime:  runtime.New(int(opts.concurrencyMax)),
		Blocking: runtime.NewBlockingPool(opts.blockingWorkers),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		rlog.Warnf(src, "received interrupt, cancelling in-flight work")
		cancel()
	}()

	stopProgress := startProgressTicker(ctx, counters, opts.progressEvery)

	srcParent, srcName := splitRoot(src)
	dstParent, dstName := splitRoot(dst)
	runErr := engine.ProcessRoot(ctx, tc, srcParent, srcName, dstParent, dstName)
	cancel()
	stopProgress()

	if runErr != nil {
		fmt.Fprintln(os.Stderr, counters.Snapshot().String())
		return runErr
	}
	fmt.Println(counters.Snapshot().String())
	return nil
}

func filterFromFlags() *engine.Filter {
	if len(opts.exclude) == 0 && len(opts.include) == 0 {
		return nil
	}
	return &engine.Filter{IncludePatterns: opts.include, ExcludePatterns: opts.exclude}
}
