// Command flaca is a batch lossless image re-compressor for GIF, JPEG,
// and PNG.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Blobfolio/flaca/internal/candidate"
	"github.com/Blobfolio/flaca/internal/listfile"
	"github.com/Blobfolio/flaca/internal/pngimage"
	"github.com/Blobfolio/flaca/internal/stats"
	"github.com/Blobfolio/flaca/internal/workpool"
)

// version is the CLI's reported build version, printed by -V/--version.
const version = "1.0.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("flaca", flag.ContinueOnError)

	var (
		help          bool
		showVersion   bool
		progress      bool
		jobs          int
		listPath      string
		noGIF         bool
		noJPEG        bool
		noPNG         bool
		noSymlinks    bool
		preserveTimes bool
		maxResolution uint64
		zIterations   int
	)

	fs.BoolVar(&help, "h", false, "show help")
	fs.BoolVar(&help, "help", false, "show help")
	fs.BoolVar(&showVersion, "V", false, "show version")
	fs.BoolVar(&showVersion, "version", false, "show version")
	fs.BoolVar(&progress, "p", false, "enable progress sink")
	fs.BoolVar(&progress, "progress", false, "enable progress sink")
	fs.IntVar(&jobs, "j", 0, "parallelism; negative = cores + N")
	fs.StringVar(&listPath, "l", "", "read paths from FILE, or stdin if -")
	fs.StringVar(&listPath, "list", "", "read paths from FILE, or stdin if -")
	fs.BoolVar(&noGIF, "no-gif", false, "disable the GIF backend")
	fs.BoolVar(&noJPEG, "no-jpeg", false, "disable the JPEG backend")
	fs.BoolVar(&noPNG, "no-png", false, "disable the PNG backend")
	fs.BoolVar(&noSymlinks, "no-symlinks", false, "skip symlinks during traversal")
	fs.BoolVar(&preserveTimes, "preserve-times", false, "propagate atime/mtime on replace")
	fs.Uint64Var(&maxResolution, "max-resolution", (1<<32)-1, "pixel-count cap")
	fs.IntVar(&zIterations, "z", 0, "override Zopfli iteration count (1-500)")

	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if help {
		fs.Usage()
		return 0
	}
	if showVersion {
		fmt.Fprintln(os.Stdout, "flaca", version)
		return 0
	}

	if zIterations != 0 && (zIterations < 1 || zIterations > 500) {
		fmt.Fprintln(os.Stderr, "flaca: -z must be in [1, 500]")
		return 1
	}

	workers := workpool.ResolveWorkerCount(jobs)

	var paths []string
	if listPath != "" {
		p, err := listfile.ReadListFile(listPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "flaca:", err)
			return 1
		}
		paths = append(paths, p...)
	}
	if rest := fs.Args(); len(rest) > 0 {
		walked, err := listfile.Walk(rest, noSymlinks)
		if err != nil {
			fmt.Fprintln(os.Stderr, "flaca:", err)
			return 1
		}
		paths = append(paths, walked...)
	}

	pngOpts := pngimage.DefaultOptions()
	pngOpts.MaxResolution = maxResolution
	if zIterations != 0 {
		pngOpts.ZopfliOptions.NumIterations = zIterations
	}

	opts := candidate.Options{PNG: pngOpts, PreserveTimes: preserveTimes}
	st := stats.New()
	pool := workpool.New(workers, opts, st)

	jobList := make([]workpool.Job, 0, len(paths))
	for _, path := range paths {
		format, ok, err := listfile.Sniff(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "flaca: skipping", path, "-", err)
			st.AddSkipped()
			continue
		}
		if !ok {
			st.AddSkipped()
			continue
		}
		if (format == candidate.FormatGIF && noGIF) ||
			(format == candidate.FormatJPEG && noJPEG) ||
			(format == candidate.FormatPNG && noPNG) {
			st.AddSkipped()
			continue
		}
		jobList = append(jobList, workpool.Job{Path: path, Format: format})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		for range sigCh {
			pool.Interrupt()
		}
	}()
	defer signal.Stop(sigCh)

	pool.Run(ctx, jobList)

	fmt.Fprintln(os.Stdout, strings.TrimSpace(st.Snapshot().String()))
	return 0
}
