package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/analysis"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/export"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/fetch"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/loader"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/render"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/store"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/timeline"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/ui"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/watcher"
)

const appVersion = "0.2.0"

// snapshotsToKeep bounds the offline cache.
const snapshotsToKeep = 10

type options struct {
	path       string
	mainBranch string
	maxPast    int
	format     string
	out        string
	exportDir  string
	serve      bool
	port       int
	open       bool
	watch      bool
	cached     bool
	plain      bool
	width      int
	yes        bool
	verbose    bool
}

func main() {
	var opts options
	help := flag.Bool("help", false, "Show help")
	version := flag.Bool("version", false, "Show version")
	flag.StringVar(&opts.path, "path", ".", "Project directory containing the .timeline snapshot")
	flag.StringVar(&opts.mainBranch, "main", timeline.DefaultMainBranch, "Name of the main branch")
	flag.IntVar(&opts.maxPast, "max-past", timeline.DefaultMaxPastPRs, "Merged/closed PRs to show; negative means all")
	flag.StringVar(&opts.format, "format", "", "Write the timeline as text, svg, png, or json instead of the TUI")
	flag.StringVar(&opts.out, "out", "", "Output file for -format (default stdout)")
	flag.StringVar(&opts.exportDir, "export", "", "Write a static site bundle to this directory")
	flag.BoolVar(&opts.serve, "serve", false, "Serve the exported bundle locally")
	flag.IntVar(&opts.port, "port", 0, "Preview server port (0 picks a free one)")
	flag.BoolVar(&opts.open, "open", false, "Open the preview in a browser")
	flag.BoolVar(&opts.watch, "watch", false, "Re-render when snapshot files change (with -format or -export)")
	flag.BoolVar(&opts.cached, "cached", false, "Render from the last cached snapshot instead of reading files")
	flag.BoolVar(&opts.plain, "plain", false, "Plain text output even on a terminal")
	flag.IntVar(&opts.width, "width", 0, "Text output width (0 disables truncation)")
	flag.BoolVar(&opts.yes, "yes", false, "Skip confirmation prompts")
	flag.BoolVar(&opts.verbose, "verbose", false, "Debug logging")
	flag.Parse()

	if *help {
		fmt.Println("Usage: tv [options]")
		fmt.Println("\nA timeline viewer for pull requests and dependency-linked issues.")
		flag.PrintDefaults()
		os.Exit(0)
	}
	if *version {
		fmt.Printf("tv version %s\n", appVersion)
		os.Exit(0)
	}

	logger := log.New(os.Stderr)
	if opts.verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if err := run(opts, logger); err != nil {
		logger.Error("tv failed", "err", err)
		os.Exit(1)
	}
}

func run(opts options, logger *log.Logger) error {
	ctx := context.Background()

	snap, hash, err := acquire(ctx, opts, logger)
	if err != nil {
		return err
	}

	build := func() (*timeline.Graph, timeline.TimelineLaneLayout, map[string]analysis.IssueMetrics) {
		deps := snap.DependencyLookup()
		b := timeline.NewBuilder()
		b.MainBranch = opts.mainBranch
		if opts.maxPast < 0 {
			b.MaxPastPRs = nil
		} else {
			b.MaxPastPRs = &opts.maxPast
		}
		b.LinkedPRStatus = linkedStatuses(snap.PullRequests)
		g := b.Build(snap.PullRequests, snap.Issues, deps)
		layout := timeline.CalculateLanes(g.Nodes, g.MainBranchName)
		metrics := analysis.ComputeMetrics(snap.Issues, deps)
		return g, layout, metrics
	}
	g, layout, metrics := build()

	cfg, err := render.LoadConfig(filepath.Join(opts.path, loader.SnapshotDir, "render.yml"))
	if err != nil {
		return err
	}

	switch {
	case opts.exportDir != "":
		return runExport(ctx, opts, logger, g, layout, metrics, hash, cfg, func() error {
			snap2, hash2, err := acquire(ctx, opts, logger)
			if err != nil {
				return err
			}
			snap, hash = snap2, hash2
			g, layout, metrics = build()
			e := export.New(g, layout, metrics, hash)
			return export.WriteBundle(opts.exportDir, e, g, layout, cfg)
		})

	case opts.format != "":
		write := func() error {
			out, closeOut, err := openOutput(opts.out)
			if err != nil {
				return err
			}
			defer closeOut()
			return writeFormat(out, opts.format, opts.width, g, layout, metrics, hash, cfg)
		}
		if err := write(); err != nil {
			return err
		}
		if opts.watch {
			return watchAndRerun(ctx, opts, logger, func() error {
				snap2, hash2, err := acquire(ctx, opts, logger)
				if err != nil {
					return err
				}
				snap, hash = snap2, hash2
				g, layout, metrics = build()
				return write()
			})
		}
		return nil

	default:
		if opts.plain || !term.IsTerminal(int(os.Stdout.Fd())) {
			return render.WriteText(os.Stdout, g, layout, opts.width)
		}
		return ui.Run(g, layout, metrics)
	}
}

// acquire reads the snapshot, either from disk with cache refresh or
// straight from the cache for offline use.
func acquire(ctx context.Context, opts options, logger *log.Logger) (fetch.Snapshot, string, error) {
	db, err := store.Open(filepath.Join(opts.path, loader.SnapshotDir, "cache", "snapshots.db"))
	if err != nil {
		return fetch.Snapshot{}, "", err
	}
	defer db.Close()

	if opts.cached {
		snap, hash, err := db.LatestSnapshot()
		if err != nil {
			return fetch.Snapshot{}, "", fmt.Errorf("load cached snapshot: %w", err)
		}
		logger.Debug("using cached snapshot", "hash", hash)
		return snap, hash, nil
	}

	snap := fetch.Collect(ctx, fetch.NewFileSource(opts.path), logger)
	if len(snap.PullRequests) == 0 && len(snap.Issues) == 0 {
		return fetch.Snapshot{}, "", fmt.Errorf("no timeline data in %s (expected %s/)", opts.path, loader.SnapshotDir)
	}

	hash := analysis.ComputeDataHash(snap.PullRequests, snap.Issues, snap.Dependencies)
	if err := db.SaveSnapshot(snap, hash); err != nil {
		logger.Warn("could not cache snapshot", "err", err)
	} else if err := db.Prune(snapshotsToKeep); err != nil {
		logger.Warn("could not prune snapshot cache", "err", err)
	}
	return snap, hash, nil
}

// linkedStatuses maps issues to the status of an open PR working on
// them, recognized by the issue-<id> branch naming convention.
func linkedStatuses(prs []model.PullRequest) map[string]model.PRStatus {
	linked := make(map[string]model.PRStatus)
	for _, pr := range prs {
		if pr.Status.IsClosed() {
			continue
		}
		if id, ok := strings.CutPrefix(pr.BranchName, "issue-"); ok && id != "" {
			linked[strings.ToLower(id)] = pr.Status
		}
	}
	return linked
}

func runExport(ctx context.Context, opts options, logger *log.Logger,
	g *timeline.Graph, layout timeline.TimelineLaneLayout,
	metrics map[string]analysis.IssueMetrics, hash string, cfg render.Config,
	rebuild func() error) error {

	if !opts.yes {
		if err := confirmOverwrite(opts.exportDir); err != nil {
			return err
		}
	}

	e := export.New(g, layout, metrics, hash)
	if err := export.WriteBundle(opts.exportDir, e, g, layout, cfg); err != nil {
		return err
	}
	logger.Info("bundle written", "dir", opts.exportDir, "nodes", len(e.Nodes))

	if opts.serve {
		if opts.watch {
			go func() {
				if err := watchAndRerun(ctx, opts, logger, rebuild); err != nil && err != context.Canceled {
					logger.Warn("watch stopped", "err", err)
				}
			}()
		}
		srv, err := export.NewPreviewServer(opts.exportDir, opts.port, logger)
		if err != nil {
			return err
		}
		return srv.Start(opts.open)
	}
	if opts.watch {
		return watchAndRerun(ctx, opts, logger, rebuild)
	}
	return nil
}

// confirmOverwrite asks before writing into a directory that already
// has files in it.
func confirmOverwrite(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) == 0 {
		return nil
	}

	var proceed bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("%s is not empty. Overwrite bundle files?", dir)).
			Value(&proceed),
	))
	if err := form.Run(); err != nil {
		return fmt.Errorf("confirm export: %w", err)
	}
	if !proceed {
		return fmt.Errorf("export cancelled")
	}
	return nil
}

func watchAndRerun(ctx context.Context, opts options, logger *log.Logger, rerun func() error) error {
	w := watcher.New(
		filepath.Join(opts.path, loader.SnapshotDir),
		[]string{loader.PullRequestsFile, loader.IssuesFile, loader.DependenciesFile},
		0, logger,
		func() {
			logger.Info("snapshot changed, re-rendering")
			if err := rerun(); err != nil {
				logger.Warn("re-render failed", "err", err)
			}
		},
	)
	logger.Info("watching for snapshot changes", "dir", filepath.Join(opts.path, loader.SnapshotDir))
	return w.Run(ctx)
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func writeFormat(w io.Writer, format string, width int,
	g *timeline.Graph, layout timeline.TimelineLaneLayout,
	metrics map[string]analysis.IssueMetrics, hash string, cfg render.Config) error {

	switch format {
	case "text":
		return render.WriteText(w, g, layout, width)
	case "svg":
		return render.WriteSVG(w, g, layout, cfg)
	case "png":
		return render.WritePNG(w, g, layout, cfg)
	case "json":
		return export.New(g, layout, metrics, hash).WriteJSON(w)
	}
	return fmt.Errorf("unknown format %q (want text, svg, png, or json)", format)
}
