package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flowgen/flowgen/internal/logging"
	"github.com/flowgen/flowgen/internal/watcher"
)

var watchExtensions = []string{".ts", ".tsx", ".mts", ".cts"}

func newWatchCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [files...]",
		Short: "Translate, then translate again whenever an input changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportError(cmd, runWatch(cmd, f, args))
		},
	}
}

func runWatch(cmd *cobra.Command, f *flags, args []string) error {
	ctx := cmd.Context()
	logger, err := newLogger(f)
	if err != nil {
		return errors.Wrap(err, "create logger")
	}
	defer func() { _ = logger.Sync() }()

	j, err := resolveJob(cmd, f, args)
	if err != nil {
		return err
	}
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	var mu sync.Mutex
	rebuild := func(reason string) {
		mu.Lock()
		defer mu.Unlock()
		// Inputs from include patterns are collected again so new files
		// are picked up.
		if len(args) == 0 {
			if fresh, err := resolveJob(cmd, f, args); err == nil {
				j = fresh
			} else {
				_ = reportError(cmd, err)
				return
			}
		}
		c, diags := newCompiler(f, logger, j.cwd, errOut)
		if _, err := compileJob(ctx, c, j, out, errOut, logger); err != nil {
			_ = reportError(cmd, err)
		}
		printDiagnostics(errOut, diags, f.quiet)
		logger.Debug("rebuilt", zap.String("reason", reason))
	}
	rebuild("initial build")

	dirs := watchDirs(j)
	w := watcher.New(dirs, watchExtensions, watcher.DefaultDebounce, func(events []watcher.Event) {
		for _, ev := range events {
			logger.Debug("input changed", zap.String(logging.FieldFile, ev.Path), zap.String("op", ev.Op))
		}
		rebuild(fmt.Sprintf("%d change(s)", len(events)))
	})
	w.SetLogger(logger)

	if !f.quiet {
		fmt.Fprintln(errOut, okColor.Sprintf("watching %d director%s for changes", len(dirs), plural(len(dirs), "y", "ies")))
	}
	return w.Watch(ctx)
}

// watchDirs returns the directory of every input, or the working directory
// when there are no inputs yet.
func watchDirs(j *job) []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	for _, input := range j.inputs {
		add(filepath.Dir(input))
	}
	if len(dirs) == 0 {
		add(j.cwd)
	}
	sort.Strings(dirs)
	return dirs
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
