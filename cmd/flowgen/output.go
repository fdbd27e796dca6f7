package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/flowgen/flowgen"
	"github.com/flowgen/flowgen/internal/config"
)

const flowHeader = "// @flow\n"

// layout decides what an output file contains and where it goes.
type layout struct {
	outputFile string
	outDir     string
	base       string
	flowHeader bool
	moduleName string
	stdout     bool
}

// render wraps a translation in the optional flow-typed module and
// header.
func (l layout) render(output string) string {
	if l.moduleName != "" {
		var sb strings.Builder
		sb.WriteString("declare module \"" + l.moduleName + "\" {\n")
		sb.WriteString(output)
		sb.WriteString("}\n")
		output = sb.String()
	}
	if l.flowHeader {
		output = flowHeader + output
	}
	return output
}

func (l layout) path(input string) string {
	if l.outputFile != "" {
		return l.outputFile
	}
	return config.OutputPath(filepath.FromSlash(input), l.outDir, l.base)
}

// write emits every result, in parallel when writing files, and reports a
// status line to status. It returns the number of outputs written.
func (l layout) write(ctx context.Context, results []flowgen.Result, stdout, status io.Writer) (int, error) {
	if l.stdout {
		for _, r := range results {
			if _, err := io.WriteString(stdout, l.render(r.Output)); err != nil {
				return 0, errors.Wrap(err, "write stdout")
			}
		}
		return len(results), nil
	}

	var written atomic.Int32
	g, _ := errgroup.WithContext(ctx)
	for _, r := range results {
		g.Go(func() error {
			path := l.path(r.Path)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return errors.Wrapf(err, "create directory for %s", path)
			}
			if err := os.WriteFile(path, []byte(l.render(r.Output)), 0o644); err != nil {
				return errors.Wrapf(err, "write %s", path)
			}
			written.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(written.Load()), err
	}
	fmt.Fprintln(status, okColor.Sprintf("wrote %d file(s)", written.Load()))
	return int(written.Load()), nil
}
