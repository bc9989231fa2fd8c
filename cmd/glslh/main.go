// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"

	"go.astrophena.name/glslh/cli"
	"go.astrophena.name/glslh/convert"
	"go.astrophena.name/glslh/logger"
)

func main() { cli.Main(new(app)) }

type app struct {
	escape    string
	dry       bool
	atomic    bool
	keepGoing bool
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.StringVar(&a.escape, "escape", "newline", "How to escape shader text: `mode` newline (only newlines) or c (full C string literal).")
	fs.BoolVar(&a.dry, "dry", false, "Print the headers that would be generated, without writing them.")
	fs.BoolVar(&a.atomic, "atomic", false, "Write each header to a temporary file and rename it into place.")
	fs.BoolVar(&a.keepGoing, "keep-going", false, "Convert the remaining shaders after a failure and report all failures at the end.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)

	if len(env.Args) < 1 {
		fmt.Fprintln(env.Stdout, "error: no input folder given!")
		return nil
	}
	if len(env.Args) > 1 {
		return fmt.Errorf("%w: want one input folder, got %d arguments", cli.ErrInvalidArgs, len(env.Args))
	}

	esc, err := convert.ParseEscaper(a.escape)
	if err != nil {
		return fmt.Errorf("%w: %v", cli.ErrInvalidArgs, err)
	}

	dir := env.Args[0]
	headers, err := convert.Dir(ctx, dir, convert.Options{
		Escape:    esc,
		DryRun:    a.dry,
		Atomic:    a.atomic,
		KeepGoing: a.keepGoing,
		Progress:  env.Stdout,
	})
	logger.Debug(ctx, "done", slog.String("dir", dir), slog.Int("headers", len(headers)))
	if err != nil && a.keepGoing {
		failed := countErrors(err)
		env.Logf("%d of %d shaders failed", failed, len(headers)+failed)
	}
	return err
}

// countErrors returns how many errors err joins, or 1 if it joins none.
func countErrors(err error) int {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return len(j.Unwrap())
	}
	return 1
}
