// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package clitest provides table-driven testing for [cli.App] implementations.
package clitest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"go.astrophena.name/glslh/cli"
	"go.astrophena.name/glslh/testutil"
)

// WorkDir is replaced in [Case.Args] by the path of the case's working
// directory.
const WorkDir = "$WORK"

// Case describes a single invocation of an application and what to expect
// from it.
type Case[T cli.App] struct {
	// Args are the command-line arguments. Occurrences of WorkDir are
	// replaced with the working directory.
	Args []string
	// Stdin is the standard input. Nil means empty input.
	Stdin io.Reader
	// Env holds environment variables visible to the application.
	Env map[string]string
	// Files is a txtar archive extracted into the working directory before
	// the application runs.
	Files string

	// WantErr is checked with errors.Is.
	WantErr error
	// WantErrType is checked with errors.As against a value of the same type.
	WantErrType error
	// WantNothingPrinted asserts that stdout and stderr stay empty.
	WantNothingPrinted bool
	// WantInStdout must be contained in stdout.
	WantInStdout string
	// WantInStderr must be contained in stderr.
	WantInStderr string

	// CheckFunc, if set, inspects the application after it ran.
	CheckFunc func(t *testing.T, app T)
	// CheckDir, if set, inspects the working directory after the
	// application ran.
	CheckDir func(t *testing.T, dir string)
}

// Run runs each case as a subtest, creating a fresh application with setup.
func Run[T cli.App](t *testing.T, setup func(*testing.T) T, cases map[string]Case[T]) {
	t.Helper()
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			app := setup(t)
			dir := t.TempDir()
			if tc.Files != "" {
				testutil.ExtractTxtar(t, txtar.Parse([]byte(tc.Files)), dir)
			}

			args := make([]string, len(tc.Args))
			for i, arg := range tc.Args {
				args[i] = strings.ReplaceAll(arg, WorkDir, dir)
			}
			stdin := tc.Stdin
			if stdin == nil {
				stdin = strings.NewReader("")
			}

			var stdout, stderr bytes.Buffer
			env := &cli.Env{
				Args:   args,
				Stdin:  stdin,
				Stdout: &stdout,
				Stderr: &stderr,
				Getenv: func(key string) string { return tc.Env[key] },
			}
			err := cli.Run(cli.WithEnv(context.Background(), env), app)

			switch {
			case tc.WantErr != nil:
				if !errors.Is(err, tc.WantErr) {
					t.Fatalf("want error %v, got %v", tc.WantErr, err)
				}
			case tc.WantErrType != nil:
				target := reflect.New(reflect.TypeOf(tc.WantErrType))
				if !errors.As(err, target.Interface()) {
					t.Fatalf("want error of type %T, got %v", tc.WantErrType, err)
				}
			case err != nil:
				t.Fatalf("unexpected error: %v", err)
			}

			if tc.WantNothingPrinted && (stdout.Len() > 0 || stderr.Len() > 0) {
				t.Errorf("want nothing printed, got stdout %q and stderr %q", stdout.String(), stderr.String())
			}
			if tc.WantInStdout != "" && !strings.Contains(stdout.String(), tc.WantInStdout) {
				t.Errorf("stdout must contain %q, got: %q", tc.WantInStdout, stdout.String())
			}
			if tc.WantInStderr != "" && !strings.Contains(stderr.String(), tc.WantInStderr) {
				t.Errorf("stderr must contain %q, got: %q", tc.WantInStderr, stderr.String())
			}

			if tc.CheckFunc != nil {
				tc.CheckFunc(t, app)
			}
			if tc.CheckDir != nil {
				tc.CheckDir(t, dir)
			}
		})
	}
}
