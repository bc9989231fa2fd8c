// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package convert turns GLSL shader sources into C headers that embed each
// shader as a string constant.
//
// For a shader named foo.glsl the generated foo.glsl.h looks like:
//
//	#ifndef __SHADER_SOURCE_FOO_H_
//	#define __SHADER_SOURCE_FOO_H_
//	static const char *__shader_source_foo = "...";
//	#endif
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/natefinch/atomic"

	"go.astrophena.name/glslh/logger"
)

// Ext is the extension that marks a shader source, without the leading dot.
const Ext = "glsl"

// HeaderSuffix is appended to a shader's path to form its header path.
const HeaderSuffix = ".h"

// IsShader reports whether name is a shader source, that is, whether the last
// dot-delimited segment of name is exactly "glsl". Names without a dot never
// match.
func IsShader(name string) bool {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return false
	}
	return name[i+1:] == Ext
}

// BaseName returns name with everything from the last period removed.
func BaseName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// Source is a shader file read from the input directory.
type Source struct {
	Path string // full path
	Name string // entry name, e.g. "foo.glsl"
	Data []byte
}

// Header is a generated C header for a single [Source].
type Header struct {
	Path   string // "<source path>.h"
	Symbol string // base name of the source
	Guard  string // include guard symbol
	Body   string // escaped shader text
}

// NewHeader derives the header for src, escaping its content with esc.
// A nil esc means [EscapeNewlines].
func NewHeader(src Source, esc Escaper) Header {
	if esc == nil {
		esc = EscapeNewlines
	}
	name := BaseName(src.Name)
	return Header{
		Path:   src.Path + HeaderSuffix,
		Symbol: name,
		Guard:  "__SHADER_SOURCE_" + strings.ToUpper(name) + "_H_",
		Body:   esc(string(src.Data)),
	}
}

// Bytes renders the header. The output has no trailing newline.
func (h Header) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "#ifndef %s\n", h.Guard)
	fmt.Fprintf(&buf, "#define %s\n", h.Guard)
	fmt.Fprintf(&buf, "static const char *__shader_source_%s = \"%s\";\n", h.Symbol, h.Body)
	buf.WriteString("#endif")
	return buf.Bytes()
}

// Options control a [Dir] run.
type Options struct {
	// Escape escapes shader text for the string literal. Nil means
	// EscapeNewlines.
	Escape Escaper
	// DryRun reports what would be generated without writing anything.
	DryRun bool
	// Atomic writes each header to a temporary file and renames it into
	// place.
	Atomic bool
	// KeepGoing continues past per-file failures and returns all of them
	// joined once every shader has been tried.
	KeepGoing bool
	// Progress receives one line per converted shader. Nil discards them.
	Progress io.Writer
}

// Scan lists the immediate entries of dir and returns the full paths of
// shader sources in lexical order.
func Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &InputError{Dir: dir, Err: err}
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsShader(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// Dir converts every shader source in dir into a header written next to it,
// overwriting previous headers. It returns the headers produced so far.
//
// Unless opts.KeepGoing is set, the first read or write failure aborts the
// run. Headers written before the failure stay on disk.
func Dir(ctx context.Context, dir string, opts Options) ([]Header, error) {
	paths, err := Scan(dir)
	if err != nil {
		return nil, err
	}
	logger.Debug(ctx, "scanned input directory", slog.String("dir", dir), slog.Int("shaders", len(paths)))

	var (
		headers []Header
		errs    []error
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return headers, errors.Join(append(errs, err)...)
		}
		h, err := convertFile(ctx, path, opts)
		if err != nil {
			if !opts.KeepGoing {
				return headers, err
			}
			logger.Warn(ctx, "shader failed", slog.String("path", path), slog.Any("err", err))
			errs = append(errs, err)
			continue
		}
		headers = append(headers, h)
	}
	return headers, errors.Join(errs...)
}

func convertFile(ctx context.Context, path string, opts Options) (Header, error) {
	src, err := readSource(path)
	if err != nil {
		return Header{}, err
	}
	h := NewHeader(src, opts.Escape)

	if opts.DryRun {
		progressf(opts.Progress, "would compile: %s", filepath.Base(h.Path))
		return h, nil
	}

	if err := writeHeader(h, opts.Atomic); err != nil {
		return Header{}, err
	}
	logger.Debug(ctx, "wrote header", slog.String("path", h.Path), slog.String("symbol", h.Symbol))
	progressf(opts.Progress, "shader compiled: %s", filepath.Base(h.Path))
	return h, nil
}

func readSource(path string) (Source, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Source{}, &ReadError{Path: path, Err: err}
	}
	if !utf8.Valid(b) {
		return Source{}, &ReadError{Path: path, Err: ErrInvalidEncoding}
	}
	return Source{Path: path, Name: filepath.Base(path), Data: normalizeNewlines(b)}, nil
}

// normalizeNewlines turns CRLF and lone CR line endings into LF. A raw CR
// inside a C string literal ends the line and breaks the header.
func normalizeNewlines(b []byte) []byte {
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(b, []byte("\r"), []byte("\n"))
}

func writeHeader(h Header, useAtomic bool) error {
	b := h.Bytes()
	var err error
	if useAtomic {
		err = writeAtomic(h.Path, b)
	} else {
		err = os.WriteFile(h.Path, b, 0o644)
	}
	if err != nil {
		return &WriteError{Path: h.Path, Err: err}
	}
	return nil
}

// writeAtomic writes b to a temporary file next to path and renames it into
// place. The header gets mode 0644 like a plain write.
func writeAtomic(path string, b []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp) // no-op after a successful rename

	if _, err := f.Write(b); err != nil {
		f.Close()
		return err
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return atomic.ReplaceFile(tmp, path)
}

func progressf(w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}
	fmt.Fprintf(w, format+"\n", args...)
}

