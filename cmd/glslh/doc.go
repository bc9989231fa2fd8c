// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Glslh embeds GLSL shaders into C headers.

Usage:

	$ glslh [flags] <input-folder>

For every file in the input folder whose name ends in .glsl, glslh writes a
header next to it named after the shader with .h appended (blur.glsl becomes
blur.glsl.h). The header defines

	static const char *__shader_source_blur = "...";

guarded by __SHADER_SOURCE_BLUR_H_. Subfolders are not scanned and existing
headers are overwritten. CRLF and CR line endings are read as LF.

By default only newlines are escaped, which keeps the output identical to
headers generated by earlier versions of the tool. Pass -escape=c to escape
quotes, backslashes and control characters as well.

When no input folder is given glslh prints a notice and exits successfully,
so build scripts that call it unconditionally keep working.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/glslh/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
