// Package compiler runs external TeX engines as scoped subprocesses. Each
// engine compiles one rendered document inside a working directory, captures
// the engine's combined output for diagnostics, and cleans up intermediate
// files on every exit path. A Registry keyed by engine name lets callers pick
// pdflatex, xelatex, or lualatex without changing the invocation contract.
package compiler
