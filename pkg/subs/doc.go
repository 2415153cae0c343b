// Package subs defines the substitution domain types shared across the
// go-texgen pipeline: the Mapping value handed to the template renderer for
// each row, the Source abstraction identifying where substitutions come from
// (files, fs.FS entries, inline key=value tokens, or streams), and the Reader
// contract satisfied by the internal format-dispatching implementation.
//
// Construction helpers for readers live in the top-level texgen package to
// prevent import cycles.
package subs
