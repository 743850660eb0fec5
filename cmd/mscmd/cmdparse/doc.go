// Package cmdparse expands MuseScore command scripts into a flat list of
// command strings.
//
// A script is plain text, one item per line:
//
//	.rep 3            # repeat the block three times
//	    note-input
//	    pad-note-4
//	.endrep
//
//	.macro tie2       # store a sequence for later
//	    tie
//	    tie
//	.endm
//	.insertm tie2     # splice the stored sequence here
//
//	.rep <count>      # <name> is replaced from the substitution map
//
// Tokens without a value in the map become 1. Everything after '#' is a
// comment. Blank lines are ignored. Any other line is passed through as an
// opaque command; the package never checks what commands mean.
//
// Each call owns its macro table, so an Engine can be used from several
// goroutines at once.
package cmdparse
