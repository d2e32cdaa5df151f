// Package game owns the concurrency core of a whack-a-mole round.
//
// Ownership boundary:
// - mole worker lifecycle
//
// - input tracking and scoring
//
// - termination and join
//
// Lifecycle order:
// - validate -> allocate grid/gate -> spawn tracker, moles, loop -> flag -> join
//
// - moles never respawn; each exits for good once the flag is observed.
//
// - a cell claimed by a mole is always vacated before its permit is released,
// including on shutdown and on a recovered panic.
//
// Rendering, menus, and argument parsing live outside this package and talk to
// it only through Handle.
package game
