// Package grid owns the shared board state.
//
// Ownership boundary:
// - cell occupancy
//
// - claim/vacate linearization
//
// Every mutation happens under the grid mutex, and the mutex is never held
// across a sleep, a semaphore wait, or an input read.
package grid
