// Package clock supplies the time source used for activity timestamps,
// export file names and token lifetimes.
//
// TimeClocker reads the wall clock in UTC. Fixed stays on one instant until
// Advance moves it.
package clock
