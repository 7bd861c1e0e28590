// Package listing models the marketplace listing as far as the order engine
// touches it: its seller, price snapshot, availability and optional CO2 saving.
// Listing CRUD lives elsewhere; this package only moves a listing between
// active, reserved and sold in lock-step with its order.
package listing
