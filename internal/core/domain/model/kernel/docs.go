// Package kernel holds the value objects shared by every aggregate of the
// locker engine:
//   - UUID: identifier of lockers, orders, listings and marketplace users
//   - Coordinates: a validated latitude/longitude pair with great-circle distance
//   - Clock: the source of "now" for every deadline computation
//
// Value objects are immutable and reject their zero value through Validate.
package kernel
