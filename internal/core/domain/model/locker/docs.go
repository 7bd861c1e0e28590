// Package locker models pickup stations: the Locker aggregate and its numbered
// Compartment entities.
//
// A locker tracks two related quantities. Reservations are counted by
// availableCompartments and move with the order lifecycle (Reserve on order
// creation, Release when the order ends). Physical occupancy is tracked per
// compartment and assigned when the rider takes the item (Occupy).
//
// Callers are expected to load a Locker under a row lock before mutating it so
// that concurrent reservations cannot oversubscribe the station.
package locker
