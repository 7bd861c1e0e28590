// Package services provides domain services that span more than one aggregate.
//
// The package includes:
//   - DeliveryFeePolicy: prices the courier leg between a listing's pickup point
//     and a locker station, with FlatFeePolicy and DistanceFeePolicy implementations
package services
