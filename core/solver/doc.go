// Package solver derives the unknown quantity of a solar car trip from the
// three known ones.
//
// Four scenarios are supported:
//   - TimeFromSpeed: distance and speed give the arrival time
//   - SpeedFromTime: distance and arrival time give the required speed
//   - DistanceFromSpeedTime: speed and travel time give the distance
//   - RequiredSpeed: a target state of charge gives the cruising speed
//
// Every scenario also reports the power balance and the projected state of
// charge at arrival. A Solver is immutable and safe for concurrent use.
package solver
