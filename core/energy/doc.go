// Package energy implements the power-loss model of a solar car: rolling
// resistance plus aerodynamic drag at a constant cruising speed, and helpers to
// integrate power over a trip.
package energy
