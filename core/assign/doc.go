// Package assign seats students in vehicles.
//
// Build turns student and vehicle records into a 0-1 model of cardinality
// constraints: every student rides exactly once, loads stay within capacity,
// each vehicle has a licensed driver, every covered grade and both genders
// appear in each vehicle, and students with consecutive ids ride apart.
// An Engine searches the model and returns an Outcome; Extract converts a
// solved outcome into a Table and re-checks it against the model.
//
// Two engines are registered: "bnb", a depth-first branch-and-bound with
// propagation and LP relaxation bounds, and "sat", a CNF encoding solved by
// a CDCL solver. Planner chains the three stages with logging and metrics.
package assign
