// Package version contains information on the current version of the
// planner. It is split from the main program for easy use by both
// cmd/planner and cmd/plannerd.
package version

// Current is the string representing the current version of the planner.
const Current = "0.1.0"
