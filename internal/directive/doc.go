// Package directive implements the substitution engine that expands
// $command(argument) markers in chapter text. Each marker is dispatched to a
// Resolver registered under its command name and replaced by the resolver's
// output. Failures and unknown commands are reported to an Observer and
// replaced by the empty string, so one bad directive never aborts a pass.
package directive
