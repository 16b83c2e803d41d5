// Package mirror keeps a local clone of the artifact repository current and
// regenerates the diagram artifacts from it. Sync is best effort: a failed
// pull or generator run is reported but leaves the existing artifacts in
// place for the substitution pass.
package mirror
