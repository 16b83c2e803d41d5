// Package book translates mdbook's preprocessor protocol into the engine's
// node tree. mdbook sends a JSON array [context, book] on stdin and expects
// the (possibly modified) book back on stdout.
//
// Chapters and books keep every field this package does not interpret, so a
// round trip through ParseInput and WriteOutput changes only chapter content.
package book
