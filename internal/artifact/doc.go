// Package artifact resolves directive arguments to files in a read-only
// artifact store and wraps their contents in fenced code blocks. The store is
// populated by the mirror sync; this package never writes to it.
package artifact
