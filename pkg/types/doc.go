// Package types defines the Store backend contract, the flat property record
// exchanged with it, and the standard error types shared by the metadata tree
// and its backends.
package types
