// Package types defines the Product entity, the ProductStore interface,
// backend configuration, and the standard errors shared by the storage
// backend, the screen, and the CLI.
package types
