// Package quantita holds build metadata for the quantita module.
package quantita

// Version is the released version of the quantita CLI.
const Version = "0.1.0"

// ModulePath is the Go module path of this repository.
const ModulePath = "github.com/mesh-intelligence/quantita"
