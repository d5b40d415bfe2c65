// Package heroes holds module-level metadata for herostore.
package heroes

// Version is the herostore release version.
const Version = "0.3.0"

// ModulePath is the Go module path.
const ModulePath = "github.com/mesh-intelligence/herostore"
