// Package types defines the Entity model, the Gateway interface, collection
// names, and the standard errors shared by the herostore packages.
package types
