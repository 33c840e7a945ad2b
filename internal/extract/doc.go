// Package extract wraps the external unzip tool used to unpack Live Photo
// bundles into staging workspaces.
package extract
