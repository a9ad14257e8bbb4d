// Package file provides the TOML configuration store.
// Settings live in ~/.docsnap/config.toml unless another directory is given.
package file
