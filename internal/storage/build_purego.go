//go:build purego || !cgo
// +build purego !cgo

package storage

// Pure-Go build via modernc.org/sqlite. No C toolchain needed, which
// keeps cross-compilation and scratch containers simple.
//
//   CGO_ENABLED=0 go build ./...

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName selects the database/sql driver
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
