//go:build cgo && !purego
// +build cgo,!purego

package storage

// Default build: the mattn cgo driver. Faster queries, requires a C
// toolchain at build time.
//
//   CGO_ENABLED=1 go build ./...

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName selects the database/sql driver
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)
