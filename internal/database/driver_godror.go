//go:build cgo

package database

// godror needs the Oracle client libraries through cgo; pure Go builds use go-ora.
import _ "github.com/godror/godror"
