package vfs

import (
	"io"
)

// Directory is a flat store of named files.
type Directory interface {
	Name() string
	List() ([]string, error)
	Open(name string) (io.ReadCloser, error)
	Save(name string, src io.Reader) error
	Remove(name string) error
}
