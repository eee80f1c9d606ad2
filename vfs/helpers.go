package vfs

import (
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
)

func ReadFile(d Directory, name string) ([]byte, error) {
	f, err := d.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read file '%s'", name)
	}
	return data, nil
}

func WriteFile(d Directory, name string, data []byte) error {
	return d.Save(name, bytes.NewReader(data))
}

// CheckName rejects names that would leave the directory.
func CheckName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return errors.Errorf("Invalid file name '%s'", name)
	}
	return nil
}
