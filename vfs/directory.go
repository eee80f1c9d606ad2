package vfs

import (
	"io"
	"os"
	path_ "path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DirectoryDriver exposes the files of a host directory with one of the
// allowed extensions. No extensions allows every file.
type DirectoryDriver struct {
	path string
	exts []string
}

func NewDirectoryDriver(path string, exts ...string) *DirectoryDriver {
	dd := &DirectoryDriver{path: path}
	for _, ext := range exts {
		dd.exts = append(dd.exts, strings.ToLower(ext))
	}
	return dd
}

func (dd *DirectoryDriver) Name() string {
	return path_.Base(dd.path)
}

func (dd *DirectoryDriver) Path() string {
	return dd.path
}

func (dd *DirectoryDriver) allowed(name string) bool {
	if len(dd.exts) == 0 {
		return true
	}
	ext := strings.ToLower(path_.Ext(name))
	for _, e := range dd.exts {
		if e == ext {
			return true
		}
	}
	return false
}

func (dd *DirectoryDriver) resolve(name string) (string, error) {
	if err := CheckName(name); err != nil {
		return "", err
	}
	if !dd.allowed(name) {
		return "", errors.Errorf("File '%s' has unsupported extension", name)
	}
	return path_.Join(dd.path, name), nil
}

func (dd *DirectoryDriver) List() ([]string, error) {
	entries, err := os.ReadDir(dd.path)
	if err != nil {
		return nil, errors.Wrapf(err, "Error getting directory '%s' info", dd.path)
	}
	result := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && dd.allowed(e.Name()) {
			result = append(result, e.Name())
		}
	}
	sort.Strings(result)
	return result, nil
}

func (dd *DirectoryDriver) Open(name string) (io.ReadCloser, error) {
	path, err := dd.resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot open file '%s'", name)
	}
	return f, nil
}

// Save replaces the file through a temporary file in the same directory.
func (dd *DirectoryDriver) Save(name string, src io.Reader) error {
	path, err := dd.resolve(name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dd.path, "."+name+".*")
	if err != nil {
		return errors.Wrapf(err, "file '%s' creation failure", name)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "Cannot copy data to file '%s'", name)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "Cannot close file '%s'", name)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "Cannot replace file '%s'", name)
	}
	log.Debugf("[vfs] Saved '%s'", path)
	return nil
}

func (dd *DirectoryDriver) Remove(name string) error {
	path, err := dd.resolve(name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}
