// Package assets holds the data files (message templates) embedded in the
// binary by main and registered with UpdateData.
package assets

import (
	"io/fs"

	"github.com/pkg/errors"
)

// MessageTemplate is the notification message template.
const MessageTemplate = "templates/message.md.tmpl"

var efs fs.FS

func GetData() fs.FS {
	return efs
}

func UpdateData(d fs.FS) {
	efs = d
}

// ReadFile reads a file from the registered data.
func ReadFile(name string) ([]byte, error) {
	if efs == nil {
		return nil, errors.New("no embedded data registered")
	}
	data, err := fs.ReadFile(efs, name)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read asset %s", name)
	}
	return data, nil
}

// GetAllFilenames return all file names from an path in the data FS.
func GetAllFilenames(fsys fs.FS, path string) (files []string, err error) {
	if err := fs.WalkDir(fsys, path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	}); err != nil {
		return nil, err
	}

	return files, nil
}
