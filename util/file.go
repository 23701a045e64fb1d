package util

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// SaveJson writes data to path as indented JSON, creating missing parent
// directories.
func SaveJson(path string, data interface{}) error {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	bs, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	_, err = file.Write(bs)
	return err
}
