package helpers

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
)

// MarshalJson encodes v without escaping <, > and &, so asset paths and
// markup embedded in catalogs stay readable.
func MarshalJson(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(v)
	return bytes.TrimRight(buf.Bytes(), "\n"), err
}

// WriteJsonFile marshals v with MarshalJson and writes it to path, creating
// parent directories as needed.
func WriteJsonFile(path string, v any) error {
	b, err := MarshalJson(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
