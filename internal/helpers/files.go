package helpers

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Transform rewrites the content of a copied file. Returning nil keeps the
// original bytes.
type Transform func(path string, content []byte) []byte

// CopyFile copies a single regular file, creating the destination directory.
func CopyFile(src, dst string) (int64, error) {
	sourceFileStat, err := os.Stat(src)
	if err != nil {
		return 0, err
	}

	if !sourceFileStat.Mode().IsRegular() {
		return 0, fmt.Errorf("%s is not a regular file", src)
	}

	source, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer source.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, err
	}

	destination, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	defer destination.Close()
	return io.Copy(destination, source)
}

// CopyTree copies src recursively into dst. When transform is set, file
// contents pass through it before being written.
func CopyTree(src, dst string, transform Transform) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}

		if transform == nil {
			_, err = CopyFile(path, target)
			return err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if out := transform(path, content); out != nil {
			content = out
		}
		return os.WriteFile(target, content, 0644)
	})
}

// ListFiles returns every file below dir whose extension is ext, depth first
// in lexical order. An empty dir yields no files.
func ListFiles(dir, ext string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ext {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
