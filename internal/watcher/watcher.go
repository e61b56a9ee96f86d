package watcher

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/toastate/hydrate/internal/tlogger"
)

// Watch reports the files changed below folders until ctx is done. Empty
// folders are ignored and directories created later are watched too.
func Watch(ctx context.Context, folders ...string) (<-chan string, error) {
	wch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, folder := range folders {
		if folder == "" {
			continue
		}
		if err := addTree(wch, folder); err != nil {
			wch.Close()
			return nil, err
		}
	}

	outCh := make(chan string, 100)

	go func() {
		defer close(outCh)
		defer wch.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-wch.Events:
				if !ok {
					return
				}
				tlogger.Debug("watcher", "event", "op", event.Op.String(), "path", event.Name)
				if event.Op&fsnotify.Create == fsnotify.Create {
					// New directories are walked so their files get watched.
					if err := addTree(wch, event.Name); err != nil {
						tlogger.Warn("msg", "Can't watch new path", "path", event.Name, "err", err)
					}
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				tlogger.Info("msg", "Detected change", "path", event.Name)
				select {
				case outCh <- event.Name:
				case <-ctx.Done():
					return
				}
			case err, ok := <-wch.Errors:
				if !ok {
					return
				}
				tlogger.Error("msg", "Watcher error", "err", err)
			}
		}
	}()

	return outCh, nil
}

func addTree(wch *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return wch.Add(path)
		}
		return nil
	})
}

// Debounce groups the paths of in that arrive less than quiet apart. Each
// batch is sorted and deduplicated.
func Debounce(ctx context.Context, in <-chan string, quiet time.Duration) <-chan []string {
	out := make(chan []string)

	go func() {
		defer close(out)
		for {
			var first string
			select {
			case <-ctx.Done():
				return
			case p, ok := <-in:
				if !ok {
					return
				}
				first = p
			}

			seen := map[string]struct{}{first: {}}
			open := true
		collect:
			for {
				select {
				case <-ctx.Done():
					return
				case p, ok := <-in:
					if !ok {
						open = false
						break collect
					}
					seen[p] = struct{}{}
				case <-time.After(quiet):
					break collect
				}
			}

			batch := make([]string, 0, len(seen))
			for p := range seen {
				batch = append(batch, p)
			}
			sort.Strings(batch)

			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}
			if !open {
				return
			}
		}
	}()

	return out
}
