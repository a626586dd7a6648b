package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/kubishi/yaduha-studio/pkg/loader"
	"github.com/kubishi/yaduha-studio/pkg/schema"
)

// ReloadFunc observes each reload triggered by Watch.
type ReloadFunc func(result loader.Result, err error)

// Watch reloads the schema set at path whenever the file is written,
// created, or renamed into place, until ctx is cancelled. The parent
// directory is watched so editors that replace the file are still seen.
func (o *Orchestrator) Watch(ctx context.Context, path string, onReload ReloadFunc) error {
	if ctx == nil {
		return errors.New("orchestrator: context is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("orchestrator: watch %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("orchestrator: watch %s: %w", path, err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("orchestrator: watch %s: %w", path, err)
	}

	src := schema.SourceFromFile(abs)
	log := o.logger.WithField("source", abs)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.WithField("op", event.Op.String()).Debug("schema file changed")
			result, err := o.Load(ctx, src)
			if onReload != nil {
				onReload(result, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watch error")
		}
	}
}

