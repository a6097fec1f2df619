package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher avisa cuando config.json cambia fuera del proceso (edición manual, otra instancia).
// Se vigila el directorio porque las escrituras atómicas reemplazan el archivo.
type Watcher struct {
	fw       *fsnotify.Watcher
	file     string
	onChange func()
	log      zerolog.Logger
}

// NewWatcher empieza a vigilar el directorio de path. onChange se llama en la goroutine de Run.
func NewWatcher(path string, onChange func(), log zerolog.Logger) (*Watcher, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio %s: %w", dir, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("crear watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("vigilar %s: %w", dir, err)
	}
	return &Watcher{fw: fw, file: filepath.Clean(path), onChange: onChange, log: log}, nil
}

// Run procesa eventos hasta que ctx se cancela o el watcher se cierra.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.file {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				w.log.Debug().Str("op", ev.Op.String()).Msg("configuración modificada en disco")
				w.onChange()
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watcher de configuración")
		}
	}
}

// Close detiene la vigilancia.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
