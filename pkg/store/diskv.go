package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/goals/pkg/state"
)

const (
	stateKey     = "goals-state"
	backupKey    = "goals-backup"
	clipboardKey = "goals-clipboard"
	tempDir      = ".tmp"
)

// Persistence defines the persistence contract for goal snapshots. The whole
// snapshot is written and rehydrated at once.
type Persistence interface {
	Load(ctx context.Context) (*state.Snapshot, error)
	Save(snap *state.Snapshot) error
	// Clipboard returns the id of a list marked for cut/paste, if any.
	Clipboard() (string, error)
	SetClipboard(listID string) error
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		TempDir:           filepath.Join(basePath, tempDir),
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		// No cache: other processes write the same files and Watch
		// callers reload after every change.
		CacheSizeMax: 0,
	}), basePath: basePath}, nil
}

type persistence struct {
	mu       sync.Mutex
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) read(key string) (*state.Snapshot, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	snap := state.NewSnapshot()
	if err := json.Unmarshal(val, snap); err != nil {
		return nil, err
	}
	if snap.Schema == "" {
		snap.Schema = state.CurrentSchema
	}
	if snap.Schema != state.CurrentSchema {
		return nil, fmt.Errorf("unsupported schema %q", snap.Schema)
	}
	if err := snap.Check(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Load rehydrates the last saved snapshot. A missing file is an empty state.
// When the current file cannot be decoded the backup taken by the previous
// save is used instead.
func (p *persistence) Load(ctx context.Context) (*state.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.d.Has(stateKey) {
		return state.NewSnapshot(), nil
	}
	snap, err := p.read(stateKey)
	if err == nil {
		return snap, nil
	}
	fmt.Fprintf(os.Stderr, "store: %s: %s\n", stateKey, err)

	if !p.d.Has(backupKey) {
		return nil, fmt.Errorf("store: load state: %w", err)
	}
	backup, berr := p.read(backupKey)
	if berr != nil {
		return nil, fmt.Errorf("store: load state: %w (backup: %v)", err, berr)
	}
	fmt.Fprintf(os.Stderr, "store: restored state from %s\n", backupKey)
	return backup, nil
}

// Save writes snap, keeping the previous readable state as a backup.
func (p *persistence) Save(snap *state.Snapshot) error {
	if snap == nil {
		return errors.New("store: nil snapshot")
	}
	if snap.Schema == "" {
		snap.Schema = state.CurrentSchema
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("store: encode state: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.d.Has(stateKey) {
		if _, err := p.read(stateKey); err == nil {
			prev, err := p.d.Read(stateKey)
			if err == nil {
				if err := p.d.WriteStream(backupKey, bytes.NewReader(prev), true); err != nil {
					fmt.Fprintf(os.Stderr, "store: write %s: %v\n", backupKey, err)
				}
			}
		}
	}
	if err := p.d.WriteStream(stateKey, bytes.NewReader(data), true); err != nil {
		return fmt.Errorf("store: write state: %w", err)
	}
	return nil
}

func (p *persistence) Clipboard() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.d.Has(clipboardKey) {
		return "", nil
	}
	val, err := p.d.Read(clipboardKey)
	if err != nil {
		return "", fmt.Errorf("store: read clipboard: %w", err)
	}
	return strings.TrimSpace(string(val)), nil
}

// SetClipboard records listID for a later paste. An empty id clears it.
func (p *persistence) SetClipboard(listID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if listID == "" {
		if !p.d.Has(clipboardKey) {
			return nil
		}
		return p.d.Erase(clipboardKey)
	}
	return p.d.Write(clipboardKey, []byte(listID))
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}
