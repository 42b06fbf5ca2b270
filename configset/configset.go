package configset

import (
	"io"
	"log/slog"
	"sync"

	"github.com/redhatinsights/gitcfg/internal/parser"
)

// FileID identifies a loaded file by its position in load order.
type FileID int

// Directive is one key/value line of a loaded file.
type Directive struct {
	Key   string
	Value string
	// Implicit is set when the key was given without "=", which reads as
	// true for booleans and has no string value.
	Implicit bool
	File     FileID
	Line     int
}

// Option configures a ConfigSet.
type Option func(*ConfigSet)

// WithHomeDir sets the directory used to expand "~/" in GetPathname instead
// of the current user's home directory.
func WithHomeDir(dir string) Option {
	return func(cs *ConfigSet) {
		cs.home = dir
	}
}

// ConfigSet is a merged, read-only view over a list of config files. Later
// files take precedence over earlier ones.
type ConfigSet struct {
	mu sync.RWMutex

	home       string
	files      []string
	directives []Directive
	// index maps normalized keys to positions in directives, in load order.
	index map[string][]int
	keys  []string
}

// New returns an empty ConfigSet.
func New(opts ...Option) *ConfigSet {
	cs := &ConfigSet{
		index: make(map[string][]int),
	}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

// AddFiles loads the given files in order. Directives of a file are only
// added once the whole file parsed; if a file fails, the files before it
// stay loaded and the error is returned.
func (cs *ConfigSet) AddFiles(paths ...string) error {
	for _, path := range paths {
		events, err := parser.ParseFile(path)
		if err != nil {
			return err
		}
		cs.commit(path, events)
	}
	return nil
}

// AddReader loads a single config from r under the given name.
func (cs *ConfigSet) AddReader(name string, r io.Reader) error {
	events, err := parser.Parse(name, r)
	if err != nil {
		return err
	}
	cs.commit(name, events)
	return nil
}

func (cs *ConfigSet) commit(name string, events []parser.Event) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	id := FileID(len(cs.files))
	cs.files = append(cs.files, name)
	for _, ev := range events {
		key := ev.Key()
		if _, ok := cs.index[key]; !ok {
			cs.keys = append(cs.keys, key)
		}
		cs.index[key] = append(cs.index[key], len(cs.directives))
		cs.directives = append(cs.directives, Directive{
			Key:      key,
			Value:    ev.Value,
			Implicit: ev.Implicit,
			File:     id,
			Line:     ev.Line,
		})
	}

	slog.Debug("loaded config file", "file", name, "directives", len(events))
}

// Lookup returns the directive that currently wins for key.
func (cs *ConfigSet) Lookup(key string) (Directive, bool, error) {
	key, err := NormalizeKey(key)
	if err != nil {
		return Directive{}, false, err
	}

	cs.mu.RLock()
	defer cs.mu.RUnlock()

	positions := cs.index[key]
	if len(positions) == 0 {
		return Directive{}, false, nil
	}
	return cs.directives[positions[len(positions)-1]], true, nil
}

// GetAll returns every value set for key, in load order. Flag directives
// appear as empty strings.
func (cs *ConfigSet) GetAll(key string) ([]string, error) {
	key, err := NormalizeKey(key)
	if err != nil {
		return nil, err
	}

	cs.mu.RLock()
	defer cs.mu.RUnlock()

	positions := cs.index[key]
	if len(positions) == 0 {
		return nil, nil
	}
	values := make([]string, 0, len(positions))
	for _, p := range positions {
		values = append(values, cs.directives[p].Value)
	}
	return values, nil
}

// GetString returns the last value of key. Flag directives have no string
// value and read as absent.
func (cs *ConfigSet) GetString(key string) (string, bool, error) {
	d, ok, err := cs.Lookup(key)
	if err != nil || !ok || d.Implicit {
		return "", false, err
	}
	return d.Value, true, nil
}

// GetInt returns the last value of key as a 32-bit integer.
func (cs *ConfigSet) GetInt(key string) (int32, bool, error) {
	d, ok, err := cs.Lookup(key)
	if err != nil || !ok {
		return 0, false, err
	}
	if d.Implicit {
		return 0, false, cs.typeError(d, "numeric", ErrInvalidValue)
	}
	v, err := ParseInt32(d.Value)
	if err != nil {
		return 0, false, cs.typeError(d, "numeric", err)
	}
	return v, true, nil
}

// GetInt64 returns the last value of key as a 64-bit integer.
func (cs *ConfigSet) GetInt64(key string) (int64, bool, error) {
	d, ok, err := cs.Lookup(key)
	if err != nil || !ok {
		return 0, false, err
	}
	if d.Implicit {
		return 0, false, cs.typeError(d, "numeric", ErrInvalidValue)
	}
	v, err := ParseInt64(d.Value)
	if err != nil {
		return 0, false, cs.typeError(d, "numeric", err)
	}
	return v, true, nil
}

// GetUint64 returns the last value of key as an unsigned 64-bit integer.
func (cs *ConfigSet) GetUint64(key string) (uint64, bool, error) {
	d, ok, err := cs.Lookup(key)
	if err != nil || !ok {
		return 0, false, err
	}
	if d.Implicit {
		return 0, false, cs.typeError(d, "numeric", ErrInvalidValue)
	}
	v, err := ParseUint64(d.Value)
	if err != nil {
		return 0, false, cs.typeError(d, "numeric", err)
	}
	return v, true, nil
}

// GetBool returns the last value of key as a boolean. A flag directive is
// true.
func (cs *ConfigSet) GetBool(key string) (bool, bool, error) {
	d, ok, err := cs.Lookup(key)
	if err != nil || !ok {
		return false, false, err
	}
	if d.Implicit {
		return true, true, nil
	}
	v, err := ParseBool(d.Value)
	if err != nil {
		return false, false, cs.typeError(d, "boolean", err)
	}
	return v, true, nil
}

// GetPathname returns the last value of key with "~" expanded. Flag
// directives read as absent.
func (cs *ConfigSet) GetPathname(key string) (string, bool, error) {
	d, ok, err := cs.Lookup(key)
	if err != nil || !ok || d.Implicit {
		return "", false, err
	}
	p, err := expandPath(d.Value, cs.home)
	if err != nil {
		return "", false, cs.typeError(d, "path", err)
	}
	return p, true, nil
}

// ExpandPath expands "~" the same way GetPathname does, honouring
// WithHomeDir.
func (cs *ConfigSet) ExpandPath(path string) (string, error) {
	return expandPath(path, cs.home)
}

// Keys returns the distinct keys in the order they were first seen.
func (cs *ConfigSet) Keys() []string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	return append([]string(nil), cs.keys...)
}

// Directives returns all directives in load order.
func (cs *ConfigSet) Directives() []Directive {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	return append([]Directive(nil), cs.directives...)
}

// Files returns the names of the loaded files in load order.
func (cs *ConfigSet) Files() []string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	return append([]string(nil), cs.files...)
}

// Origin returns the name of the file with the given id, or "" if there is
// none.
func (cs *ConfigSet) Origin(id FileID) string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	if id < 0 || int(id) >= len(cs.files) {
		return ""
	}
	return cs.files[id]
}

func (cs *ConfigSet) typeError(d Directive, typ string, err error) error {
	return &TypeError{
		Key:   d.Key,
		Value: d.Value,
		Type:  typ,
		File:  cs.Origin(d.File),
		Line:  d.Line,
		Err:   err,
	}
}
