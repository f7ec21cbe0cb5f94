// Package filestore stores procedure definitions as YAML files below a root
// directory. The procedure id maps to a file path by turning each dot into
// a directory separator, so "Example.Item.List" is stored in
// "Example/Item/List.yaml".
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
	"github.com/jsamuelsen11/rapidcontext/internal/ports"
)

// Compile-time interface check.
var _ ports.ProcedureStore = (*Store)(nil)

// Ext is the file extension of stored definitions.
const Ext = ".yaml"

// idPattern matches the procedure ids that can be stored.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+(\.[A-Za-z0-9_-]+)*$`)

// Store is a directory of procedure definitions.
type Store struct {
	root string
}

// New creates a store rooted at dir. The directory is created on the first
// Store call if it does not exist.
func New(dir string) *Store {
	return &Store{root: filepath.Clean(dir)}
}

// Root returns the store directory.
func (s *Store) Root() string { return s.root }

// Path returns the file path for id.
func (s *Store) Path(id string) (string, error) {
	if !idPattern.MatchString(id) {
		return "", procedure.Errorf(procedure.ErrArgument, "invalid procedure id %q", id)
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.ReplaceAll(id, ".", "/"))+Ext), nil
}

// ID returns the procedure id for a file path below the root, or false if
// the path is not a definition file.
func (s *Store) ID(path string) (string, bool) {
	rel, err := filepath.Rel(s.root, path)
	if err != nil || !strings.HasSuffix(rel, Ext) {
		return "", false
	}
	id := strings.ReplaceAll(filepath.ToSlash(strings.TrimSuffix(rel, Ext)), "/", ".")
	if !idPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

// Lookup implements ports.ProcedureStore.
func (s *Store) Lookup(_ context.Context, id string) (*ports.Metadata, error) {
	path, err := s.Path(id)
	if err != nil {
		return nil, notFound(id)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, notFound(id)
	}
	return &ports.Metadata{ID: id, Modified: info.ModTime()}, nil
}

// Load implements ports.ProcedureStore. A definition without an id takes
// the id of its path; a conflicting id is an error.
func (s *Store) Load(ctx context.Context, id string) (*procedure.Definition, error) {
	meta, err := s.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	path, _ := s.Path(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var def procedure.Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, &procedure.Error{
			Kind:      procedure.ErrBinding,
			Procedure: id,
			Msg:       "malformed procedure definition",
			Err:       err,
		}
	}
	switch def.ID {
	case "":
		def.ID = id
	case id:
	default:
		return nil, procedure.Errorf(procedure.ErrBinding,
			"definition in %s has id %q", path, def.ID).WithProcedure(id)
	}
	def.Modified = meta.Modified
	return &def, nil
}

// Store implements ports.ProcedureStore. The file is replaced atomically.
func (s *Store) Store(_ context.Context, def *procedure.Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	path, err := s.Path(def.ID)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(def)
	if err != nil {
		return fmt.Errorf("encoding procedure %q: %w", def.ID, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*"+Ext)
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// Remove implements ports.ProcedureStore.
func (s *Store) Remove(_ context.Context, id string) error {
	path, err := s.Path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return notFound(id)
		}
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// Query implements ports.ProcedureStore. A missing root directory holds no
// procedures.
func (s *Store) Query(ctx context.Context) ([]string, error) {
	ids := []string{}
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == s.root {
				return fs.SkipAll
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != s.root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if id, ok := s.ID(path); ok {
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.root, err)
	}
	slices.Sort(ids)
	return ids, nil
}

func notFound(id string) error {
	return procedure.Errorf(procedure.ErrNotFound, "no procedure %q stored", id)
}
