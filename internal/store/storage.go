package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"testplanner/pkg/logging"

	"gopkg.in/yaml.v3"
)

// errEntityNotFound is returned by Storage when the requested document does not exist.
var errEntityNotFound = errors.New("entity not found")

// Storage keeps one YAML document per entity under
// <dir>/<entityType>/<name>.yaml.
type Storage struct {
	mu  sync.RWMutex
	dir string
}

// NewStorage creates a Storage rooted at dir. The directory is created lazily.
func NewStorage(dir string) *Storage {
	return &Storage{dir: dir}
}

// Dir returns the root directory.
func (ds *Storage) Dir() string {
	return ds.dir
}

// Save marshals v as YAML and stores it for the given entity type and name.
// The write goes through a temporary file and a rename, so readers never see
// a partially written document.
func (ds *Storage) Save(entityType, name string, v interface{}) error {
	return ds.save(entityType, name, v, 0644)
}

// SavePrivate is Save with a file readable by the owner only.
func (ds *Storage) SavePrivate(entityType, name string, v interface{}) error {
	return ds.save(entityType, name, v, 0600)
}

func (ds *Storage) save(entityType, name string, v interface{}, perm os.FileMode) error {
	if err := checkKey(entityType, name); err != nil {
		return err
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", entityType, name, err)
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	targetDir := filepath.Join(ds.dir, entityType)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", targetDir, err)
	}

	filePath := filepath.Join(targetDir, sanitizeFilename(name)+".yaml")
	tmp, err := os.CreateTemp(targetDir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", targetDir, err)
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions on %s: %w", tmpName, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}

	logging.Debug("Storage", "Saved %s/%s to %s", entityType, name, filePath)
	return nil
}

// Load decodes the stored document for entityType/name into out.
// It returns errEntityNotFound when the document does not exist.
func (ds *Storage) Load(entityType, name string, out interface{}) error {
	if err := checkKey(entityType, name); err != nil {
		return err
	}

	ds.mu.RLock()
	defer ds.mu.RUnlock()

	filePath := filepath.Join(ds.dir, entityType, sanitizeFilename(name)+".yaml")
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("entity %s/%s: %w", entityType, name, errEntityNotFound)
		}
		return fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", filePath, err)
	}
	return nil
}

// Delete removes the document for entityType/name. It reports whether a
// document existed.
func (ds *Storage) Delete(entityType, name string) (bool, error) {
	if err := checkKey(entityType, name); err != nil {
		return false, err
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	filePath := filepath.Join(ds.dir, entityType, sanitizeFilename(name)+".yaml")
	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete file %s: %w", filePath, err)
	}

	logging.Debug("Storage", "Deleted %s/%s", entityType, name)
	return true, nil
}

// List returns the sorted document names stored for entityType.
func (ds *Storage) List(entityType string) ([]string, error) {
	if entityType == "" {
		return nil, fmt.Errorf("entityType cannot be empty")
	}

	ds.mu.RLock()
	defer ds.mu.RUnlock()

	files, err := filepath.Glob(filepath.Join(ds.dir, entityType, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", entityType, err)
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		base := filepath.Base(f)
		names = append(names, strings.TrimSuffix(base, filepath.Ext(base)))
	}
	sort.Strings(names)
	return names, nil
}

func checkKey(entityType, name string) error {
	if entityType == "" {
		return fmt.Errorf("entityType cannot be empty")
	}
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

// sanitizeFilename ensures the filename is safe for filesystem operations.
// Generated ids are already safe; profile names are user input.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", ".", "_", " ", "_",
	)
	sanitized := replacer.Replace(strings.TrimSpace(name))

	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_")

	if sanitized == "" {
		sanitized = "unnamed"
	}
	return sanitized
}
