package blueprints

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mmrzaf/sdstats/internal/domain"
)

type Repository interface {
	List() ([]*domain.Blueprint, error)
	Get(id string) (*domain.Blueprint, error)
	GetByPath(path string) (*domain.Blueprint, error)
}

type FileRepository struct {
	baseDir string
}

func NewFileRepository(baseDir string) *FileRepository {
	return &FileRepository{baseDir: baseDir}
}

// List loads every YAML or JSON blueprint in the base directory. Files that
// fail to parse are skipped.
func (r *FileRepository) List() ([]*domain.Blueprint, error) {
	if _, err := os.Stat(r.baseDir); os.IsNotExist(err) {
		return []*domain.Blueprint{}, nil
	}

	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, err
	}

	list := make([]*domain.Blueprint, 0)
	for _, entry := range entries {
		if entry.IsDir() || !isBlueprintFile(entry.Name()) {
			continue
		}
		bp, err := load(filepath.Join(r.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		list = append(list, bp)
	}

	return list, nil
}

func (r *FileRepository) Get(id string) (*domain.Blueprint, error) {
	list, err := r.List()
	if err != nil {
		return nil, err
	}

	for _, bp := range list {
		if bp.ID == id || bp.Name == id {
			return bp, nil
		}
	}

	return nil, fmt.Errorf("blueprint not found: %s", id)
}

// GetByPath loads a blueprint file. Relative paths are taken from the base
// directory, and no path may leave it.
func (r *FileRepository) GetByPath(path string) (*domain.Blueprint, error) {
	full, err := insideDir(r.baseDir, path)
	if err != nil {
		return nil, err
	}
	return load(full)
}

// LoadFile reads a blueprint from any path, outside the repository too.
func LoadFile(path string) (*domain.Blueprint, error) {
	return load(path)
}

func isBlueprintFile(name string) bool {
	switch filepath.Ext(name) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func insideDir(baseDir, path string) (string, error) {
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(base, full)
	}
	full = filepath.Clean(full)
	rel, err := filepath.Rel(base, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside %s", path, baseDir)
	}
	return full, nil
}

func load(path string) (*domain.Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var bp domain.Blueprint
	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(data, &bp)
	} else {
		err = yaml.Unmarshal(data, &bp)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	if bp.ID == "" {
		bp.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if bp.Name == "" {
		bp.Name = bp.ID
	}

	return &bp, nil
}
