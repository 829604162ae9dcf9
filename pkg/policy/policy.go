package policy

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/Zarux/tdtictactoe/internal/logger"
	"github.com/Zarux/tdtictactoe/pkg/td"
)

const version = 1

type file struct {
	Version int            `json:"version"`
	Values  *td.ValueTable `json:"values"`
}

// Save writes the table to path, replacing any existing file atomically.
func Save(path string, table *td.ValueTable) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create policy dir")
		}
	}

	data, err := json.MarshalIndent(file{Version: version, Values: table}, "", "\t")
	if err != nil {
		return errors.Wrap(err, "encode policy")
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return errors.Wrap(err, "write policy")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrap(err, "rename policy")
	}

	return nil
}

func Load(path string) (*td.ValueTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read policy")
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "decode policy %s", path)
	}

	if f.Version != version {
		return nil, errors.Errorf("policy %s: unsupported version %d", path, f.Version)
	}

	if f.Values == nil {
		return nil, errors.Errorf("policy %s: no values", path)
	}

	return f.Values, nil
}

// LoadOrEmpty loads the policy at path. A missing or unreadable file is not
// fatal: it is logged and an empty table is returned instead.
func LoadOrEmpty(ctx context.Context, path string) *td.ValueTable {
	log := logger.FromContext(ctx)

	table, err := Load(path)
	if err != nil {
		log.Warn("policy not loaded, starting with an empty table", "path", path, "err", err)
		return td.NewValueTable()
	}

	log.Info("policy loaded", "path", path, "states", table.Len())
	return table
}
