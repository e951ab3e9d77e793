package configutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// Defaulter is implemented by config structs that fill in their unset fields
// after all files have been merged.
type Defaulter interface {
	SetDefaults()
}

// Validator is implemented by config structs that can reject themselves.
type Validator interface {
	Validate() error
}

func localName(name string) string {
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s.local%s", strings.TrimSuffix(name, ext), ext)
}

func readInto[T any](path string, out *T) (bool, error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(contents, out)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// ReadConfig reads a configuration file, `name` should come with a file extension.
// The following files are merged, where a higher number is more prioritized.
// 1. <name>.<ext>
// 2. <name>.local.<ext>
//
// If neither exists os.ErrNotExist is returned. Defaults and validation are applied
// when T implements Defaulter or Validator.
func ReadConfig[T any](name string) (T, error) {
	var out T

	foundDefault, err := readInto(name, &out)
	if err != nil {
		return out, err
	}

	var override T
	local := localName(name)
	foundLocal, err := readInto(local, &override)
	if err != nil {
		return out, err
	}
	if foundLocal {
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", local)
	}

	if !foundDefault && !foundLocal {
		return out, os.ErrNotExist
	}

	if d, ok := any(&out).(Defaulter); ok {
		d.SetDefaults()
	}
	if v, ok := any(&out).(Validator); ok {
		err = v.Validate()
		if err != nil {
			return out, fmt.Errorf("invalid config %s: %w", name, err)
		}
	}
	return out, nil
}

// ReadRecursively is ReadConfig but it goes up the filesystem from the working
// directory until the root to find a configuration file matching the name.
func ReadRecursively[T any](name string) (T, error) {
	var zero T

	current, err := os.Getwd()
	if err != nil {
		return zero, err
	}

	for {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if err == nil {
			return config, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return zero, err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return zero, os.ErrNotExist
		}
		current = parent
	}
}
