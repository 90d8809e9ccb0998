// Package envfile reads KEY=VALUE files such as <config dir>/env, used to
// hand GH_TOKEN and similar settings to the git and gh subprocesses.
// Variables already set in the environment take precedence.
package envfile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Var is one assignment from an env file.
type Var struct {
	Key   string
	Value string
}

// Read parses the file at path. A missing file yields no variables and no
// error.
func Read(path string) ([]Var, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening env file %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only

	var vars []Var
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if key, value, ok := parseLine(line); ok {
			vars = append(vars, Var{Key: key, Value: value})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return vars, nil
}

// Load sets every variable from path that is not already set and returns
// the keys it applied.
func Load(path string) ([]string, error) {
	vars, err := Read(path)
	if err != nil {
		return nil, err
	}
	var applied []string
	for _, v := range vars {
		if _, set := os.LookupEnv(v.Key); set {
			continue
		}
		if err := os.Setenv(v.Key, v.Value); err != nil {
			return applied, fmt.Errorf("setting %s: %w", v.Key, err)
		}
		applied = append(applied, v.Key)
	}
	return applied, nil
}

// parseLine splits KEY=VALUE, dropping an "export " prefix and one level of
// matching quotes around the value.
func parseLine(line string) (key, value string, ok bool) {
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(key), "export "))
	if key == "" {
		return "", "", false
	}
	value = strings.TrimSpace(value)
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
		value = value[1 : len(value)-1]
	}
	return key, value, true
}
