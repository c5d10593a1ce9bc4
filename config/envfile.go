package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// readFileValues parses the values file at path, dispatching on extension:
// .yaml/.yml files are flat YAML mappings, everything else is KEY=VALUE
// lines.
func readFileValues(path string) (map[string]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return readYAMLValues(path)
	default:
		return readEnvValues(path)
	}
}

// readEnvValues parses one KEY=VALUE assignment per line. Lines without
// '=' and lines starting with '#' are ignored, the split happens at the
// first '=', and a later duplicate key overwrites an earlier one.
func readEnvValues(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		values[strings.TrimSpace(key)] = trimQuotes(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}

	return values, nil
}

// trimQuotes strips one layer of matching surrounding quotes, double or
// single. Unmatched quotes are left in place.
func trimQuotes(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if first == last && (first == '"' || first == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// readYAMLValues parses a flat YAML mapping, keeping each scalar's literal
// text so that type coercion stays with the casts rather than the YAML
// decoder.
func readYAMLValues(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", path, err)
	}

	values := make(map[string]string, len(doc))
	for key, node := range doc {
		if node.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("parse YAML %s: value for %q is not a scalar", path, key)
		}
		values[key] = node.Value
	}

	return values, nil
}
