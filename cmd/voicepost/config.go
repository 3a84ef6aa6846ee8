package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// configPath is the optional client config file, e.g.
//
//	server: https://voicepost.example.com
//	timeout: 90s
//	log_file: ~/voicepost.log
func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "voicepost", "config.yaml")
}

// yamlConfig resolves flag defaults from a YAML document. Keys are flag
// names with dashes or underscores; ${VAR} references are expanded.
func yamlConfig(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	values := map[string]any{}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &values); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	var resolver kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		if v, ok := values[flag.Name]; ok {
			return v, nil
		}

		if v, ok := values[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
			return v, nil
		}

		return nil, nil
	}

	return resolver, nil
}
