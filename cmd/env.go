package cmd

import (
	"fmt"
	"strings"
)

// parseEnvFlags parses KEY=VALUE pairs into a map.
func parseEnvFlags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	env := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid environment variable %q, expected KEY=VALUE", pair)
		}

		env[key] = value
	}

	return env, nil
}

// mergeEnv merges the overrides into the base environment.
func mergeEnv(base, overrides map[string]string) map[string]string {
	if len(overrides) == 0 {
		return base
	}

	merged := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}

	return merged
}
