package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// parseValue converts a --set value: numbers become float64, true/false
// become bool, anything else stays a string.
func parseValue(s string) any {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

func splitAssignment(s string) (key, value string, err error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("%w: expected key=value, got %q", errUsage, s)
	}
	return key, value, nil
}

// parseSets turns k=v assignments into one parameter set.
func parseSets(sets []string) (types.ParameterSet, error) {
	params := types.ParameterSet{}
	for _, s := range sets {
		k, v, err := splitAssignment(s)
		if err != nil {
			return nil, err
		}
		params[k] = parseValue(v)
	}
	return params, nil
}

// parseScopedSets turns id.k=v assignments into one parameter set per
// identifier. The key is the text after the last dot.
func parseScopedSets(sets []string) (map[string]types.ParameterSet, error) {
	out := make(map[string]types.ParameterSet)
	for _, s := range sets {
		k, v, err := splitAssignment(s)
		if err != nil {
			return nil, err
		}
		i := strings.LastIndex(k, ".")
		if i <= 0 || i == len(k)-1 {
			return nil, fmt.Errorf("%w: expected identifier.key=value, got %q", errUsage, s)
		}
		id, key := k[:i], k[i+1:]
		if out[id] == nil {
			out[id] = types.ParameterSet{}
		}
		out[id][key] = parseValue(v)
	}
	return out, nil
}

// parseTimes reads a comma-separated list of times.
func parseTimes(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid time %q", errUsage, part)
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no times given", errUsage)
	}
	return out, nil
}
