package erp

import (
	"fmt"
	"strconv"
	"strings"
)

// splitArgs separates --name=value flags from positional arguments.
func splitArgs(args []string) ([]string, map[string]string) {
	var pos []string
	flags := map[string]string{}
	for _, arg := range args {
		if strings.HasPrefix(arg, "--") {
			name, value, _ := strings.Cut(arg[2:], "=")
			flags[name] = value
			continue
		}
		pos = append(pos, arg)
	}
	return pos, flags
}

// rowArg parses a 1-based row number into a row index.
func rowArg(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid row: %s (rows start at 1)", s)
	}
	return n - 1, nil
}

func amountArg(what, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", what, s)
	}
	return v, nil
}

// fieldArg is one field=value pair from the command line.
type fieldArg struct {
	Field string
	Value interface{}
}

// fieldArgs parses field=value pairs in command-line order. Values that look
// numeric are sent as numbers.
func fieldArgs(args []string) ([]fieldArg, error) {
	out := make([]fieldArg, 0, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("expected field=value, got %q", arg)
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			out = append(out, fieldArg{k, f})
		} else {
			out = append(out, fieldArg{k, v})
		}
	}
	return out, nil
}
