// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package resource

// intsParam extracts an []int from a decoded-JSON value (usually
// []interface{} of float64, since configuration arrives as generic
// map[string]any from encoding/json).
func intsParam(v any) []int {
	switch vv := v.(type) {
	case []int:
		return vv
	case []any:
		out := make([]int, 0, len(vv))
		for _, e := range vv {
			switch n := e.(type) {
			case float64:
				out = append(out, int(n))
			case int:
				out = append(out, n)
			}
		}
		return out
	default:
		return nil
	}
}

// intParam extracts an int from a decoded-JSON value.
func intParam(v any, def int) int {
	switch vv := v.(type) {
	case float64:
		return int(vv)
	case int:
		return vv
	default:
		return def
	}
}

// listParam extracts a []any from a decoded-JSON value.
func listParam(v any) []any {
	if vv, ok := v.([]any); ok {
		return vv
	}
	return nil
}

// mapParam extracts a map[string]any from a decoded-JSON value.
func mapParam(v any) map[string]any {
	if vv, ok := v.(map[string]any); ok {
		return vv
	}
	return nil
}
