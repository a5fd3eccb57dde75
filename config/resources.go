// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package config

import (
	"encoding/json"
	"sort"

	"github.com/QuTech-Delft/OpenQL-sub006/resource"
)

// rawResourceConfig is the shape of one entry of the platform's
// resources{} section: a "type" selecting the resource
// kind (see resource.Config.Kind / resource package's build switch),
// plus free-form, kind-specific parameters.
type rawResourceConfig struct {
	Type string `json:"type"`
}

// BuildResourceConfigs decodes a platform's resources{} section into the
// resource package's Config list, ready for resource.NewManager.
func BuildResourceConfigs(raw map[string]json.RawMessage) ([]resource.Config, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]resource.Config, 0, len(raw))
	for _, name := range names {
		msg := raw[name]
		var rc rawResourceConfig
		if err := json.Unmarshal(msg, &rc); err != nil {
			return nil, errf("resources.%s: %v", name, err)
		}
		var params map[string]any
		if err := json.Unmarshal(msg, &params); err != nil {
			return nil, errf("resources.%s: %v", name, err)
		}
		delete(params, "type")
		out = append(out, resource.Config{Name: name, Kind: rc.Type, Params: params})
	}
	return out, nil
}
