// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plugin

import (
	"encoding/json"

	"github.com/emer/slowsyn/slowsyn"
)

// PluginType values
const (
	StandardPlugin = "standard"
)

// ExtendableInputs values
const (
	ExtendableNone = "none"
)

// DefaultVar is one parameter name and its default value.
// Encodes as a two element JSON array.
type DefaultVar struct {
	Name  string
	Value float64
}

func (dv DefaultVar) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{dv.Name, dv.Value})
}

func (dv *DefaultVar) UnmarshalJSON(b []byte) error {
	pair := [2]any{&dv.Name, &dv.Value}
	return json.Unmarshal(b, &pair)
}

// Metadata describes the plugin kind to the host, which uses it
// to seed the configuration of a new instance.
type Metadata struct {
	Name        string       `json:"name"`
	Kind        string       `json:"kind"`
	PluginType  string       `json:"plugin_type"`
	DefaultVars []DefaultVar `json:"default_vars"`
}

// Behavior are the lifecycle hints the host uses for its own state machine.
// None of these are state of an instance.
type Behavior struct {
	SupportsStartStop             bool     `json:"supports_start_stop"`
	SupportsRestart               bool     `json:"supports_restart"`
	SupportsApply                 bool     `json:"supports_apply"`
	ExtendableInputs              string   `json:"extendable_inputs"`
	LoadsStarted                  bool     `json:"loads_started"`
	ExternalWindow                bool     `json:"external_window"`
	StartsExpanded                bool     `json:"starts_expanded"`
	StartRequiresConnectedInputs  []string `json:"start_requires_connected_inputs"`
	StartRequiresConnectedOutputs []string `json:"start_requires_connected_outputs"`
}

// NewMetadata returns the metadata for the slow chemical synapse,
// with the defaults of a fresh slowsyn.Params
func NewMetadata() Metadata {
	sy := slowsyn.New()
	md := Metadata{Name: slowsyn.Name, Kind: slowsyn.Kind, PluginType: StandardPlugin}
	for _, nm := range slowsyn.ParamNames {
		v, _ := sy.Param(nm)
		md.DefaultVars = append(md.DefaultVars, DefaultVar{Name: nm, Value: v})
	}
	return md
}

// NewBehavior returns the behavior flags, with the given loads-started policy
func NewBehavior(loadsStarted bool) Behavior {
	return Behavior{
		SupportsStartStop:             true,
		SupportsRestart:               true,
		ExtendableInputs:              ExtendableNone,
		LoadsStarted:                  loadsStarted,
		StartsExpanded:                true,
		StartRequiresConnectedInputs:  []string{},
		StartRequiresConnectedOutputs: []string{},
	}
}

// docs are the encoded static documents, built once
type docs struct {
	meta      []byte
	inputs    []byte
	outputs   []byte
	internals []byte
	behavior  []byte
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err) // only static values are encoded
	}
	return b
}

func newDocs(bh Behavior) docs {
	return docs{
		meta:      mustJSON(NewMetadata()),
		inputs:    mustJSON(slowsyn.Inputs),
		outputs:   mustJSON(slowsyn.Outputs),
		internals: mustJSON(slowsyn.ParamNames),
		behavior:  mustJSON(bh),
	}
}
