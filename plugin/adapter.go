// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plugin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/emer/slowsyn/slowsyn"
	"go.uber.org/zap"
)

// Options configure an Adapter when the plugin is loaded
type Options struct {

	// whether the host should start a newly loaded instance running.
	// Hosts disagree on this, so it is not assumed.
	LoadsStarted bool

	// diagnostics for ignored calls.  nil means no logging.
	Logger *zap.Logger
}

// Adapter translates primitive host calls into slowsyn.Synapse operations.
// Every method is total: invalid handles, unknown keys and malformed
// payloads are ignored, and reads return zero values.
type Adapter struct {
	insts Instances
	docs  docs
	log   *zap.Logger
}

// NewAdapter returns an Adapter with an empty instance table
func NewAdapter(opts Options) *Adapter {
	ad := &Adapter{docs: newDocs(NewBehavior(opts.LoadsStarted)), log: opts.Logger}
	if ad.log == nil {
		ad.log = zap.NewNop()
	}
	return ad
}

// Len returns the number of live instances
func (ad *Adapter) Len() int {
	return ad.insts.Len()
}

// Create returns the handle of a new default instance
func (ad *Adapter) Create() Handle {
	return ad.insts.New()
}

// Destroy releases the instance.  Null, stale and unknown handles are ignored.
func (ad *Adapter) Destroy(h Handle) {
	if !ad.insts.Delete(h) && h != NullHandle {
		ad.log.Debug("destroy of invalid handle ignored", zap.Uint64("handle", uint64(h)))
	}
}

// Metadata returns the JSON metadata document
func (ad *Adapter) Metadata() []byte { return bytes.Clone(ad.docs.meta) }

// Inputs returns the JSON array of input names
func (ad *Adapter) Inputs() []byte { return bytes.Clone(ad.docs.inputs) }

// Outputs returns the JSON array of output names
func (ad *Adapter) Outputs() []byte { return bytes.Clone(ad.docs.outputs) }

// InternalVariables returns the JSON array of readable internal variable names
func (ad *Adapter) InternalVariables() []byte { return bytes.Clone(ad.docs.internals) }

// Behavior returns the JSON behavior flags document
func (ad *Adapter) Behavior() []byte { return bytes.Clone(ad.docs.behavior) }

// synapse returns the instance for h, logging when there is none
func (ad *Adapter) synapse(h Handle, op string) *slowsyn.Synapse {
	sy := ad.insts.Synapse(h)
	if sy == nil {
		ad.log.Debug("call on invalid handle ignored", zap.String("op", op), zap.Uint64("handle", uint64(h)))
	}
	return sy
}

// SetConfig applies a JSON object of parameter values.
// Recognized keys with numeric values are applied, everything else is ignored.
func (ad *Adapter) SetConfig(h Handle, data []byte) {
	sy := ad.synapse(h, "set_config")
	if sy == nil {
		return
	}
	vals, err := DecodeConfig(data)
	if err != nil {
		ad.log.Debug("config ignored", zap.Error(err))
		return
	}
	for k, v := range vals {
		if !sy.SetParam(k, v) {
			ad.log.Debug("unknown config key ignored", zap.String("key", k))
		}
	}
}

// SetInput sets the named input
func (ad *Adapter) SetInput(h Handle, key []byte, val float64) {
	sy := ad.synapse(h, "set_input")
	if sy == nil {
		return
	}
	nm, ok := MatchKey(key, slowsyn.Inputs)
	if !ok {
		ad.log.Debug("unknown input ignored", zap.ByteString("key", key))
		return
	}
	sy.SetInput(nm, val)
}

// ProcessTick advances the instance by one step
func (ad *Adapter) ProcessTick(h Handle, tick uint64, period float64) {
	sy := ad.synapse(h, "process_tick")
	if sy == nil {
		return
	}
	sy.Advance(tick, period)
}

// GetOutput returns the named output, 0 if unknown
func (ad *Adapter) GetOutput(h Handle, key []byte) float64 {
	sy := ad.synapse(h, "get_output")
	if sy == nil {
		return 0
	}
	nm, ok := MatchKey(key, slowsyn.Outputs)
	if !ok {
		return 0
	}
	return sy.Output(nm)
}

// GetInternal returns the named internal variable, false if unknown
func (ad *Adapter) GetInternal(h Handle, key []byte) (float64, bool) {
	sy := ad.synapse(h, "get_internal")
	if sy == nil {
		return 0, false
	}
	nm, ok := MatchKey(key, slowsyn.ParamNames)
	if !ok {
		return 0, false
	}
	return sy.Param(nm)
}

// MatchKey returns the name in names equal to key.
// Keys that are not valid UTF-8 match nothing.
func MatchKey(key []byte, names []string) (string, bool) {
	if !utf8.Valid(key) {
		return "", false
	}
	for _, nm := range names {
		if string(key) == nm {
			return nm, true
		}
	}
	return "", false
}

// DecodeConfig decodes a JSON object into its numeric members.
// Members that are not numbers, including null, are dropped.
func DecodeConfig(data []byte) (map[string]float64, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config is not a JSON object: %w", err)
	}
	vals := make(map[string]float64, len(raw))
	for k, rv := range raw {
		var v *float64
		if err := json.Unmarshal(rv, &v); err != nil || v == nil {
			continue
		}
		vals[k] = *v
	}
	return vals, nil
}

// FuncTable is the fixed set of entry points of the plugin
type FuncTable struct {
	Create            func() Handle
	Destroy           func(h Handle)
	Metadata          func() []byte
	Inputs            func() []byte
	Outputs           func() []byte
	InternalVariables func() []byte
	Behavior          func() []byte
	SetConfig         func(h Handle, data []byte)
	SetInput          func(h Handle, key []byte, val float64)
	ProcessTick       func(h Handle, tick uint64, period float64)
	GetOutput         func(h Handle, key []byte) float64
	GetInternal       func(h Handle, key []byte) (float64, bool)
}

// Table returns the entry points bound to this Adapter
func (ad *Adapter) Table() FuncTable {
	return FuncTable{
		Create:            ad.Create,
		Destroy:           ad.Destroy,
		Metadata:          ad.Metadata,
		Inputs:            ad.Inputs,
		Outputs:           ad.Outputs,
		InternalVariables: ad.InternalVariables,
		Behavior:          ad.Behavior,
		SetConfig:         ad.SetConfig,
		SetInput:          ad.SetInput,
		ProcessTick:       ad.ProcessTick,
		GetOutput:         ad.GetOutput,
		GetInternal:       ad.GetInternal,
	}
}
