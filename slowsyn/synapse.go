// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slowsyn

import "math"

// Name is the display name of the unit
const Name = "Slow Chemical Synapse"

// Kind is the stable identifier of the unit kind
const Kind = "slow_chemical_synapse"

// names of the inputs, in order
const (
	InPre  = "pre"
	InPost = "post"
)

// OutIsyn is the name of the synaptic current output
const OutIsyn = "i_syn"

var (
	// Inputs are the input names accepted by SetInput, in order
	Inputs = []string{InPre, InPost}

	// Outputs are the output names read by Output, in order
	Outputs = []string{OutIsyn}

	// ParamNames are the configurable parameter names, in order
	ParamNames = []string{"g_slow", "e_syn", "s_slow", "v_slow", "k_1x", "k_2x", "time_increment"}
)

// Synapse is the state of one slow chemical synapse.
// Inputs go through SetInput, and the gating variable and current
// are only written by Advance.
type Synapse struct {

	// kinetic parameters, writable at any time.  Advance uses the current values.
	Params Params

	// presynaptic signal, last value set
	pre float64

	// postsynaptic signal, last value set
	post float64

	// synaptic current computed by the last Advance
	isyn float64

	// fraction of activated channels, nominally 0-1 but not clamped
	mslow float64
}

// New returns a new Synapse with default parameters and zero state
func New() *Synapse {
	sy := &Synapse{}
	sy.Params.Defaults()
	return sy
}

// Gate returns the current gating variable
func (sy *Synapse) Gate() float64 { return sy.mslow }

// Isyn returns the synaptic current computed by the last Advance
func (sy *Synapse) Isyn() float64 { return sy.isyn }

// Pre returns the presynaptic input
func (sy *Synapse) Pre() float64 { return sy.pre }

// Post returns the postsynaptic input
func (sy *Synapse) Post() float64 { return sy.post }

// SetParam sets the named parameter to val, verbatim.
// Returns false, and changes nothing, if name is not a parameter.
func (sy *Synapse) SetParam(name string, val float64) bool {
	fp := sy.Params.Field(name)
	if fp == nil {
		return false
	}
	*fp = val
	return true
}

// Param returns the named parameter value, false if name is not a parameter
func (sy *Synapse) Param(name string) (float64, bool) {
	fp := sy.Params.Field(name)
	if fp == nil {
		return 0, false
	}
	return *fp, true
}

// SetInput sets the named input.  Non-finite values are stored as 0.
// Returns false if name is not an input.
func (sy *Synapse) SetInput(name string, val float64) bool {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		val = 0
	}
	switch name {
	case InPre:
		sy.pre = val
	case InPost:
		sy.post = val
	default:
		return false
	}
	return true
}

// Output returns the named output, 0 for unknown names
func (sy *Synapse) Output(name string) float64 {
	if name == OutIsyn {
		return sy.isyn
	}
	return 0
}

// Advance does one explicit Euler step of the gating variable and
// recomputes the synaptic current.  tick and period come from the host
// and do not enter the math: the step is always Params.TimeInc.
func (sy *Synapse) Advance(tick uint64, period float64) {
	sp := &sy.Params
	sy.mslow += sp.DmDt(sy.mslow, sy.pre) * sp.TimeInc
	sy.isyn = sp.Current(sy.mslow, sy.post)
}
