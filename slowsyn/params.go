// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slowsyn

import "math"

// Params are the slow chemical synapse kinetic parameters.
// The gating variable Mslow follows a two-state activation / deactivation scheme
// where activation is driven by a sigmoid of the presynaptic signal.
// Defaults are a fixed operating point and must be reproduced exactly.
type Params struct {

	// maximal conductance of the slow synaptic channels
	Gslow float64 `def:"0.046"`

	// reversal potential of the synaptic current
	Esyn float64 `def:"-1.92"`

	// steepness of the presynaptic sigmoid
	Sslow float64 `def:"1"`

	// half-activation threshold of the presynaptic sigmoid
	Vslow float64 `def:"-1.74"`

	// activation rate constant
	K1x float64 `def:"0.74"`

	// deactivation rate constant
	K2x float64 `def:"0.007"`

	// integration step per update. Independent of the host tick period.
	TimeInc float64 `def:"0.0015"`
}

func (sp *Params) Defaults() {
	sp.Gslow = 0.046
	sp.Esyn = -1.92
	sp.Sslow = 1.0
	sp.Vslow = -1.74
	sp.K1x = 0.74
	sp.K2x = 0.007
	sp.TimeInc = 0.0015
}

// Activation returns the rate at which closed channels open.
// The sigmoid of pre can underflow to 0 for extreme arguments, which is not guarded.
func (sp *Params) Activation(m, pre float64) float64 {
	return sp.K1x * (1 - m) / (1 + math.Exp(sp.Sslow*(sp.Vslow-pre)))
}

// Deactivation returns the rate at which open channels close
func (sp *Params) Deactivation(m float64) float64 {
	return sp.K2x * m
}

// DmDt returns the time derivative of the gating variable
func (sp *Params) DmDt(m, pre float64) float64 {
	return sp.Activation(m, pre) - sp.Deactivation(m)
}

// Current returns the synaptic current for gating m at postsynaptic value post
func (sp *Params) Current(m, post float64) float64 {
	return sp.Gslow * m * (post - sp.Esyn)
}

// Field returns a pointer to the named parameter, nil if name is not a parameter.
func (sp *Params) Field(name string) *float64 {
	switch name {
	case "g_slow":
		return &sp.Gslow
	case "e_syn":
		return &sp.Esyn
	case "s_slow":
		return &sp.Sslow
	case "v_slow":
		return &sp.Vslow
	case "k_1x":
		return &sp.K1x
	case "k_2x":
		return &sp.K2x
	case "time_increment":
		return &sp.TimeInc
	}
	return nil
}
