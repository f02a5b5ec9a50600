// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package slowsyn implements a slow chemical synapse as a single gating variable
with first-order activation / deactivation kinetics, integrated with a fixed
explicit Euler step:

	dm/dt = k_1x (1 - m) / (1 + exp(s_slow (v_slow - pre))) - k_2x m
	i_syn = g_slow m (post - e_syn)

The integration step is the TimeInc parameter, not the period of whatever
host is driving the updates, so a trajectory depends only on the sequence of
inputs and parameters.  Nothing is clamped: extreme parameters can drive the
state non-finite, and it stays that way until inputs or parameters bring it back.
*/
package slowsyn
