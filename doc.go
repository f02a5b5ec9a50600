// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package slowsyn is the repository for a slow chemical synapse unit that a
real-time simulation host loads as a plugin.

This top-level of the repository has no functional code -- everything is organized
into the following sub-repositories:

* slowsyn: the kinetic model, a single gating variable with sigmoidal
activation by the presynaptic signal and first-order deactivation, integrated
with a fixed Euler step, producing the synaptic current i_syn.

* plugin: the host boundary.  Instances are held in a process-owned table and
referred to by opaque handles, and every entry point takes and returns only
handles, floats and byte buffers, ignoring anything invalid.

* cplugin: builds the plugin as a C shared library exposing a static function table.

* examples: runnable programs.  examples/synrun drives one synapse from a YAML
run file and writes a CSV trace, examples/bench times many synapses.
*/
package slowsyn
