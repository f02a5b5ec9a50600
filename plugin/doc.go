// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package plugin exposes slowsyn.Synapse instances to a simulation host
through entry points that take and return only handles, floats and
byte buffers.

Instances live in a process-owned table and the host refers to them by
Handle, an index plus generation, so a destroyed or never-created handle
is detected instead of dereferenced.  Every entry point is total: it never
returns an error, and invalid handles, unknown keys and malformed
configuration payloads are ignored.  The only absence signal is the
boolean of GetInternal.

The metadata, input, output, internal variable and behavior documents are
JSON, encoded once when the Adapter is made.

A host must not issue concurrent calls on the same handle.  Different
handles are independent and may be used from different threads.
*/
package plugin
