// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// cplugin builds the slow chemical synapse as a C shared library:
//
//	go build -buildmode=c-shared -o libslowsyn.so ./cplugin
//
// A host loads the library, calls slowsyn_plugin_api once, and drives
// instances through the returned function table (see slowsyn.h).
//
// Environment read when the library loads:
//
//	SLOWSYN_LOADS_STARTED  true/false, overrides the link-time default
//	                       (-ldflags "-X main.loadsStarted=true")
//	SLOWSYN_LOG            zap level (debug, info, warn, error); unset disables logging
package main

/*
#include <stdlib.h>
#include "slowsyn.h"
*/
import "C"

import (
	"math"
	"os"
	"strconv"
	"unsafe"

	"github.com/emer/slowsyn/plugin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// loadsStarted is the default loads_started policy, settable at link time
var loadsStarted = "false"

// maxBuf is the largest host buffer that is read.  Longer buffers are
// treated as empty, which no key or payload can match.
const maxBuf = math.MaxInt32

var api *plugin.Adapter

func init() {
	ls, _ := strconv.ParseBool(loadsStarted)
	if v, ok := os.LookupEnv("SLOWSYN_LOADS_STARTED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			ls = b
		}
	}
	api = plugin.NewAdapter(plugin.Options{LoadsStarted: ls, Logger: newLogger(os.Getenv("SLOWSYN_LOG"))})
}

func newLogger(level string) *zap.Logger {
	if level == "" {
		return zap.NewNop()
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zap.NewNop()
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger.Named("slowsyn")
}

// hostBytes views a host buffer without copying.  The view must not
// outlive the call it was passed to.
func hostBytes(p *C.uint8_t, n C.size_t) []byte {
	if p == nil || n == 0 || uint64(n) > maxBuf {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), int(n))
}

// cString copies a document into C memory owned by the host
func cString(b []byte) C.slowsyn_str_t {
	p := C.malloc(C.size_t(len(b) + 1))
	if p == nil {
		panic("slowsyn: out of memory")
	}
	buf := unsafe.Slice((*byte)(p), len(b)+1)
	copy(buf, b)
	buf[len(b)] = 0
	return C.slowsyn_str_t{ptr: (*C.char)(p), len: C.size_t(len(b))}
}

//export slowsyn_create
func slowsyn_create() C.uint64_t {
	return C.uint64_t(api.Create())
}

//export slowsyn_destroy
func slowsyn_destroy(h C.uint64_t) {
	api.Destroy(plugin.Handle(h))
}

//export slowsyn_meta_json
func slowsyn_meta_json() C.slowsyn_str_t {
	return cString(api.Metadata())
}

//export slowsyn_inputs_json
func slowsyn_inputs_json() C.slowsyn_str_t {
	return cString(api.Inputs())
}

//export slowsyn_outputs_json
func slowsyn_outputs_json() C.slowsyn_str_t {
	return cString(api.Outputs())
}

//export slowsyn_internals_json
func slowsyn_internals_json() C.slowsyn_str_t {
	return cString(api.InternalVariables())
}

//export slowsyn_behavior_json
func slowsyn_behavior_json() C.slowsyn_str_t {
	return cString(api.Behavior())
}

//export slowsyn_set_config_json
func slowsyn_set_config_json(h C.uint64_t, data *C.uint8_t, n C.size_t) {
	api.SetConfig(plugin.Handle(h), hostBytes(data, n))
}

//export slowsyn_set_input
func slowsyn_set_input(h C.uint64_t, key *C.uint8_t, n C.size_t, v C.double) {
	api.SetInput(plugin.Handle(h), hostBytes(key, n), float64(v))
}

//export slowsyn_process_tick
func slowsyn_process_tick(h C.uint64_t, tick C.uint64_t, period C.double) {
	api.ProcessTick(plugin.Handle(h), uint64(tick), float64(period))
}

//export slowsyn_get_output
func slowsyn_get_output(h C.uint64_t, key *C.uint8_t, n C.size_t) C.double {
	return C.double(api.GetOutput(plugin.Handle(h), hostBytes(key, n)))
}

//export slowsyn_get_internal
func slowsyn_get_internal(h C.uint64_t, key *C.uint8_t, n C.size_t, out *C.double) C.int {
	v, ok := api.GetInternal(plugin.Handle(h), hostBytes(key, n))
	if !ok {
		return 0
	}
	if out != nil {
		*out = C.double(v)
	}
	return 1
}

//export slowsyn_free_string
func slowsyn_free_string(s C.slowsyn_str_t) {
	if s.ptr != nil {
		C.free(unsafe.Pointer(s.ptr))
	}
}

func main() {}
