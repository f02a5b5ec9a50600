// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plugin

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/emer/slowsyn/slowsyn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var (
	keyPre  = []byte("pre")
	keyPost = []byte("post")
	keyIsyn = []byte("i_syn")
)

func params(t *testing.T, ad *Adapter, h Handle) map[string]float64 {
	t.Helper()
	ps := make(map[string]float64)
	for _, nm := range slowsyn.ParamNames {
		v, ok := ad.GetInternal(h, []byte(nm))
		require.True(t, ok, nm)
		ps[nm] = v
	}
	return ps
}

var defaultParams = map[string]float64{
	"g_slow":         0.046,
	"e_syn":          -1.92,
	"s_slow":         1.0,
	"v_slow":         -1.74,
	"k_1x":           0.74,
	"k_2x":           0.007,
	"time_increment": 0.0015,
}

func TestDefaultState(t *testing.T) {
	ad := NewAdapter(Options{})
	h := ad.Create()
	require.NotEqual(t, NullHandle, h)
	assert.Equal(t, 0.0, ad.GetOutput(h, keyIsyn))
	assert.Equal(t, defaultParams, params(t, ad, h))
}

func TestEndToEnd(t *testing.T) {
	ad := NewAdapter(Options{})
	h := ad.Create()
	ad.SetInput(h, keyPre, 0)
	ad.SetInput(h, keyPost, 0)
	ad.ProcessTick(h, 0, 0.001)
	assert.InDelta(t, 8.339727660068184e-05, ad.GetOutput(h, keyIsyn), 1e-9)
	ad.Destroy(h)
	assert.Equal(t, 0, ad.Len())
}

func TestSetConfig(t *testing.T) {
	ad := NewAdapter(Options{})
	h := ad.Create()

	ad.SetConfig(h, []byte(`{"g_slow":0.1,"k_2x":2,"colour":"red","e_syn":"x","v_slow":null}`))
	ps := params(t, ad, h)
	assert.Equal(t, 0.1, ps["g_slow"])
	assert.Equal(t, 2.0, ps["k_2x"])
	assert.Equal(t, -1.92, ps["e_syn"], "non-numeric value leaves param unchanged")
	assert.Equal(t, -1.74, ps["v_slow"], "null leaves param unchanged")
	assert.Equal(t, 0.0015, ps["time_increment"], "absent key leaves param unchanged")

	// later writes win, including mid-run
	ad.ProcessTick(h, 0, 0.001)
	ad.SetConfig(h, []byte(`{"g_slow":0}`))
	ad.ProcessTick(h, 1, 0.001)
	assert.Equal(t, 0.0, ad.GetOutput(h, keyIsyn))
}

func TestSetConfigMalformed(t *testing.T) {
	ad := NewAdapter(Options{})
	h := ad.Create()
	bad := [][]byte{
		nil,
		[]byte(""),
		[]byte(`{"g_slow":0.5`),
		[]byte(`[1,2,3]`),
		[]byte(`"g_slow"`),
		[]byte(`42`),
		[]byte("\xff\xfe{"),
		[]byte(`null`),
	}
	for _, b := range bad {
		ad.SetConfig(h, b)
		assert.Equal(t, defaultParams, params(t, ad, h), "payload %q", b)
	}
}

func TestInputs(t *testing.T) {
	ad := NewAdapter(Options{})
	h := ad.Create()
	ad.SetConfig(h, []byte(`{"time_increment":1,"k_1x":0,"k_2x":0}`))

	// open some channels in one big step, then freeze the gate
	ad.SetConfig(h, []byte(`{"k_1x":0.74}`))
	ad.ProcessTick(h, 0, 0.001)
	ad.SetConfig(h, []byte(`{"k_1x":0}`))

	ad.SetInput(h, keyPost, 1)
	ad.ProcessTick(h, 1, 0.001)
	i1 := ad.GetOutput(h, keyIsyn)
	require.NotEqual(t, 0.0, i1)

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		ad.SetInput(h, keyPost, v)
		ad.ProcessTick(h, 2, 0.001)
		i := ad.GetOutput(h, keyIsyn)
		assert.False(t, math.IsNaN(i) || math.IsInf(i, 0), "non-finite post %v leaked: %v", v, i)
		// post stored as 0: i = g * m * (0 - e_syn)
		assert.InDelta(t, i1*(1.92/2.92), i, 1e-15)
	}
}

func TestUnknownKeys(t *testing.T) {
	ad := NewAdapter(Options{})
	h := ad.Create()
	ref := ad.Create()

	ad.SetInput(h, []byte("i_syn"), 3)
	ad.SetInput(h, []byte("Pre"), 3)
	ad.SetInput(h, []byte("pre\x00"), 3)
	ad.SetInput(h, []byte{0xff, 'p', 'r', 'e'}, 3)
	ad.SetConfig(h, []byte(`{"m_slow":1,"pre":3}`))
	ad.ProcessTick(h, 0, 0.001)
	ad.ProcessTick(ref, 0, 0.001)
	assert.Equal(t, ad.GetOutput(ref, keyIsyn), ad.GetOutput(h, keyIsyn))
	assert.Equal(t, defaultParams, params(t, ad, h))

	assert.Equal(t, 0.0, ad.GetOutput(h, []byte("m_slow")))
	assert.Equal(t, 0.0, ad.GetOutput(h, []byte{0xc3, 0x28}))
	assert.Equal(t, 0.0, ad.GetOutput(h, nil))

	_, ok := ad.GetInternal(h, []byte("i_syn"))
	assert.False(t, ok)
	_, ok = ad.GetInternal(h, []byte("g_slow\xff"))
	assert.False(t, ok)
	_, ok = ad.GetInternal(h, nil)
	assert.False(t, ok)
}

func TestKeyLengthAuthoritative(t *testing.T) {
	ad := NewAdapter(Options{})
	h := ad.Create()
	buf := []byte("postXXXX")
	ad.SetInput(h, buf[:4], 1)
	ad.SetInput(h, buf[:3], 1) // "pos" is not an input
	ad.ProcessTick(h, 0, 0.001)

	sy := ad.insts.Synapse(h)
	require.NotNil(t, sy)
	assert.Equal(t, 1.0, sy.Post())
	assert.Equal(t, 0.0, sy.Pre())
}

func TestDestroySafety(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ad := NewAdapter(Options{Logger: zap.New(core)})
	h := ad.Create()
	other := ad.Create()
	ad.SetInput(other, keyPre, 1)

	ad.Destroy(h)
	assert.NotPanics(t, func() {
		ad.Destroy(h)
		ad.Destroy(NullHandle)
		ad.Destroy(Handle(12345 << 32))
		ad.SetConfig(h, []byte(`{"g_slow":1}`))
		ad.SetInput(h, keyPre, 1)
		ad.ProcessTick(h, 0, 0.001)
		ad.ProcessTick(NullHandle, 0, 0.001)
	})
	assert.Equal(t, 0.0, ad.GetOutput(h, keyIsyn))
	_, ok := ad.GetInternal(h, []byte("g_slow"))
	assert.False(t, ok)
	assert.Equal(t, 1, ad.Len())

	// the surviving instance is untouched
	assert.Equal(t, defaultParams, params(t, ad, other))
	assert.Equal(t, 1.0, ad.insts.Synapse(other).Pre())

	assert.Equal(t, 2, logs.FilterMessage("destroy of invalid handle ignored").Len())
	assert.NotZero(t, logs.FilterMessage("call on invalid handle ignored").Len())
}

func TestIndependentInstances(t *testing.T) {
	ad := NewAdapter(Options{})
	a := ad.Create()
	b := ad.Create()
	ad.SetConfig(a, []byte(`{"g_slow":1}`))
	ad.SetInput(a, keyPre, 2)
	ad.ProcessTick(a, 0, 0.001)

	assert.Equal(t, defaultParams, params(t, ad, b))
	assert.Equal(t, 0.0, ad.GetOutput(b, keyIsyn))
	assert.NotEqual(t, 0.0, ad.GetOutput(a, keyIsyn))
}

func TestMetadata(t *testing.T) {
	ad := NewAdapter(Options{})
	var md Metadata
	require.NoError(t, json.Unmarshal(ad.Metadata(), &md))
	assert.Equal(t, "Slow Chemical Synapse", md.Name)
	assert.Equal(t, "slow_chemical_synapse", md.Kind)
	assert.Equal(t, StandardPlugin, md.PluginType)
	require.Len(t, md.DefaultVars, len(slowsyn.ParamNames))
	for i, dv := range md.DefaultVars {
		assert.Equal(t, slowsyn.ParamNames[i], dv.Name)
		assert.Equal(t, defaultParams[dv.Name], dv.Value)
	}

	var raw map[string]any
	require.NoError(t, json.Unmarshal(ad.Metadata(), &raw))
	first := raw["default_vars"].([]any)[0].([]any)
	assert.Equal(t, []any{"g_slow", 0.046}, first)
}

func TestNames(t *testing.T) {
	ad := NewAdapter(Options{})
	assert.JSONEq(t, `["pre","post"]`, string(ad.Inputs()))
	assert.JSONEq(t, `["i_syn"]`, string(ad.Outputs()))
	assert.JSONEq(t, `["g_slow","e_syn","s_slow","v_slow","k_1x","k_2x","time_increment"]`, string(ad.InternalVariables()))

	// returned documents are copies
	in := ad.Inputs()
	in[0] = 'X'
	assert.JSONEq(t, `["pre","post"]`, string(ad.Inputs()))
}

func TestBehavior(t *testing.T) {
	for _, ls := range []bool{false, true} {
		ad := NewAdapter(Options{LoadsStarted: ls})
		var bh map[string]any
		require.NoError(t, json.Unmarshal(ad.Behavior(), &bh))
		assert.Equal(t, true, bh["supports_start_stop"])
		assert.Equal(t, true, bh["supports_restart"])
		assert.Equal(t, false, bh["supports_apply"])
		assert.Equal(t, "none", bh["extendable_inputs"])
		assert.Equal(t, ls, bh["loads_started"])
		assert.Equal(t, false, bh["external_window"])
		assert.Equal(t, true, bh["starts_expanded"])
		assert.Equal(t, []any{}, bh["start_requires_connected_inputs"])
		assert.Equal(t, []any{}, bh["start_requires_connected_outputs"])
	}
}

func TestTable(t *testing.T) {
	ad := NewAdapter(Options{})
	ft := ad.Table()
	h := ft.Create()
	ft.SetConfig(h, []byte(`{"time_increment":0.003}`))
	ft.SetInput(h, keyPre, 0)
	ft.ProcessTick(h, 0, 0.001)
	v, ok := ft.GetInternal(h, []byte("time_increment"))
	assert.True(t, ok)
	assert.Equal(t, 0.003, v)
	assert.InDelta(t, 2*8.339727660068184e-05, ft.GetOutput(h, keyIsyn), 1e-9)
	assert.JSONEq(t, string(ad.Metadata()), string(ft.Metadata()))
	assert.JSONEq(t, string(ad.Behavior()), string(ft.Behavior()))
	assert.JSONEq(t, string(ad.Inputs()), string(ft.Inputs()))
	assert.JSONEq(t, string(ad.Outputs()), string(ft.Outputs()))
	assert.JSONEq(t, string(ad.InternalVariables()), string(ft.InternalVariables()))
	ft.Destroy(h)
	assert.Equal(t, 0, ad.Len())
}

func TestMatchKey(t *testing.T) {
	nm, ok := MatchKey([]byte("post"), slowsyn.Inputs)
	assert.True(t, ok)
	assert.Equal(t, "post", nm)
	_, ok = MatchKey([]byte("pos\xff"), slowsyn.Inputs)
	assert.False(t, ok)
	_, ok = MatchKey([]byte{}, slowsyn.Inputs)
	assert.False(t, ok)
}

func TestDecodeConfig(t *testing.T) {
	vals, err := DecodeConfig([]byte(`{"a":1,"b":-2.5e-3,"c":true,"d":[1],"e":{"x":1},"f":null}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 1, "b": -2.5e-3}, vals)

	_, err = DecodeConfig([]byte(`[]`))
	assert.Error(t, err)
}
