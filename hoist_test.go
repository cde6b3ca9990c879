package hoist

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// buildPowDiamond builds a function which calls pow(x, 2) on both sides of a branch.
func buildPowDiamond(name string) Builder {
	b := NewBuilder()
	sig := &Signature{ID: 0, Params: []Type{TypeF64, TypeF64}, Results: []Type{TypeF64}}
	b.DeclareSignature(sig)
	ref := b.DeclareFunction(name, sig)

	entry := b.AllocateBasicBlock()
	x, c := entry.AddParam(b, TypeF64), entry.AddParam(b, TypeI32)
	then, els, join := b.AllocateBasicBlock(), b.AllocateBasicBlock(), b.AllocateBasicBlock()
	merged := join.AddParam(b, TypeF64)

	b.SetCurrentBlock(entry)
	two := b.AllocateInstruction().AsF64const(2).Insert(b).Return()
	b.AllocateInstruction().AsBrz(c, nil, then).Insert(b)
	b.AllocateInstruction().AsJump(nil, els).Insert(b)

	for _, blk := range []BasicBlock{then, els} {
		b.SetCurrentBlock(blk)
		r := b.AllocateInstruction().AsCall(ref, sig, []Value{x, two}).Insert(b).Return()
		b.AllocateInstruction().AsJump([]Value{r}, join).Insert(b)
	}

	b.SetCurrentBlock(join)
	b.AllocateInstruction().AsReturn([]Value{merged}).Insert(b)
	return b
}

func TestPass_Run(t *testing.T) {
	for _, tc := range []struct {
		name    string
		callee  string
		config  *Config
		changed bool
	}{
		{name: "built-in pure routine", callee: "pow", changed: true},
		{name: "unknown routine", callee: "my_pow"},
		{
			name:    "configured pure routine",
			callee:  "my_pow",
			config:  &Config{Log: LogConfig{Level: "info"}, LibFuncs: LibFuncsConfig{Pure: []string{"my_pow"}}},
			changed: true,
		},
		{
			name:   "configured impure routine",
			callee: "pow",
			config: &Config{Log: LogConfig{Level: "info"}, LibFuncs: LibFuncsConfig{Impure: []string{"pow"}}},
		},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			p, err := New(tc.config, WithLogger(zap.NewNop()))
			require.NoError(t, err)

			b := buildPowDiamond(tc.callee)
			require.Equal(t, tc.changed, p.Run(b))
			require.False(t, p.Run(b))

			then := b.EntryBlock().Succ(0)
			if tc.changed {
				require.Equal(t, "Jump blk3, v4", then.Root().Format(b))
			} else {
				require.Equal(t, "v4:f64 = Call f0:sig0, v0, v3", then.Root().Format(b))
			}
		})
	}
}

func TestPass_Run_observability(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	var buf bytes.Buffer
	p, err := New(nil, WithLogger(zap.New(core)), WithDumpWriter(&buf))
	require.NoError(t, err)

	require.True(t, p.Run(buildPowDiamond("pow")))
	require.Equal(t, 1, logs.FilterMessage("hoisted").Len())
	require.Contains(t, buf.String(), "\nOUT sets:\nBasicBlock: blk0\n  v4:f64 = Call f0:sig0, v0, v3\n")
}

func TestNew(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)
	require.NotNil(t, p.logger)
	require.Nil(t, p.dump)
	require.True(t, p.IsPure("sqrt"))
	require.False(t, p.IsPure("printf"))

	config := NewConfig()
	config.Dump.Sets = true
	p, err = New(config)
	require.NoError(t, err)
	require.NotNil(t, p.dump)

	_, err = New(&Config{Log: LogConfig{Level: "loud"}})
	require.ErrorContains(t, err, "invalid config")
}
