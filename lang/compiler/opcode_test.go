package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		op       Op
		variants [3]Variant
	}{
		{Nop, [3]Variant{VNone, VNone, VNone}},
		{Push, [3]Variant{VDirect, VNone, VNone}},
		{Mov, [3]Variant{VStack, VStackRelative, VNone}},
		{Call, [3]Variant{VNative, VNone, VNone}},
		{Swap, [3]Variant{VNone, VNone, VNone}},
	}
	for _, c := range cases {
		w := Encode(c.op, c.variants)
		op, variants, err := Decode(w)
		require.NoError(t, err)
		require.Equal(t, c.op, op)
		require.Equal(t, c.variants, variants)
	}
}

func TestDecodeBadOpcode(t *testing.T) {
	_, _, err := Decode(Word(maxOp+1) << (8 * 4))
	require.Error(t, err)
}

func TestDecodeBadVariant(t *testing.T) {
	w := Word(Nop)<<(8*4) | Word(maxVariant+1)<<(8*2)
	_, _, err := Decode(w)
	require.Error(t, err)
}

func TestLookupMnemonic(t *testing.T) {
	op, ok := LookupMnemonic("jmp_if")
	require.True(t, ok)
	require.Equal(t, JmpIf, op)

	_, ok = LookupMnemonic("nope")
	require.False(t, ok)
}

func TestArity(t *testing.T) {
	require.Equal(t, 0, Arity(Ret))
	require.Equal(t, 1, Arity(Push))
	require.Equal(t, 2, Arity(Mov))
}

func TestOpString(t *testing.T) {
	require.Equal(t, "swap", Swap.String())
	require.Contains(t, Op(200).String(), "illegal")
}

func TestLookupNative(t *testing.T) {
	id, ok := LookupNative("print")
	require.True(t, ok)
	require.Equal(t, NativePrint, id)

	name, ok := NativeName(NativeExit)
	require.True(t, ok)
	require.Equal(t, "exit", name)

	_, ok = LookupNative("bogus")
	require.False(t, ok)
}
