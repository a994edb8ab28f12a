package mpt

import (
	"encoding/hex"
	"testing"

	"github.com/nspcc-dev/mptrie/pkg/crypto/hash"
	"github.com/stretchr/testify/require"
)

func fromHex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestNodeEncoding(t *testing.T) {
	h := hash.Keccak256()
	t.Run("Empty", func(t *testing.T) {
		require.Equal(t, []byte{0x80}, nodeBytes(EmptyNode{}, h))
		require.Equal(t, "56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421",
			nodeHash(EmptyNode{}, h).String())
	})
	t.Run("Leaf", func(t *testing.T) {
		require.Equal(t, fromHex(t, "c482312376"), nodeBytes(NewLeafNode([]byte{1, 2, 3}, []byte("v")), h))
		require.Equal(t, fromHex(t, "c22076"), nodeBytes(NewLeafNode([]byte{}, []byte("v")), h))
	})
	t.Run("BranchWithInlineChildren", func(t *testing.T) {
		b := NewBranchNode()
		b.Children[1] = NewLeafNode(nil, []byte("a"))
		b.Children[2] = NewLeafNode(nil, []byte("b"))
		require.Equal(t, fromHex(t, "d580c22061c220628080808080808080808080808080"), nodeBytes(b, h))
	})
	t.Run("ExtensionWithHashedChild", func(t *testing.T) {
		b := NewBranchNode()
		b.Children[1] = NewLeafNode(nil, []byte("a"))
		b.Children[2] = NewLeafNode(nil, []byte("b"))
		b.value = []byte("this value makes the branch long enough")
		e := NewExtensionNode([]byte{0xa}, b)
		enc := nodeBytes(e, h)
		require.Equal(t, 35, len(enc))
		require.Equal(t, byte(0x1a), enc[1])
		require.Equal(t, byte(0xa0), enc[2])
		require.Equal(t, []byte(nodeHash(b, h)), enc[3:])
	})
	t.Run("HashNode", func(t *testing.T) {
		require.Panics(t, func() { nodeBytes(NewHashNode(make([]byte, 32)), h) })
		d := hash.Digest(make([]byte, 32))
		require.Equal(t, d, nodeHash(NewHashNode(d), h))
	})
}

func TestDecodeNode(t *testing.T) {
	h := hash.Keccak256()
	check := func(t *testing.T, n Node) {
		enc := nodeBytes(n, h)
		actual, err := DecodeNode(enc, h.Size())
		require.NoError(t, err)
		require.Equal(t, n.Type(), actual.Type())
		require.Equal(t, enc, nodeBytes(actual, h))
		require.Equal(t, nodeHash(n, h), nodeHash(actual, h))
		if bn, ok := actual.(baseNode); ok {
			require.True(t, bn.base().IsFlushed())
		}
	}

	big := make([]byte, 40)
	t.Run("Empty", func(t *testing.T) {
		check(t, EmptyNode{})
	})
	t.Run("Leaf", func(t *testing.T) {
		check(t, NewLeafNode([]byte{1, 2, 3}, []byte("value")))
		check(t, NewLeafNode([]byte{}, big))
	})
	t.Run("Branch", func(t *testing.T) {
		newBranch := func() *BranchNode {
			b := NewBranchNode()
			b.Children[0] = NewLeafNode([]byte{1}, []byte{2})
			b.Children[15] = NewLeafNode([]byte{1}, big)
			return b
		}
		check(t, newBranch())

		b := newBranch()
		b.value = []byte{42}
		check(t, b)

		actual, err := DecodeNode(nodeBytes(b, h), h.Size())
		require.NoError(t, err)
		ab := actual.(*BranchNode)
		require.Equal(t, LeafT, ab.Children[0].Type())
		require.Equal(t, HashT, ab.Children[15].Type())
		require.Equal(t, EmptyT, ab.Children[7].Type())
		require.Equal(t, []byte{42}, ab.value)
	})
	t.Run("Extension", func(t *testing.T) {
		b := NewBranchNode()
		b.Children[3] = NewLeafNode(nil, big)
		b.Children[4] = NewLeafNode(nil, big)
		check(t, NewExtensionNode([]byte{1, 2, 3}, b))
	})
}

func TestDecodeNodeMalformed(t *testing.T) {
	testCases := map[string]string{
		"not RLP":                 "f8",
		"trailing bytes":          "c482312376ff",
		"non-empty string":        "8180",
		"single byte":             "01",
		"non-canonical size":      "b80176",
		"three items":             "c3808080",
		"bad flag":                "c482412376",
		"empty leaf value":        "c482312380",
		"empty extension key":     "c400c22061",
		"extension to leaf":       "c6821123c22061",
		"extension to nothing":    "c482112380",
		"short digest":            "c782112383010203",
		"single child branch":     "d380c22061808080808080808080808080808080",
		"empty branch":            "d18080808080808080808080808080808080",
		"value-only branch":       "d18080808080808080808080808080808076",
		"oversized embedded node": "f83dea20a878787878787878787878787878787878787878787878787878787878787878787878787878787878c22061808080808080808080808080808080",
	}
	for name, s := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeNode(fromHex(t, s), hash.Keccak256().Size())
			require.ErrorIs(t, err, ErrMalformedEncoding)
		})
	}
}
