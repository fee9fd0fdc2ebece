package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryObjectStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryObjectStorage()

	require.NoError(t, s.Put(ctx, "proofs/a.png", "image/png", []byte{1, 2, 3}))

	data, ct, err := s.Get(ctx, "proofs/a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
	assert.Equal(t, "image/png", ct)

	require.NoError(t, s.Delete(ctx, "proofs/a.png"))
	_, _, err = s.Get(ctx, "proofs/a.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "receipt_1.png", SafeName("../../receipt 1.png"))
	assert.Equal(t, "file", SafeName("  "))
	assert.Equal(t, "a.jpg", SafeName(`C:\tmp\a.jpg`))
}
