package notify

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestMemoryCodeStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCodeStore()
	exp := time.Now().Add(10 * time.Minute).UTC()

	_, err := store.Get(ctx, "u1")
	assert.True(t, errors.Is(err, ErrCodeNotFound))

	require.NoError(t, store.Put(ctx, PendingCode{UserID: "u1", Email: "a@test.io", Code: "111111", ExpiresAt: exp}))
	require.NoError(t, store.Put(ctx, PendingCode{UserID: "u1", Email: "b@test.io", Code: "222222", ExpiresAt: exp}))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "222222", got.Code)
	assert.Equal(t, "b@test.io", got.Email)

	require.NoError(t, store.Delete(ctx, "u1"))
	_, err = store.Get(ctx, "u1")
	assert.True(t, errors.Is(err, ErrCodeNotFound))
}

func TestPendingCode_Expired(t *testing.T) {
	exp := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	pc := PendingCode{ExpiresAt: exp}
	assert.False(t, pc.Expired(exp.Add(-time.Nanosecond)))
	assert.True(t, pc.Expired(exp))
	assert.True(t, pc.Expired(exp.Add(time.Second)))
}
