package store

import (
	"context"
	"errors"
	"testing"

	apperrors "campaign-builder/internal/common/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_PrefixesKeys(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	s := NewRedisStore(client, "cb:")

	require.NoError(t, s.Set(ctx, KeyActiveDataset, []byte(`"segment-saas"`)))

	stored, err := mr.Get("cb:activeDataset")
	require.NoError(t, err)
	assert.Equal(t, `"segment-saas"`, stored)

	v, ok, err := s.Get(ctx, KeyActiveDataset)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"segment-saas"`, string(v))

	require.NoError(t, s.Delete(ctx, KeyActiveDataset))
	assert.False(t, mr.Exists("cb:activeDataset"))
}

func TestRedisStore_Update(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	s := NewRedisStore(client, "cb:")

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Update(ctx, "counter", increment))
	}
	got, err := mr.Get("cb:counter")
	require.NoError(t, err)
	assert.Equal(t, "3", got)

	require.NoError(t, s.Update(ctx, "counter", func([]byte, bool) ([]byte, error) { return nil, nil }))
	assert.False(t, mr.Exists("cb:counter"))
}

func TestRedisStore_UpdatePassesThroughCallbackError(t *testing.T) {
	_, client := setupRedis(t)
	s := NewRedisStore(client, "")

	notFound := apperrors.NewCampaignNotFoundError("c-1")
	err := s.Update(context.Background(), KeyCampaigns, func([]byte, bool) ([]byte, error) {
		return nil, notFound
	})
	assert.Same(t, notFound, err)
}

func TestRedisStore_UpdateGivesUpAfterRepeatedConflicts(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	s := NewRedisStore(client, "")

	other := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = other.Close() })

	calls := 0
	err := s.Update(ctx, "hot", func(cur []byte, exists bool) ([]byte, error) {
		calls++
		require.NoError(t, other.Set(ctx, "hot", calls, 0).Err())
		return []byte("mine"), nil
	})

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStorageWriteConflict))
	assert.Equal(t, defaultMaxTxRetries, calls)
}

func TestRedisStore_ReadFailureIsStorageError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client, "cb:")

	mock.ExpectGet("cb:campaigns").SetErr(errors.New("connection refused"))
	mock.ExpectSet("cb:campaigns", []byte("[]"), 0).SetErr(errors.New("READONLY"))

	_, _, err := s.Get(context.Background(), KeyCampaigns)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStorageReadFailed))

	err = s.Set(context.Background(), KeyCampaigns, []byte("[]"))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStorageWriteFailed))

	assert.NoError(t, mock.ExpectationsWereMet())
}
