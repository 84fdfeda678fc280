package lib

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestCacheJSON(t *testing.T) {
	client, mock := redismock.NewClientMock()
	NewRedisClient(client)

	statuses := map[uint32]string{0: "sold", 1: "available"}
	b, _ := json.Marshal(statuses)

	mock.ExpectSet("seatmap:abc", b, 30*time.Second).SetVal("OK")

	err := CacheJSON(context.Background(), "seatmap:abc", statuses, 30*time.Second)
	assert.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestGetCachedJSON(t *testing.T) {
	client, mock := redismock.NewClientMock()
	NewRedisClient(client)

	t.Run("Should decode a cache hit", func(t *testing.T) {
		statuses := map[uint32]string{0: "sold", 1: "available"}
		b, _ := json.Marshal(statuses)
		mock.ExpectGet("seatmap:abc").SetVal(string(b))

		var dest map[uint32]string
		hit, err := GetCachedJSON(context.Background(), "seatmap:abc", &dest)
		assert.Nil(t, err)
		assert.True(t, hit)
		assert.Equal(t, statuses, dest)
	})

	t.Run("Should report a miss without an error", func(t *testing.T) {
		mock.ExpectGet("seatmap:missing").RedisNil()

		var dest map[uint32]string
		hit, err := GetCachedJSON(context.Background(), "seatmap:missing", &dest)
		assert.Nil(t, err)
		assert.False(t, hit)
	})

	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestInvalidateCache(t *testing.T) {
	client, mock := redismock.NewClientMock()
	NewRedisClient(client)

	mock.ExpectDel("seatmap:abc").SetVal(1)

	InvalidateCache(context.Background(), "seatmap:abc")
	assert.Nil(t, mock.ExpectationsWereMet())
}
