package reminders

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

func TestMemoryFiredStore(t *testing.T) {
	clock := &fixedTime{now: startsAt}
	store := NewMemoryFiredStore(time.Hour).WithTimeProvider(clock)
	ctx := context.Background()

	ok, err := store.Mark(ctx, "r-1", domain.ReminderLead30)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Mark(ctx, "r-1", domain.ReminderLead30)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Mark(ctx, "r-1", domain.ReminderLead15)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Release(ctx, "r-1", domain.ReminderLead30))
	ok, err = store.Mark(ctx, "r-1", domain.ReminderLead30)
	require.NoError(t, err)
	assert.True(t, ok)

	clock.now = clock.now.Add(2 * time.Hour)
	ok, err = store.Mark(ctx, "r-1", domain.ReminderLead15)
	require.NoError(t, err)
	assert.True(t, ok, "expired mark is dropped")
}

func TestRedisFiredStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisFiredStore(client, "salon:reminders", time.Hour)
	ctx := context.Background()

	ok, err := store.Mark(ctx, "r-1", domain.ReminderLead30)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("salon:reminders:r-1:30"))
	assert.Equal(t, time.Hour, mr.TTL("salon:reminders:r-1:30"))

	ok, err = store.Mark(ctx, "r-1", domain.ReminderLead30)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Release(ctx, "r-1", domain.ReminderLead30))
	assert.False(t, mr.Exists("salon:reminders:r-1:30"))

	ok, err = store.Mark(ctx, "r-1", domain.ReminderLead30)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Hour)
	ok, err = store.Mark(ctx, "r-1", domain.ReminderLead30)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisFiredStore_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	store := NewRedisFiredStore(client, "salon:reminders", time.Hour)
	_, err := store.Mark(context.Background(), "r-1", domain.ReminderLead30)
	assert.ErrorIs(t, err, ErrFiredStore)
}
