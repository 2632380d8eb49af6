package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	locker := NewKeyedMutex()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, Key("t1", "e1", "bank"))
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, locker.size())
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	locker := NewKeyedMutex()
	ctx := context.Background()

	unlockA, err := locker.Lock(ctx, Key("t1", "e1", "bank"))
	require.NoError(t, err)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB, err := locker.Lock(ctx, Key("t1", "e1", "address"))
		if err == nil {
			unlockB()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("different categories must not block each other")
	}
}

func TestKeyedMutexHonorsCancellation(t *testing.T) {
	locker := NewKeyedMutex()
	unlock, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()
	assert.Equal(t, 0, locker.size())
}

func TestWithAllHoldsEveryKey(t *testing.T) {
	locker := NewKeyedMutex()
	ctx := context.Background()
	keys := []string{Key("t1", "e1", "employee"), Key("t1", "e1", "address"), Key("t1", "e1", "bank")}

	err := WithAll(ctx, locker, keys, func(ctx context.Context) error {
		assert.Equal(t, 3, locker.size())
		for _, key := range keys {
			waitCtx, cancel := context.WithTimeout(ctx, 5*time.Millisecond)
			_, err := locker.Lock(waitCtx, key)
			cancel()
			assert.ErrorIs(t, err, context.DeadlineExceeded, key)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, locker.size())
}

func TestWithAllReleasesOnPartialAcquire(t *testing.T) {
	locker := NewKeyedMutex()
	unlock, err := locker.Lock(context.Background(), "b")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	called := false
	err = WithAll(ctx, locker, []string{"a", "b"}, func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, called)

	a, err := locker.Lock(context.Background(), "a")
	require.NoError(t, err, "a is released after the failed acquire")
	a()
}

func TestRedisLockerAcquireAndRelease(t *testing.T) {
	client, mock := redismock.NewClientMock()
	locker := NewRedisLocker(client, 5*time.Second)
	locker.newToken = func() string { return "token-1" }

	mock.ExpectSetNX("hrcore:lock:t1:e1:bank", "token-1", 5*time.Second).SetVal(true)
	mock.ExpectEval(releaseScript, []string{"hrcore:lock:t1:e1:bank"}, "token-1").SetVal(int64(1))

	unlock, err := locker.Lock(context.Background(), Key("t1", "e1", "bank"))
	require.NoError(t, err)
	unlock()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLockerWaitsForHolder(t *testing.T) {
	client, mock := redismock.NewClientMock()
	locker := NewRedisLocker(client, time.Second)
	locker.retry = time.Millisecond
	locker.newToken = func() string { return "token-2" }

	mock.ExpectSetNX("hrcore:lock:k", "token-2", time.Second).SetVal(false)
	mock.ExpectSetNX("hrcore:lock:k", "token-2", time.Second).SetVal(true)

	unlock, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)
	require.NotNil(t, unlock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLockerRenewsLease(t *testing.T) {
	client, mock := redismock.NewClientMock()
	locker := NewRedisLocker(client, 3*time.Second)

	mock.ExpectEval(renewScript, []string{"hrcore:lock:k"}, "token-3", int64(3000)).SetVal(int64(1))
	held, err := locker.renew(context.Background(), "hrcore:lock:k", "token-3")
	require.NoError(t, err)
	assert.True(t, held)

	mock.ExpectEval(renewScript, []string{"hrcore:lock:k"}, "token-3", int64(3000)).SetVal(int64(0))
	held, err = locker.renew(context.Background(), "hrcore:lock:k", "token-3")
	require.NoError(t, err)
	assert.False(t, held, "a key taken over by another holder is not extended")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLockerKeepsLeaseWhileHeld(t *testing.T) {
	client, mock := redismock.NewClientMock()
	locker := NewRedisLocker(client, 3*time.Second)
	locker.renewEvery = 10 * time.Millisecond
	locker.newToken = func() string { return "token-4" }

	mock.ExpectSetNX("hrcore:lock:k", "token-4", 3*time.Second).SetVal(true)
	// The first renewal reports the lease lost, which ends the renew loop.
	mock.ExpectEval(renewScript, []string{"hrcore:lock:k"}, "token-4", int64(3000)).SetVal(int64(0))
	mock.ExpectEval(releaseScript, []string{"hrcore:lock:k"}, "token-4").SetVal(int64(0))

	unlock, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	unlock()
	unlock()

	assert.NoError(t, mock.ExpectationsWereMet())
}
