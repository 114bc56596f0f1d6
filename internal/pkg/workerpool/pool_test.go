package workerpool

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolSubmit(t *testing.T) {
	pool, err := New(&Config{Workers: 2}, nil)
	require.NoError(t, err)
	defer pool.Shutdown(time.Second)

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		require.NoError(t, pool.Submit(func() {
			defer wg.Done()
			mu.Lock()
			seen++
			mu.Unlock()
		}))
	}
	wg.Wait()

	assert.Equal(t, 10, seen)
	assert.Equal(t, int64(10), pool.Stats().Submitted)
	assert.Equal(t, 2, pool.Cap())
}

func TestPoolSubmitWithResult(t *testing.T) {
	pool, err := New(DefaultConfig(), nil)
	require.NoError(t, err)
	defer pool.Shutdown(time.Second)

	res := <-pool.SubmitWithResult(func() (interface{}, error) {
		return "translated", nil
	})
	require.NoError(t, res.Error)
	assert.Equal(t, "translated", res.Data)
}

func TestPoolNonblockingOverload(t *testing.T) {
	pool, err := New(&Config{Workers: 1, Nonblocking: true}, nil)
	require.NoError(t, err)
	defer pool.Shutdown(time.Second)

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, pool.Submit(func() {
		close(started)
		<-release
	}))
	<-started

	err = pool.Submit(func() {})
	assert.ErrorIs(t, err, ErrPoolOverload)
	assert.Equal(t, int64(1), pool.Stats().Rejected)
	close(release)
}

func TestPoolPanicRecovered(t *testing.T) {
	pool, err := New(&Config{Workers: 1}, nil)
	require.NoError(t, err)

	defer pool.Shutdown(time.Second)

	require.NoError(t, pool.Submit(func() { panic("boom") }))

	assert.Eventually(t, func() bool {
		return pool.Stats().Panicked == 1
	}, time.Second, 10*time.Millisecond)
}

func TestPoolClosed(t *testing.T) {
	pool, err := New(&Config{Workers: 1}, nil)
	require.NoError(t, err)
	require.NoError(t, pool.Shutdown(0))

	assert.ErrorIs(t, pool.Submit(func() {}), ErrPoolClosed)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(&Config{Workers: 0}, nil)
	assert.Error(t, err)
}
