package workers

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolRunsTasks(t *testing.T) {
	p := New(4)
	require.Equal(t, 4, p.Size())

	var done atomic.Int64
	for i := 0; i < 100; i++ {
		p.Submit(func() { done.Add(1) })
	}
	p.Close()

	require.Equal(t, int64(100), done.Load())
	require.Equal(t, uint64(100), p.Completed())
	require.Zero(t, p.Waiting())
	require.Zero(t, p.Running())
}

func TestPoolDefaultSize(t *testing.T) {
	p := New(0)
	defer p.Close()
	require.Equal(t, runtime.NumCPU(), p.Size())
}

func TestSubmitAfterCloseIsDropped(t *testing.T) {
	p := New(1)
	p.Close()

	var ran atomic.Bool
	p.Submit(func() { ran.Store(true) })
	require.False(t, ran.Load())
}

func TestPoolRegisterMetricsTwice(t *testing.T) {
	p := New(2)
	defer p.Close()
	require.NoError(t, p.RegisterMetrics())
	require.NoError(t, p.RegisterMetrics())
}
