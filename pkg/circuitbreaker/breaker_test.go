package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream unavailable")
var errRejected = errors.New("rejected")

func TestRun_PassesThroughResult(t *testing.T) {
	cb := New(DefaultConfig("test_pass"))

	assert.NoError(t, Run(cb, func() error { return nil }))
	assert.ErrorIs(t, Run(cb, func() error { return errUpstream }), errUpstream)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestRun_OpensAfterRepeatedFailures(t *testing.T) {
	cb := New(DefaultConfig("test_trip"))

	for i := 0; i < 3; i++ {
		_ = Run(cb, func() error { return errUpstream })
	}
	require.Equal(t, gobreaker.StateOpen, cb.State())

	called := false
	err := Run(cb, func() error {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.True(t, IsOpen(err))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Contains(t, err.Error(), "test_trip")
}

func TestRun_SuccessfulErrorsDoNotTrip(t *testing.T) {
	cfg := DefaultConfig("test_rejections")
	cfg.IsSuccessful = func(err error) bool { return err == nil || errors.Is(err, errRejected) }
	cb := New(cfg)

	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, Run(cb, func() error { return errRejected }), errRejected)
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestRun_HalfOpenRecovers(t *testing.T) {
	cfg := DefaultConfig("test_recover")
	cfg.Timeout = 10 * time.Millisecond
	cfg.MaxRequests = 1
	cb := New(cfg)

	for i := 0; i < 3; i++ {
		_ = Run(cb, func() error { return errUpstream })
	}
	require.Equal(t, gobreaker.StateOpen, cb.State())

	time.Sleep(20 * time.Millisecond)

	assert.NoError(t, Run(cb, func() error { return nil }))
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestIsOpen(t *testing.T) {
	assert.True(t, IsOpen(FormatError("x", gobreaker.ErrOpenState)))
	assert.True(t, IsOpen(FormatError("x", gobreaker.ErrTooManyRequests)))
	assert.False(t, IsOpen(errUpstream))
	assert.False(t, IsOpen(nil))
}
