package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"near2door-tracker/internal/logx"
)

type stubPinger struct {
	calls int
	errs  []error
}

func (s *stubPinger) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if s.calls < len(s.errs) {
		cmd.SetErr(s.errs[s.calls])
	}
	s.calls++
	return cmd
}

func TestPingWithRetry_SuccessFirstAttempt(t *testing.T) {
	t.Parallel()

	p := &stubPinger{}
	err := pingWithRetry(context.Background(), logx.Nop(), p, 3, time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, 1, p.calls)
}

func TestPingWithRetry_SucceedsAfterFailures(t *testing.T) {
	t.Parallel()

	boom := errors.New("redis down")
	p := &stubPinger{errs: []error{boom, boom}}
	err := pingWithRetry(context.Background(), logx.Nop(), p, 3, time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, 3, p.calls)
}

func TestPingWithRetry_ExhaustsRetries(t *testing.T) {
	t.Parallel()

	boom := errors.New("redis down")
	p := &stubPinger{errs: []error{boom, boom, boom}}
	err := pingWithRetry(context.Background(), logx.Nop(), p, 3, time.Millisecond)
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "after 3 attempts")
	require.Equal(t, 3, p.calls)
}

func TestPingWithRetry_ContextCanceledBetweenAttempts(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &stubPinger{errs: []error{errors.New("redis down")}}
	err := pingWithRetry(ctx, logx.Nop(), p, 3, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, p.calls)
}
