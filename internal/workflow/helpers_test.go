package workflow_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/JaimeStill/claimflow/internal/notify"
)

const defaultTimeout = time.Second

type failingChannel struct {
	sent atomic.Bool
}

func (f *failingChannel) Name() string { return "webhook" }

func (f *failingChannel) Send(ctx context.Context, s notify.Summary, address string) error {
	f.sent.Store(true)
	return errors.New("webhook unreachable")
}

func (f *failingChannel) called() bool { return f.sent.Load() }
