package main

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wateryy/internal/db"
	"wateryy/internal/reminders"
)

// slowNotifier holds a delivery open until the context is cancelled.
type slowNotifier struct {
	started chan struct{}
	once    sync.Once
}

func (n *slowNotifier) SendReminder(ctx context.Context, _ int64, _ int) error {
	n.once.Do(func() { close(n.started) })
	<-ctx.Done()
	time.Sleep(20 * time.Millisecond)
	return nil
}

func TestGoWorkerDrainsSchedulerBeforeStoreCloses(t *testing.T) {
	logger := zerolog.Nop()
	store, err := db.NewDB(filepath.Join(t.TempDir(), "run.db"), time.UTC, &logger)
	require.NoError(t, err)

	bg := context.Background()
	_, err = store.StartReminders(bg, 7)
	require.NoError(t, err)

	notifier := &slowNotifier{started: make(chan struct{})}
	sender := reminders.NewSender(notifier, reminders.DefaultSenderConfig(), &logger)
	scheduler := reminders.NewScheduler(reminders.DefaultConfig(), store, sender, nil, &logger)

	ctx, cancel := context.WithCancel(bg)
	var wg sync.WaitGroup
	goWorker(ctx, &wg, scheduler.Start)

	select {
	case <-notifier.started:
	case <-time.After(5 * time.Second):
		t.Fatal("reminder was not sent")
	}
	cancel()
	wg.Wait()

	assert.False(t, scheduler.IsRunning())
	s, err := store.GetUserSettings(bg, 7)
	require.NoError(t, err)
	assert.NotNil(t, s.LastReminder)
	require.NoError(t, store.Close())
}
