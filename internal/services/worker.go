package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Refresher rebuilds the job index in the background, on demand and
// optionally on a fixed interval.
type Refresher interface {
	Start(ctx context.Context)
	Stop()
	// Trigger queues a rebuild. It returns false when one is already queued
	// or the refresher has stopped.
	Trigger() bool
}

type refresher struct {
	manager  IndexManager
	interval time.Duration
	log      *zap.Logger

	queue    chan struct{}
	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewRefresher returns a refresher. An interval of zero disables the
// periodic rebuild.
func NewRefresher(manager IndexManager, interval time.Duration, log *zap.Logger) Refresher {
	return &refresher{
		manager:  manager,
		interval: interval,
		log:      log,
		queue:    make(chan struct{}, 1),
		stopChan: make(chan struct{}),
	}
}

// Start implements Refresher.
func (r *refresher) Start(ctx context.Context) {
	r.wg.Add(1)
	go r.processRebuilds(ctx)

	if r.interval > 0 {
		r.wg.Add(1)
		go r.pollInterval()
	}

	r.log.Info("index refresher started", zap.Duration("interval", r.interval))
}

// Stop implements Refresher.
func (r *refresher) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopChan)
	})
	r.wg.Wait()
	r.log.Info("index refresher stopped")
}

// Trigger implements Refresher.
func (r *refresher) Trigger() bool {
	select {
	case <-r.stopChan:
		return false
	default:
	}

	select {
	case r.queue <- struct{}{}:
		r.log.Info("index rebuild queued")
		return true
	default:
		return false
	}
}

func (r *refresher) processRebuilds(ctx context.Context) {
	defer r.wg.Done()

	for {
		select {
		case <-r.stopChan:
			return
		case <-ctx.Done():
			return
		case <-r.queue:
			err := r.manager.Rebuild(ctx)
			switch {
			case err == nil:
				r.log.Info("index rebuild completed", zap.Int("jobs", r.manager.Current().Len()))
			case errors.Is(err, ErrRebuildInProgress):
				r.log.Info("index rebuild skipped, another one is running")
			default:
				r.log.Error("index rebuild failed, keeping previous snapshot", zap.Error(err))
			}
		}
	}
}

func (r *refresher) pollInterval() {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			r.Trigger()
		}
	}
}
