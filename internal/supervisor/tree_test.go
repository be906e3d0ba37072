// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package supervisor

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingService runs until its context is canceled.
type blockingService struct {
	started atomic.Int32
}

func (s *blockingService) Serve(ctx context.Context) error {
	s.started.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func (s *blockingService) String() string { return "blocking" }

func TestDefaultTreeConfig(t *testing.T) {
	cfg := DefaultTreeConfig()
	assert.Equal(t, 5.0, cfg.FailureThreshold)
	assert.Equal(t, 30.0, cfg.FailureDecay)
	assert.Equal(t, 15*time.Second, cfg.FailureBackoff)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestNewTreeAppliesDefaults(t *testing.T) {
	tree := NewTree(slog.Default(), TreeConfig{})
	require.NotNil(t, tree.Root())
	assert.Equal(t, 5.0, tree.config.FailureThreshold)
	assert.Equal(t, 10*time.Second, tree.config.ShutdownTimeout)
}

func TestTreeRunsServicesAcrossLayers(t *testing.T) {
	tree := NewTree(slog.Default(), DefaultTreeConfig())

	apiSvc := &blockingService{}
	maintSvc := &blockingService{}
	tree.AddAPIService(apiSvc)
	tree.AddMaintenanceService(maintSvc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	require.Eventually(t, func() bool {
		return apiSvc.started.Load() == 1 && maintSvc.started.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not stop")
	}
}

func TestRemoveStopsService(t *testing.T) {
	tree := NewTree(slog.Default(), DefaultTreeConfig())

	svc := &blockingService{}
	token := tree.AddAPIService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	require.Eventually(t, func() bool {
		return svc.started.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, tree.RemoveAPIService(token))

	cancel()
	<-errCh
}
