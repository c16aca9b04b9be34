package worker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/admin-console/internal/domain"
	"github.com/storefront/admin-console/internal/events"
	"github.com/storefront/admin-console/internal/observability"
	"github.com/storefront/admin-console/internal/repository"
	"github.com/storefront/admin-console/internal/service"
	"github.com/storefront/admin-console/internal/worker"
)

func TestAuditWorker_PersistsPublishedEvents(t *testing.T) {
	repo := repository.NewMemoryAuditRepository(10)
	audit := service.NewAuditService(repo, zap.NewNop())
	dispatcher := events.NewInMemoryDispatcher()
	w := worker.StartAuditWorker(dispatcher, audit, zap.NewNop(), observability.NewMetrics(), 8)

	actor := events.Actor{Email: "m@shop.test", Role: "Manager"}
	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventOrderMarkedSent, actor, events.TargetOrder, "ORD-123", map[string]any{"trackingNumber": "TRK1"})))
	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventProductDeleted, actor, events.TargetProduct, "p1", nil)))

	// Stop drains the queue before returning
	w.Stop()

	page, err := audit.List(ctx, repository.AuditFilter{}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "product_deleted", page.Items[0].Action)
	assert.Equal(t, "ORD-123", page.Items[1].TargetID)
	assert.Equal(t, "TRK1", page.Items[1].Details["trackingNumber"])

	// publishing after stop is a no-op
	assert.NoError(t, dispatcher.Publish(ctx, events.New(events.EventSessionEnded, actor, events.TargetSession, "", nil)))
	w.Stop()
}

type brokenRepository struct{}

func (brokenRepository) Create(context.Context, *domain.AuditEntry) error {
	return errors.New("db down")
}

func (brokenRepository) List(context.Context, repository.AuditFilter) ([]domain.AuditEntry, int, error) {
	return nil, 0, errors.New("db down")
}

func TestAuditWorker_CountsPersistFailures(t *testing.T) {
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	w := worker.StartAuditWorker(dispatcher, service.NewAuditService(brokenRepository{}, zap.NewNop()), zap.NewNop(), metrics, 8)

	actor := events.Actor{Email: "a@shop.test", Role: "Admin"}
	for i := 0; i < 3; i++ {
		require.NoError(t, dispatcher.Publish(context.Background(), events.New(events.EventProductDeleted, actor, events.TargetProduct, "p1", nil)))
	}
	w.Stop()

	assert.Equal(t, int64(3), metrics.Snapshot().Errors["audit|worker|PERSIST_FAILED"])
}
