//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/catering-service/internal/circuitbreaker"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestOrder(method model.FulfillmentMethod, pay model.PaymentMethod, at time.Time, total float64) *model.Order {
	return &model.Order{
		OrderDraft: model.OrderDraft{
			Customer:      model.Customer{Name: "Asha", Email: "asha@example.com", Phone: "2145550100"},
			Method:        method,
			ScheduledDate: at.Format("2006-01-02"),
			ScheduledTime: "6:00 PM",
			ScheduledAt:   at,
			Lines:         []model.DraftLine{{Name: "Butter Chicken", Size: "MediumTray", Qty: 2}},
			PaymentMethod: pay,
			Totals:        model.CheckoutTotals{GrandTotal: total},
		},
		PaymentStatus: model.PaymentPending,
	}
}

func TestOrderRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := openTestDB(t)

	repo := NewOrderRepository(db)
	base := time.Date(2026, 11, 2, 18, 0, 0, 0, time.UTC)

	pickup := newTestOrder(model.MethodPickup, model.PaymentCash, base, 120)
	delivery := newTestOrder(model.MethodDelivery, model.PaymentCard, base.Add(48*time.Hour), 640)
	require.NoError(t, repo.Create(ctx, pickup))
	require.NoError(t, repo.Create(ctx, delivery))

	t.Run("create assigns id and placed time", func(t *testing.T) {
		assert.False(t, pickup.ID.IsZero())
		assert.False(t, pickup.PlacedAt.IsZero())
	})

	t.Run("find by id", func(t *testing.T) {
		got, err := repo.FindByID(ctx, delivery.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, model.MethodDelivery, got.Method)
		assert.Equal(t, 640.0, got.Totals.GrandTotal)

		missing, err := repo.FindByID(ctx, primitive.NewObjectID())
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("list filters and sorts", func(t *testing.T) {
		got, err := repo.List(ctx, model.OrderFilter{Method: model.MethodPickup})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, pickup.ID, got[0].ID)

		got, err = repo.List(ctx, model.OrderFilter{SortBy: "total"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, delivery.ID, got[0].ID)

		got, err = repo.List(ctx, model.OrderFilter{From: base.Add(24 * time.Hour)})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, delivery.ID, got[0].ID)
	})

	t.Run("payment status transitions are conditional", func(t *testing.T) {
		updated, err := repo.UpdatePaymentStatus(ctx, pickup.ID, model.PaymentPending, model.PaymentPaid)
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, model.PaymentPaid, updated.PaymentStatus)
		assert.NotNil(t, updated.PaidAt)

		_, err = repo.UpdatePaymentStatus(ctx, pickup.ID, model.PaymentPending, model.PaymentCancelled)
		assert.ErrorIs(t, err, ErrStatusMismatch)

		missing, err := repo.UpdatePaymentStatus(ctx, primitive.NewObjectID(), model.PaymentPending, model.PaymentPaid)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("payment session is recorded", func(t *testing.T) {
		require.NoError(t, repo.SetPaymentSession(ctx, delivery.ID, "cs_test_123"))
		got, err := repo.FindByID(ctx, delivery.ID)
		require.NoError(t, err)
		assert.Equal(t, "cs_test_123", got.PaymentSessionID)
	})

	t.Run("circuit breaker wrapper keeps mismatch distinct", func(t *testing.T) {
		cb := circuitbreaker.New(circuitbreaker.Config{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Minute, Name: "orders"})
		wrapped := NewOrderRepositoryWithCircuitBreaker(repo, cb)

		_, err := wrapped.UpdatePaymentStatus(ctx, pickup.ID, model.PaymentPending, model.PaymentPaid)
		assert.ErrorIs(t, err, ErrStatusMismatch)
		assert.False(t, cb.IsOpen())
	})
}
