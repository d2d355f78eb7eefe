package services

import (
	"testing"
	"time"

	"store_order/internal/models"
	"store_order/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOrderService(db *gorm.DB) OrderService {
	// cache is nil: the service must degrade to plain reads
	return NewOrderService(repository.NewOrderRepository(db), nil, 30*time.Minute, zerolog.Nop())
}

func seedLedgerOrder(t *testing.T, db *gorm.DB, product, status string, daysAgo int, totalCost int64) *models.Order {
	t.Helper()
	orderDate := time.Now().AddDate(0, 0, -daysAgo)
	order := &models.Order{
		ProductName:     product,
		QuantityOrdered: 10,
		UnitCost:        decimal.NewFromInt(totalCost / 10),
		TotalCost:       decimal.NewFromInt(totalCost),
		OrderDate:       orderDate,
		Status:          status,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestGetPendingOrders(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)

	seedLedgerOrder(t, db, "milk", string(models.OrderPending), 1, 20000)
	seedLedgerOrder(t, db, "bread", string(models.OrderApproved), 1, 10000)

	pending, err := svc.GetPending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "milk", pending[0].ProductName)
}

func TestGetHistoryWindowAndStatusFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)

	seedLedgerOrder(t, db, "recent approved", string(models.OrderApproved), 2, 10000)
	seedLedgerOrder(t, db, "recent pending", string(models.OrderPending), 3, 10000)
	seedLedgerOrder(t, db, "ancient", string(models.OrderApproved), 90, 10000)

	all, err := svc.GetHistory("", 30)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	approved, err := svc.GetHistory(string(models.OrderApproved), 30)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "recent approved", approved[0].ProductName)

	// non-positive window falls back to 30 days
	fallback, err := svc.GetHistory("", 0)
	require.NoError(t, err)
	assert.Len(t, fallback, 2)
}

func TestGetStatisticsAggregatesMonth(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)

	seedLedgerOrder(t, db, "milk", string(models.OrderApproved), 1, 20000)
	seedLedgerOrder(t, db, "bread", string(models.OrderPending), 2, 10000)
	seedLedgerOrder(t, db, "old", string(models.OrderApproved), 120, 99999)

	month := time.Now().Format("2006-01")
	stats, err := svc.GetStatistics(month)
	require.NoError(t, err)
	assert.Equal(t, month, stats.Month)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, "30000", stats.TotalCost.StringFixed(0))
	assert.Equal(t, 1, stats.StatusCounts[string(models.OrderApproved)])
	assert.Equal(t, 1, stats.StatusCounts[string(models.OrderPending)])
}

func TestGetStatisticsDefaultsToCurrentMonth(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)

	stats, err := svc.GetStatistics("")
	require.NoError(t, err)
	assert.Equal(t, time.Now().Format("2006-01"), stats.Month)
	assert.Zero(t, stats.TotalOrders)
}

func TestOrderApproveAndReject(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)

	order := seedLedgerOrder(t, db, "milk", string(models.OrderPending), 1, 20000)

	approved, err := svc.Approve(order.ID, "manager")
	require.NoError(t, err)
	assert.Equal(t, string(models.OrderApproved), approved.Status)
	assert.Equal(t, "manager", approved.ReviewedBy)

	rejected, err := svc.Reject(order.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, string(models.OrderRejected), rejected.Status)
}

func TestOrderReviewNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)

	_, err := svc.Approve(404, "manager")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
