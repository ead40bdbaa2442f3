package memory

import (
	"context"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	_ repositories.NotificationRepository     = (*NotificationRepository)(nil)
	_ repositories.TransactionRepository      = (*TransactionRepository)(nil)
	_ repositories.PointTransactionRepository = (*PointTransactionRepository)(nil)
)

// NotificationRepository is the in-memory dispatch record store
type NotificationRepository struct {
	s *Store
}

// Create stores a dispatch record
func (r *NotificationRepository) Create(_ context.Context, record *models.DispatchRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	record.ID = primitive.NewObjectID()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	stored := *record
	r.s.dispatches = append(r.s.dispatches, &stored)
	return nil
}

// FindByID returns a dispatch record
func (r *NotificationRepository) FindByID(_ context.Context, restaurantID string, id primitive.ObjectID) (*models.DispatchRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, d := range r.s.dispatches {
		if d.ID == id && d.RestaurantID == restaurantID {
			out := *d
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// FindAll lists dispatch records newest first
func (r *NotificationRepository) FindAll(_ context.Context, restaurantID string, pageNum, limit int) ([]*models.DispatchRecord, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var records []*models.DispatchRecord
	for i := len(r.s.dispatches) - 1; i >= 0; i-- {
		if d := r.s.dispatches[i]; d.RestaurantID == restaurantID {
			out := *d
			records = append(records, &out)
		}
	}
	return page(records, pageNum, limit), int64(len(records)), nil
}

// Summary totals the restaurant's dispatches
func (r *NotificationRepository) Summary(_ context.Context, restaurantID string) (*models.DispatchSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	summary := &models.DispatchSummary{}
	for _, d := range r.s.dispatches {
		if d.RestaurantID != restaurantID {
			continue
		}
		summary.Dispatches++
		summary.TotalSent += int64(d.SentCount)
		summary.TotalFailed += int64(d.FailedCount)
		if !d.Consistent() {
			summary.InconsistentRuns++
		}
	}
	summary.SuccessRate = models.SuccessRate(summary.TotalSent, summary.TotalFailed)
	return summary, nil
}

// TransactionRepository is the in-memory order store
type TransactionRepository struct {
	s *Store
}

// Create stores a transaction
func (r *TransactionRepository) Create(_ context.Context, tx *models.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tx.ID = primitive.NewObjectID()
	tx.CreatedAt = time.Now()
	stored := *tx
	r.s.transactions = append(r.s.transactions, &stored)
	return nil
}

// FindByCustomerID lists a customer's transactions newest first
func (r *TransactionRepository) FindByCustomerID(_ context.Context, restaurantID, customerID string, pageNum, limit int) ([]*models.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var txs []*models.Transaction
	for i := len(r.s.transactions) - 1; i >= 0; i-- {
		if tx := r.s.transactions[i]; tx.RestaurantID == restaurantID && tx.CustomerID == customerID {
			out := *tx
			txs = append(txs, &out)
		}
	}
	return page(txs, pageNum, limit), nil
}

// PointTransactionRepository is the in-memory points ledger
type PointTransactionRepository struct {
	s *Store
}

// Create appends a ledger entry
func (r *PointTransactionRepository) Create(_ context.Context, transaction *models.PointTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	transaction.ID = primitive.NewObjectID()
	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = time.Now()
	}
	stored := *transaction
	r.s.points = append(r.s.points, &stored)
	return nil
}

// FindByCustomerID lists a customer's ledger newest first
func (r *PointTransactionRepository) FindByCustomerID(_ context.Context, restaurantID, customerID string) ([]*models.PointTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	entries := []*models.PointTransaction{}
	for i := len(r.s.points) - 1; i >= 0; i-- {
		if p := r.s.points[i]; p.RestaurantID == restaurantID && p.CustomerID == customerID {
			out := *p
			entries = append(entries, &out)
		}
	}
	return entries, nil
}
