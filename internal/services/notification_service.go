package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/metrics"
	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"github.com/ArowuTest/loyalty-admin-backend/internal/targeting"
	"github.com/ArowuTest/loyalty-admin-backend/internal/utils"
	"github.com/ArowuTest/loyalty-admin-backend/pkg/pushgateway"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
	"golang.org/x/time/rate"
)

// Notification categories
const (
	CategoryPromotion    = "PROMOTION"
	CategoryCampaign     = "CAMPAIGN"
	CategoryAnnouncement = "ANNOUNCEMENT"
)

var _ CampaignNotifier = (*NotificationService)(nil)

// DispatchRequest is an admin push send. Explicit TargetCustomerIDs take
// precedence over Audience; ids outside the restaurant roster are not sent
// and count as failed.
type DispatchRequest struct {
	Title             string             `json:"title" binding:"required"`
	Body              string             `json:"body" binding:"required"`
	Category          string             `json:"category"`
	Audience          *targeting.Query   `json:"audience,omitempty"`
	TargetCustomerIDs []string           `json:"targetCustomerIds,omitempty"`
	CampaignID        primitive.ObjectID `json:"-"`
	CreatedBy         string             `json:"-"`
}

// DispatchConfig tunes batching and pacing
type DispatchConfig struct {
	BatchSize     int
	RatePerSecond float64
	Burst         int
}

// NotificationService sends push notifications and keeps the dispatch log
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
	settingsRepo     repositories.SystemSettingsRepository
	targeting        *TargetingService
	gateways         []pushgateway.Gateway
	limiter          *rate.Limiter
	batchSize        int
	metrics          *metrics.Metrics
}

// NewNotificationService creates a new NotificationService. gateways are
// tried in the given order after the one selected in system settings.
func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	settingsRepo repositories.SystemSettingsRepository,
	targetingService *TargetingService,
	gateways []pushgateway.Gateway,
	cfg DispatchConfig,
	m *metrics.Metrics,
) *NotificationService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &NotificationService{
		notificationRepo: notificationRepo,
		settingsRepo:     settingsRepo,
		targeting:        targetingService,
		gateways:         gateways,
		limiter:          rate.NewLimiter(limit, cfg.Burst),
		batchSize:        cfg.BatchSize,
		metrics:          m,
	}
}

// Dispatch resolves the recipients, sends them in paced batches and persists
// the outcome. Per-recipient failures are recorded, not returned as errors.
// When ctx is cancelled mid-way the batches already sent stay counted and
// the record is still stored.
func (s *NotificationService) Dispatch(ctx context.Context, restaurantID string, req DispatchRequest) (*models.DispatchRecord, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)
	if req.Title == "" || req.Body == "" {
		return nil, fmt.Errorf("%w: title and body are required", ErrInvalidInput)
	}
	if req.Category == "" {
		req.Category = CategoryPromotion
	}

	recipients, unknown, err := s.recipients(ctx, restaurantID, req)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		if len(unknown) > 0 {
			slog.Warn("Dispatch rejected, no target is a customer", "restaurantId", restaurantID, "unknown", len(unknown))
		}
		return nil, ErrNoRecipients
	}
	if len(unknown) > 0 {
		slog.Warn("Dispatch targets include unknown customers", "restaurantId", restaurantID, "unknown", len(unknown))
	}

	gateways := s.gatewayOrder(ctx, restaurantID)
	if len(gateways) == 0 {
		return nil, fmt.Errorf("%w: no gateway configured", pushgateway.ErrGatewayUnavailable)
	}

	record := &models.DispatchRecord{
		RestaurantID:      restaurantID,
		Title:             req.Title,
		Body:              req.Body,
		Category:          req.Category,
		CampaignID:        req.CampaignID,
		TargetCustomerIDs: append(append([]string(nil), recipients...), unknown...),
		FailedCount:       len(unknown),
		Gateway:           gateways[0].Name(),
		CreatedBy:         req.CreatedBy,
		CreatedAt:         time.Now(),
	}
	s.countRecipients("failed", len(unknown))
	msg := pushgateway.Message{Title: req.Title, Body: req.Body, Type: req.Category}

	var interrupted error
	for start := 0; start < len(recipients); start += s.batchSize {
		end := start + s.batchSize
		if end > len(recipients) {
			end = len(recipients)
		}
		if err := s.limiter.Wait(ctx); err != nil {
			interrupted = err
			break
		}
		if err := ctx.Err(); err != nil {
			interrupted = err
			break
		}

		batch := recipients[start:end]
		report, gatewayName := s.sendWithFallback(ctx, gateways, msg, batch)
		if report == nil {
			record.FailedCount += len(batch)
			s.countRecipients("failed", len(batch))
			continue
		}
		record.Gateway = gatewayName
		record.BatchIDs = append(record.BatchIDs, report.BatchID)
		record.SentCount += report.SentCount
		record.FailedCount += report.FailedCount
		s.countRecipients("sent", report.SentCount)
		s.countRecipients("failed", report.FailedCount)
	}

	if !record.Consistent() {
		slog.Warn("Dispatch counts do not cover every recipient",
			"restaurantId", restaurantID, "targets", len(record.TargetCustomerIDs), "sent", record.SentCount, "failed", record.FailedCount)
	}

	// the log entry is written even when the caller went away
	if err := s.notificationRepo.Create(context.WithoutCancel(ctx), record); err != nil {
		slog.Error("Failed to store dispatch record", "error", err, "restaurantId", restaurantID)
		return nil, fmt.Errorf("failed to store dispatch record: %w", err)
	}
	slog.Info("Notification dispatched", "dispatchId", record.ID.Hex(), "restaurantId", restaurantID,
		"gateway", record.Gateway, "targets", len(record.TargetCustomerIDs), "sent", record.SentCount, "failed", record.FailedCount)

	if interrupted != nil {
		return record, fmt.Errorf("dispatch interrupted: %w", interrupted)
	}
	return record, nil
}

// DispatchForCampaign announces a campaign to its audience
func (s *NotificationService) DispatchForCampaign(ctx context.Context, restaurantID string, campaign *models.Campaign, createdBy string) (*models.DispatchRecord, error) {
	recipients, err := s.targeting.ResolveAudience(ctx, restaurantID, campaign.Audience)
	if err != nil {
		return nil, err
	}
	return s.Dispatch(ctx, restaurantID, DispatchRequest{
		Title:             campaign.Notification.Title,
		Body:              campaign.Notification.Message,
		Category:          CategoryCampaign,
		TargetCustomerIDs: recipients,
		CampaignID:        campaign.ID,
		CreatedBy:         createdBy,
	})
}

// List returns a page of dispatch records, newest first
func (s *NotificationService) List(ctx context.Context, restaurantID string, page, limit int) ([]*models.DispatchRecord, int64, error) {
	return s.notificationRepo.FindAll(ctx, restaurantID, page, limit)
}

// Get returns one dispatch record
func (s *NotificationService) Get(ctx context.Context, restaurantID string, id primitive.ObjectID) (*models.DispatchRecord, error) {
	return s.notificationRepo.FindByID(ctx, restaurantID, id)
}

// Summary returns the dispatch analytics of a restaurant
func (s *NotificationService) Summary(ctx context.Context, restaurantID string) (*models.DispatchSummary, error) {
	summary, err := s.notificationRepo.Summary(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise dispatches: %w", err)
	}
	return summary, nil
}

// recipients returns the deliverable customer ids and the explicit ids that
// are not on the restaurant roster
func (s *NotificationService) recipients(ctx context.Context, restaurantID string, req DispatchRequest) ([]string, []string, error) {
	if len(req.TargetCustomerIDs) > 0 {
		return s.targeting.FilterKnown(ctx, restaurantID, utils.Dedupe(req.TargetCustomerIDs))
	}
	if req.Audience == nil {
		return nil, nil, fmt.Errorf("%w: an audience or target customer ids are required", ErrInvalidInput)
	}
	ids, err := s.targeting.Resolve(ctx, restaurantID, *req.Audience)
	if err != nil {
		return nil, nil, err
	}
	return utils.Dedupe(ids), nil, nil
}

// gatewayOrder puts the gateway selected in system settings first
func (s *NotificationService) gatewayOrder(ctx context.Context, restaurantID string) []pushgateway.Gateway {
	preferred := ""
	settings, err := s.settingsRepo.GetSettings(ctx, restaurantID)
	if err != nil {
		slog.Warn("Failed to get system settings, using default gateway order", "error", err, "restaurantId", restaurantID)
	} else {
		preferred = settings.PushGateway
	}

	ordered := make([]pushgateway.Gateway, 0, len(s.gateways))
	for _, g := range s.gateways {
		if g.Name() == preferred {
			ordered = append(ordered, g)
		}
	}
	for _, g := range s.gateways {
		if g.Name() != preferred {
			ordered = append(ordered, g)
		}
	}
	return ordered
}

// sendWithFallback tries each gateway until one accepts the batch. A nil
// report means every gateway failed.
func (s *NotificationService) sendWithFallback(ctx context.Context, gateways []pushgateway.Gateway, msg pushgateway.Message, batch []string) (*pushgateway.DeliveryReport, string) {
	for i, g := range gateways {
		report, err := g.Send(ctx, msg, batch)
		if err == nil {
			s.countBatch(g.Name(), "ok")
			return report, g.Name()
		}
		s.countBatch(g.Name(), "error")
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			slog.Warn("Batch send cancelled", "gateway", g.Name(), "batchSize", len(batch))
			return nil, ""
		}
		if i+1 < len(gateways) {
			slog.Warn("Gateway failed, falling back", "error", err, "gateway", g.Name(), "next", gateways[i+1].Name(), "batchSize", len(batch))
		} else {
			slog.Error("All gateways failed for batch", "error", err, "batchSize", len(batch))
		}
	}
	return nil, ""
}

func (s *NotificationService) countRecipients(outcome string, n int) {
	if s.metrics == nil || n == 0 {
		return
	}
	s.metrics.DispatchRecipients.WithLabelValues(outcome).Add(float64(n))
}

func (s *NotificationService) countBatch(gateway, result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.DispatchBatches.WithLabelValues(gateway, result).Inc()
}
