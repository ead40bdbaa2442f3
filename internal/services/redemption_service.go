package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/campaigns"
	"github.com/ArowuTest/loyalty-admin-backend/internal/metrics"
	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"github.com/ArowuTest/loyalty-admin-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Point ledger reasons
const (
	PointReasonPurchase      = "PURCHASE"
	PointReasonCampaignBonus = "CAMPAIGN_BONUS"
	PointReasonRedemption    = "REDEMPTION"
)

// OrderRequest is an order submitted for evaluation or recording. Missing
// unit prices and categories are filled from the catalog; a zero Total is
// computed from the items.
type OrderRequest struct {
	CustomerID string            `json:"customerId" binding:"required"`
	Items      []models.LineItem `json:"items"`
	Total      float64           `json:"total"`
	PlacedAt   *time.Time        `json:"placedAt,omitempty"`
}

// EvaluationResult is the side-effect-free preview of one campaign
type EvaluationResult struct {
	CampaignID  primitive.ObjectID       `json:"campaignId"`
	Eligibility campaigns.Eligibility    `json:"eligibility"`
	Reward      *campaigns.RewardOutcome `json:"reward,omitempty"`
	OrderTotal  float64                  `json:"orderTotal"`
	BasePoints  int                      `json:"basePoints"`
}

// RedemptionService evaluates orders against campaigns and keeps the
// transaction, usage and points ledgers
type RedemptionService struct {
	campaignRepo    repositories.CampaignRepository
	usageRepo       repositories.CampaignUsageRepository
	customerRepo    repositories.CustomerRepository
	productRepo     repositories.ProductRepository
	transactionRepo repositories.TransactionRepository
	pointRepo       repositories.PointTransactionRepository
	rewardRepo      repositories.RewardRepository
	amountPerPoint  float64
	loc             *time.Location
	metrics         *metrics.Metrics
	now             func() time.Time
}

// NewRedemptionService creates a new RedemptionService. Campaign day, time and
// birthday rules are evaluated on loc's wall clock; nil means UTC.
func NewRedemptionService(
	campaignRepo repositories.CampaignRepository,
	usageRepo repositories.CampaignUsageRepository,
	customerRepo repositories.CustomerRepository,
	productRepo repositories.ProductRepository,
	transactionRepo repositories.TransactionRepository,
	pointRepo repositories.PointTransactionRepository,
	rewardRepo repositories.RewardRepository,
	amountPerPoint float64,
	loc *time.Location,
	m *metrics.Metrics,
) *RedemptionService {
	if amountPerPoint <= 0 {
		amountPerPoint = utils.DefaultAmountPerPoint
	}
	if loc == nil {
		loc = time.UTC
	}
	return &RedemptionService{
		campaignRepo:    campaignRepo,
		usageRepo:       usageRepo,
		customerRepo:    customerRepo,
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
		pointRepo:       pointRepo,
		rewardRepo:      rewardRepo,
		amountPerPoint:  amountPerPoint,
		loc:             loc,
		metrics:         m,
		now:             time.Now,
	}
}

// Evaluate previews a campaign for an order without recording anything
func (s *RedemptionService) Evaluate(ctx context.Context, restaurantID string, campaignID primitive.ObjectID, req OrderRequest) (*EvaluationResult, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, restaurantID, campaignID)
	if err != nil {
		return nil, err
	}
	_, order, err := s.buildOrder(ctx, restaurantID, req)
	if err != nil {
		return nil, err
	}

	result := &EvaluationResult{CampaignID: campaignID, OrderTotal: order.Total, BasePoints: order.BasePoints}
	result.Eligibility, err = s.eligibility(ctx, campaign, order)
	if err != nil {
		return nil, err
	}
	if result.Eligibility.Eligible {
		outcome := campaigns.ComputeRewardAmount(campaign, order)
		result.Reward = &outcome
	}
	return result, nil
}

// RecordTransaction stores an order, applies every eligible ACTIVE campaign
// and accrues points. Campaigns are applied in creation order.
func (s *RedemptionService) RecordTransaction(ctx context.Context, restaurantID string, req OrderRequest) (*models.Transaction, error) {
	customer, order, err := s.buildOrder(ctx, restaurantID, req)
	if err != nil {
		return nil, err
	}
	active, err := s.campaignRepo.FindActive(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active campaigns: %w", err)
	}

	tx := &models.Transaction{
		RestaurantID: restaurantID,
		CustomerID:   order.Customer.ID,
		Items:        order.Items,
		Total:        order.Total,
		PlacedAt:     order.PlacedAt,
		PointsEarned: order.BasePoints,
	}

	for _, campaign := range active {
		eligibility, err := s.eligibility(ctx, campaign, order)
		if err != nil {
			return nil, err
		}
		if !eligibility.Eligible {
			continue
		}
		outcome := campaigns.ComputeRewardAmount(campaign, order)
		bonus := 0
		if outcome.Points > order.BasePoints {
			bonus = outcome.Points - order.BasePoints
		}
		tx.AppliedCampaigns = append(tx.AppliedCampaigns, models.AppliedCampaign{
			CampaignID:     campaign.ID,
			CampaignName:   campaign.Name,
			RewardType:     outcome.Type,
			DiscountAmount: outcome.Discount,
			FreeProductIDs: outcome.FreeProductIDs,
			BonusPoints:    bonus,
			FreeShipping:   outcome.FreeShipping,
		})
		tx.DiscountTotal += outcome.Discount
		tx.PointsEarned += bonus
	}
	if tx.DiscountTotal > tx.Total {
		tx.DiscountTotal = tx.Total
	}

	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		slog.Error("Failed to store transaction", "error", err, "restaurantId", restaurantID, "customerId", tx.CustomerID)
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}
	if err := s.customerRepo.RecordVisit(ctx, customer.ID, order.PlacedAt); err != nil {
		slog.Error("Failed to record visit", "error", err, "customerId", tx.CustomerID)
	}

	for _, applied := range tx.AppliedCampaigns {
		usage := &models.CampaignUsage{
			RestaurantID:   restaurantID,
			CampaignID:     applied.CampaignID,
			CustomerID:     tx.CustomerID,
			TransactionID:  tx.ID,
			DiscountAmount: applied.DiscountAmount,
			BonusPoints:    applied.BonusPoints,
			UsedAt:         order.PlacedAt,
		}
		if err := s.usageRepo.Create(ctx, usage); err != nil {
			slog.Error("Failed to record campaign usage", "error", err, "campaignId", applied.CampaignID.Hex())
			continue
		}
		if err := s.campaignRepo.IncrementUsage(ctx, applied.CampaignID); err != nil {
			slog.Error("Failed to increment campaign usage", "error", err, "campaignId", applied.CampaignID.Hex())
		}
		if applied.BonusPoints > 0 {
			s.accrue(ctx, customer, applied.BonusPoints, PointReasonCampaignBonus, tx.ID, applied.CampaignID)
		}
	}
	if order.BasePoints > 0 {
		s.accrue(ctx, customer, order.BasePoints, PointReasonPurchase, tx.ID, primitive.NilObjectID)
	}

	slog.Info("Transaction recorded", "transactionId", tx.ID.Hex(), "restaurantId", restaurantID,
		"customerId", tx.CustomerID, "total", tx.Total, "discount", tx.DiscountTotal,
		"pointsEarned", tx.PointsEarned, "campaignsApplied", len(tx.AppliedCampaigns))
	return tx, nil
}

// ListTransactions returns a customer's transactions, newest first
func (s *RedemptionService) ListTransactions(ctx context.Context, restaurantID, customerID string, page, limit int) ([]*models.Transaction, error) {
	return s.transactionRepo.FindByCustomerID(ctx, restaurantID, customerID, page, limit)
}

// ListRewards returns the points reward catalog
func (s *RedemptionService) ListRewards(ctx context.Context, restaurantID string) ([]*models.CatalogReward, error) {
	return s.rewardRepo.FindAll(ctx, restaurantID)
}

// CreateReward adds an active reward to the catalog
func (s *RedemptionService) CreateReward(ctx context.Context, restaurantID string, reward *models.CatalogReward) error {
	if reward.Name == "" || reward.PointsCost <= 0 {
		return fmt.Errorf("%w: reward needs a name and a positive points cost", ErrInvalidInput)
	}
	reward.RestaurantID = restaurantID
	reward.IsActive = true
	if err := s.rewardRepo.Create(ctx, reward); err != nil {
		return fmt.Errorf("failed to create reward: %w", err)
	}
	return nil
}

// RedeemReward exchanges points for a catalog reward
func (s *RedemptionService) RedeemReward(ctx context.Context, restaurantID string, customerID, rewardID primitive.ObjectID) (*models.PointTransaction, error) {
	customer, err := s.customerRepo.FindByID(ctx, restaurantID, customerID)
	if err != nil {
		return nil, err
	}
	reward, err := s.rewardRepo.FindByID(ctx, restaurantID, rewardID)
	if err != nil {
		return nil, err
	}
	if !reward.IsActive {
		return nil, fmt.Errorf("%w: reward is not active", ErrInvalidInput)
	}
	if err := s.customerRepo.DeductPoints(ctx, customer.ID, reward.PointsCost); err != nil {
		if errors.Is(err, repositories.ErrConditionNotMet) {
			slog.Warn("Redemption rejected for insufficient points", "customerId", customerID.Hex(), "cost", reward.PointsCost)
			return nil, ErrInsufficientPoints
		}
		return nil, fmt.Errorf("failed to deduct points: %w", err)
	}
	entry := &models.PointTransaction{
		RestaurantID: restaurantID,
		CustomerID:   customerID.Hex(),
		RewardID:     reward.ID,
		Points:       -reward.PointsCost,
		Reason:       PointReasonRedemption,
		CreatedAt:    s.now(),
	}
	if err := s.pointRepo.Create(ctx, entry); err != nil {
		slog.Error("Failed to record redemption in points ledger", "error", err, "customerId", customerID.Hex())
		return nil, fmt.Errorf("failed to record redemption: %w", err)
	}
	slog.Info("Reward redeemed", "customerId", customerID.Hex(), "rewardId", reward.ID.Hex(), "points", reward.PointsCost)
	return entry, nil
}

// PointHistory returns a customer's points ledger
func (s *RedemptionService) PointHistory(ctx context.Context, restaurantID, customerID string) ([]*models.PointTransaction, error) {
	return s.pointRepo.FindByCustomerID(ctx, restaurantID, customerID)
}

// buildOrder loads the customer and catalog data an order is evaluated with
func (s *RedemptionService) buildOrder(ctx context.Context, restaurantID string, req OrderRequest) (*models.Customer, campaigns.OrderContext, error) {
	var order campaigns.OrderContext

	customerID, err := primitive.ObjectIDFromHex(req.CustomerID)
	if err != nil {
		return nil, order, fmt.Errorf("%w: invalid customer id", ErrInvalidInput)
	}
	customer, err := s.customerRepo.FindByID(ctx, restaurantID, customerID)
	if err != nil {
		return nil, order, err
	}

	items := make([]models.LineItem, len(req.Items))
	copy(items, req.Items)
	if err := s.enrichItems(ctx, restaurantID, items); err != nil {
		return nil, order, err
	}

	total := req.Total
	if total == 0 {
		for _, item := range items {
			total += float64(item.Quantity) * item.UnitPrice
		}
	}
	if total < 0 {
		return nil, order, fmt.Errorf("%w: order total must not be negative", ErrInvalidInput)
	}

	placedAt := s.now()
	if req.PlacedAt != nil {
		placedAt = *req.PlacedAt
	}
	placedAt = placedAt.In(s.loc)
	var birthDate *time.Time
	if customer.BirthDate != nil {
		local := customer.BirthDate.In(s.loc)
		birthDate = &local
	}

	order = campaigns.OrderContext{
		Total:      total,
		Items:      items,
		PlacedAt:   placedAt,
		BasePoints: utils.CalculatePoints(total, s.amountPerPoint),
		Customer: campaigns.CustomerContext{
			ID: customer.ID.Hex(),
			// the order being evaluated is itself a visit
			VisitCount: customer.VisitCount + 1,
			BirthDate:  birthDate,
			Segment:    customer.Segment,
			Tier:       customer.LoyaltyTier,
		},
	}
	return customer, order, nil
}

// enrichItems fills category and unit price from the catalog
func (s *RedemptionService) enrichItems(ctx context.Context, restaurantID string, items []models.LineItem) error {
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item quantity must be positive", ErrInvalidInput)
		}
		id, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return fmt.Errorf("%w: invalid product id %q", ErrInvalidInput, item.ProductID)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}

	products, err := s.productRepo.FindByIDs(ctx, restaurantID, ids)
	if err != nil {
		return fmt.Errorf("failed to load order products: %w", err)
	}
	byID := make(map[string]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID.Hex()] = p
	}
	for i := range items {
		p, ok := byID[items[i].ProductID]
		if !ok {
			return fmt.Errorf("%w: product %s", repositories.ErrNotFound, items[i].ProductID)
		}
		items[i].Category = p.Category
		if items[i].UnitPrice == 0 {
			items[i].UnitPrice = p.Price
		}
	}
	return nil
}

// eligibility combines the rule checks with the usage limits
func (s *RedemptionService) eligibility(ctx context.Context, campaign *models.Campaign, order campaigns.OrderContext) (campaigns.Eligibility, error) {
	result := campaigns.CheckEligibility(campaign, order, order.PlacedAt)
	if result.Eligible {
		reason, err := s.usageBlocked(ctx, campaign, order.Customer.ID)
		if err != nil {
			return result, err
		}
		if reason != "" {
			result = campaigns.Eligibility{Eligible: false, Reason: reason}
		}
	}
	if s.metrics != nil {
		s.metrics.CampaignEvaluations.WithLabelValues(result.Reason).Inc()
	}
	return result, nil
}

func (s *RedemptionService) usageBlocked(ctx context.Context, campaign *models.Campaign, customerID string) (string, error) {
	if limit := campaign.UsageLimits.MaxUsageTotal; limit != nil {
		used, err := s.usageRepo.CountByCampaign(ctx, campaign.ID)
		if err != nil {
			return "", fmt.Errorf("failed to count campaign usage: %w", err)
		}
		if used >= int64(*limit) {
			return campaigns.ReasonUsageLimitTotal, nil
		}
	}
	perCustomer := campaign.UsageLimits.MaxUsagePerCustomer
	if perCustomer < 1 {
		perCustomer = 1
	}
	used, err := s.usageRepo.CountByCampaignAndCustomer(ctx, campaign.ID, customerID)
	if err != nil {
		return "", fmt.Errorf("failed to count customer usage: %w", err)
	}
	if used >= int64(perCustomer) {
		return campaigns.ReasonUsageLimitUser, nil
	}
	return "", nil
}

func (s *RedemptionService) accrue(ctx context.Context, customer *models.Customer, points int, reason string, txID, campaignID primitive.ObjectID) {
	if err := s.customerRepo.IncrementPoints(ctx, customer.ID, points); err != nil {
		slog.Error("Failed to credit points", "error", err, "customerId", customer.ID.Hex(), "points", points)
		return
	}
	entry := &models.PointTransaction{
		RestaurantID:  customer.RestaurantID,
		CustomerID:    customer.ID.Hex(),
		TransactionID: txID,
		CampaignID:    campaignID,
		Points:        points,
		Reason:        reason,
		CreatedAt:     s.now(),
	}
	if err := s.pointRepo.Create(ctx, entry); err != nil {
		slog.Error("Failed to record point transaction", "error", err, "customerId", customer.ID.Hex())
	}
}
