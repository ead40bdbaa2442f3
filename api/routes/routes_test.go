package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/handlers"
	"github.com/ArowuTest/loyalty-admin-backend/internal/metrics"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories/memory"
	"github.com/ArowuTest/loyalty-admin-backend/internal/services"
	"github.com/ArowuTest/loyalty-admin-backend/pkg/cache"
	"github.com/ArowuTest/loyalty-admin-backend/pkg/jwt"
	"github.com/ArowuTest/loyalty-admin-backend/pkg/pushgateway"
	"github.com/gin-gonic/gin"
)

type testServer struct {
	router *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := memory.NewStore(pushgateway.NameMock).Repositories()
	m := metrics.NewUnregistered()
	tokens := jwt.NewTokenService("test-secret", time.Hour)

	catalog := services.NewCatalogService(repos.Products, repos.Segments, repos.Tiers, repos.Customers, cache.NewMemoryCache(time.Minute))
	targetingService := services.NewTargetingService(repos.Customers, catalog)
	notifications := services.NewNotificationService(repos.Notifications, repos.Settings, targetingService,
		[]pushgateway.Gateway{pushgateway.NewMockGateway(pushgateway.NameMock)}, services.DispatchConfig{BatchSize: 10}, m)
	campaignService := services.NewCampaignService(repos.Campaigns, notifications)
	redemption := services.NewRedemptionService(repos.Campaigns, repos.Usages, repos.Customers, repos.Products,
		repos.Transactions, repos.Points, repos.Rewards, 10, time.UTC, m)
	customers := services.NewCustomerService(repos.Customers)
	auth := services.NewAuthService(repos.AdminUsers, tokens)
	settings := services.NewSystemSettingsService(repos.Settings, []string{pushgateway.NameMock})

	router := SetupRouter(HandlerDependencies{
		AuthHandler:           handlers.NewAuthHandler(auth),
		CampaignHandler:       handlers.NewCampaignHandler(campaignService, catalog, redemption),
		CatalogHandler:        handlers.NewCatalogHandler(catalog),
		AudienceHandler:       handlers.NewAudienceHandler(targetingService),
		CustomerHandler:       handlers.NewCustomerHandler(customers, redemption),
		RewardHandler:         handlers.NewRewardHandler(redemption),
		NotificationHandler:   handlers.NewNotificationHandler(notifications),
		SystemSettingsHandler: handlers.NewSystemSettingsHandler(settings),
		HealthHandler:         handlers.NewHealthHandler(nil),
		Tokens:                tokens,
		Metrics:               m,
	})
	s := &testServer{router: router}

	s.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"firstName": "Ada", "lastName": "Obi", "email": "ada@example.com", "password": "correct horse", "restaurantId": "r1",
	}, http.StatusCreated, nil)
	var login struct {
		Token string `json:"token"`
	}
	s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "ada@example.com", "password": "correct horse",
	}, http.StatusOK, &login)
	s.token = login.Token
	return s
}

// do sends body as JSON and decodes the response into out when non-nil
func (s *testServer) do(t *testing.T, method, path string, body interface{}, want int, out interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != want {
		t.Fatalf("%s %s = %d, want %d: %s", method, path, w.Code, want, w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t)
	s.token = ""
	s.do(t, http.MethodGet, "/api/v1/health", nil, http.StatusOK, nil)
	s.do(t, http.MethodGet, "/api/v1/campaigns", nil, http.StatusUnauthorized, nil)
}

func TestCatalogWireFormat(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/v1/products", map[string]interface{}{"name": "Margherita", "category": "Pizza", "price": 100}, http.StatusCreated, nil)
	s.do(t, http.MethodPost, "/api/v1/segments", map[string]string{"name": "VIP"}, http.StatusCreated, nil)
	s.do(t, http.MethodPost, "/api/v1/tiers", map[string]interface{}{"name": "Gold", "displayName": "Gold", "color": "#d4af37", "level": 3}, http.StatusCreated, nil)
	s.do(t, http.MethodPost, "/api/v1/customers", map[string]string{"name": "Bola", "phone": "0802", "segment": "VIP", "loyaltyTier": "Gold"}, http.StatusCreated, nil)
	s.do(t, http.MethodPost, "/api/v1/directory/recount", nil, http.StatusOK, nil)

	var products struct {
		Products []struct {
			ID       string  `json:"id"`
			Name     string  `json:"name"`
			Category string  `json:"category"`
			Price    float64 `json:"price"`
		} `json:"products"`
	}
	s.do(t, http.MethodGet, "/api/v1/products", nil, http.StatusOK, &products)
	if len(products.Products) != 1 || products.Products[0].Category != "Pizza" || products.Products[0].ID == "" {
		t.Errorf("products = %+v", products)
	}

	var segments struct {
		Segments []struct {
			Name  string `json:"name"`
			Count struct {
				Customers int64 `json:"customers"`
			} `json:"_count"`
		} `json:"segments"`
	}
	s.do(t, http.MethodGet, "/api/v1/segments", nil, http.StatusOK, &segments)
	if len(segments.Segments) != 1 || segments.Segments[0].Count.Customers != 1 {
		t.Errorf("segments = %+v", segments)
	}

	var tiers struct {
		Tiers []struct {
			DisplayName string `json:"displayName"`
			Color       string `json:"color"`
			Count       struct {
				Customers int64 `json:"customers"`
			} `json:"_count"`
		} `json:"tiers"`
	}
	s.do(t, http.MethodGet, "/api/v1/tiers", nil, http.StatusOK, &tiers)
	if len(tiers.Tiers) != 1 || tiers.Tiers[0].Color != "#d4af37" || tiers.Tiers[0].Count.Customers != 1 {
		t.Errorf("tiers = %+v", tiers)
	}
}

func campaignBody() map[string]interface{} {
	return map[string]interface{}{
		"name":        "Spend and save",
		"description": "Ten percent off orders above one hundred",
		"startDate":   "2020-01-01T00:00:00Z",
		"endDate":     "2099-12-31T23:59:00Z",
		"trigger":     map[string]interface{}{"type": "PURCHASE_AMOUNT", "minPurchase": 100},
		"reward":      map[string]interface{}{"type": "DISCOUNT_PERCENTAGE", "discountValue": 10},
	}
}

func TestCampaignLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)

	bad := campaignBody()
	bad["name"] = "x"
	var invalid struct {
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	s.do(t, http.MethodPost, "/api/v1/campaigns", bad, http.StatusUnprocessableEntity, &invalid)
	if len(invalid.Fields) != 1 || invalid.Fields[0].Field != "name" {
		t.Errorf("fields = %+v", invalid.Fields)
	}

	var created struct {
		Campaign struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"campaign"`
	}
	s.do(t, http.MethodPost, "/api/v1/campaigns", campaignBody(), http.StatusCreated, &created)
	if created.Campaign.Type != "DISCOUNT" {
		t.Errorf("type = %s", created.Campaign.Type)
	}
	id := created.Campaign.ID

	var edit struct {
		Selection struct {
			TriggerType string `json:"triggerType"`
			RewardType  string `json:"rewardType"`
		} `json:"selection"`
	}
	s.do(t, http.MethodGet, "/api/v1/campaigns/"+id+"/edit", nil, http.StatusOK, &edit)
	if edit.Selection.TriggerType != "PURCHASE_AMOUNT" || edit.Selection.RewardType != "DISCOUNT_PERCENTAGE" {
		t.Errorf("selection = %+v", edit.Selection)
	}

	var list struct {
		Total int64 `json:"total"`
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
	}
	s.do(t, http.MethodGet, "/api/v1/campaigns?page=0&limit=0", nil, http.StatusOK, &list)
	if list.Total != 1 || list.Page != 1 || list.Limit != 20 {
		t.Errorf("list = %+v, want clamped page 1 limit 20", list)
	}

	s.do(t, http.MethodPatch, "/api/v1/campaigns/"+id+"/status", map[string]bool{"active": false}, http.StatusOK, nil)
	s.do(t, http.MethodPost, "/api/v1/campaigns/"+id+"/retire", nil, http.StatusOK, nil)
	s.do(t, http.MethodPut, "/api/v1/campaigns/"+id, campaignBody(), http.StatusConflict, nil)
	s.do(t, http.MethodDelete, "/api/v1/campaigns/"+id, nil, http.StatusNoContent, nil)
	s.do(t, http.MethodGet, "/api/v1/campaigns/"+id, nil, http.StatusNotFound, nil)
	s.do(t, http.MethodGet, "/api/v1/campaigns/nope", nil, http.StatusBadRequest, nil)
}

func TestValidateStep(t *testing.T) {
	s := newTestServer(t)
	draft := campaignBody()
	draft["name"] = ""
	draft["trigger"] = map[string]interface{}{"type": "PURCHASE_AMOUNT"}

	var res struct {
		Valid  bool `json:"valid"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	s.do(t, http.MethodPost, "/api/v1/campaigns/validate?step=trigger", draft, http.StatusOK, &res)
	if res.Valid || len(res.Fields) != 1 || res.Fields[0].Field != "trigger.minPurchase" {
		t.Errorf("result = %+v", res)
	}
	s.do(t, http.MethodPost, "/api/v1/campaigns/validate?step=reward", draft, http.StatusOK, &res)
	if !res.Valid {
		t.Errorf("reward step = %+v", res)
	}
	s.do(t, http.MethodPost, "/api/v1/campaigns/validate?step=bogus", draft, http.StatusBadRequest, nil)
}

func TestDispatchAndSummary(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/v1/customers", map[string]string{"name": "Bola", "phone": "0802", "segment": "VIP"}, http.StatusCreated, nil)
	s.do(t, http.MethodPost, "/api/v1/customers", map[string]string{"name": "Chi", "phone": "0803", "segment": "Regular"}, http.StatusCreated, nil)

	var estimate struct {
		EstimatedRecipients int64 `json:"estimatedRecipients"`
	}
	s.do(t, http.MethodPost, "/api/v1/audience/estimate", map[string]string{"mode": "ALL"}, http.StatusOK, &estimate)
	if estimate.EstimatedRecipients != 2 {
		t.Errorf("estimate = %d", estimate.EstimatedRecipients)
	}

	var record struct {
		SentCount   int    `json:"sentCount"`
		FailedCount int    `json:"failedCount"`
		CreatedBy   string `json:"createdBy"`
	}
	s.do(t, http.MethodPost, "/api/v1/notifications/dispatch", map[string]interface{}{
		"title": "VIP night", "body": "Free dessert",
		"audience": map[string]interface{}{"mode": "SEGMENT", "segmentKeys": []string{"VIP"}},
	}, http.StatusCreated, &record)
	if record.SentCount != 1 || record.FailedCount != 0 || record.CreatedBy == "" {
		t.Errorf("record = %+v", record)
	}

	s.do(t, http.MethodPost, "/api/v1/notifications/dispatch", map[string]interface{}{
		"title": "t", "body": "b", "audience": map[string]interface{}{"mode": "TIER"},
	}, http.StatusBadRequest, nil)

	var summary struct {
		Dispatches  int64   `json:"dispatches"`
		SuccessRate float64 `json:"successRate"`
	}
	s.do(t, http.MethodGet, "/api/v1/notifications/summary", nil, http.StatusOK, &summary)
	if summary.Dispatches != 1 || summary.SuccessRate != 100 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestTransactionAndRedeemOverHTTP(t *testing.T) {
	s := newTestServer(t)
	var product struct {
		ID string `json:"id"`
	}
	s.do(t, http.MethodPost, "/api/v1/products", map[string]interface{}{"name": "Margherita", "category": "Pizza", "price": 150}, http.StatusCreated, &product)
	var customer struct {
		ID string `json:"id"`
	}
	s.do(t, http.MethodPost, "/api/v1/customers", map[string]string{"name": "Bola", "phone": "0802"}, http.StatusCreated, &customer)
	var reward struct {
		ID string `json:"id"`
	}
	s.do(t, http.MethodPost, "/api/v1/rewards", map[string]interface{}{"name": "Free drink", "pointsCost": 25}, http.StatusCreated, &reward)

	order := map[string]interface{}{
		"customerId": customer.ID,
		"items":      []map[string]interface{}{{"productId": product.ID, "quantity": 2}},
	}
	var tx struct {
		Total        float64 `json:"total"`
		PointsEarned int     `json:"pointsEarned"`
	}
	s.do(t, http.MethodPost, "/api/v1/transactions", order, http.StatusCreated, &tx)
	if tx.Total != 300 || tx.PointsEarned != 30 {
		t.Errorf("tx = %+v", tx)
	}

	s.do(t, http.MethodPost, "/api/v1/customers/"+customer.ID+"/redeem", map[string]string{"rewardId": reward.ID}, http.StatusCreated, nil)
	s.do(t, http.MethodPost, "/api/v1/customers/"+customer.ID+"/redeem", map[string]string{"rewardId": reward.ID}, http.StatusBadRequest, nil)

	var points struct {
		Points []struct {
			Points int    `json:"points"`
			Reason string `json:"reason"`
		} `json:"points"`
	}
	s.do(t, http.MethodGet, "/api/v1/customers/"+customer.ID+"/points", nil, http.StatusOK, &points)
	if len(points.Points) != 2 {
		t.Errorf("ledger = %+v", points.Points)
	}

	var history struct {
		Transactions []json.RawMessage `json:"transactions"`
	}
	s.do(t, http.MethodGet, "/api/v1/transactions/customer/"+customer.ID, nil, http.StatusOK, &history)
	if len(history.Transactions) != 1 {
		t.Errorf("history = %d transactions", len(history.Transactions))
	}
}

func TestSettingsRejectUnknownGateway(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPut, "/api/v1/settings/push-gateway", map[string]string{"gateway": "PIGEON"}, http.StatusBadRequest, nil)
	var settings struct {
		PushGateway string `json:"pushGateway"`
	}
	s.do(t, http.MethodGet, "/api/v1/settings", nil, http.StatusOK, &settings)
	if settings.PushGateway != "MOCK" {
		t.Errorf("settings = %+v", settings)
	}
}
