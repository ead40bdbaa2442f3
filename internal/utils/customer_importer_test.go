package utils

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories/memory"
)

func TestCustomerImporter_Import(t *testing.T) {
	repos := memory.NewStore("MOCK").Repositories()
	ctx := context.Background()
	if err := repos.Customers.Create(ctx, &models.Customer{RestaurantID: "r1", Name: "Ada", Phone: "08011112222", Segment: "Regular"}); err != nil {
		t.Fatal(err)
	}

	csv := strings.Join([]string{
		"Customer Name,Phone Number,Segment,Loyalty Tier,Birthday,Subscribed",
		"Ada Obi,0801 111 2222,VIP,Gold,1990-03-10,yes",
		"Bola,+234-802-000-0000,Regular,Silver,,no",
		",08033334444,VIP,Gold,,",
		"Chi,08055556666,VIP,Gold,not-a-date,",
	}, "\n")

	wat := time.FixedZone("WAT", 3600)
	res, err := NewCustomerImporter(repos.Customers, wat).Import(ctx, "r1", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.TotalRows != 4 || res.Created != 1 || res.Updated != 1 || len(res.Errors) != 2 {
		t.Fatalf("result = %+v", res)
	}

	ada, err := repos.Customers.FindByPhone(ctx, "r1", "08011112222")
	if err != nil {
		t.Fatal(err)
	}
	if ada.Name != "Ada Obi" || ada.Segment != "VIP" || ada.LoyaltyTier != "Gold" || !ada.HasSubscription || ada.BirthDate == nil {
		t.Errorf("ada = %+v", ada)
	}
	if want := time.Date(1990, 3, 10, 0, 0, 0, 0, wat); ada.BirthDate != nil && !ada.BirthDate.Equal(want) {
		t.Errorf("birth date = %v, want local midnight %v", ada.BirthDate, want)
	}
	if _, err := repos.Customers.FindByPhone(ctx, "r1", "+2348020000000"); err != nil {
		t.Errorf("bola not created: %v", err)
	}
}

func TestCustomerImporter_RequiresColumns(t *testing.T) {
	repos := memory.NewStore("MOCK").Repositories()
	_, err := NewCustomerImporter(repos.Customers, nil).Import(context.Background(), "r1", strings.NewReader("Segment,Tier\nVIP,Gold\n"))
	if err == nil {
		t.Error("expected missing column error")
	}
}
