package utils

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
)

// ImportResult summarises one roster import
type ImportResult struct {
	TotalRows int      `json:"totalRows"`
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Errors    []string `json:"errors"`
}

// CustomerImporter loads a customer roster from CSV. Rows are matched on
// phone number within the restaurant: known customers get their segment,
// tier and birth date refreshed, unknown ones are created. Birth dates are
// read as midnight in loc.
type CustomerImporter struct {
	customerRepo repositories.CustomerRepository
	loc          *time.Location
}

// NewCustomerImporter creates a new CustomerImporter. A nil loc means UTC.
func NewCustomerImporter(customerRepo repositories.CustomerRepository, loc *time.Location) *CustomerImporter {
	if loc == nil {
		loc = time.UTC
	}
	return &CustomerImporter{customerRepo: customerRepo, loc: loc}
}

// Import reads the CSV from r. Row errors are collected and do not stop
// the import; only an unreadable header or a missing required column does.
func (i *CustomerImporter) Import(ctx context.Context, restaurantID string, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	nameIdx := findColumnIndex(header, []string{"Name", "Customer Name", "Full Name"})
	phoneIdx := findColumnIndex(header, []string{"Phone", "Phone Number", "Mobile"})
	segmentIdx := findColumnIndex(header, []string{"Segment", "Customer Segment"})
	tierIdx := findColumnIndex(header, []string{"Tier", "Loyalty Tier", "LoyaltyTier"})
	birthIdx := findColumnIndex(header, []string{"Birth Date", "Birthday", "Date of Birth", "DOB"})
	subIdx := findColumnIndex(header, []string{"Subscription", "Subscribed", "Has Subscription"})

	if phoneIdx == -1 || nameIdx == -1 {
		return nil, fmt.Errorf("name and phone columns are required")
	}

	result := &ImportResult{Errors: []string{}}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		result.TotalRows++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", result.TotalRows, err))
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		customer := &models.Customer{
			Name:            column(row, nameIdx),
			Phone:           cleanPhone(column(row, phoneIdx)),
			Segment:         column(row, segmentIdx),
			LoyaltyTier:     column(row, tierIdx),
			HasSubscription: parseYes(column(row, subIdx)),
			RestaurantID:    restaurantID,
		}
		if customer.Name == "" || customer.Phone == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: name and phone are required", result.TotalRows))
			continue
		}
		if raw := column(row, birthIdx); raw != "" {
			birth, err := parseDate(raw, i.loc)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", result.TotalRows, err))
				continue
			}
			customer.BirthDate = &birth
		}

		existing, err := i.customerRepo.FindByPhone(ctx, restaurantID, customer.Phone)
		switch {
		case err == nil:
			existing.Name = customer.Name
			existing.Segment = customer.Segment
			existing.LoyaltyTier = customer.LoyaltyTier
			existing.HasSubscription = customer.HasSubscription
			if customer.BirthDate != nil {
				existing.BirthDate = customer.BirthDate
			}
			if err := i.customerRepo.Update(ctx, existing); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: failed to update customer: %v", result.TotalRows, err))
				continue
			}
			result.Updated++
		case errors.Is(err, repositories.ErrNotFound):
			if err := i.customerRepo.Create(ctx, customer); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: failed to create customer: %v", result.TotalRows, err))
				continue
			}
			result.Created++
		default:
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: failed to look up customer: %v", result.TotalRows, err))
		}
	}
	return result, nil
}

// findColumnIndex finds the index of a column by possible names
func findColumnIndex(header []string, possibleNames []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, name := range possibleNames {
			if strings.ToLower(name) == h {
				return i
			}
		}
	}
	return -1
}

func column(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// cleanPhone keeps digits and a leading plus sign
func cleanPhone(phone string) string {
	plus := strings.HasPrefix(phone, "+")
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if plus && digits != "" {
		return "+" + digits
	}
	return digits
}

func parseYes(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}

// parseDate parses a date string in various formats
func parseDate(dateStr string, loc *time.Location) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"02/01/2006",
		"Jan 2, 2006",
		"2 Jan 2006",
	}
	for _, format := range formats {
		if date, err := time.ParseInLocation(format, dateStr, loc); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}
