// Package targeting turns audience filters into concrete customer id lists.
//
// Resolve is authoritative and reads the live roster. CountForAudience is a
// display estimate built from precomputed directory counts and must never gate
// an action.
package targeting

import (
	"errors"
	"fmt"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
)

// Mode selects how an audience query filters the roster
type Mode string

const (
	ModeAll     Mode = "ALL"
	ModeSegment Mode = "SEGMENT"
	ModeTier    Mode = "TIER"
)

var (
	// ErrEmptySelection is returned for SEGMENT or TIER queries without keys
	ErrEmptySelection = errors.New("audience selection is empty")
	// ErrUnknownMode is returned for a mode other than ALL, SEGMENT or TIER
	ErrUnknownMode = errors.New("unknown audience mode")
)

// Query is a transient audience filter built from an admin selection
type Query struct {
	Mode        Mode     `json:"mode" binding:"required"`
	SegmentKeys []string `json:"segmentKeys,omitempty"`
	TierKeys    []string `json:"tierKeys,omitempty"`
}

// Validate rejects unknown modes and empty SEGMENT/TIER selections
func (q Query) Validate() error {
	switch q.Mode {
	case ModeAll:
		return nil
	case ModeSegment:
		if len(q.SegmentKeys) == 0 {
			return fmt.Errorf("%w: mode %s needs at least one segment", ErrEmptySelection, q.Mode)
		}
	case ModeTier:
		if len(q.TierKeys) == 0 {
			return fmt.Errorf("%w: mode %s needs at least one tier", ErrEmptySelection, q.Mode)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, q.Mode)
	}
	return nil
}

// Resolve returns the id of every roster customer selected by q, each at
// most once, in roster order. SEGMENT and TIER queries with no keys select
// nobody; callers validate first.
func Resolve(q Query, roster []models.Customer) []string {
	var match func(c *models.Customer) bool
	switch q.Mode {
	case ModeAll:
		match = func(*models.Customer) bool { return true }
	case ModeSegment:
		keys := toSet(q.SegmentKeys)
		match = func(c *models.Customer) bool { _, ok := keys[c.Segment]; return ok }
	case ModeTier:
		keys := toSet(q.TierKeys)
		match = func(c *models.Customer) bool { _, ok := keys[c.LoyaltyTier]; return ok }
	default:
		return []string{}
	}
	return collect(roster, match)
}

// ResolveAudience resolves a stored campaign audience. An empty audience is
// every customer; otherwise segment or tier membership qualifies.
func ResolveAudience(a models.Audience, roster []models.Customer) []string {
	if a.IsEmpty() {
		return Resolve(Query{Mode: ModeAll}, roster)
	}
	segments := toSet(a.SegmentIDs)
	tiers := toSet(a.TierIDs)
	return collect(roster, func(c *models.Customer) bool {
		if _, ok := segments[c.Segment]; ok {
			return true
		}
		_, ok := tiers[c.LoyaltyTier]
		return ok
	})
}

// CountForAudience estimates the audience size for display. ALL reports
// totalCustomers; SEGMENT and TIER sum the stored member counts of the
// selected directory entries, which may be stale.
func CountForAudience(q Query, segments []models.Segment, tiers []models.Tier, totalCustomers int64) int64 {
	var total int64
	switch q.Mode {
	case ModeAll:
		return totalCustomers
	case ModeSegment:
		keys := toSet(q.SegmentKeys)
		for _, s := range segments {
			if _, ok := keys[s.Name]; ok {
				total += s.MemberCount
			}
		}
	case ModeTier:
		keys := toSet(q.TierKeys)
		for _, t := range tiers {
			if _, ok := keys[t.Name]; ok {
				total += t.MemberCount
			}
		}
	}
	return total
}

func collect(roster []models.Customer, match func(c *models.Customer) bool) []string {
	seen := make(map[string]struct{}, len(roster))
	ids := make([]string, 0, len(roster))
	for i := range roster {
		c := &roster[i]
		id := c.ID.Hex()
		if _, dup := seen[id]; dup || !match(c) {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func toSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}
