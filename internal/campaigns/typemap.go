package campaigns

import "github.com/ArowuTest/loyalty-admin-backend/internal/models"

// Selection is the trigger/reward pair picked in the campaign wizard
type Selection struct {
	TriggerType models.TriggerType `json:"triggerType"`
	RewardType  models.RewardType  `json:"rewardType"`
}

// typeTable maps every trigger/reward shape to its campaign type. Classify and
// the reverse lookups below read from this one table.
var typeTable = buildTypeTable()

// defaultSelections is the preferred shape for each campaign type, used when a
// stored campaign carries no trigger/reward document.
var defaultSelections = map[models.CampaignType]Selection{
	models.CampaignTypeProductBased:     {models.TriggerProductPurchase, models.RewardFreeProduct},
	models.CampaignTypeCategoryDiscount: {models.TriggerCategoryPurchase, models.RewardDiscountPercentage},
	models.CampaignTypeBirthdaySpecial:  {models.TriggerBirthday, models.RewardDiscountPercentage},
	models.CampaignTypeLoyaltyPoints:    {models.TriggerPurchaseAmount, models.RewardPointsMultiplier},
	models.CampaignTypeDiscount:         {models.TriggerPurchaseAmount, models.RewardDiscountPercentage},
}

func buildTypeTable() map[Selection]models.CampaignType {
	table := make(map[Selection]models.CampaignType, len(models.TriggerTypes)*len(models.RewardTypes))
	for _, t := range models.TriggerTypes {
		for _, r := range models.RewardTypes {
			table[Selection{t, r}] = classifyShape(t, r)
		}
	}
	for typ, sel := range defaultSelections {
		if table[sel] != typ {
			panic("campaigns: default selection for " + string(typ) + " classifies as " + string(table[sel]))
		}
	}
	return table
}

// classifyShape applies the precedence rules; earlier rules win.
func classifyShape(t models.TriggerType, r models.RewardType) models.CampaignType {
	switch {
	case t == models.TriggerProductPurchase || r == models.RewardFreeProduct:
		return models.CampaignTypeProductBased
	case t == models.TriggerCategoryPurchase:
		return models.CampaignTypeCategoryDiscount
	case t == models.TriggerBirthday:
		return models.CampaignTypeBirthdaySpecial
	case r == models.RewardPointsMultiplier:
		return models.CampaignTypeLoyaltyPoints
	default:
		return models.CampaignTypeDiscount
	}
}

// Classify returns the campaign type for a trigger/reward pair.
// Unknown shapes classify as DISCOUNT.
func Classify(t models.TriggerType, r models.RewardType) models.CampaignType {
	if typ, ok := typeTable[Selection{t, r}]; ok {
		return typ
	}
	return models.CampaignTypeDiscount
}

// DefaultSelection returns the wizard selection to show for a campaign type
func DefaultSelection(typ models.CampaignType) Selection {
	if sel, ok := defaultSelections[typ]; ok {
		return sel
	}
	return defaultSelections[models.CampaignTypeDiscount]
}

// SelectionsFor lists every trigger/reward shape that classifies as typ
func SelectionsFor(typ models.CampaignType) []Selection {
	var out []Selection
	for _, t := range models.TriggerTypes {
		for _, r := range models.RewardTypes {
			sel := Selection{t, r}
			if typeTable[sel] == typ {
				out = append(out, sel)
			}
		}
	}
	return out
}

// EditSelection reconstructs the wizard selection for a stored campaign. The
// persisted trigger and reward win; the type default only fills a missing half.
func EditSelection(c *models.Campaign) Selection {
	def := DefaultSelection(c.Type)
	sel := Selection{TriggerType: c.Trigger.Type, RewardType: c.Reward.Type}
	if sel.TriggerType == "" {
		sel.TriggerType = def.TriggerType
	}
	if sel.RewardType == "" {
		sel.RewardType = def.RewardType
	}
	return sel
}
