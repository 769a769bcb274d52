package domain

// Grade band thresholds, applied to category, page, and run scores alike
const (
	GradeAThreshold = 90.0
	GradeBThreshold = 80.0
	GradeCThreshold = 70.0
	GradeDThreshold = 60.0
)

// Certificate tier names derived from the run's overall score
const (
	TierPlatinum         = "PLATINUM"
	TierGold             = "GOLD"
	TierSilver           = "SILVER"
	TierBronze           = "BRONZE"
	TierNeedsImprovement = "NEEDS_IMPROVEMENT"
)

// Certificate tier thresholds
const (
	TierPlatinumThreshold = 95.0
	TierGoldThreshold     = 85.0
	TierSilverThreshold   = 70.0
	TierBronzeThreshold   = 50.0
)

// CategoryWeights holds the fixed composite weights. They sum to 1.0 when
// all five categories are present; when a category is absent on a page its
// weight drops out of both numerator and denominator of that page's
// composite, so partial data is never penalized toward zero.
var CategoryWeights = map[Category]float64{
	CategoryAccessibility:      0.35,
	CategoryPerformance:        0.25,
	CategorySEO:                0.20,
	CategoryContentWeight:      0.10,
	CategoryMobileFriendliness: 0.10,
}

// GradeForScore maps a 0-100 score to a letter grade
func GradeForScore(score float64) string {
	switch {
	case score >= GradeAThreshold:
		return "A"
	case score >= GradeBThreshold:
		return "B"
	case score >= GradeCThreshold:
		return "C"
	case score >= GradeDThreshold:
		return "D"
	default:
		return "F"
	}
}

// TierForScore maps a 0-100 overall score to a certificate tier
func TierForScore(score float64) string {
	switch {
	case score >= TierPlatinumThreshold:
		return TierPlatinum
	case score >= TierGoldThreshold:
		return TierGold
	case score >= TierSilverThreshold:
		return TierSilver
	case score >= TierBronzeThreshold:
		return TierBronze
	default:
		return TierNeedsImprovement
	}
}

// Composite returns the weighted composite score for a single page and
// whether the page had any measured category at all. Absent categories
// contribute neither numerator nor denominator.
func (p PageRecord) Composite() (float64, bool) {
	var weighted, total float64
	for _, category := range Categories {
		result, ok := p.Categories[category]
		if !ok {
			continue
		}
		weight := CategoryWeights[category]
		weighted += result.Score * weight
		total += weight
	}
	if total == 0 {
		return 0, false
	}
	return weighted / total, true
}
