// Package badge provides the certificate badge artwork embedded in
// hypertext reports. Badges are inline SVG so reports stay self-contained
// and render without network access.
package badge

import "fmt"

// tierColors maps certificate tiers to badge fill colors
var tierColors = map[string]string{
	"PLATINUM":          "#e5e4e2",
	"GOLD":              "#ffd700",
	"SILVER":            "#c0c0c0",
	"BRONZE":            "#cd7f32",
	"NEEDS_IMPROVEMENT": "#9e9e9e",
}

// fallbackColor is used for tiers this build does not know about, so a
// report generated from newer data still renders
const fallbackColor = "#9e9e9e"

// tierLabels maps tiers to the short label shown inside the badge
var tierLabels = map[string]string{
	"PLATINUM":          "Platinum",
	"GOLD":              "Gold",
	"SILVER":            "Silver",
	"BRONZE":            "Bronze",
	"NEEDS_IMPROVEMENT": "No Award",
}

// SVG returns the inline badge markup for a certificate tier
func SVG(tier string) string {
	color, ok := tierColors[tier]
	if !ok {
		color = fallbackColor
	}
	label, ok := tierLabels[tier]
	if !ok {
		label = tier
	}
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="120" height="120" viewBox="0 0 120 120" role="img" aria-label="Certificate: %s">`+
			`<circle cx="60" cy="60" r="54" fill="%s" stroke="#333" stroke-width="3"/>`+
			`<circle cx="60" cy="60" r="44" fill="none" stroke="#333" stroke-width="1" stroke-dasharray="4 3"/>`+
			`<text x="60" y="56" text-anchor="middle" font-family="Georgia, serif" font-size="14" fill="#333">Site Audit</text>`+
			`<text x="60" y="76" text-anchor="middle" font-family="Georgia, serif" font-size="15" font-weight="bold" fill="#333">%s</text>`+
			`</svg>`,
		label, color, label)
}
