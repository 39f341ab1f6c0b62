// Package reputation derives bounded trust scores from application history.
// The scores are directional heuristics, not guarantees; absent history
// degrades to a neutral prior instead of failing.
package reputation

import (
	"strings"

	"github.com/leasezero/leasezero-backend/internal/lifecycle"
	"github.com/leasezero/leasezero-backend/internal/models"
)

// Reputation is a clamped score with its coarse band.
type Reputation struct {
	Score  int    `json:"score"`
	Status string `json:"status"`
	Color  string `json:"color"`
}

const neutralScore = 75

// Tenant scoring weights.
const (
	completedBonus = 5
	docsBonus      = 2
	withdrawnMalus = 10
	rejectedMalus  = 2
)

// Badge bands a score: >=80 Trusted, 60-79 Neutral, below that Caution.
func Badge(score int) Reputation {
	score = clamp(score)
	switch {
	case score >= 80:
		return Reputation{Score: score, Status: "Trusted", Color: "green"}
	case score >= 60:
		return Reputation{Score: score, Status: "Neutral", Color: "yellow"}
	default:
		return Reputation{Score: score, Status: "Caution", Color: "red"}
	}
}

// Tenant scores a tenant from their own application history. Rejections are a
// minor penalty only; they may reflect on the landlord as much as the tenant.
func Tenant(tenantAddress string, apps []models.Application) Reputation {
	var mine []models.Application
	for _, a := range apps {
		if strings.EqualFold(a.TenantAddress, tenantAddress) {
			mine = append(mine, a)
		}
	}
	if len(mine) == 0 {
		return Badge(neutralScore)
	}

	score := neutralScore
	for _, a := range mine {
		if a.Status == models.StatusAcknowledged {
			score += completedBonus
		}
		if lifecycle.ReachedDocsSubmission(a.Status) {
			score += docsBonus
		}
		switch a.Status {
		case models.StatusWithdrawn:
			score -= withdrawnMalus
		case models.StatusRejected:
			score -= rejectedMalus
		}
	}
	return Badge(score)
}

// Landlord scores a landlord from the applications against their properties.
// Only applications where verification was ever requested count; a landlord
// who approves after verification scores higher than one who rejects.
func Landlord(propertyIDs []string, apps []models.Application) Reputation {
	owned := make(map[string]struct{}, len(propertyIDs))
	for _, id := range propertyIDs {
		owned[id] = struct{}{}
	}

	var verificationsRequested, approved, rejected int
	for _, a := range apps {
		if _, ok := owned[a.PropertyID]; !ok {
			continue
		}
		if lifecycle.ReachedVerification(a.Status) {
			verificationsRequested++
		}
		switch a.Status {
		case models.StatusApproved, models.StatusAcknowledged:
			approved++
		case models.StatusRejected:
			rejected++
		}
	}
	if verificationsRequested == 0 {
		return Badge(neutralScore)
	}

	approvalRatio := float64(approved) / float64(verificationsRequested)
	rejectionRatio := float64(rejected) / float64(verificationsRequested)
	score := 50 + approvalRatio*50 - rejectionRatio*25

	return Badge(int(score))
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
