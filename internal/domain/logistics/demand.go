package logistics

import (
	"strings"

	"github.com/tribebot/tribebot-go/internal/domain/shared"
)

// DemandRequest is an outstanding resource need registered by another
// subsystem (construction, recruitment, ...). Lower priority means more
// urgent. Requests with amount zero are inert and dropped during planning.
type DemandRequest struct {
	Resource shared.Resource
	Amount   int
	Priority int
	// Source tags the subsystem that registered the request
	Source string
}

// Demand priorities per originating subsystem. Construction outranks
// noble production, which outranks recruitment; everything else is best
// effort.
const (
	PriorityBuilding    = 0
	PrioritySnob        = 1
	PriorityRecruitment = 2
	PriorityDefault     = 5

	// balanceRank orders balance-mode gap entries behind every request-driven
	// need.
	balanceRank = 50
)

// PriorityForSource maps a request source tag to its planning priority
func PriorityForSource(source string) int {
	switch {
	case source == "building":
		return PriorityBuilding
	case source == "snob":
		return PrioritySnob
	case strings.HasPrefix(source, "recruitment"):
		return PriorityRecruitment
	default:
		return PriorityDefault
	}
}
