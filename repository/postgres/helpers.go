package postgres

import (
	"encoding/json"

	"github.com/taskboard/backend/domain"
)

// marshalActivities serializes the checklist for the JSONB column. An
// empty checklist is stored as an empty array, not NULL, so the persisted
// document shape stays stable.
func marshalActivities(activities []domain.Activity) []byte {
	if activities == nil {
		activities = []domain.Activity{}
	}
	b, err := json.Marshal(activities)
	if err != nil {
		return []byte("[]")
	}
	return b
}
