package changefeed

import (
	"time"

	"github.com/google/uuid"
)

// CollectionInstitutions is the only collection the feed carries today.
const CollectionInstitutions = "institutions"

// Action tags what happened to the record.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// Event is one institution mutation as seen by stream subscribers. Streams
// treat it as an invalidation signal and re-query their snapshot.
type Event struct {
	Collection    string    `json:"collection"`
	InstitutionID uuid.UUID `json:"institution_id"`
	Action        Action    `json:"action"`
	OccurredAt    time.Time `json:"occurred_at"`
}
