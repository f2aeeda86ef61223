package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// queue entry states
const (
	ASSIGNMENT_STATUS_AVAILABLE = "available"
	ASSIGNMENT_STATUS_CLAIMED   = "claimed"
)

// queue priorities, lower is served first
const (
	ASSIGNMENT_PRIORITY_FRESH   = 1
	ASSIGNMENT_PRIORITY_SKIPPED = 2
)

// AvailableAssignment is a denormalized queue entry pointing at one
// Pending_Approval response. The response is authoritative; this entry is
// an index kept consistent by the sweep job.
type AvailableAssignment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ResponseRef   primitive.ObjectID `bson:"responseRef" json:"responseRef"`
	SurveyKey     string             `bson:"surveyKey" json:"surveyKey"`
	InterviewerID string             `bson:"interviewerID,omitempty" json:"interviewerId,omitempty"`
	Status        string             `bson:"status" json:"status"`
	Mode          string             `bson:"mode" json:"mode"`
	ACName        string             `bson:"acName,omitempty" json:"acName,omitempty"`
	Priority      int                `bson:"priority" json:"priority"`
	LastSkippedAt time.Time          `bson:"lastSkippedAt,omitempty" json:"lastSkippedAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
