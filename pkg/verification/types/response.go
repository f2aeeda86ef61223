package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// response lifecycle states
const (
	RESPONSE_STATUS_PENDING_APPROVAL = "Pending_Approval"
	RESPONSE_STATUS_APPROVED         = "Approved"
	RESPONSE_STATUS_REJECTED         = "Rejected"
	RESPONSE_STATUS_ABANDONED        = "abandoned"
)

// interview modes
const (
	INTERVIEW_MODE_CAPI   = "capi"
	INTERVIEW_MODE_CATI   = "cati"
	INTERVIEW_MODE_ONLINE = "online"
)

// rejection reasons recorded on the verification outcome
const (
	REJECTION_REASON_MANUAL       = "manual"
	REJECTION_REASON_DUPLICATE    = "duplicate"
	REJECTION_REASON_QUOTA_MET    = "quota_met"
	REJECTION_REASON_INVALID_DATA = "invalid_data"
)

type Response struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ResponseID    string             `bson:"responseID" json:"responseId"`
	SurveyKey     string             `bson:"surveyKey" json:"surveyKey"`
	Mode          string             `bson:"mode" json:"mode"`
	Status        string             `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	Answers       []Answer           `bson:"answers" json:"answers"`
	ACName        string             `bson:"acName,omitempty" json:"acName,omitempty"`
	InterviewerID string             `bson:"interviewerID,omitempty" json:"interviewerId,omitempty"`
	// only present for CATI submissions
	CallStatus    string `bson:"callStatus,omitempty" json:"callStatus,omitempty"`
	AbandonReason string `bson:"abandonReason,omitempty" json:"abandonReason,omitempty"`

	VerificationData *VerificationData `bson:"verificationData,omitempty" json:"verificationData,omitempty"`
	ReviewAssignment *ReviewAssignment `bson:"reviewAssignment,omitempty" json:"reviewAssignment,omitempty"`
}

// Answer is one collected question/answer pair. RawValue is kept as the
// interviewer app sent it; interpretation happens in the answers helpers.
type Answer struct {
	QuestionID   string `bson:"questionID" json:"questionId"`
	QuestionText string `bson:"questionText,omitempty" json:"questionText,omitempty"`
	RawValue     string `bson:"rawValue" json:"rawValue"`
}

type VerificationData struct {
	ReviewerID      string             `bson:"reviewerID" json:"reviewerId"`
	ReviewedAt      time.Time          `bson:"reviewedAt" json:"reviewedAt"`
	Criteria        VerificationChecks `bson:"criteria" json:"criteria"`
	Feedback        string             `bson:"feedback,omitempty" json:"feedback,omitempty"`
	RejectionReason string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
}

type VerificationChecks struct {
	GenderMatch bool `bson:"genderMatch" json:"genderMatch"`
	AgeMatch    bool `bson:"ageMatch" json:"ageMatch"`
	NameMatch   bool `bson:"nameMatch" json:"nameMatch"`
	ACMatch     bool `bson:"acMatch" json:"acMatch"`
}

// ReviewAssignment is only present while a reviewer has the response
// checked out. An expired assignment counts as absent for claiming.
type ReviewAssignment struct {
	AssignedTo string    `bson:"assignedTo" json:"assignedTo"`
	ExpiresAt  time.Time `bson:"expiresAt" json:"expiresAt"`
}

func (ra *ReviewAssignment) IsLive(now time.Time) bool {
	if ra == nil {
		return false
	}
	return ra.ExpiresAt.After(now)
}

func IsValidInterviewMode(mode string) bool {
	switch mode {
	case INTERVIEW_MODE_CAPI, INTERVIEW_MODE_CATI, INTERVIEW_MODE_ONLINE:
		return true
	}
	return false
}

func IsValidRejectionReason(reason string) bool {
	switch reason {
	case REJECTION_REASON_MANUAL, REJECTION_REASON_DUPLICATE, REJECTION_REASON_QUOTA_MET, REJECTION_REASON_INVALID_DATA:
		return true
	}
	return false
}
