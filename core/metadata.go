package core

// Well-known document metadata keys.
const (
	MetaType          = "type"
	MetaAgent         = "agent"
	MetaParentVersion = "parent_version"
	MetaConfidence    = "confidence"
	MetaParamPrefix   = "param."

	MetaHumanReviewed = "human_reviewed"
	MetaHumanFeedback = "human_feedback"
	MetaApproved      = "approved"
	MetaReviewedAt    = "reviewed_at"
)

// Values of MetaType.
const (
	TypeOriginal  = "original"
	TypeProcessed = "processed"
)
