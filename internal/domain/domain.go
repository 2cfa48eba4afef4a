package domain

import (
	"github.com/redlinehq/redline-backend/internal/domain/negotiation"
)

type NegotiationSession = negotiation.NegotiationSession
type DocumentRound = negotiation.DocumentRound
type DocumentChange = negotiation.DocumentChange
type AnalysisResult = negotiation.AnalysisResult
type Counterproposal = negotiation.Counterproposal
type Clause = negotiation.Clause
type CompliancePolicy = negotiation.CompliancePolicy
type GraphEntity = negotiation.GraphEntity
type AICallLog = negotiation.AICallLog

const (
	ChangeKindInsert  = negotiation.ChangeKindInsert
	ChangeKindDelete  = negotiation.ChangeKindDelete
	ChangeKindReplace = negotiation.ChangeKindReplace

	CategorySubstantive = negotiation.CategorySubstantive
	CategoryEditorial   = negotiation.CategoryEditorial
	CategoryStructural  = negotiation.CategoryStructural

	RiskLow      = negotiation.RiskLow
	RiskMedium   = negotiation.RiskMedium
	RiskHigh     = negotiation.RiskHigh
	RiskCritical = negotiation.RiskCritical

	ChangeStatusPending   = negotiation.ChangeStatusPending
	ChangeStatusAccepted  = negotiation.ChangeStatusAccepted
	ChangeStatusRejected  = negotiation.ChangeStatusRejected
	ChangeStatusCountered = negotiation.ChangeStatusCountered

	RecommendationAccept  = negotiation.RecommendationAccept
	RecommendationReject  = negotiation.RecommendationReject
	RecommendationCounter = negotiation.RecommendationCounter
	RecommendationReview  = negotiation.RecommendationReview

	ModeBalanced      = negotiation.ModeBalanced
	ModeFavorable     = negotiation.ModeFavorable
	ModeMinimalChange = negotiation.ModeMinimalChange

	CallTypeAnalyze         = negotiation.CallTypeAnalyze
	CallTypeBatchAnalyze    = negotiation.CallTypeBatchAnalyze
	CallTypeCounterproposal = negotiation.CallTypeCounterproposal
)

var (
	AnalysisFromJSON = negotiation.AnalysisFromJSON
	ValidMode        = negotiation.ValidMode
)
