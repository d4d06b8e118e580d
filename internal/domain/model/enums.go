package model

import (
	"fmt"
	"strings"
)

// Stage is a step of the hiring funnel.
type Stage string

// Funnel stages in pipeline order. Rejected is terminal and sits outside the
// forward chain.
const (
	StageApply          Stage = "Apply"
	StageScreen         Stage = "Screen"
	StageSubmitHM       Stage = "SubmitHM"
	StageHMAccept       Stage = "HM_Accept"
	StageInterview1     Stage = "Interview1"
	StageInterviewFinal Stage = "InterviewFinal"
	StageOffer          Stage = "Offer"
	StageHired          Stage = "Hired"
	StageRejected       Stage = "Rejected"
)

// Stages lists every stage in pipeline order.
var Stages = []Stage{
	StageApply, StageScreen, StageSubmitHM, StageHMAccept, StageInterview1,
	StageInterviewFinal, StageOffer, StageHired, StageRejected,
}

// ParseStage maps a stage label to a Stage. Matching ignores case.
func ParseStage(s string) (Stage, error) {
	for _, st := range Stages {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownStage)
}

// CostKind categorizes a cost item.
type CostKind string

// Cost kinds. Internal and External feed cost-per-hire; the rest are the
// cost-to-OPL buckets.
const (
	CostInternal        CostKind = "internal"
	CostExternal        CostKind = "external"
	CostOnboarding      CostKind = "onboarding"
	CostTraining        CostKind = "training"
	CostSupervision     CostKind = "supervision"
	CostOTJ             CostKind = "otj"
	CostLaborProportion CostKind = "laborProportion"
)

// CostKinds lists every cost kind.
var CostKinds = []CostKind{
	CostInternal, CostExternal, CostOnboarding, CostTraining,
	CostSupervision, CostOTJ, CostLaborProportion,
}

// ParseCostKind maps a label to a CostKind. Matching ignores case.
func ParseCostKind(s string) (CostKind, error) {
	for _, k := range CostKinds {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownCostKind)
}

// IsOPL reports whether the kind belongs to the cost-to-OPL buckets.
func (k CostKind) IsOPL() bool {
	switch k {
	case CostOnboarding, CostTraining, CostSupervision, CostOTJ, CostLaborProportion:
		return true
	case CostInternal, CostExternal:
		return false
	}
	return false
}

// TerminationType distinguishes voluntary from involuntary exits.
type TerminationType string

// Termination types.
const (
	TerminationResign    TerminationType = "Resign"
	TerminationTerminate TerminationType = "Terminate"
)

// ParseTerminationType maps a label to a TerminationType.
func ParseTerminationType(s string) (TerminationType, error) {
	switch {
	case strings.EqualFold(s, string(TerminationResign)):
		return TerminationResign, nil
	case strings.EqualFold(s, string(TerminationTerminate)):
		return TerminationTerminate, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownTermination)
}

// SurveyKind identifies who answered a satisfaction survey.
type SurveyKind string

// Survey kinds.
const (
	SurveyCandidate     SurveyKind = "candidate"
	SurveyHiringManager SurveyKind = "hiringManager"
	SurveyNewHire       SurveyKind = "newHire"
)

// SurveyKinds lists every survey kind.
var SurveyKinds = []SurveyKind{SurveyCandidate, SurveyHiringManager, SurveyNewHire}

// ParseSurveyKind maps a label to a SurveyKind.
func ParseSurveyKind(s string) (SurveyKind, error) {
	for _, k := range SurveyKinds {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownSurveyKind)
}
