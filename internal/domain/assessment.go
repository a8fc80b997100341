package domain

import "fmt"

// Stage is the position of an assessment in the pipeline state machine.
type Stage string

const (
	StageStart        Stage = "start"
	StageDetected     Stage = "detected"
	StageTerminated   Stage = "terminated"
	StageRiskAssessed Stage = "risk_assessed"
	StagePlanned      Stage = "planned"
	StageNotified     Stage = "notified"
)

// Terminal reports whether no further stage runs after s.
func (s Stage) Terminal() bool {
	return s == StageTerminated || s == StageNotified
}

// Assessment carries one image through the pipeline. Stage outputs are nil
// until their stage completes and are never replaced afterwards; the setters
// below enforce that ordering.
type Assessment struct {
	ID         string          `json:"id"`
	ImagePath  string          `json:"-"`
	Stage      Stage           `json:"stage"`
	Disaster   *Classification `json:"disaster,omitempty"`
	RiskLevel  *Severity       `json:"risk_level,omitempty"`
	ActionPlan *string         `json:"action_plan,omitempty"`
	Deliveries []Delivery      `json:"deliveries,omitempty"`
}

// NewAssessment starts a fresh assessment for the image at path.
func NewAssessment(id, path string) *Assessment {
	return &Assessment{ID: id, ImagePath: path, Stage: StageStart}
}

// SetDisaster records the detection result.
func (a *Assessment) SetDisaster(c Classification) error {
	if a.Stage != StageStart || a.Disaster != nil {
		return fmt.Errorf("set disaster at stage %s: %w", a.Stage, ErrStageOrder)
	}
	a.Disaster = &c
	a.Stage = StageDetected
	return nil
}

// Terminate ends an assessment whose detection found no disaster.
func (a *Assessment) Terminate() error {
	if a.Stage != StageDetected || a.Disaster.Type != NoDisaster {
		return fmt.Errorf("terminate at stage %s: %w", a.Stage, ErrStageOrder)
	}
	a.Stage = StageTerminated
	return nil
}

// SetRiskLevel records the risk stage output.
func (a *Assessment) SetRiskLevel(s Severity) error {
	if a.Stage != StageDetected || a.Disaster.Type == NoDisaster || a.RiskLevel != nil {
		return fmt.Errorf("set risk level at stage %s: %w", a.Stage, ErrStageOrder)
	}
	a.RiskLevel = &s
	a.Stage = StageRiskAssessed
	return nil
}

// SetActionPlan records the plan stage output.
func (a *Assessment) SetActionPlan(plan string) error {
	if a.Stage != StageRiskAssessed || a.ActionPlan != nil {
		return fmt.Errorf("set action plan at stage %s: %w", a.Stage, ErrStageOrder)
	}
	a.ActionPlan = &plan
	a.Stage = StagePlanned
	return nil
}

// MarkNotified closes a planned assessment. Delivery outcomes are recorded
// but never change whether the transition succeeds.
func (a *Assessment) MarkNotified(deliveries []Delivery) error {
	if a.Stage != StagePlanned {
		return fmt.Errorf("mark notified at stage %s: %w", a.Stage, ErrStageOrder)
	}
	a.Deliveries = deliveries
	a.Stage = StageNotified
	return nil
}

// Finding returns the classification, risk level and plan once all three are
// set. ok is false while any of them is still missing.
func (a *Assessment) Finding() (c Classification, risk Severity, plan string, ok bool) {
	if a.Disaster == nil || a.RiskLevel == nil || a.ActionPlan == nil {
		return Classification{}, "", "", false
	}
	return *a.Disaster, *a.RiskLevel, *a.ActionPlan, true
}
