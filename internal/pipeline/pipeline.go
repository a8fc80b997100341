package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/disaster-response-service/internal/domain"
	"github.com/couchcryptid/disaster-response-service/internal/observability"
	"github.com/couchcryptid/disaster-response-service/internal/render"
	"github.com/google/uuid"
)

// Stage labels used in logs and metrics.
const (
	stageDetect = "detect"
	stageRisk   = "risk"
	stagePlan   = "plan"
	stageNotify = "notify"
)

// VisionModel answers prompts about an image.
type VisionModel interface {
	CompleteWithImage(ctx context.Context, prompt string, img domain.Image) (string, error)
}

// TextModel answers text-only prompts.
type TextModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Notifier delivers an alert to one sink. Implementations never return an
// error; failures are reported in the Delivery.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, n domain.Notification) domain.Delivery
}

// Geocoder resolves the alert location to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (domain.Location, error)
}

// Options carries the optional collaborators of a Pipeline.
type Options struct {
	// Location is the place named in alerts.
	Location string
	// Geocoder adds coordinates to the location. Nil disables geocoding.
	Geocoder Geocoder
	// Notifiers are called in order for every planned assessment.
	Notifiers []Notifier
}

// Pipeline runs the detect → route → risk → plan → notify graph. It holds no
// per-run state and is safe to share across goroutines.
type Pipeline struct {
	vision    VisionModel
	text      TextModel
	location  string
	geocoder  Geocoder
	notifiers []Notifier
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline over the given models.
func New(vision VisionModel, text TextModel, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		vision:    vision,
		text:      text,
		location:  opts.Location,
		geocoder:  opts.Geocoder,
		notifiers: opts.Notifiers,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness reports the first notifier that is not ready. Notifiers
// without a readiness check are assumed ready.
func (p *Pipeline) CheckReadiness(ctx context.Context) error {
	for _, n := range p.notifiers {
		checker, ok := n.(interface{ CheckReadiness(context.Context) error })
		if !ok {
			continue
		}
		if err := checker.CheckReadiness(ctx); err != nil {
			return fmt.Errorf("%s: %w", n.Name(), err)
		}
	}
	return nil
}

// Run takes the image at imagePath through the pipeline. It returns the
// final assessment, which is either terminated (no disaster) or notified.
// Errors from reading the image, the inference services or response parsing
// end the run; notification failures do not.
func (p *Pipeline) Run(ctx context.Context, imagePath string) (*domain.Assessment, error) {
	a := domain.NewAssessment(newID(), imagePath)
	logger := p.logger.With("assessment_id", a.ID)

	p.metrics.InFlight.Inc()
	defer p.metrics.InFlight.Dec()

	img, err := readImage(imagePath)
	if err != nil {
		p.fail(logger, stageDetect, err)
		return nil, err
	}
	logger.Debug("image loaded", "mime_type", img.MIMEType, "bytes", len(img.Data))

	if err := p.detect(ctx, a, img); err != nil {
		p.fail(logger, stageDetect, err)
		return nil, err
	}

	if domain.Route(a.Disaster.Type) == domain.NextTerminate {
		if err := a.Terminate(); err != nil {
			return nil, err
		}
		logger.Info("no disaster detected", "description", a.Disaster.Description)
		p.metrics.AssessmentsTotal.WithLabelValues(string(domain.StageTerminated)).Inc()
		return a, nil
	}

	if err := p.assessRisk(ctx, a, img, logger); err != nil {
		p.fail(logger, stageRisk, err)
		return nil, err
	}
	if err := p.plan(ctx, a); err != nil {
		p.fail(logger, stagePlan, err)
		return nil, err
	}
	if err := p.notify(ctx, a, logger); err != nil {
		p.fail(logger, stageNotify, err)
		return nil, err
	}

	p.metrics.AssessmentsTotal.WithLabelValues(string(domain.StageNotified)).Inc()
	logger.Info("assessment complete",
		"type", a.Disaster.RawType,
		"risk_level", string(*a.RiskLevel),
		"deliveries", len(a.Deliveries),
		"delivered", countDelivered(a.Deliveries),
	)
	return a, nil
}

func (p *Pipeline) detect(ctx context.Context, a *domain.Assessment, img domain.Image) error {
	defer p.observe(stageDetect, time.Now())

	reply, err := p.vision.CompleteWithImage(ctx, domain.DetectionPrompt, img)
	if err != nil {
		return fmt.Errorf("detect: %w", err)
	}
	c, err := domain.ParseDetection(reply)
	if err != nil {
		return fmt.Errorf("detect: %w", err)
	}
	p.metrics.Detections.WithLabelValues(string(c.Type)).Inc()
	return a.SetDisaster(c)
}

func (p *Pipeline) assessRisk(ctx context.Context, a *domain.Assessment, img domain.Image, logger *slog.Logger) error {
	defer p.observe(stageRisk, time.Now())

	reply, err := p.vision.CompleteWithImage(ctx, domain.RiskPrompt(a.Disaster.Description), img)
	if err != nil {
		return fmt.Errorf("assess risk: %w", err)
	}
	risk := domain.ParseSeverity(reply)

	label := strings.ToUpper(string(risk))
	if !risk.Known() {
		logger.Warn("risk level outside rubric", "risk_level", string(risk))
		label = "other"
	}
	p.metrics.SeverityLabels.WithLabelValues(label, fmt.Sprint(risk.Known())).Inc()
	return a.SetRiskLevel(risk)
}

func (p *Pipeline) plan(ctx context.Context, a *domain.Assessment) error {
	defer p.observe(stagePlan, time.Now())

	reply, err := p.text.Complete(ctx, domain.ActionPlanPrompt(a.Disaster.Description, *a.RiskLevel))
	if err != nil {
		return fmt.Errorf("plan: %w", err)
	}
	return a.SetActionPlan(strings.TrimSpace(reply))
}

// notify renders the alert and hands it to every sink. Sink failures are
// recorded on the assessment and logged, never returned.
func (p *Pipeline) notify(ctx context.Context, a *domain.Assessment, logger *slog.Logger) error {
	defer p.observe(stageNotify, time.Now())

	c, risk, plan, ok := a.Finding()
	if !ok {
		return fmt.Errorf("notify: %w", domain.ErrStageOrder)
	}

	loc := p.locate(ctx, logger)
	now := domain.Now()
	email, err := render.RenderEmail(render.Email{
		Disaster:  c,
		Severity:  risk,
		Location:  loc,
		Plan:      plan,
		Timestamp: now,
	})
	if err != nil {
		return fmt.Errorf("notify: %w", err)
	}

	n := domain.Notification{
		CrisisType:   c.RawType,
		Severity:     string(risk),
		Location:     loc.Name,
		EmailHTML:    email,
		ActionPlan:   plan,
		Timestamp:    now,
		AssessmentID: a.ID,
	}

	deliveries := make([]domain.Delivery, 0, len(p.notifiers))
	for _, sink := range p.notifiers {
		d := sink.Notify(ctx, n)
		p.metrics.Deliveries.WithLabelValues(d.Sink, string(d.Status)).Inc()
		switch d.Status {
		case domain.DeliveryFailed:
			logger.Warn("notification failed", "sink", d.Sink, "status_code", d.StatusCode, "error", d.Error)
		case domain.DeliverySkipped:
			logger.Debug("notification skipped", "sink", d.Sink)
		default:
			logger.Info("notification delivered", "sink", d.Sink, "status_code", d.StatusCode)
		}
		deliveries = append(deliveries, d)
	}
	return a.MarkNotified(deliveries)
}

// locate geocodes the alert location, falling back to the bare name.
func (p *Pipeline) locate(ctx context.Context, logger *slog.Logger) domain.Location {
	loc := domain.Location{Name: p.location}
	if p.geocoder == nil || p.location == "" {
		return loc
	}
	resolved, err := p.geocoder.Geocode(ctx, p.location)
	if err != nil {
		logger.Warn("geocode alert location failed", "location", p.location, "error", err)
		return loc
	}
	resolved.Name = p.location
	return resolved
}

func countDelivered(deliveries []domain.Delivery) int {
	n := 0
	for _, d := range deliveries {
		if d.Delivered() {
			n++
		}
	}
	return n
}

func (p *Pipeline) observe(stage string, start time.Time) {
	p.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func (p *Pipeline) fail(logger *slog.Logger, stage string, err error) {
	p.metrics.StageErrors.WithLabelValues(stage).Inc()
	p.metrics.AssessmentsTotal.WithLabelValues("error").Inc()
	if errors.Is(err, context.Canceled) {
		logger.Info("assessment cancelled", "stage", stage)
		return
	}
	logger.Error("assessment failed", "stage", stage, "error", err)
}

// newID returns a time-ordered assessment ID.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
