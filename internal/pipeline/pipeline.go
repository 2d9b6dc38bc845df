// Package pipeline implements the two-step generation pipeline: a natural-
// language request is first turned into a structured LayoutSpec, which a
// deterministic code generator then turns into renderable component source.
// The two artifacts are independently versionable; a stored LayoutSpec can
// be replayed through a newer code generator without re-invoking the model.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bazaar-it/bazaar-sub004/internal/config"
	"github.com/bazaar-it/bazaar-sub004/internal/llm"
	"github.com/bazaar-it/bazaar-sub004/internal/logging"
	"github.com/bazaar-it/bazaar-sub004/internal/metrics"
	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

// State tracks pipeline progress. Done and FallbackProduced are the
// usable terminal states; Failed is reached only on unrecoverable
// upstream failure.
type State string

const (
	StateIdle             State = "idle"
	StateLayoutGenerating State = "layout_generating"
	StateLayoutReady      State = "layout_ready"
	StateCodeGenerating   State = "code_generating"
	StateValidating       State = "validating"
	StateRepairing        State = "repairing"
	StateDone             State = "done"
	StateFallbackProduced State = "fallback_produced"
	StateFailed           State = "failed"
)

// ErrLayoutGeneration is returned when layout generation fails after
// retries. This is the pipeline's only unrecoverable failure: without a
// layout there is nothing to render or fall back from except the
// caller-level apology.
var ErrLayoutGeneration = errors.New("layout generation failed")

// Request describes one generation run.
type Request struct {
	Utterance string
	// PriorStyle optionally carries the newest existing scene's layout
	// so new scenes stay visually consistent with the project.
	PriorStyle *types.LayoutSpec
}

// Result is the outcome of a pipeline run. When State is
// FallbackProduced, Code holds the minimal placeholder scene and Notice
// explains what happened in user-facing terms.
type Result struct {
	Layout   *types.LayoutSpec
	Code     string
	Name     string
	Duration int
	State    State
	Notice   string
}

// Generator runs the two-step pipeline.
type Generator struct {
	client llm.Client
	cfg    config.PipelineConfig
}

// NewGenerator builds a Generator.
func NewGenerator(client llm.Client, cfg config.PipelineConfig) *Generator {
	return &Generator{client: client, cfg: cfg}
}

// Config exposes the pipeline configuration to collaborating tools.
func (g *Generator) Config() config.PipelineConfig { return g.cfg }

// Generate runs layout generation, code generation, validation, bounded
// repair, and fallback. Apart from ErrLayoutGeneration every failure is
// absorbed: the result is always renderable.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	log := logging.Pipeline()

	layout, err := g.generateLayout(ctx, req)
	if err != nil {
		metrics.PipelineOutcomesTotal.WithLabelValues(string(StateFailed)).Inc()
		return nil, fmt.Errorf("%w: %v", ErrLayoutGeneration, err)
	}
	log.Debug("layout ready",
		zap.String("sceneType", layout.SceneType),
		zap.Int("elements", len(layout.Elements)))

	name := sceneNameFrom(layout, req.Utterance)
	duration := sceneDuration(layout, g.cfg)
	code := GenerateCode(layout, name, duration, g.cfg)

	result := &Result{Layout: layout, Code: code, Name: name, Duration: duration}

	if !g.cfg.ValidateCode {
		result.State = StateDone
		metrics.PipelineOutcomesTotal.WithLabelValues(string(StateDone)).Inc()
		return result, nil
	}

	verr := Validate(code)
	for attempt := 0; verr != nil && attempt < g.cfg.RepairAttempts; attempt++ {
		log.Warn("generated code failed validation, attempting repair",
			zap.Int("attempt", attempt+1), zap.Error(verr))

		repaired, rerr := g.repair(ctx, code, verr)
		if rerr != nil {
			break
		}
		code = repaired
		verr = Validate(code)
	}

	if verr != nil {
		log.Warn("validation failed after repair, producing fallback scene", zap.Error(verr))
		result.Code = FallbackCode(req.Utterance, layout, g.cfg)
		result.Duration = g.cfg.DefaultSceneDuration
		result.State = StateFallbackProduced
		result.Notice = "The scene could not be generated exactly as requested, so a simplified version was created. Try rephrasing for a richer result."
		metrics.PipelineOutcomesTotal.WithLabelValues(string(StateFallbackProduced)).Inc()
		return result, nil
	}

	result.Code = code
	result.State = StateDone
	metrics.PipelineOutcomesTotal.WithLabelValues(string(StateDone)).Inc()
	return result, nil
}
