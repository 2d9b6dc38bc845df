package config

import "fmt"

// PipelineConfig configures the two-step generation pipeline.
type PipelineConfig struct {
	// ValidateCode toggles post-generation structural checks. The check
	// set is deliberately narrow; disabling it entirely ("trust the
	// generator") is supported but riskier.
	ValidateCode bool `yaml:"validate_code"`
	// RepairAttempts is the number of bounded repair passes after a
	// validation failure before falling back to the placeholder scene.
	RepairAttempts int `yaml:"repair_attempts"`
	// FPS is the frame rate scene durations are expressed against.
	FPS int `yaml:"fps"`
	// DefaultSceneDuration is used when layout generation does not
	// imply a duration, in frames.
	DefaultSceneDuration int `yaml:"default_scene_duration"`
	// StaggerFrames separates entrance start times of elements that
	// declare identical delays.
	StaggerFrames int `yaml:"stagger_frames"`
}

// DefaultPipelineConfig returns sensible defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		ValidateCode:         true,
		RepairAttempts:       1,
		FPS:                  30,
		DefaultSceneDuration: 180,
		StaggerFrames:        8,
	}
}

// Validate checks the pipeline section.
func (c PipelineConfig) Validate() error {
	if c.RepairAttempts < 0 {
		return fmt.Errorf("pipeline: repair_attempts must be >= 0, got %d", c.RepairAttempts)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("pipeline: fps must be positive, got %d", c.FPS)
	}
	if c.DefaultSceneDuration <= 0 {
		return fmt.Errorf("pipeline: default_scene_duration must be positive, got %d", c.DefaultSceneDuration)
	}
	if c.StaggerFrames < 0 {
		return fmt.Errorf("pipeline: stagger_frames must be >= 0, got %d", c.StaggerFrames)
	}
	return nil
}
