package config

import "fmt"

// RouterConfig configures the intent router.
type RouterConfig struct {
	// ClarificationBudget caps consecutive clarify decisions within one
	// conversational chain. Past the cap the router commits to its best
	// guess instead of asking again.
	ClarificationBudget int `yaml:"clarification_budget"`
	// HistoryWindow is the number of recent messages passed to the
	// router as conversational context.
	HistoryWindow int `yaml:"history_window"`
}

// DefaultRouterConfig returns sensible defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		ClarificationBudget: 2,
		HistoryWindow:       10,
	}
}

// Validate checks the router section.
func (c RouterConfig) Validate() error {
	if c.ClarificationBudget < 0 {
		return fmt.Errorf("router: clarification_budget must be >= 0, got %d", c.ClarificationBudget)
	}
	if c.HistoryWindow < 0 {
		return fmt.Errorf("router: history_window must be >= 0, got %d", c.HistoryWindow)
	}
	return nil
}
