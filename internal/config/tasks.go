package config

import (
	"log/slog"

	"github.com/rdelaney/orchestra/internal/model"
)

// Agent prompts by role. These are the fixed task definitions each
// orchestrator mode draws from.
const (
	monitorPrompt = "Check system health, review logs, and identify any issues that need attention. Provide a brief status report."

	analyzerPrompt = "Analyze recent activity patterns and suggest optimizations or improvements for the system."

	researcherPrompt = "Research the latest developments in AI agent orchestration and multi-agent systems. Summarize key findings."

	synthesizerPrompt = "Based on current trends, suggest improvements to our agent orchestration framework."

	dataAnalystPrompt = "Analyze system performance metrics and identify bottlenecks or areas for improvement."

	reporterPrompt = "Generate a comprehensive report on system status and recommendations."

	healthCheckerPrompt = "Perform comprehensive health checks on all system components and services."

	alertManagerPrompt = "Review recent alerts and events, prioritize issues, and suggest actions."
)

// roleFor maps an agent name to the config role that governs it.
func (a AgentsConfig) roleFor(name string) AgentConfig {
	switch name {
	case "monitor", "health_checker":
		return a.Monitor
	case "analyzer", "data_analyst", "synthesizer":
		return a.Analyzer
	case "researcher":
		return a.Researcher
	case "reporter", "alert_manager":
		return a.Reporter
	default:
		return AgentConfig{Enabled: true}
	}
}

// task builds one model.Task for the named agent from its governing role
// config, or returns false when the role is disabled.
func (a AgentsConfig) task(name, prompt string, logger *slog.Logger) (model.Task, bool) {
	role := a.roleFor(name)
	if !role.Enabled {
		logger.Warn("skipping disabled agent", "agent", name)
		return model.Task{}, false
	}
	return model.Task{
		Name:           name,
		Prompt:         prompt,
		TimeoutSeconds: role.TimeoutSeconds,
		ClientMode:     role.ClientMode,
		SystemPrompt:   role.SystemPrompt,
	}, true
}

// TasksForMode returns the ordered task list for an orchestrator mode, with
// disabled agents already filtered out. Unknown modes fall back to "auto".
// The engine receives only the tasks returned here.
func TasksForMode(mode string, agents AgentsConfig, logger *slog.Logger) []model.Task {
	type entry struct {
		name   string
		prompt string
	}

	var entries []entry
	switch mode {
	case "auto":
		entries = []entry{{"monitor", monitorPrompt}, {"analyzer", analyzerPrompt}}
	case "research":
		entries = []entry{{"researcher", researcherPrompt}, {"synthesizer", synthesizerPrompt}}
	case "analysis":
		entries = []entry{{"data_analyst", dataAnalystPrompt}, {"reporter", reporterPrompt}}
	case "monitoring":
		entries = []entry{{"health_checker", healthCheckerPrompt}, {"alert_manager", alertManagerPrompt}}
	default:
		logger.Warn("unknown orchestrator mode, using auto", "mode", mode)
		entries = []entry{{"monitor", monitorPrompt}, {"analyzer", analyzerPrompt}}
	}

	tasks := make([]model.Task, 0, len(entries))
	for _, e := range entries {
		if t, ok := agents.task(e.name, e.prompt, logger); ok {
			tasks = append(tasks, t)
		}
	}

	if len(tasks) == 0 {
		logger.Warn("all agents disabled for mode", "mode", mode)
	}
	return tasks
}
