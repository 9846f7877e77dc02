// Package config provides configuration loading and management for taskplan.
package config

import (
	"github.com/litcu/orca-plugin-task-planner-sub000/internal/task"
)

// Config is the root configuration.
type Config struct {
	TagAlias   string         `json:"tag_alias,omitempty"  mapstructure:"tag_alias"`
	Statuses   StatusConfig   `json:"statuses,omitempty"   mapstructure:"statuses"`
	Properties PropertyConfig `json:"properties,omitempty" mapstructure:"properties"`
}

// StatusConfig holds the host's label set per canonical status.
type StatusConfig struct {
	Todo     []string `json:"todo,omitempty"     mapstructure:"todo"`
	Doing    []string `json:"doing,omitempty"    mapstructure:"doing"`
	Done     []string `json:"done,omitempty"     mapstructure:"done"`
	Waiting  []string `json:"waiting,omitempty"  mapstructure:"waiting"`
	Canceled []string `json:"canceled,omitempty" mapstructure:"canceled"`
}

// PropertyConfig overrides the property names task fields are read from.
type PropertyConfig struct {
	Status          string `json:"status,omitempty"            mapstructure:"status"`
	StartTime       string `json:"start_time,omitempty"        mapstructure:"start_time"`
	EndTime         string `json:"end_time,omitempty"          mapstructure:"end_time"`
	CompletedAt     string `json:"completed_at,omitempty"      mapstructure:"completed_at"`
	StatusChangedAt string `json:"status_changed_at,omitempty" mapstructure:"status_changed_at"`
	Importance      string `json:"importance,omitempty"        mapstructure:"importance"`
	Urgency         string `json:"urgency,omitempty"           mapstructure:"urgency"`
	Effort          string `json:"effort,omitempty"            mapstructure:"effort"`
	Star            string `json:"star,omitempty"              mapstructure:"star"`
	DependsOn       string `json:"depends_on,omitempty"        mapstructure:"depends_on"`
	DependsMode     string `json:"depends_mode,omitempty"      mapstructure:"depends_mode"`
	DependencyDelay string `json:"dependency_delay,omitempty"  mapstructure:"dependency_delay"`
}

// Schema resolves the configuration into the property schema the engine
// consumes, filling defaults for anything the host left unset.
func (c Config) Schema() task.Schema {
	sc := task.DefaultSchema()
	if c.TagAlias != "" {
		sc.TagAlias = c.TagAlias
	}
	mergeLabels(&sc.Statuses.Todo, c.Statuses.Todo)
	mergeLabels(&sc.Statuses.Doing, c.Statuses.Doing)
	mergeLabels(&sc.Statuses.Done, c.Statuses.Done)
	mergeLabels(&sc.Statuses.Waiting, c.Statuses.Waiting)
	mergeLabels(&sc.Statuses.Canceled, c.Statuses.Canceled)
	mergeName(&sc.Props.Status, c.Properties.Status)
	mergeName(&sc.Props.StartTime, c.Properties.StartTime)
	mergeName(&sc.Props.EndTime, c.Properties.EndTime)
	mergeName(&sc.Props.CompletedAt, c.Properties.CompletedAt)
	mergeName(&sc.Props.StatusChangedAt, c.Properties.StatusChangedAt)
	mergeName(&sc.Props.Importance, c.Properties.Importance)
	mergeName(&sc.Props.Urgency, c.Properties.Urgency)
	mergeName(&sc.Props.Effort, c.Properties.Effort)
	mergeName(&sc.Props.Star, c.Properties.Star)
	mergeName(&sc.Props.DependsOn, c.Properties.DependsOn)
	mergeName(&sc.Props.DependsMode, c.Properties.DependsMode)
	mergeName(&sc.Props.DependencyDelay, c.Properties.DependencyDelay)
	return sc
}

func mergeLabels(dst *[]string, src []string) {
	if len(src) > 0 {
		*dst = src
	}
}

func mergeName(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}
