package task

import "strings"

// PropNames maps the engine's task fields to host property names.
type PropNames struct {
	Status          string
	StartTime       string
	EndTime         string
	CompletedAt     string
	StatusChangedAt string
	Importance      string
	Urgency         string
	Effort          string
	Star            string
	DependsOn       string
	DependsMode     string
	DependencyDelay string
}

// StatusLabels holds the host-configurable label set for each canonical
// status. Matching is case-insensitive.
type StatusLabels struct {
	Todo     []string
	Doing    []string
	Done     []string
	Waiting  []string
	Canceled []string
}

// Resolve maps a host label to its canonical status.
func (l StatusLabels) Resolve(label string) (Status, bool) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return StatusTodo, false
	}
	for s, labels := range map[Status][]string{
		StatusTodo:     l.Todo,
		StatusDoing:    l.Doing,
		StatusDone:     l.Done,
		StatusWaiting:  l.Waiting,
		StatusCanceled: l.Canceled,
	} {
		for _, candidate := range labels {
			if strings.ToLower(candidate) == label {
				return s, true
			}
		}
	}
	return StatusTodo, false
}

// Label returns the host's preferred label for a canonical status.
func (l StatusLabels) Label(s Status) string {
	pick := func(labels []string) string {
		if len(labels) > 0 {
			return labels[0]
		}
		return s.String()
	}
	switch s {
	case StatusDoing:
		return pick(l.Doing)
	case StatusDone:
		return pick(l.Done)
	case StatusWaiting:
		return pick(l.Waiting)
	case StatusCanceled:
		return pick(l.Canceled)
	default:
		return pick(l.Todo)
	}
}

// Schema describes how task blocks are tagged and how their planning
// properties are named and labeled by the host.
type Schema struct {
	TagAlias string
	Statuses StatusLabels
	Props    PropNames
}

// DefaultSchema returns the schema used when the host configures nothing.
func DefaultSchema() Schema {
	return Schema{
		TagAlias: "task",
		Statuses: StatusLabels{
			Todo:     []string{"todo"},
			Doing:    []string{"doing"},
			Done:     []string{"done"},
			Waiting:  []string{"waiting"},
			Canceled: []string{"canceled", "dropped"},
		},
		Props: PropNames{
			Status:          "status",
			StartTime:       "start_time",
			EndTime:         "end_time",
			CompletedAt:     "completed_at",
			StatusChangedAt: "status_changed_at",
			Importance:      "importance",
			Urgency:         "urgency",
			Effort:          "effort",
			Star:            "star",
			DependsOn:       "depends_on",
			DependsMode:     "depends_mode",
			DependencyDelay: "dependency_delay",
		},
	}
}
