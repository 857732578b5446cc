package model

// Status is the lifecycle state of a task. The string values are part of the
// stored-data contract and must not change.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusArchived   Status = "archived"
)

// AllStatuses lists every status in stable order, used for aggregation and
// filter validation.
var AllStatuses = []Status{StatusTodo, StatusInProgress, StatusCompleted, StatusArchived}

// statusTransitions is the closed set of legal status changes. Archived is not
// terminal: archived tasks may be pulled back to todo.
var statusTransitions = map[Status][]Status{
	StatusTodo:       {StatusInProgress, StatusArchived},
	StatusInProgress: {StatusTodo, StatusCompleted, StatusArchived},
	StatusCompleted:  {StatusTodo, StatusArchived},
	StatusArchived:   {StatusTodo},
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether the state machine permits moving from s to
// next. Unknown statuses never transition anywhere.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Priority is the urgency of a task. The string values are part of the
// stored-data contract.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
