package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LookupRecipes Phase = iota
	WatchDatabase
	DatabaseChanged
)

func (p Phase) String() string {
	switch p {
	case LookupRecipes:
		return "fetch_recipes"
	case WatchDatabase:
		return "watch_database"
	case DatabaseChanged:
		return "database_changed"
	default:
		return ""
	}
}

// sendProgress delivers u unless the channel is nil or full.
func sendProgress(prog chan<- ProgressUpdate, u ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- u:
	default:
	}
}

func recipeFetchedUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LookupRecipes,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, name),
	}
}

func recipeFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LookupRecipes,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func watchingUpdate(path, mode string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WatchDatabase,
		Message: fmt.Sprintf("Watching %s (%s)", path, mode),
	}
}

func changedUpdate(path string, events int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DatabaseChanged,
		Step:    events,
		Message: fmt.Sprintf("%s changed", path),
		Data:    path,
	}
}
