package constant

const (
	DefaultNotebookName  = "My Notebook"
	DefaultNotebookOrder = 0
	MinPasswordLength    = 6

	EmptyNotebookMessage = "Select or create a notebook to get started"
	EmptyTaskMessage     = "No tasks yet. Add one to get started!"
)
