package session

// Status line texts.
const (
	msgAddPrompt     = "Enter task details (Tab to switch fields, ESC to cancel, Enter to save)"
	msgEditPrompt    = "Edit task (Tab to switch fields, ESC to cancel, Enter to save)"
	msgSubtaskPrompt = "Adding subtask to: \"%s\" (ESC to cancel, Enter to save)"
	msgSettings      = "Settings: [c] Toggle show completed | [ESC] Close"

	msgNoSelection = "No task selected."
	msgNoParent    = "No parent task selected."

	msgEmptyDescription = "Task description cannot be empty!"
	msgEmptySubtask     = "Subtask description cannot be empty!"
	msgInvalidDate      = "Invalid date format! Use: YYYY-MM-DD or YYYY-MM-DD HH:MM"

	msgAdded          = "Task added successfully!"
	msgUpdated        = "Task updated successfully!"
	msgSubtaskAdded   = "Subtask added successfully!"
	msgAddFailed      = "Failed to add task."
	msgUpdateFailed   = "Failed to update task."
	msgSubtaskFailed  = "Failed to add subtask."
	msgAddCancelled   = "Add cancelled."
	msgEditCancelled  = "Edit cancelled."
	msgSubtaskCancel  = "Subtask cancelled."
	msgDeletePrompt   = "Delete task: \"%s\"? (y/N)"
	msgDeleted        = "Task deleted successfully!"
	msgDeleteFailed   = "Failed to delete task."
	msgDeleteCanceled = "Delete cancelled."

	msgCompleted = "Task marked as completed!"
	msgPending   = "Task marked as pending!"

	msgShowAll         = "Showing all tasks"
	msgShowActive      = "Showing active tasks only"
	msgSettingsAll     = "Now showing all tasks"
	msgSettingsActive  = "Now showing active tasks only"
	msgSettingsClosed  = "Settings closed."
	msgLoadFailed      = "Failed to load tasks."
	msgAIUnavailable   = "AI features are not available. Check your configuration."
	msgSuggestTitle    = "AI Suggestions for: "
	msgSummaryTitle    = "Schedule Summary:"
	msgSheetsDisabled  = "Google Sheets export is not enabled. Check your configuration."
	msgSynced          = "Successfully synced %d tasks to Google Sheets!"
	msgSyncFailed      = "Failed to sync: %v"
	msgProgressCreate  = "Creating task..."
	msgProgressUpdate  = "Updating task..."
	msgProgressSubtask = "Creating subtask..."
	msgProgressDelete  = "Deleting task..."
)
