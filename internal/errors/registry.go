package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Config errors (E1xx)
	"E101": {
		Category: CategoryConfig,
		Message:  "Project configuration not found",
		Detail:   "No vitedge.json was found in the project directory.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid project configuration",
		Detail:   "vitedge.json could not be parsed.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Functions directory not found",
		Detail:   "The configured functions directory does not exist on disk.",
	},

	// Watch errors (E2xx)
	"E201": {
		Category: CategoryWatch,
		Message:  "File watcher failed to start",
	},
	"E202": {
		Category: CategoryWatch,
		Message:  "Route table rebuild failed",
		Detail:   "A filesystem change produced a route set that does not compile. The previous route table is still being served.",
	},

	// Dispatch errors (E3xx)
	"E301": {
		Category: CategoryDispatch,
		Message:  "No function matches the requested route",
		Detail:   "The pathname falls under a function prefix but no route in the table matches it.",
	},
	"E302": {
		Category: CategoryDispatch,
		Message:  "Invalid props payload",
		Detail:   "The JSON payload attached to a props request could not be decoded.",
	},

	// Deploy errors (E4xx)
	"E401": {
		Category: CategoryDeploy,
		Message:  "Deploy target not configured",
		Detail:   "The S3 deploy target is missing or could not be set up.",
	},
	"E402": {
		Category: CategoryDeploy,
		Message:  "Upload failed",
	},
}
