package constants

// Application constants - single source of truth for naming throughout the codebase
const (
	// Core application identity
	AppName        = "hookrelay"
	BinaryName     = "hookrelay"
	ProjectTagline = "One event in, one reply out"

	// Module and repository
	ModulePath    = "github.com/klauern/hookrelay"
	RepositoryURL = "https://github.com/klauern/hookrelay"

	// Configuration files
	ConfigFileBase = "hookrelay"
	XDGConfigBase  = "config"
	ConfigEnvVar   = "HOOKRELAY_CONFIG"

	// Log files
	DefaultLogFile = "hookrelay.log"

	// Directory paths
	ClaudeDir   = ".claude"
	HooksSubDir = "hooks"
)

// Event field names shared by producers
const (
	FieldHookEventName = "hook_event_name"
	FieldToolName      = "tool_name"
	FieldToolInput     = "tool_input"
	FieldSessionID     = "session_id"
	FieldCWD           = "cwd"
)

// Tool names used by typed tool-input decoding
const (
	ToolBash  = "Bash"
	ToolEdit  = "Edit"
	ToolWrite = "Write"
	ToolRead  = "Read"
)

// ConfigExtensions lists supported config file extensions in lookup order
var ConfigExtensions = []string{".yml", ".yaml", ".toml"}

// GetDefaultLogDir returns the project-relative log directory
func GetDefaultLogDir() string {
	return ClaudeDir + "/" + HooksSubDir
}
