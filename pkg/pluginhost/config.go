package pluginhost

import (
	"time"

	"github.com/genotrance/plugins/pkg/config"
)

// ManagerConfig is the Manager's own configuration, loaded through the
// same generic TypedConfig[T] the teacher uses for plugin and project
// configuration (pkg/config), here wrapping the plugin host's own tunable
// knobs instead of a CLI plugin's settings.
type ManagerConfig struct {
	// Paths are the directories the Monitor scans for plugin candidates.
	Paths []string `json:"paths" yaml:"paths"`

	// BinaryMode, when true, treats each candidate path as a
	// ready-to-load shared library. When false (the default, "source
	// mode"), each candidate is a source directory the Monitor compiles
	// via CompileCommand before loading.
	BinaryMode bool `json:"binary_mode" yaml:"binary_mode"`

	// CompileCommand is the compiler invocation template used in source
	// mode. {{.Source}} and {{.Output}} are substituted with the source
	// directory and the sidecar .new library path.
	CompileCommand string `json:"compile_command" yaml:"compile_command"`

	// PrePollInterval is how often the Monitor scans paths before the
	// Manager becomes ready.
	PrePollInterval time.Duration `json:"pre_poll_interval" yaml:"pre_poll_interval"`

	// PostPollInterval is how often the Monitor scans paths once the
	// Manager is ready — coarser, since a running host is less likely to
	// be mid-edit on a plugin's source.
	PostPollInterval time.Duration `json:"post_poll_interval" yaml:"post_poll_interval"`

	// ReadyTickGate controls how often Sync drains the Monitor's load
	// queue and retries half-initialized plugins once the host is
	// already ready: every ReadyTickGate-th tick, rather than every
	// tick. Before readiness the drain runs on every Sync regardless, so
	// this has no effect on how quickly the host reaches its own first
	// ready transition — that is driven by the Monitor's own processed
	// set, not by a tick count. Tunable, not a contractual boundary.
	ReadyTickGate int `json:"ready_tick_gate" yaml:"ready_tick_gate"`

	// AllowFile and BlockFile name the (plain, newline-delimited despite
	// their .ini extension by convention) filter files the Monitor
	// consults before compiling or loading a candidate.
	AllowFile string `json:"allow_file" yaml:"allow_file"`
	BlockFile string `json:"block_file" yaml:"block_file"`
}

// DefaultManagerConfig returns the config baseline: source mode, the
// spec's documented 200ms/2s poll intervals, and a 25-tick ready gate.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		BinaryMode:       false,
		CompileCommand:   "go build -buildmode=plugin -o {{.Output}} {{.Source}}",
		PrePollInterval:  200 * time.Millisecond,
		PostPollInterval: 2 * time.Second,
		ReadyTickGate:    25,
		AllowFile:        "allow.ini",
		BlockFile:        "block.ini",
	}
}

// NewManagerConfig wraps ManagerConfig in the generic TypedConfig, so a
// host can load overrides from YAML the same way the teacher loads any
// other plugin's configuration.
func NewManagerConfig() *config.TypedConfig[ManagerConfig] {
	return config.NewTypedConfig("pluginhost", DefaultManagerConfig())
}
