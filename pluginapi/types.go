package pluginapi

// PluginConfig holds backend specific settings
type PluginConfig map[string]interface{}

// PluginDefinition selects a store backend and carries its settings
type PluginDefinition struct {
	Type   string       `mapstructure:"type"`
	Config PluginConfig `mapstructure:",remain"`
}

// Exec Plugin Protocol

const (
	OpSet = "set"
	OpGet = "get"
)

// ExecRequest is the JSON request format for exec plugins
type ExecRequest struct {
	Action string `json:"action"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// ExecResponse is the JSON response format for exec plugins.
// Found is only meaningful for get; a missing field means the key exists.
type ExecResponse struct {
	Success bool   `json:"success"`
	Found   *bool  `json:"found,omitempty"`
	Value   string `json:"value,omitempty"`
	Error   string `json:"error,omitempty"`
}
