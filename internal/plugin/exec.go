package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	pluginapi "github.com/tjjh89017/readflag/pluginapi"
)

type ExecConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// ExecPlugin runs one command per store call, writing a single JSON
// ExecRequest to its stdin and reading a single ExecResponse from stdout.
type ExecPlugin struct {
	command string
	args    []string
}

func NewExecPlugin(config pluginapi.PluginConfig) (pluginapi.Store, error) {
	var cfg ExecConfig
	if err := decodeConfig(config, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode exec config: %w", err)
	}

	if cfg.Command == "" {
		return nil, fmt.Errorf("command is required for exec plugin")
	}

	return &ExecPlugin{
		command: cfg.Command,
		args:    cfg.Args,
	}, nil
}

func (p *ExecPlugin) Get(ctx context.Context, key string) (string, error) {
	zerolog.Ctx(ctx).Debug().Str("key", key).Msg("get flag from exec plugin")

	response, err := p.call(ctx, pluginapi.ExecRequest{Action: pluginapi.OpGet, Key: key})
	if err != nil {
		return "", err
	}

	if response.Found != nil && !*response.Found {
		return "", pluginapi.ErrKeyNotFound
	}

	return response.Value, nil
}

func (p *ExecPlugin) Set(ctx context.Context, key string, value string) error {
	zerolog.Ctx(ctx).Debug().Str("key", key).Str("value", value).Msg("set flag via exec plugin")

	_, err := p.call(ctx, pluginapi.ExecRequest{Action: pluginapi.OpSet, Key: key, Value: value})
	return err
}

// call runs the command to completion before decoding, so the child is
// always reaped whatever it prints.
func (p *ExecPlugin) call(ctx context.Context, request pluginapi.ExecRequest) (*pluginapi.ExecResponse, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", request.Action, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.command, p.args...)
	cmd.Stdin = bytes.NewReader(append(payload, '\n'))
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	var response pluginapi.ExecResponse
	decodeErr := json.Unmarshal(stdout.Bytes(), &response)

	switch {
	case runErr != nil && decodeErr == nil && response.Error != "":
		return nil, fmt.Errorf("exec plugin %s failed: %w (plugin error: %s)", request.Action, runErr, response.Error)
	case runErr != nil:
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("exec plugin %s failed: %w (stderr: %s)", request.Action, runErr, msg)
		}
		return nil, fmt.Errorf("exec plugin %s failed: %w", request.Action, runErr)
	case decodeErr != nil:
		return nil, fmt.Errorf("failed to decode %s response: %w", request.Action, decodeErr)
	case !response.Success:
		return nil, fmt.Errorf("exec plugin error: %s", response.Error)
	}

	return &response, nil
}
