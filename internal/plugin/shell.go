package plugin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"
	pluginapi "github.com/tjjh89017/readflag/pluginapi"
)

// ShellNotFoundExitCode is the exit status a shell plugin uses to report
// that a key holds nothing. On a successful get, stdout is the value
// byte for byte, so plugins print it with printf rather than echo.
const ShellNotFoundExitCode = 3

type ShellConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// ShellPlugin feeds READFLAG_ACTION, READFLAG_KEY and READFLAG_VALUE as
// shell assignments on stdin and reads the value back from stdout.
type ShellPlugin struct {
	command string
	args    []string
}

func NewShellPlugin(config pluginapi.PluginConfig) (pluginapi.Store, error) {
	var cfg ShellConfig
	if err := decodeConfig(config, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode shell config: %w", err)
	}

	if cfg.Command == "" {
		return nil, fmt.Errorf("command is required for shell plugin")
	}

	return &ShellPlugin{
		command: cfg.Command,
		args:    cfg.Args,
	}, nil
}

func (p *ShellPlugin) Get(ctx context.Context, key string) (string, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("key", key).Msg("get data from shell plugin")

	stdout, stderr, err := p.executeCommand(ctx, pluginapi.OpGet, key, "")
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == ShellNotFoundExitCode {
			return "", pluginapi.ErrKeyNotFound
		}
		if stderr != "" {
			return "", fmt.Errorf("%w (stderr: %s)", err, stderr)
		}
		return "", err
	}

	if stderr != "" {
		logger.Debug().Str("stderr", stderr).Msg("shell plugin stderr")
	}

	return stdout, nil
}

func (p *ShellPlugin) Set(ctx context.Context, key string, value string) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("key", key).Msg("set data to shell plugin")

	_, stderr, err := p.executeCommand(ctx, pluginapi.OpSet, key, value)
	if err != nil {
		if stderr != "" {
			return fmt.Errorf("%w (stderr: %s)", err, stderr)
		}
		return err
	}

	if stderr != "" {
		logger.Debug().Str("stderr", stderr).Msg("shell plugin stderr")
	}

	return nil
}

func (p *ShellPlugin) executeCommand(ctx context.Context, action, key, value string) (string, string, error) {
	cmd := exec.CommandContext(ctx, p.command, p.args...)

	var stdinBuf bytes.Buffer
	fmt.Fprintf(&stdinBuf, "READFLAG_ACTION=%s\n", action)
	fmt.Fprintf(&stdinBuf, "READFLAG_KEY=%s\n", shellquote.Join(key))
	if action == pluginapi.OpSet {
		fmt.Fprintf(&stdinBuf, "READFLAG_VALUE=%s\n", shellquote.Join(value))
	}

	cmd.Stdin = &stdinBuf

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		return "", strings.TrimSpace(stderrBuf.String()), fmt.Errorf("command execution failed: %w", err)
	}

	return stdoutBuf.String(), strings.TrimSpace(stderrBuf.String()), nil
}
