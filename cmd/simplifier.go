package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"data-france/core/geometry"
)

// simplifierProcess runs the external topology simplification service and talks to
// it over its standard streams.
type simplifierProcess struct {
	cmd *exec.Cmd
	*geometry.StreamSimplifier
}

func startSimplifier(ctx context.Context, command string) (*simplifierProcess, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty simplifier command")
	}

	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Stderr = os.Stderr
	stdin, err := c.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := c.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := c.Start(); err != nil {
		return nil, fmt.Errorf("failed to start simplifier %q: %w", argv[0], err)
	}

	return &simplifierProcess{
		cmd:              c,
		StreamSimplifier: geometry.NewStreamSimplifier(stdin, stdout),
	}, nil
}

// Close ends the request stream and waits for the service to exit.
func (p *simplifierProcess) Close() error {
	if err := p.StreamSimplifier.Close(); err != nil {
		return err
	}
	return p.cmd.Wait()
}
