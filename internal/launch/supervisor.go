// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"bakery-cli/internal/container"
)

var (
	// ErrAlreadyStarted is returned when Run is called on a supervisor
	// that already left the Defined state. A Supervisor is single-use.
	ErrAlreadyStarted = errors.New("supervisor already started")

	// ErrStartupTimeout is returned when the application does not answer
	// the readiness probe within the startup window.
	ErrStartupTimeout = errors.New("application did not become ready within the startup window")
)

type (
	// Config holds immutable configuration for a supervised launch.
	Config struct {
		// Image is the image to run.
		Image container.ImageTag
		// ContainerPort is the port the application binds inside the container.
		ContainerPort container.NetworkPort
		// HostPort is the host side of the port mapping. Zero means "same
		// as ContainerPort".
		HostPort container.NetworkPort
		// Name is an optional container name.
		Name string
		// ReadyTimeout is the startup window for the readiness probe
		// (default: 60s).
		ReadyTimeout time.Duration
		// ProbeInterval is the pause between readiness probes (default: 500ms).
		ProbeInterval time.Duration
		// NoWait skips the readiness probe; the supervisor goes straight
		// from Started to waiting for exit.
		NoWait bool
		// Stdout and Stderr receive the application's output. Default to
		// the process's own streams.
		Stdout io.Writer
		Stderr io.Writer
	}

	// ExitStatus describes how a supervised application run ended.
	ExitStatus struct {
		// State is the terminal state (Exited or Crashed).
		State State
		// ExitCode is the process exit code, when one was observed.
		ExitCode int
	}

	// Supervisor runs one application container and tracks its lifecycle.
	// A Supervisor instance is single-use: once terminal, create a new one.
	Supervisor struct {
		cfg    Config
		engine container.Engine
		logger *log.Logger

		// state is atomic for lock-free reads from other goroutines.
		state atomic.Int32
	}
)

// NewSupervisor creates a Supervisor for the given image and engine.
func NewSupervisor(engine container.Engine, cfg Config, logger *log.Logger) *Supervisor {
	if cfg.ReadyTimeout == 0 {
		cfg.ReadyTimeout = 60 * time.Second
	}
	if cfg.ProbeInterval == 0 {
		cfg.ProbeInterval = 500 * time.Millisecond
	}
	if cfg.HostPort == 0 {
		cfg.HostPort = cfg.ContainerPort
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "launch"})
	}

	s := &Supervisor{cfg: cfg, engine: engine, logger: logger}
	s.state.Store(int32(StateDefined))
	return s
}

// State returns the current lifecycle state.
func (s *Supervisor) State() State {
	return State(s.state.Load())
}

// Run starts the container and blocks until it reaches a terminal state.
// The container's port is mapped to the host so the declared network
// surface is reachable; readiness is an HTTP probe against that mapping
// within a bounded startup window.
//
// A crashed application is never restarted here.
func (s *Supervisor) Run(ctx context.Context) (ExitStatus, error) {
	if !s.state.CompareAndSwap(int32(StateDefined), int32(StateStarted)) {
		return ExitStatus{State: s.State()}, fmt.Errorf("%w (state %s)", ErrAlreadyStarted, s.State())
	}

	mapping := container.PortMapping{
		HostPort:      s.cfg.HostPort,
		ContainerPort: s.cfg.ContainerPort,
		Protocol:      container.PortProtocolTCP,
	}

	s.logger.Info("starting application container",
		"image", s.cfg.Image, "port", mapping.String())

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	done := make(chan *container.RunResult, 1)
	go func() {
		res, err := s.engine.Run(runCtx, container.RunOptions{
			Image:  s.cfg.Image,
			Ports:  []container.PortMapping{mapping},
			Remove: true,
			Name:   s.cfg.Name,
			Stdout: s.cfg.Stdout,
			Stderr: s.cfg.Stderr,
		})
		if res == nil {
			res = &container.RunResult{ExitCode: -1, Error: err}
		} else if res.Error == nil {
			res.Error = err
		}
		done <- res
	}()

	if !s.cfg.NoWait {
		if err := s.waitReady(ctx, done); err != nil {
			// The process is still up but unreachable; tear it down.
			cancelRun()
			s.state.Store(int32(StateCrashed))
			<-done
			return ExitStatus{State: StateCrashed, ExitCode: -1}, err
		}
	}

	res := <-done
	return s.finish(res)
}

// waitReady probes the mapped port until the application answers, the
// startup window closes, or the process exits early. An early exit is
// reported through the done channel by finish, not here.
func (s *Supervisor) waitReady(ctx context.Context, done chan *container.RunResult) error {
	url := fmt.Sprintf("http://127.0.0.1:%d/", s.cfg.HostPort)
	deadline := time.NewTimer(s.cfg.ReadyTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(s.cfg.ProbeInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res := <-done:
			// Exited before becoming ready. Hand the result back for finish.
			done <- res
			return nil
		case <-deadline.C:
			return fmt.Errorf("%w (%s)", ErrStartupTimeout, s.cfg.ReadyTimeout)
		case <-tick.C:
			if s.probe(ctx, url) {
				s.state.Store(int32(StateRunning))
				s.logger.Info("application ready", "url", url)
				return nil
			}
		}
	}
}

// probe performs one readiness check. Any HTTP response counts as ready;
// the application owning the socket is what matters, not its status code.
func (s *Supervisor) probe(ctx context.Context, url string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, s.cfg.ProbeInterval)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close() // Probe only; body unused
	return true
}

// finish records the terminal state for a completed run.
func (s *Supervisor) finish(res *container.RunResult) (ExitStatus, error) {
	if res.Error != nil {
		s.state.Store(int32(StateCrashed))
		return ExitStatus{State: StateCrashed, ExitCode: res.ExitCode}, res.Error
	}
	if res.ExitCode != 0 {
		s.state.Store(int32(StateCrashed))
		s.logger.Error("application crashed", "exit_code", res.ExitCode)
		return ExitStatus{State: StateCrashed, ExitCode: res.ExitCode}, nil
	}
	s.state.Store(int32(StateExited))
	s.logger.Info("application exited cleanly")
	return ExitStatus{State: StateExited, ExitCode: 0}, nil
}
