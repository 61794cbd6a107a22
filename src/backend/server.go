package backend

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"dcd-complete/src/internal/common"
	"dcd-complete/src/internal/constants"
	"dcd-complete/src/internal/errors"
)

// ServerProcess holds information about a running dcd-server
type ServerProcess struct {
	Cmd    *exec.Cmd
	Stdout io.ReadCloser
	Stderr io.ReadCloser
	done   chan struct{}
	err    error
}

// Done is closed once the process has exited
func (p *ServerProcess) Done() <-chan struct{} {
	return p.done
}

// Err returns the exit error after Done is closed
func (p *ServerProcess) Err() error {
	return p.err
}

// ServerManager owns the optional long-running dcd-server. It is started once
// and stopped when the host shuts down.
type ServerManager struct {
	mu       sync.Mutex
	binary   string
	args     []string
	proc     *ServerProcess
	stopping bool
	timeout  time.Duration
}

// NewServerManager creates a manager for the resolved dcd-server binary
func NewServerManager(binary string, importPaths []string) *ServerManager {
	args := make([]string, 0, len(importPaths))
	for _, dir := range importPaths {
		args = append(args, constants.ImportFlagPrefix+dir)
	}
	return &ServerManager{
		binary:  binary,
		args:    args,
		timeout: constants.ProcessShutdownTimeout,
	}
}

// Args returns the server argument list
func (m *ServerManager) Args() []string {
	return m.args
}

// Running reports whether the server process is alive
func (m *ServerManager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.proc == nil {
		return false
	}
	select {
	case <-m.proc.done:
		return false
	default:
		return true
	}
}

// Start launches dcd-server unless it is already running
func (m *ServerManager) Start() (*ServerProcess, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.proc != nil {
		select {
		case <-m.proc.done:
		default:
			return m.proc, nil
		}
	}

	cmd := exec.Command(m.binary, m.args...)
	detach(cmd)

	proc := &ServerProcess{
		Cmd:  cmd,
		done: make(chan struct{}),
	}

	var err error
	proc.Stdout, err = cmd.StdoutPipe()
	if err != nil {
		return nil, errors.NewProcessError(m.binary, "start", fmt.Errorf("failed to create stdout pipe: %w", err))
	}
	proc.Stderr, err = cmd.StderrPipe()
	if err != nil {
		proc.Stdout.Close()
		return nil, errors.NewProcessError(m.binary, "start", fmt.Errorf("failed to create stderr pipe: %w", err))
	}

	if err := cmd.Start(); err != nil {
		proc.Stdout.Close()
		proc.Stderr.Close()
		return nil, errors.NewProcessError(m.binary, "start", err)
	}

	common.BackendLogger.Info("Started %s: PID %d", m.binary, cmd.Process.Pid)

	var pipes sync.WaitGroup
	pipes.Add(2)
	go forwardOutput(&pipes, proc.Stdout)
	go forwardOutput(&pipes, proc.Stderr)
	go m.monitor(proc, &pipes)

	m.proc = proc
	m.stopping = false
	return proc, nil
}

// Stop terminates the server, force killing it after the shutdown timeout
func (m *ServerManager) Stop() error {
	m.mu.Lock()
	proc := m.proc
	m.stopping = true
	m.mu.Unlock()

	if proc == nil || proc.Cmd.Process == nil {
		return nil
	}

	select {
	case <-proc.done:
		return nil
	default:
	}

	if err := terminate(proc.Cmd.Process); err != nil {
		common.BackendLogger.Debug("Failed to signal %s: %v", m.binary, err)
	}

	select {
	case <-proc.done:
	case <-time.After(m.timeout):
		common.BackendLogger.Warn("%s did not exit within %v, force killing", m.binary, m.timeout)
		if err := forceKill(proc.Cmd.Process); err != nil {
			common.BackendLogger.Debug("Failed to kill %s: %v", m.binary, err)
		}
		<-proc.done
	}
	return nil
}

// monitor waits for the process and reports how it ended
func (m *ServerManager) monitor(proc *ServerProcess, pipes *sync.WaitGroup) {
	// pipes must be drained before Wait closes them
	pipes.Wait()
	err := proc.Cmd.Wait()

	m.mu.Lock()
	intentional := m.stopping
	m.mu.Unlock()

	switch {
	case err != nil && !intentional:
		common.BackendLogger.Error("%s exited unexpectedly: %v", m.binary, err)
	case err != nil:
		common.BackendLogger.Debug("%s stopped: %v", m.binary, err)
	default:
		common.BackendLogger.Info("%s exited normally", m.binary)
	}

	proc.err = err
	close(proc.done)
}

func forwardOutput(wg *sync.WaitGroup, r io.Reader) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		common.BackendLogger.Debug("server: %s", scanner.Text())
	}
	_, _ = io.Copy(io.Discard, r)
}
