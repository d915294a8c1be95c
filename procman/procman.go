// Package procman starts, observes, and terminates the external programs exercised by
// the smoke tests. Each program is treated as opaque: the harness sees only its
// captured standard streams and controls only its lifecycle.
package procman

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"sync"
	"syscall"
	"time"

	"github.com/alessio/shellescape"

	"github.com/sensorstreamkit/pubsub-smoke-tests/framework"
)

const maxLineLength = 1024 * 1024

// Program describes an external executable to be launched. If ReadyPattern is set,
// the process is considered ready once a stdout line matches it; otherwise the caller
// falls back to a fixed startup delay.
type Program struct {
	Name         string
	Path         string
	Args         []string
	ReadyPattern *regexp.Regexp
}

func (p Program) commandLine() string {
	return shellescape.QuoteCommand(append([]string{p.Path}, p.Args...))
}

// Output is the full captured text of a process's standard streams.
type Output struct {
	Stdout string
	Stderr string
}

// Process is a single managed process instance. It is started exactly once by Start
// and terminated exactly once by Stop; both streams are captured from the moment of
// launch without blocking the caller.
type Process struct {
	program Program
	cmd     *exec.Cmd
	logger  framework.Logger

	stdout lineBuffer
	stderr lineBuffer

	ready     chan struct{}
	readyOnce sync.Once

	done    chan struct{}
	waitErr error

	stopOnce sync.Once
}

// Start launches the program with both standard streams captured. The returned
// Process is already running; no stdin is provided. A launch failure (missing
// executable, permission error) is reported immediately rather than surfacing later
// as a verdict failure.
func Start(program Program, logger framework.Logger) (*Process, error) {
	if logger == nil {
		logger = framework.NullLogger()
	}

	cmd := exec.Command(program.Path, program.Args...)
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("capturing stdout of %s: %w", program.Name, err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("capturing stderr of %s: %w", program.Name, err)
	}

	p := &Process{
		program: program,
		cmd:     cmd,
		logger:  logger,
		ready:   make(chan struct{}),
		done:    make(chan struct{}),
	}

	logger.Printf("launching %s: %s", program.Name, program.commandLine())
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("launching %s (%s): %w", program.Name, program.commandLine(), err)
	}

	var pumps sync.WaitGroup
	pumps.Add(2)
	go p.pump(stdoutPipe, &p.stdout, "stdout", program.ReadyPattern, &pumps)
	go p.pump(stderrPipe, &p.stderr, "stderr", nil, &pumps)
	go func() {
		pumps.Wait()
		p.waitErr = cmd.Wait()
		close(p.done)
	}()

	return p, nil
}

func (p *Process) pump(r io.Reader, buf *lineBuffer, streamName string, readyPattern *regexp.Regexp, pumps *sync.WaitGroup) {
	defer pumps.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		line := scanner.Text()
		buf.append(line)
		p.logger.Printf("%s %s: %s", p.program.Name, streamName, line)
		if readyPattern != nil && readyPattern.MatchString(line) {
			p.readyOnce.Do(func() { close(p.ready) })
		}
	}
}

// AwaitReady blocks until the process has printed a stdout line matching its ready
// pattern, it exits, or the timeout elapses. Programs without a ready pattern must be
// synchronized by the caller with a fixed delay instead.
func (p *Process) AwaitReady(timeout time.Duration) error {
	if p.program.ReadyPattern == nil {
		return fmt.Errorf("%s has no ready pattern configured", p.program.Name)
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-p.ready:
		p.logger.Printf("%s is ready", p.program.Name)
		return nil
	case <-p.done:
		return fmt.Errorf("%s exited before becoming ready (%s)", p.program.Name, exitDescription(p.waitErr))
	case <-timer.C:
		return fmt.Errorf("timed out after %s waiting for %s to print a line matching %q",
			timeout, p.program.Name, p.program.ReadyPattern)
	}
}

// Stop requests termination and escalates: SIGTERM first, then SIGKILL if the process
// has not exited within the grace period. It blocks until the process has exited and
// both streams are fully drained. Stop is idempotent, so cleanup paths may call it
// even when the scenario already stopped the process.
func (p *Process) Stop(grace time.Duration) {
	p.stopOnce.Do(func() {
		select {
		case <-p.done:
			return
		default:
		}
		p.logger.Printf("sending SIGTERM to %s", p.program.Name)
		if err := p.cmd.Process.Signal(syscall.SIGTERM); err != nil {
			p.logger.Printf("SIGTERM to %s failed (%s); killing", p.program.Name, err)
			_ = p.cmd.Process.Kill()
			<-p.done
			return
		}
		timer := time.NewTimer(grace)
		defer timer.Stop()
		select {
		case <-p.done:
		case <-timer.C:
			p.logger.Printf("%s did not exit within %s; killing", p.program.Name, grace)
			_ = p.cmd.Process.Kill()
			<-p.done
		}
	})
}

// ErrCollectTimeout indicates the process had not exited when Collect gave up; the
// partial output captured so far is still returned.
var ErrCollectTimeout = errors.New("timed out waiting for process output")

// Collect blocks until the process has exited and its streams are closed, then
// returns everything it wrote. The wait is bounded so that a hung process cannot
// hang the harness.
func (p *Process) Collect(timeout time.Duration) (Output, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-p.done:
		return p.output(), nil
	case <-timer.C:
		return p.output(), fmt.Errorf("%w: %s after %s", ErrCollectTimeout, p.program.Name, timeout)
	}
}

func (p *Process) output() Output {
	return Output{Stdout: p.stdout.String(), Stderr: p.stderr.String()}
}

func exitDescription(waitErr error) string {
	if waitErr == nil {
		return "exit status 0"
	}
	return waitErr.Error()
}

type lineBuffer struct {
	lock  sync.Mutex
	lines []string
}

func (b *lineBuffer) append(line string) {
	b.lock.Lock()
	b.lines = append(b.lines, line)
	b.lock.Unlock()
}

func (b *lineBuffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	if len(b.lines) == 0 {
		return ""
	}
	var sb []byte
	for _, line := range b.lines {
		sb = append(sb, line...)
		sb = append(sb, '\n')
	}
	return string(sb)
}
