package process

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/distribution/reference"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/dsi-platform/dsi/builder"
	"github.com/dsi-platform/dsi/internal/style"
	"github.com/dsi-platform/dsi/logging"
)

const (
	// DefaultTool is the builder creation tool run when none is configured.
	DefaultTool = "pack"
	// ConfigFileName is the name of the persisted builder config inside an app's directory.
	ConfigFileName = "builder.toml"
)

// Process is a started builder creation tool.
type Process struct {
	PID        int
	AppID      int64
	StackID    string
	ConfigPath string
	StartedAt  time.Time

	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr io.ReadCloser

	done     chan struct{}
	exitCode int
}

// Done is closed once the process has exited and its output has been drained.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// ExitCode returns the exit code of the process. It is only meaningful once Done is closed.
func (p *Process) ExitCode() int {
	return p.exitCode
}

type eventKind int

const (
	eventRegister eventKind = iota
	eventAdvance
)

type event struct {
	kind  eventKind
	proc  *Process
	pid   int
	state State
	ack   chan struct{}
}

// Orchestrator persists builder configs, launches the builder creation tool and streams its output.
// It owns a process table whose mutations are applied by a single event loop.
type Orchestrator struct {
	configDir        string
	tool             string
	logger           logging.Logger
	killOnDisconnect bool
	clock            func() time.Time

	table    *Table
	events   chan event
	quit     chan struct{}
	loopDone chan struct{}
	once     sync.Once
}

// Option configures an Orchestrator.
type Option func(o *Orchestrator)

// WithTool sets the builder creation tool to run.
func WithTool(tool string) Option {
	return func(o *Orchestrator) {
		o.tool = tool
	}
}

// WithLogger supply your own logger.
func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// WithKillOnDisconnect kills a process as soon as the reader of its stream is closed or fails, even
// if the process has stopped writing. Without it the output is drained and discarded until the
// process exits on its own.
func WithKillOnDisconnect(kill bool) Option {
	return func(o *Orchestrator) {
		o.killOnDisconnect = kill
	}
}

// WithClock supply your own clock, used for process start times.
func WithClock(clock func() time.Time) Option {
	return func(o *Orchestrator) {
		o.clock = clock
	}
}

// NewOrchestrator creates an Orchestrator persisting builder configs below configDir and starts
// its event loop. Callers must Close it.
func NewOrchestrator(configDir string, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		configDir: configDir,
		tool:      DefaultTool,
		logger:    logging.NewLogWithWriters(io.Discard, io.Discard),
		clock:     time.Now,
		table:     NewTable(),
		events:    make(chan event),
		quit:      make(chan struct{}),
		loopDone:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}

	go o.loop()
	return o
}

func (o *Orchestrator) loop() {
	defer close(o.loopDone)
	for {
		select {
		case ev := <-o.events:
			switch ev.kind {
			case eventRegister:
				o.table.Insert(ev.proc)
			case eventAdvance:
				o.table.Advance(ev.pid, ev.state)
			}
			if ev.ack != nil {
				close(ev.ack)
			}
		case <-o.quit:
			return
		}
	}
}

func (o *Orchestrator) send(ev event) error {
	ev.ack = make(chan struct{})
	select {
	case o.events <- ev:
	case <-o.quit:
		return ErrClosed
	}

	select {
	case <-ev.ack:
		return nil
	case <-o.quit:
		return ErrClosed
	}
}

// Close stops the event loop. Running processes are left alone.
func (o *Orchestrator) Close() error {
	o.once.Do(func() {
		close(o.quit)
	})
	<-o.loopDone
	return nil
}

// ConfigPath returns where the builder config of appID is persisted.
func (o *Orchestrator) ConfigPath(appID int64) string {
	return filepath.Join(o.configDir, strconv.FormatInt(appID, 10), ConfigFileName)
}

// Persist writes cfg to the per app location, replacing any previous document.
func (o *Orchestrator) Persist(cfg builder.Config, appID int64) (string, error) {
	path := o.ConfigPath(appID)
	if err := builder.WriteConfig(path, cfg); err != nil {
		return "", &ConfigWriteError{Path: path, Err: err}
	}

	o.logger.Debugf("Builder config written to %s", style.Symbol(path))
	return path, nil
}

// TargetImage is the name of the builder image created for appID on stackID.
func TargetImage(appID int64, stackID string) string {
	return fmt.Sprintf("%d:%s", appID, stackID)
}

// Launch starts the builder creation tool for appID and stackID without waiting for it.
func (o *Orchestrator) Launch(ctx context.Context, appID int64, stackID, configPath string) (*Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, &SpawnError{Tool: o.tool, Err: err}
	}

	target := TargetImage(appID, stackID)
	if _, err := reference.ParseNormalizedNamed(target); err != nil {
		return nil, &SpawnError{Tool: o.tool, Err: errors.Wrapf(err, "invalid builder image name %s", style.Symbol(target))}
	}

	args := []string{"builder", "create", target, "--config", configPath}
	cmd := exec.Command(o.tool, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Tool: o.tool, Err: errors.Wrap(err, "attaching stdout")}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &SpawnError{Tool: o.tool, Err: errors.Wrap(err, "attaching stderr")}
	}

	o.logger.Debugf("Running %s", style.Symbol(o.tool+" "+strings.Join(args, " ")))
	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Tool: o.tool, Err: err}
	}

	return &Process{
		PID:        cmd.Process.Pid,
		AppID:      appID,
		StackID:    stackID,
		ConfigPath: configPath,
		StartedAt:  o.clock(),
		cmd:        cmd,
		stdout:     stdout,
		stderr:     stderr,
		done:       make(chan struct{}),
	}, nil
}

// RegisterAndStream records p in the process table and returns its combined stdout and stderr.
// Bytes are delivered as the process writes them. The stream ends with io.EOF on a successful
// exit, and with an *ExitError or *IOError otherwise. When p cannot be registered it is killed
// and reaped, and a *SpawnError is returned.
func (o *Orchestrator) RegisterAndStream(p *Process) (io.ReadCloser, error) {
	if err := o.send(event{kind: eventRegister, proc: p}); err != nil {
		o.abandon(p)
		return nil, &SpawnError{Tool: o.tool, Err: errors.Wrapf(err, "registering process %d", p.PID)}
	}

	disconnect := sync.OnceFunc(func() {
		o.logger.Debugf("Reader of process %d went away", p.PID)
		if o.killOnDisconnect {
			o.logger.Debugf("Killing process %d", p.PID)
			_ = p.cmd.Process.Kill()
		}
	})

	pr, pw := io.Pipe()
	go o.pump(p, pw, disconnect)

	if err := o.send(event{kind: eventAdvance, pid: p.PID, state: StateStreaming}); err != nil {
		pr.Close()
		_ = p.cmd.Process.Kill()
		return nil, &SpawnError{Tool: o.tool, Err: errors.Wrapf(err, "registering process %d", p.PID)}
	}
	return &stream{PipeReader: pr, proc: p, onClose: disconnect}, nil
}

// abandon kills a process nobody will read from and waits for it in the background.
func (o *Orchestrator) abandon(p *Process) {
	o.logger.Debugf("Killing unregistered process %d", p.PID)
	_ = p.cmd.Process.Kill()
	go func() {
		defer close(p.done)
		_ = p.cmd.Wait()
		p.exitCode = -1
		if p.cmd.ProcessState != nil {
			p.exitCode = p.cmd.ProcessState.ExitCode()
		}
	}()
}

// Processes lists the registered processes that have not exited.
func (o *Orchestrator) Processes() []Snapshot {
	return o.table.Snapshot()
}

func (o *Orchestrator) pump(p *Process, pw *io.PipeWriter, disconnect func()) {
	defer close(p.done)

	out := &detachableWriter{w: pw, onDetach: disconnect}

	var (
		copied int64
		g      errgroup.Group
	)
	for name, src := range map[string]io.Reader{"stdout": p.stdout, "stderr": p.stderr} {
		name, src := name, src
		g.Go(func() error {
			n, err := io.Copy(out, src)
			atomic.AddInt64(&copied, n)
			return errors.Wrapf(err, "reading %s", name)
		})
	}
	copyErr := g.Wait()
	waitErr := p.cmd.Wait()

	p.exitCode = -1
	if p.cmd.ProcessState != nil {
		p.exitCode = p.cmd.ProcessState.ExitCode()
	}

	if err := o.send(event{kind: eventAdvance, pid: p.PID, state: StateExited}); err != nil {
		o.logger.Debugf("Process %d exited after close", p.PID)
	}
	o.logger.Debugf("Process %d exited with code %d after streaming %s", p.PID, p.exitCode, humanize.Bytes(uint64(atomic.LoadInt64(&copied))))

	var exitErr *exec.ExitError
	switch {
	case copyErr != nil:
		pw.CloseWithError(&IOError{PID: p.PID, Err: copyErr})
	case errors.As(waitErr, &exitErr):
		pw.CloseWithError(&ExitError{PID: p.PID, Code: exitErr.ExitCode()})
	case waitErr != nil:
		pw.CloseWithError(&IOError{PID: p.PID, Err: waitErr})
	default:
		pw.Close()
	}
}

// stream is the reading end handed to consumers. Closing it before the output has ended counts as
// a disconnect.
type stream struct {
	*io.PipeReader
	proc    *Process
	onClose func()
	ended   atomic.Bool
}

func (s *stream) Read(b []byte) (int, error) {
	n, err := s.PipeReader.Read(b)
	if err != nil {
		s.ended.Store(true)
	}
	return n, err
}

func (s *stream) Close() error {
	err := s.PipeReader.Close()
	if s.ended.Load() {
		return err
	}
	select {
	case <-s.proc.done:
	default:
		s.onClose()
	}
	return err
}

// detachableWriter forwards writes until the destination fails once, then discards them.
type detachableWriter struct {
	w        io.Writer
	detached atomic.Bool
	once     sync.Once
	onDetach func()
}

func (d *detachableWriter) Write(p []byte) (int, error) {
	if d.detached.Load() {
		return len(p), nil
	}
	if _, err := d.w.Write(p); err != nil {
		d.once.Do(func() {
			d.detached.Store(true)
			d.onDetach()
		})
	}
	return len(p), nil
}
