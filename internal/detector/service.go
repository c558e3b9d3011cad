package detector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ServiceDetector implements Detector on top of an external landmark
// service process. The service owns the camera and the vision model and
// writes one NDJSON frame per line on stdout.
type ServiceDetector struct {
	config    Config
	logger    *zap.Logger
	script    string
	cmd       *exec.Cmd
	frames    chan serviceResult
	stop      chan struct{} // closed to release the reader
	readDone  chan struct{} // closed when the reader has returned
	mu        sync.Mutex
	started   bool
	closed    bool
	epoch     time.Time
	idleTimer *time.Timer
}

// stopGrace is how long the service gets to exit after an interrupt
// before it is killed.
var stopGrace = 3 * time.Second

type serviceResult struct {
	frame Frame
	err   error
}

// NewServiceDetector creates a new service-backed detector.
// The service process is started lazily on the first call to Next.
func NewServiceDetector(config Config, logger *zap.Logger) (*ServiceDetector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	scriptPath := config.Script
	if scriptPath == "" {
		scriptPath = findServiceScript()
	}
	if scriptPath == "" {
		return nil, fmt.Errorf("landmark_service.py not found")
	}

	return &ServiceDetector{
		config: config,
		logger: logger,
		script: scriptPath,
	}, nil
}

// Next returns the next frame produced by the service.
func (d *ServiceDetector) Next(ctx context.Context) (Frame, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return Frame{}, ErrSourceClosed
	}
	if err := d.ensureStarted(); err != nil {
		d.mu.Unlock()
		return Frame{}, err
	}
	frames := d.frames
	d.resetIdleTimer()
	d.mu.Unlock()

	select {
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	case res, ok := <-frames:
		if !ok {
			return Frame{}, io.EOF
		}
		if res.err != nil {
			return Frame{}, res.err
		}
		res.frame.Hands = d.config.filterHands(res.frame.Hands)
		return res.frame, nil
	}
}

// Close shuts down the service process.
func (d *ServiceDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return d.shutdown()
}

func (d *ServiceDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	pythonPath := d.config.Python
	if pythonPath == "" {
		pythonPath = findVenvPython()
	}
	if pythonPath == "" {
		pythonPath = "python3"
	}

	args := []string{d.script,
		"--max-hands", fmt.Sprint(d.config.MaxHands),
		"--camera", fmt.Sprint(d.config.Camera),
	}
	d.cmd = exec.Command(pythonPath, args...)

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start landmark service: %w", err)
	}

	d.frames = make(chan serviceResult, 4)
	d.stop = make(chan struct{})
	d.readDone = make(chan struct{})
	d.started = true
	d.epoch = time.Now()
	go d.readLoop(stdout, d.frames, d.stop, d.readDone, d.epoch)

	d.logger.Info("landmark service started",
		zap.String("python", pythonPath),
		zap.String("script", d.script))
	return nil
}

// readLoop decodes service output until the pipe closes or stop is
// closed. Undecodable lines are logged and skipped.
func (d *ServiceDetector) readLoop(r io.Reader, out chan<- serviceResult, stop <-chan struct{}, done chan<- struct{}, epoch time.Time) {
	defer close(done)
	defer close(out)

	send := func(res serviceResult) bool {
		select {
		case out <- res:
			return true
		case <-stop:
			return false
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		frame, err := DecodeFrame(scanner.Bytes())
		if err != nil {
			d.logger.Warn("skipping malformed service line", zap.Error(err))
			continue
		}
		if frame.Timestamp == 0 {
			frame.Timestamp = time.Since(epoch).Seconds()
		}
		if !send(serviceResult{frame: frame}) {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		send(serviceResult{err: fmt.Errorf("read service output: %w", err)})
	}
}

func (d *ServiceDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	close(d.stop)
	if d.cmd.Process != nil {
		d.cmd.Process.Signal(os.Interrupt)
	}

	deadline := time.NewTimer(stopGrace)
	defer deadline.Stop()
	killed := false
	kill := func() {
		if !killed {
			killed = true
			d.logger.Warn("landmark service ignored interrupt, killing")
			d.cmd.Process.Kill()
		}
	}

	// Wait closes the stdout pipe, so the reader must be finished first.
	select {
	case <-d.readDone:
	case <-deadline.C:
		kill()
		<-d.readDone
	}

	waited := make(chan error, 1)
	go func() { waited <- d.cmd.Wait() }()
	var err error
	select {
	case err = <-waited:
	case <-deadline.C:
		kill()
		err = <-waited
	}

	// Exiting on our signal is the expected outcome.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		err = nil
	}
	d.started = false
	d.cmd = nil
	d.logger.Info("landmark service stopped")

	return err
}

func (d *ServiceDetector) resetIdleTimer() {
	if d.config.IdleShutdown <= 0 {
		return
	}
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(d.config.IdleShutdown, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.shutdown()
	})
}

func findServiceScript() string {
	// Get executable directory
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/landmark_service.py",
		"../scripts/landmark_service.py",
		filepath.Join(execDir, "scripts/landmark_service.py"),
		filepath.Join(os.Getenv("HOME"), ".mudra/scripts/landmark_service.py"),
	}

	return firstExisting(candidates)
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".mudra/venv/bin/python"),
	}

	return firstExisting(candidates)
}

func firstExisting(candidates []string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}
