package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/talkease/internal/command"
)

// Config controls how an utterance is recorded
type Config struct {
	RecorderPath     string
	SampleRate       int
	Calibration      time.Duration
	Pause            time.Duration
	EnergyRatio      float64
	MinThreshold     float64 // percent of full scale
	ListenTimeout    time.Duration
	RecognizeTimeout time.Duration
}

// Capturer records one silence-bounded utterance from the default input and recognizes it
type Capturer struct {
	cfg        Config
	recognizer Recognizer
	runner     command.Runner
	logger     *slog.Logger
}

// New creates a Capturer. A nil recognizer makes every capture fail as ServiceUnavailable.
func New(cfg Config, recognizer Recognizer, runner command.Runner, logger *slog.Logger) *Capturer {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = command.ExecRunner{}
	}
	if cfg.RecorderPath == "" {
		cfg.RecorderPath = "rec"
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Pause <= 0 {
		cfg.Pause = 800 * time.Millisecond
	}
	if cfg.EnergyRatio <= 0 {
		cfg.EnergyRatio = 1.5
	}
	if cfg.ListenTimeout <= 0 {
		cfg.ListenTimeout = 15 * time.Second
	}
	if cfg.RecognizeTimeout <= 0 {
		cfg.RecognizeTimeout = 30 * time.Second
	}
	return &Capturer{cfg: cfg, recognizer: recognizer, runner: runner, logger: logger}
}

// CaptureUtterance blocks until one utterance has been recorded and recognized
func (c *Capturer) CaptureUtterance(ctx context.Context) (string, error) {
	if c.recognizer == nil {
		return "", &Error{Kind: KindServiceUnavailable, Cause: errors.New("no speech recognizer configured")}
	}

	threshold, err := c.calibrate(ctx)
	if err != nil {
		return "", err
	}

	pcm, err := c.record(ctx, threshold)
	if err != nil {
		return "", err
	}
	if len(pcm) == 0 {
		return "", &Error{Kind: KindUnintelligible, Cause: errors.New("no audio captured")}
	}

	return c.recognize(ctx, wavEncode(pcm, c.cfg.SampleRate))
}

// calibrate samples ambient noise and returns the silence threshold in percent
func (c *Capturer) calibrate(ctx context.Context) (float64, error) {
	if c.cfg.Calibration <= 0 {
		return c.cfg.MinThreshold, nil
	}

	calCtx, cancel := context.WithTimeout(ctx, c.cfg.Calibration+5*time.Second)
	defer cancel()

	args := append(c.rawArgs(), "trim", "0", seconds(c.cfg.Calibration))
	pcm, stderr, err := c.runner.Run(calCtx, nil, c.cfg.RecorderPath, args...)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, &Error{Kind: KindDeviceUnavailable, Cause: recorderError(err, stderr)}
	}

	ambient := rmsPercent(pcm)
	threshold := math.Max(c.cfg.MinThreshold, ambient*c.cfg.EnergyRatio)
	c.logger.Debug("Calibrated ambient noise", "rms_percent", ambient, "threshold_percent", threshold)
	return threshold, nil
}

// record captures audio starting at the first sound above threshold and ending after a pause
func (c *Capturer) record(ctx context.Context, threshold float64) ([]byte, error) {
	listenCtx, cancel := context.WithTimeout(ctx, c.cfg.ListenTimeout)
	defer cancel()

	level := strconv.FormatFloat(threshold, 'f', 2, 64) + "%"
	args := append(c.rawArgs(),
		"silence", "1", "0.1", level, "1", seconds(c.cfg.Pause), level,
	)

	start := time.Now()
	pcm, stderr, err := c.runner.Run(listenCtx, nil, c.cfg.RecorderPath, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(listenCtx.Err(), context.DeadlineExceeded) {
			// rec only writes once sound crosses the threshold, so output here means speech was cut off
			if len(pcm) > 0 {
				c.logger.Warn("Utterance exceeded listen timeout, recognizing captured audio", "timeout", c.cfg.ListenTimeout, "bytes", len(pcm))
				return pcm, nil
			}
			return nil, &Error{Kind: KindUnintelligible, Cause: fmt.Errorf("%w within %s", ErrNoUtterance, c.cfg.ListenTimeout)}
		}
		return nil, &Error{Kind: KindDeviceUnavailable, Cause: recorderError(err, stderr)}
	}

	c.logger.Info("Captured utterance", "bytes", len(pcm), "duration_ms", time.Since(start).Milliseconds())
	return pcm, nil
}

func (c *Capturer) recognize(ctx context.Context, wav []byte) (string, error) {
	recCtx, cancel := context.WithTimeout(ctx, c.cfg.RecognizeTimeout)
	defer cancel()

	text, err := c.recognizer.Recognize(recCtx, wav)
	if err != nil {
		if errors.Is(err, ErrNoSpeech) {
			return "", &Error{Kind: KindUnintelligible, Cause: err}
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		c.logger.Error("Speech recognition failed", "err", err)
		return "", &Error{Kind: KindServiceUnavailable, Cause: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", &Error{Kind: KindUnintelligible, Cause: ErrNoSpeech}
	}
	return text, nil
}

// rawArgs makes rec write headerless signed 16-bit mono PCM to stdout
func (c *Capturer) rawArgs() []string {
	return []string{
		"-q",
		"-t", "raw",
		"-r", strconv.Itoa(c.cfg.SampleRate),
		"-b", strconv.Itoa(bitsPerSample),
		"-c", "1",
		"-e", "signed-integer",
		"-",
	}
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 2, 64)
}

func recorderError(err error, stderr []byte) error {
	if msg := strings.TrimSpace(string(stderr)); msg != "" {
		return fmt.Errorf("failed to record audio: %w: %s", err, command.Truncate(msg, 512))
	}
	return fmt.Errorf("failed to record audio: %w", err)
}
