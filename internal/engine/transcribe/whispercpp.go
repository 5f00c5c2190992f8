package transcribe

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/sagarshah-16/fetch-transcribe/internal/engine"
	"github.com/sagarshah-16/fetch-transcribe/internal/engine/media"
)

// WhisperCpp runs a local whisper.cpp binary. The audio is first resampled to
// 16 kHz mono pcm_s16le, which is the only input whisper.cpp accepts.
type WhisperCpp struct{}

func (*WhisperCpp) Name() string { return "whispercpp" }

// Transcribe converts audioPath to a 16 kHz wav, runs whisper with CSV
// output, and parses the rows into a Result. The intermediate wav and csv
// are removed before returning, success or not.
func (w *WhisperCpp) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, transcribeTimeout())
	defer cancel()

	wavPath := audioPath + ".16k.wav"
	defer media.Remove(wavPath)

	slog.Info("converting audio to 16 kHz", slog.String("path", audioPath))
	cmd := exec.CommandContext(ctx, ffmpegBin(),
		"-i", audioPath,
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"--", wavPath,
	)
	if _, err := media.RunCommand(cmd); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("convert audio: %w", ctxErr)
		}
		return nil, fmt.Errorf("convert audio: %w", err)
	}

	// whisper.cpp writes <input>.csv next to the input with -ocsv.
	csvPath := wavPath + ".csv"
	defer media.Remove(csvPath)

	slog.Info("running whisper", slog.String("model", engine.Cfg.WhisperModel))
	cmd = exec.CommandContext(ctx, whisperBin(),
		"-m", engine.Cfg.WhisperModel,
		"-f", wavPath,
		"-ocsv",
		"-t", strconv.Itoa(whisperThreads()),
	)
	if _, err := media.RunCommand(cmd); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("run whisper: %w", ctxErr)
		}
		return nil, fmt.Errorf("run whisper: %w", err)
	}

	fh, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open whisper output: %w", err)
	}
	defer fh.Close()

	res, err := parseWhisperCSV(fh)
	if err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}
	return res, nil
}

// parseWhisperCSV reads whisper.cpp -ocsv rows: start_ms, end_ms, text, with
// one header row to skip.
func parseWhisperCSV(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = 3
	cr.LazyQuotes = true

	// Read and discard header row.
	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty transcript")
		}
		return nil, fmt.Errorf("read header row: %w", err)
	}

	var (
		segments []Segment
		text     strings.Builder
	)
	for {
		row, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row: %w", err)
		}

		startMs, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("start ms %q: %w", row[0], err)
		}
		endMs, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("end ms %q: %w", row[1], err)
		}
		line := strings.TrimSpace(row[2])
		if line == "" {
			continue
		}

		segments = append(segments, Segment{
			Start: float64(startMs) / 1000,
			End:   float64(endMs) / 1000,
			Text:  line,
		})
		if text.Len() > 0 {
			text.WriteByte(' ')
		}
		text.WriteString(line)
	}

	if len(segments) == 0 {
		return nil, errors.New("empty transcript")
	}
	return &Result{Text: text.String(), Segments: segments}, nil
}

func ffmpegBin() string {
	if engine.Cfg.FfmpegBin != "" {
		return engine.Cfg.FfmpegBin
	}
	return "ffmpeg"
}

func whisperBin() string {
	if engine.Cfg.WhisperBin != "" {
		return engine.Cfg.WhisperBin
	}
	return "whisper.cpp/main"
}

func whisperThreads() int {
	if engine.Cfg.WhisperThreads > 0 {
		return engine.Cfg.WhisperThreads
	}
	return 4
}

func transcribeTimeout() time.Duration {
	if engine.Cfg.TranscribeTimeout > 0 {
		return engine.Cfg.TranscribeTimeout
	}
	return 10 * time.Minute
}
