package transcribe

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sagarshah-16/fetch-transcribe/internal/engine"
)

// OpenAI transcribes through the hosted Whisper API. Verbose JSON output is
// requested so segment timings and the detected language come back too.
type OpenAI struct {
	client *openai.Client
}

func NewOpenAI(apiKey string) *OpenAI {
	return &OpenAI{client: openai.NewClient(apiKey)}
}

func (*OpenAI) Name() string { return "openai" }

func (o *OpenAI) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, transcribeTimeout())
	defer cancel()

	resp, err := engine.RetryDo(ctx, engine.DefaultRetryConfig, func() (openai.AudioResponse, error) {
		return o.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    openai.Whisper1,
			FilePath: audioPath,
			Format:   openai.AudioResponseFormatVerboseJSON,
		})
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("openai transcription: %w", ctxErr)
		}
		return nil, fmt.Errorf("openai transcription: %w", err)
	}

	res := &Result{Text: resp.Text, Language: resp.Language}
	for _, seg := range resp.Segments {
		res.Segments = append(res.Segments, Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}
	return res, nil
}
