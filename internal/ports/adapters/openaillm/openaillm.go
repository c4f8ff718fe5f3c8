// Package openaillm proposes viral sub-segments of a transcript via
// an OpenAI-compatible chat completion endpoint.
package openaillm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/vertcut/vertcut/internal/types"
)

const systemPrompt = "You are a viral content producer. You are a master at reading video transcripts " +
	"and identifying the most intriguing content. You have extraordinary skills to extract " +
	"subtopics from content. Your subtopics can be repurposed as separate videos."

const userPromptFormat = `Provided to you is a transcript of a video.
Identify all segments that can be extracted as subtopics from the video based on the transcript.
Make sure each segment is between %d and %d seconds in duration.
Provide extremely accurate timestamps.

Respond with a JSON array only, no markdown, in exactly this shape:
[
  {
    "start_time": 12.5,
    "end_time": 95.0,
    "title": "catchy clip title",
    "description": "detailed description that makes this segment compelling",
    "duration": 82
  }
]

Here is the transcript:
%s`

type Adapter struct {
	client *openai.Client
	model  string

	minSeconds int
	maxSeconds int
}

func New(apiKey, model, baseURL string) *Adapter {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Adapter{
		client:     openai.NewClientWithConfig(cfg),
		model:      model,
		minSeconds: 60,
		maxSeconds: 300,
	}
}

func (a *Adapter) Propose(ctx context.Context, transcriptText string) ([]types.Segment, error) {
	if strings.TrimSpace(transcriptText) == "" {
		return nil, errors.New("empty transcript")
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(userPromptFormat, a.minSeconds, a.maxSeconds, transcriptText)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	raw := stripFences(resp.Choices[0].Message.Content)
	var segs []types.Segment
	if err := json.Unmarshal([]byte(raw), &segs); err != nil {
		return nil, fmt.Errorf("parse segment response: %w", err)
	}

	out := segs[:0]
	for _, s := range segs {
		if s.EndTime <= s.StartTime {
			continue
		}
		if s.Duration == 0 {
			s.Duration = int(s.EndTime - s.StartTime)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

// stripFences removes a markdown code fence the model may wrap the
// JSON in despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
