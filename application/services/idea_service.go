package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ideavine-backend/application/ports"
	"ideavine-backend/domain/core/valueobjects"
	pkgerrors "ideavine-backend/pkg/errors"
)

const nodesFromTranscriptPrompt = `
Convert the following transcription into a structured mind map. Extract key ideas and organize them hierarchically as a list of nodes.

Input: %s

Output the result as a JSON array of nodes. Each node should have this structure:
{
    "id": "unique_node_id",
    "parents": "parent_node_ids_or_null" (string),
    "children": "children_node_ids_or_null" (string),
    "title": "Node Title",
    "content": "Content"
}

Ensure the output is properly formatted JSON enclosed in triple backticks.
`

const synthesizePrompt = `
Generate one new idea or thought based on the following input. Limit the content to 20 words.

Input: %s

Output a single JSON object with this structure:
{
    "title": "Node Title",
    "content": "Content"
}

Ensure the output is properly formatted JSON enclosed in triple backticks.
`

const essayPrompt = `
Write a structured essay on the following ideas and concepts, connecting similar ones.
Include:
1. An introduction paragraph
2. 2-3 body paragraphs connecting the main ideas
3. A conclusion paragraph

Make logical connections between these concepts:
%s

Output format:
{
    "title": "An overarching title for the analysis",
    "content": "Content of the essay"
}

Ensure the output is properly formatted JSON enclosed in triple backticks.
`

// SketchNode is a node as the model sketches it from a transcription.
// Identifiers are model-invented and only meaningful within the reply;
// parents/children come back as strings or null.
type SketchNode struct {
	ID       string  `json:"id"`
	Parents  *string `json:"parents"`
	Children *string `json:"children"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
}

// IdeaInput is an existing node fed into synthesis or essay writing.
type IdeaInput struct {
	ID       string                `json:"id"`
	Title    string                `json:"title"`
	Content  string                `json:"content"`
	Position valueobjects.Position `json:"position"`
}

// SynthesizedNode is the single idea produced by Synthesize. The
// sentinel id "-1" tells the client the node is not persisted yet; all
// input nodes become parents and the position is their centroid pushed
// down one row.
type SynthesizedNode struct {
	ID       string                `json:"id"`
	Title    string                `json:"title"`
	Content  string                `json:"content"`
	Parents  []string              `json:"parents"`
	Children []string              `json:"children"`
	Position valueobjects.Position `json:"position"`
}

// Essay is the structured writing produced by Write.
type Essay struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// IdeaService runs the AI-assisted flows: turning audio into node
// sketches, synthesizing one idea from many, and expanding nodes into
// an essay. Model output that cannot be parsed surfaces as an upstream
// error, never a panic or a null payload.
type IdeaService struct {
	ai     ports.AIClient
	logger *zap.Logger
}

// NewIdeaService creates an IdeaService.
func NewIdeaService(ai ports.AIClient, logger *zap.Logger) *IdeaService {
	return &IdeaService{ai: ai, logger: logger}
}

// ProcessAudio transcribes the recording and asks the model to sketch
// a node hierarchy from the transcript.
func (s *IdeaService) ProcessAudio(ctx context.Context, audio []byte, filename string) ([]SketchNode, error) {
	transcript, err := s.ai.Transcribe(ctx, audio, filename)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("audio transcribed", zap.Int("transcript_len", len(transcript)))

	raw, err := s.ai.GenerateStructured(ctx, fmt.Sprintf(nodesFromTranscriptPrompt, transcript))
	if err != nil {
		return nil, err
	}

	var sketches []SketchNode
	if err := json.Unmarshal(raw, &sketches); err != nil {
		return nil, pkgerrors.NewUpstreamError("openai", err).
			WithDetail("reason", "reply was not a node array")
	}
	return sketches, nil
}

// Synthesize produces one new idea from the given nodes. Every input
// becomes a parent of the result.
func (s *IdeaService) Synthesize(ctx context.Context, inputs []IdeaInput) (*SynthesizedNode, error) {
	if len(inputs) == 0 {
		return nil, pkgerrors.NewMissingFieldError("nodes")
	}

	raw, err := s.ai.GenerateStructured(ctx, fmt.Sprintf(synthesizePrompt, combineText(inputs)))
	if err != nil {
		return nil, err
	}

	var idea struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(raw, &idea); err != nil {
		return nil, pkgerrors.NewUpstreamError("openai", err).
			WithDetail("reason", "reply was not a title/content object")
	}

	parents := make([]string, 0, len(inputs))
	positions := make([]valueobjects.Position, 0, len(inputs))
	for _, in := range inputs {
		parents = append(parents, in.ID)
		positions = append(positions, in.Position)
	}

	return &SynthesizedNode{
		ID:       "-1",
		Title:    idea.Title,
		Content:  idea.Content,
		Parents:  parents,
		Children: []string{},
		Position: valueobjects.AveragePosition(positions),
	}, nil
}

// Write expands the given nodes into a structured essay.
func (s *IdeaService) Write(ctx context.Context, inputs []IdeaInput) (*Essay, error) {
	if len(inputs) == 0 {
		return nil, pkgerrors.NewMissingFieldError("nodes")
	}

	raw, err := s.ai.GenerateStructured(ctx, fmt.Sprintf(essayPrompt, combineText(inputs)))
	if err != nil {
		return nil, err
	}

	var essay Essay
	if err := json.Unmarshal(raw, &essay); err != nil {
		return nil, pkgerrors.NewUpstreamError("openai", err).
			WithDetail("reason", "reply was not a title/content object")
	}
	return &essay, nil
}

// combineText joins all titles then all contents, the shape the
// prompts were tuned on.
func combineText(inputs []IdeaInput) string {
	parts := make([]string, 0, len(inputs)*2)
	for _, in := range inputs {
		parts = append(parts, in.Title)
	}
	for _, in := range inputs {
		parts = append(parts, in.Content)
	}
	return strings.Join(parts, " ")
}
