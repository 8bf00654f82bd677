// Package ai talks to the generative model behind the chat assistant and
// assembles the conversation context sent with every prompt.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"google.golang.org/genai"
)

// ErrUnavailable is returned when no model provider is configured.
var ErrUnavailable = errors.New("ai: no model provider configured")

// SystemInstruction scopes the assistant.
const SystemInstruction = `You are Robo, the learning assistant of Robosphere, an online platform for robotics and STEM education.
Help learners with robotics, electronics, microcontrollers (Arduino, ESP32, Raspberry Pi), sensors and actuators,
programming, ROS, 3D printing and the maths and physics behind them, and point them to Robosphere courses, projects
and blog posts where relevant. Explain step by step at the learner's level and prefer safe, practical advice.
Politely decline requests unrelated to robotics, STEM or learning on Robosphere.`

// Generator produces the assistant's reply to a prepared context whose
// last turn is the user's message.
type Generator interface {
	Generate(ctx context.Context, turns []model.ChatMessage) (string, error)
	Model() string
}

// Gemini is a Generator backed by Google's Gemini API.
type Gemini struct {
	client      *genai.Client
	model       string
	maxTokens   int32
	temperature float32
}

// NewGemini creates the client. An empty apiKey yields ErrUnavailable.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrUnavailable
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{
		client:      client,
		model:       modelName,
		maxTokens:   1024,
		temperature: 0.7,
	}, nil
}

func (g *Gemini) Model() string {
	return g.model
}

func (g *Gemini) Generate(ctx context.Context, turns []model.ChatMessage) (string, error) {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		contents = append(contents, genai.NewContentFromText(t.Text, genai.Role(t.Role)))
	}

	temperature := g.temperature
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
		Temperature:       &temperature,
		MaxOutputTokens:   g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		return "", errors.New("GenAI returned an empty reply")
	}
	return reply, nil
}
