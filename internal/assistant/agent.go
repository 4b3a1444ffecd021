// Package assistant answers admin questions about the pharmacy with Gemini,
// letting the model call read-only tools over the stores.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pharmacy-backoffice/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// maxToolRounds caps how many tool calls one question may trigger.
const maxToolRounds = 5

var ErrNoAnswer = errors.New("assistant returned no answer")

// Agent holds one Gemini client for the life of the server.
type Agent struct {
	client *genai.Client
	model  string
	tools  *Tools
}

func NewAgent(ctx context.Context, apiKey, model string, tools *Tools) (*Agent, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Agent{client: client, model: model, tools: tools}, nil
}

func (a *Agent) Close() error {
	return a.client.Close()
}

func systemPrompt(today string) string {
	return fmt.Sprintf(`Today is %s. You are the back-office assistant of a pharmacy.

RULES:
1. If the user asks about a medicine by NAME, do NOT ask for its ID. Call 'check_inventory' with the name.
2. For PRICE, STOCK, EXPIRY or SUPPLIER questions you MUST call 'check_inventory' and read the result.
3. For restocking or shortages, call 'list_low_stock_alerts'.
4. For sales or revenue, call 'get_sales_report'. Dates are YYYY-MM-DD.
5. For "how many" questions, call 'count_records'.
6. You cannot change any data. Say so if asked.`, today)
}

// Ask sends one question and follows tool calls until the model answers in
// text.
func (a *Agent) Ask(ctx context.Context, message string) (string, error) {
	model := a.client.GenerativeModel(a.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt(a.tools.now().Format(models.DateLayout))))
	model.Tools = []*genai.Tool{{FunctionDeclarations: declarations}}

	session := model.StartChat()
	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", err
	}

	for round := 0; round < maxToolRounds; round++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			return textOf(resp)
		}

		replies := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			out, err := a.tools.Execute(ctx, call)
			if err != nil {
				log.Printf("assistant tool %s failed: %v", call.Name, err)
				out = map[string]any{"error": err.Error()}
			}
			replies = append(replies, genai.FunctionResponse{Name: call.Name, Response: out})
		}

		if resp, err = session.SendMessage(ctx, replies...); err != nil {
			return "", err
		}
	}
	return textOf(resp)
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	var calls []genai.FunctionCall
	for _, part := range parts(resp) {
		if fc, ok := part.(genai.FunctionCall); ok {
			calls = append(calls, fc)
		}
	}
	return calls
}

func textOf(resp *genai.GenerateContentResponse) (string, error) {
	for _, part := range parts(resp) {
		if txt, ok := part.(genai.Text); ok {
			return string(txt), nil
		}
	}
	return "", ErrNoAnswer
}

func parts(resp *genai.GenerateContentResponse) []genai.Part {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	return resp.Candidates[0].Content.Parts
}
