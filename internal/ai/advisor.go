// Package ai stamps journal entries with sentiment/sarcasm labels and
// generates therapy-style advice through the OpenAI Responses API. The
// analytics engine never depends on this package; entries written without it
// carry neutral defaults.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

// SentimentResult is the classifier output stamped onto each entry.
type SentimentResult struct {
	Sentiment string `json:"sentiment" jsonschema:"enum=positive,enum=neutral,enum=negative,description=Overall sentiment of the journal entry"`
	Sarcasm   string `json:"sarcasm" jsonschema:"enum=sarcastic,enum=not_sarcastic,description=Whether the entry reads as sarcastic"`
}

// Advice is the structured advisor output attached to an entry.
type Advice struct {
	EmotionalSummary string   `json:"emotional_summary" jsonschema:"description=Brief summary of the emotions sensed in the entry"`
	Reflection       string   `json:"reflection" jsonschema:"description=One empathetic paragraph reflecting the writer's mood"`
	Suggestions      []string `json:"suggestions" jsonschema:"description=Three personalized advice points"`
}

const classifierInstructions = `You are a sentiment classifier for personal journal entries.
Label the overall sentiment as positive, neutral or negative, and flag whether
the entry reads as sarcastic. Judge the writer's real state, not the surface
wording.`

const advisorInstructions = `You are a licensed therapist AI assistant analyzing a user's journal entry.
Provide a brief emotional summary of what emotions you sense, one paragraph of
empathetic reflection showing understanding of their mood, and three
personalized therapy-based advice points to help them feel better or grow.`

var sentimentSchema = generateSchema[SentimentResult]()
var adviceSchema = generateSchema[Advice]()

type Advisor struct {
	client *openai.Client
	model  string
}

// NewAdvisor returns nil when no API key is configured; callers treat a nil
// advisor as "stamp defaults, skip advice".
func NewAdvisor(apiKey, model string) *Advisor {
	if apiKey == "" {
		return nil
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Advisor{client: &client, model: model}
}

// AnalyzeEntry classifies the sentiment and sarcasm of a journal entry.
func (a *Advisor) AnalyzeEntry(ctx context.Context, text string) (SentimentResult, error) {
	if a == nil || a.client == nil {
		return SentimentResult{}, errors.New("advisor is not configured")
	}

	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "SentimentResult",
			Schema:      sentimentSchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Sentiment classification JSON"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:           a.model,
		MaxOutputTokens: openai.Int(200),
		Instructions:    openai.String(classifierInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(text, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := callWithRetry(ctx, a.client, params)
	if err != nil {
		return SentimentResult{}, err
	}

	var out SentimentResult
	if err := decodeModelJSON(resp.OutputText(), &out); err != nil {
		return SentimentResult{}, fmt.Errorf("unmarshal sentiment: %w", err)
	}
	out.Sentiment = strings.ToLower(strings.TrimSpace(out.Sentiment))
	out.Sarcasm = strings.ToLower(strings.TrimSpace(out.Sarcasm))
	return out, nil
}

// GenerateAdvice builds the advisor payload for an entry, given the already
// classified sentiment.
func (a *Advisor) GenerateAdvice(ctx context.Context, text, sentiment string) (*Advice, error) {
	if a == nil || a.client == nil {
		return nil, errors.New("advisor is not configured")
	}

	input := fmt.Sprintf("Journal entry:\n%q\n\nSentiment analysis result: %s", text, sentiment)

	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "Advice",
			Schema:      adviceSchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Journal advice JSON"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:           a.model,
		MaxOutputTokens: openai.Int(1000),
		Instructions:    openai.String(advisorInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(input, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := callWithRetry(ctx, a.client, params)
	if err != nil {
		return nil, err
	}

	var out Advice
	if err := decodeModelJSON(resp.OutputText(), &out); err != nil {
		return nil, fmt.Errorf("unmarshal advice: %w", err)
	}
	out.EmotionalSummary = strings.TrimSpace(out.EmotionalSummary)
	out.Reflection = strings.TrimSpace(out.Reflection)
	return &out, nil
}

func callWithRetry(ctx context.Context, client *openai.Client, params responses.ResponseNewParams) (*responses.Response, error) {
	const maxRetries = 3
	waitTimes := []time.Duration{2 * time.Second, 10 * time.Second, 30 * time.Second}

	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err := client.Responses.New(ctx, params)
		if err != nil {
			if isRetryableError(err) && attempt < maxRetries-1 {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(waitTimes[attempt]):
				}
				continue
			}
			return nil, err
		}
		return resp, nil
	}
	return nil, fmt.Errorf("failed after %d attempts due to OpenAI API issues", maxRetries)
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503")
}

// decodeModelJSON unmarshals JSON from a model response, tolerating models
// that wrap the JSON in extra text or whitespace.
func decodeModelJSON(outputText string, v any) error {
	s := strings.TrimSpace(outputText)
	if s == "" {
		return io.ErrUnexpectedEOF
	}

	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return fmt.Errorf("no JSON object found in model output (len=%d)", len(s))
	}

	sub := s[start : end+1]
	if err := json.Unmarshal([]byte(sub), v); err != nil {
		return fmt.Errorf("failed to unmarshal extracted JSON (len=%d): %w", len(sub), err)
	}
	return nil
}

func generateSchema[T any]() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)
	schemaObj, err := schemaToMap(schema)
	if err != nil {
		panic(err)
	}
	ensureOpenAICompliance(schemaObj)
	return schemaObj
}

func schemaToMap(schema *jsonschema.Schema) (map[string]interface{}, error) {
	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

const (
	propertiesKey           = "properties"
	additionalPropertiesKey = "additionalProperties"
	typeKey                 = "type"
	requiredKey             = "required"
	itemsKey                = "items"
)

// ensureOpenAICompliance normalizes a reflected schema to the subset OpenAI
// structured outputs accept: objects forbid additional properties and list
// every property as required.
func ensureOpenAICompliance(schema map[string]interface{}) {
	if schemaType, ok := schema[typeKey].(string); ok && schemaType == "object" {
		schema[additionalPropertiesKey] = false

		if properties, ok := schema[propertiesKey].(map[string]interface{}); ok {
			var requiredFields []string
			for propName := range properties {
				requiredFields = append(requiredFields, propName)
			}
			if len(requiredFields) > 0 {
				schema[requiredKey] = requiredFields
			}
		}
	}

	if properties, ok := schema[propertiesKey].(map[string]interface{}); ok {
		for _, prop := range properties {
			if propMap, ok := prop.(map[string]interface{}); ok {
				ensureOpenAICompliance(propMap)
			}
		}
	}

	if items, ok := schema[itemsKey].(map[string]interface{}); ok {
		ensureOpenAICompliance(items)
	}
}
