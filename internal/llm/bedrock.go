package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

const anthropicVersion = "bedrock-2023-05-31"

// bedrockAPI is the subset of the Bedrock runtime used here
type bedrockAPI interface {
	InvokeModel(ctx context.Context, in *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
	InvokeModelWithResponseStream(ctx context.Context, in *bedrockruntime.InvokeModelWithResponseStreamInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelWithResponseStreamOutput, error)
}

// BedrockClient implements Client for Anthropic Claude models on AWS Bedrock
type BedrockClient struct {
	api    bedrockAPI
	config *Config
}

// Claude API request format (what Bedrock expects)
type claudeMessageRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	Temperature      float32         `json:"temperature,omitempty"`
	System           string          `json:"system,omitempty"`
	Messages         []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Claude API response format (what Bedrock returns)
type claudeMessageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// claudeStreamChunk covers the event payloads that carry text
type claudeStreamChunk struct {
	Type  string `json:"type"`
	Delta struct {
		Text string `json:"text"`
	} `json:"delta"`
	ContentBlock struct {
		Text string `json:"text"`
	} `json:"content_block"`
}

// NewBedrockClient creates a Bedrock client from the default AWS credential chain
func NewBedrockClient(ctx context.Context, config *Config) (*BedrockClient, error) {
	if config.Region == "" {
		return nil, fmt.Errorf("bedrock: AWS region is required: %w", ErrMissingCredentials)
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.Region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &BedrockClient{
		api:    bedrockruntime.NewFromConfig(cfg),
		config: config,
	}, nil
}

func (c *BedrockClient) request(tier ModelTier, system string, history []Message, prompt string) (string, []byte, error) {
	modelID := c.config.GetModel(tier)
	if modelID == "" {
		return "", nil, fmt.Errorf("no model configured for tier %s", tier)
	}

	maxTokens := c.config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	messages := make([]claudeMessage, 0, len(history)+1)
	for _, m := range trimLeadingModelTurns(history) {
		role := "user"
		if m.Role == RoleModel {
			role = "assistant"
		}
		messages = append(messages, claudeMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, claudeMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(claudeMessageRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		Temperature:      c.config.Temperature,
		System:           system,
		Messages:         messages,
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return modelID, body, nil
}

// GenerateContent generates text content using the specified model tier
func (c *BedrockClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelID, body, err := c.request(tier, "", nil, prompt)
	if err != nil {
		return "", err
	}

	output, err := c.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke model: %w", err)
	}

	var response claudeMessageResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal bedrock response: %w", err)
	}

	var sb strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in response")
	}
	return sb.String(), nil
}

// GenerateJSON generates JSON content. Claude has no native schema mode, so the
// schema is appended to the prompt and the answer is unwrapped.
func (c *BedrockClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier, schema *ResponseSchema) (string, error) {
	var sb strings.Builder
	sb.WriteString(prompt)
	sb.WriteString("\n\nReturn ONLY valid JSON, no markdown, no explanation.")
	if schema != nil {
		sb.WriteString(" The JSON must match this schema:\n")
		sb.WriteString(schema.String())
	}

	text, err := c.GenerateContent(ctx, sb.String(), tier)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// StreamContent streams a single-prompt generation
func (c *BedrockClient) StreamContent(ctx context.Context, prompt string, tier ModelTier) iter.Seq2[string, error] {
	return c.stream(ctx, tier, "", nil, prompt)
}

// StreamChat streams the reply to the last message of a conversation
func (c *BedrockClient) StreamChat(ctx context.Context, req ChatRequest, tier ModelTier) iter.Seq2[string, error] {
	return c.stream(ctx, tier, req.SystemInstruction, req.History, req.Message)
}

func (c *BedrockClient) stream(ctx context.Context, tier ModelTier, system string, history []Message, prompt string) iter.Seq2[string, error] {
	modelID, body, err := c.request(tier, system, history, prompt)
	if err != nil {
		return errorSeq(err)
	}

	return func(yield func(string, error) bool) {
		output, err := c.api.InvokeModelWithResponseStream(ctx, &bedrockruntime.InvokeModelWithResponseStreamInput{
			ModelId:     aws.String(modelID),
			Body:        body,
			ContentType: aws.String("application/json"),
			Accept:      aws.String("application/json"),
		})
		if err != nil {
			yield("", fmt.Errorf("failed to invoke model stream: %w", err))
			return
		}

		stream := output.GetStream()
		defer stream.Close()

		if !yieldChunks(stream.Events(), yield) {
			return
		}
		if err := stream.Err(); err != nil {
			yield("", fmt.Errorf("stream error: %w", err))
		}
	}
}

// yieldChunks forwards the text of each chunk event. It returns false when
// iteration must stop: the consumer is done or a chunk could not be decoded.
func yieldChunks(events <-chan types.ResponseStream, yield func(string, error) bool) bool {
	for event := range events {
		chunk, ok := event.(*types.ResponseStreamMemberChunk)
		if !ok {
			continue
		}
		var payload claudeStreamChunk
		if err := json.Unmarshal(chunk.Value.Bytes, &payload); err != nil {
			yield("", fmt.Errorf("malformed stream chunk: %w", err))
			return false
		}
		text := payload.Delta.Text
		if text == "" {
			text = payload.ContentBlock.Text
		}
		if text == "" {
			continue
		}
		if !yield(text, nil) {
			return false
		}
	}
	return true
}

// GetModel returns the model name for a tier
func (c *BedrockClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the AWS SDK client holds no closable resources
func (c *BedrockClient) Close() error {
	return nil
}
