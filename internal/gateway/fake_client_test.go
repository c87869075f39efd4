package gateway

import (
	"context"
	"iter"

	"github.com/jonathan/review-analyzer/internal/llm"
)

// fakeClient is a scripted llm.Client
type fakeClient struct {
	jsonResponse string
	jsonErr      error
	chunks       []string
	streamErr    error

	calls       int
	lastPrompt  string
	lastRequest llm.ChatRequest
	lastSchema  *llm.ResponseSchema
	closed      bool
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	return f.jsonResponse, f.jsonErr
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier, schema *llm.ResponseSchema) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	f.lastSchema = schema
	return f.jsonResponse, f.jsonErr
}

func (f *fakeClient) StreamContent(_ context.Context, prompt string, _ llm.ModelTier) iter.Seq2[string, error] {
	f.calls++
	f.lastPrompt = prompt
	return f.stream()
}

func (f *fakeClient) StreamChat(_ context.Context, req llm.ChatRequest, _ llm.ModelTier) iter.Seq2[string, error] {
	f.calls++
	f.lastRequest = req
	return f.stream()
}

func (f *fakeClient) stream() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, c := range f.chunks {
			if !yield(c, nil) {
				return
			}
		}
		if f.streamErr != nil {
			yield("", f.streamErr)
		}
	}
}

func (f *fakeClient) GetModel(tier llm.ModelTier) string {
	return "fake-" + string(tier)
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}
