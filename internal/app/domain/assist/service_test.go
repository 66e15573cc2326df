package assist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/voyago/voyago/internal/pkg/config"
)

type MockAIClient struct {
	mock.Mock
}

func (m *MockAIClient) GenerateResponse(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, prompt, config)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genai.GenerateContentResponse), args.Error(1)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

const session = "session-1"

func TestSuggestCountryAppliesOnlyLatestInput(t *testing.T) {
	aiClient := new(MockAIClient)
	aiClient.On("GenerateResponse", mock.Anything, mock.Anything, mock.Anything).
		Return(textResponse("Japan"), nil)

	service := NewService(aiClient, config.Policies{AssistFailOpen: true}, 30*time.Millisecond, zap.NewNop())

	// Two keystrokes inside the quiet period: only the second survives.
	service.SuggestCountry(session, "Kyoto down")
	service.SuggestCountry(session, "Kyoto downtown")

	require.Eventually(t, func() bool {
		_, ok := service.LatestSuggestion(session)
		return ok
	}, time.Second, 5*time.Millisecond)

	suggestion, ok := service.LatestSuggestion(session)
	require.True(t, ok)
	assert.Equal(t, "Kyoto downtown", suggestion.Query)
	assert.Equal(t, "Japan", suggestion.Country)

	aiClient.AssertNumberOfCalls(t, "GenerateResponse", 1)
}

func TestSuggestCountrySkipsShortInput(t *testing.T) {
	aiClient := new(MockAIClient)
	service := NewService(aiClient, config.Policies{AssistFailOpen: true}, 10*time.Millisecond, zap.NewNop())

	service.SuggestCountry(session, "Kyoto")
	time.Sleep(50 * time.Millisecond)

	_, ok := service.LatestSuggestion(session)
	assert.False(t, ok)
	aiClient.AssertNotCalled(t, "GenerateResponse", mock.Anything, mock.Anything, mock.Anything)
}

func TestSuggestCountrySkipsWhenCountryAlreadyPresent(t *testing.T) {
	aiClient := new(MockAIClient)
	aiClient.On("GenerateResponse", mock.Anything, mock.Anything, mock.Anything).
		Return(textResponse("Japan"), nil)

	service := NewService(aiClient, config.Policies{AssistFailOpen: true}, 10*time.Millisecond, zap.NewNop())
	service.SuggestCountry(session, "Kyoto Japan trip")

	time.Sleep(100 * time.Millisecond)
	_, ok := service.LatestSuggestion(session)
	assert.False(t, ok)
}

func TestSuggestCountryFailsSilently(t *testing.T) {
	aiClient := new(MockAIClient)
	aiClient.On("GenerateResponse", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("quota exceeded"))

	service := NewService(aiClient, config.Policies{AssistFailOpen: true}, 10*time.Millisecond, zap.NewNop())
	service.SuggestCountry(session, "Kyoto downtown")

	time.Sleep(100 * time.Millisecond)
	_, ok := service.LatestSuggestion(session)
	assert.False(t, ok)
}

func TestNewInputInvalidatesShownSuggestion(t *testing.T) {
	aiClient := new(MockAIClient)
	aiClient.On("GenerateResponse", mock.Anything, mock.Anything, mock.Anything).
		Return(textResponse("Japan"), nil)

	service := NewService(aiClient, config.Policies{AssistFailOpen: true}, 10*time.Millisecond, zap.NewNop())
	service.SuggestCountry(session, "Kyoto downtown")

	require.Eventually(t, func() bool {
		_, ok := service.LatestSuggestion(session)
		return ok
	}, time.Second, 5*time.Millisecond)

	// The next keystroke drops the stale suggestion immediately.
	service.SuggestCountry(session, "Lisbon")
	_, ok := service.LatestSuggestion(session)
	assert.False(t, ok)
}

// blockingAIClient parks GenerateResponse until release is closed, so a test
// can supersede the input while the remote call is still in flight.
type blockingAIClient struct {
	started  chan struct{}
	release  chan struct{}
	response *genai.GenerateContentResponse
}

func (c *blockingAIClient) GenerateResponse(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	select {
	case c.started <- struct{}{}:
	default:
	}
	<-c.release
	return c.response, nil
}

func TestShortInputSupersedesPendingSuggestion(t *testing.T) {
	aiClient := &blockingAIClient{
		started:  make(chan struct{}, 1),
		release:  make(chan struct{}),
		response: textResponse("Japan"),
	}
	service := NewService(aiClient, config.Policies{AssistFailOpen: true}, 10*time.Millisecond, zap.NewNop())

	service.SuggestCountry(session, "Kyoto downtown")

	select {
	case <-aiClient.started:
	case <-time.After(time.Second):
		t.Fatal("remote call never started")
	}

	// Back to a single word while the first request is still in flight: the
	// pending response now belongs to abandoned input.
	service.SuggestCountry(session, "Kyoto")
	close(aiClient.release)

	time.Sleep(50 * time.Millisecond)
	_, ok := service.LatestSuggestion(session)
	assert.False(t, ok, "suggestion for abandoned input must not be applied")
}

func TestValidateDestination(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		err      error
		failOpen bool
		want     bool
	}{
		{name: "model says yes", answer: "yes", want: true},
		{name: "model says no", answer: "No.", want: false},
		{name: "remote failure fails open", err: errors.New("timeout"), failOpen: true, want: true},
		{name: "remote failure fails closed when configured", err: errors.New("timeout"), failOpen: false, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aiClient := new(MockAIClient)
			if tt.err != nil {
				aiClient.On("GenerateResponse", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, tt.err).Once()
			} else {
				aiClient.On("GenerateResponse", mock.Anything, mock.Anything, mock.Anything).
					Return(textResponse(tt.answer), nil).Once()
			}

			service := NewService(aiClient, config.Policies{AssistFailOpen: tt.failOpen}, time.Second, zap.NewNop())
			assert.Equal(t, tt.want, service.ValidateDestination(context.Background(), "Atlantis"))
		})
	}
}
