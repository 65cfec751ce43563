package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"recipe-assistant/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spyCall struct {
	calls   int
	outcome Outcome[string]
}

func (s *spyCall) call(context.Context) Outcome[string] {
	s.calls++
	return s.outcome
}

func TestResolveTextShortCircuits(t *testing.T) {
	primary := &spyCall{outcome: Some("from deepseek")}
	secondary := &spyCall{outcome: Some("from openai")}

	result, ok := ResolveText(context.Background(),
		Candidate[string]{Name: DeepSeek, Call: primary.call},
		Candidate[string]{Name: OpenAI, Call: secondary.call},
	)

	require.True(t, ok)
	assert.Equal(t, DeepSeek, result.Provider)
	assert.Equal(t, "from deepseek", result.Value)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, secondary.calls)
}

func TestResolveTextFallsBackInOrder(t *testing.T) {
	primary := &spyCall{outcome: Unavailable[string]("status 500")}
	secondary := &spyCall{outcome: Some("from openai")}

	result, ok := ResolveText(context.Background(),
		Candidate[string]{Name: DeepSeek, Call: primary.call},
		Candidate[string]{Name: OpenAI, Call: secondary.call},
	)

	require.True(t, ok)
	assert.Equal(t, OpenAI, result.Provider)
	assert.Equal(t, "from openai", result.Value)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestResolveTextAllUnavailable(t *testing.T) {
	primary := &spyCall{outcome: Unavailable[string]("timeout")}
	secondary := &spyCall{outcome: Unavailable[string]("malformed json")}

	_, ok := ResolveText(context.Background(),
		Candidate[string]{Name: DeepSeek, Call: primary.call},
		Candidate[string]{Name: OpenAI, Call: secondary.call},
		Candidate[string]{Name: "missing"},
	)

	assert.False(t, ok)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestResolveTextStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	primary := &spyCall{outcome: Some("never")}

	_, ok := ResolveText(ctx, Candidate[string]{Name: DeepSeek, Call: primary.call})

	assert.False(t, ok)
	assert.Equal(t, 0, primary.calls)
}

func TestWithTimeout(t *testing.T) {
	slow := func(ctx context.Context) Outcome[string] {
		time.Sleep(200 * time.Millisecond)
		return Some("late")
	}

	outcome := WithTimeout[string](20*time.Millisecond, slow)(context.Background())
	assert.False(t, outcome.OK)
	assert.Contains(t, outcome.Reason, "timeout")

	fast := func(ctx context.Context) Outcome[string] { return Some("quick") }
	outcome = WithTimeout[string](time.Second, fast)(context.Background())
	assert.True(t, outcome.OK)
	assert.Equal(t, "quick", outcome.Value)
}

func TestFromError(t *testing.T) {
	assert.True(t, FromError(1, nil).OK)
	outcome := FromError(0, errors.New("boom"))
	assert.False(t, outcome.OK)
	assert.Equal(t, "boom", outcome.Reason)
}

type fakeProvider struct {
	name       Name
	configured bool
	body       string
	err        error
	calls      int
}

func (f *fakeProvider) Name() Name       { return f.name }
func (f *fakeProvider) Configured() bool { return f.configured }

func (f *fakeProvider) CompleteJSON(_ context.Context, _ []common.ChatMessage, out interface{}) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return common.ParseJSON(f.body, out)
}

type narrative struct {
	Summary string `json:"summary"`
}

func (n *narrative) Validate() error {
	if n.Summary == "" {
		return errors.New("summary is required")
	}
	return nil
}

func TestJSONCandidate(t *testing.T) {
	messages := []common.ChatMessage{common.UserMessage("hi")}

	t.Run("not configured is unavailable without calling", func(t *testing.T) {
		p := &fakeProvider{name: DeepSeek}
		outcome := JSONCandidate[narrative](p, "test", messages, time.Second).Call(context.Background())
		assert.False(t, outcome.OK)
		assert.Equal(t, 0, p.calls)
	})

	t.Run("provider error collapses", func(t *testing.T) {
		p := &fakeProvider{name: DeepSeek, configured: true, err: errors.New("status 502")}
		outcome := JSONCandidate[narrative](p, "test", messages, time.Second).Call(context.Background())
		assert.False(t, outcome.OK)
		assert.Contains(t, outcome.Reason, "502")
	})

	t.Run("schema mismatch collapses", func(t *testing.T) {
		p := &fakeProvider{name: OpenAI, configured: true, body: `{"tips":["x"]}`}
		outcome := JSONCandidate[narrative](p, "test", messages, time.Second).Call(context.Background())
		assert.False(t, outcome.OK)
	})

	t.Run("success", func(t *testing.T) {
		p := &fakeProvider{name: OpenAI, configured: true, body: `{"summary":"Cook pancakes"}`}
		candidate := JSONCandidate[narrative](p, "test", messages, time.Second)
		outcome := candidate.Call(context.Background())
		require.True(t, outcome.OK)
		assert.Equal(t, OpenAI, candidate.Name)
		assert.Equal(t, "Cook pancakes", outcome.Value.Summary)
	})
}
