package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/fitness-hub/core/internal/domain"
	"github.com/fitness-hub/core/internal/pkg/chatstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRelay struct {
	bodies []string
	errs   []error
	calls  [][]domain.Message
}

func (f *fakeRelay) Stream(_ context.Context, messages []domain.Message) (*chatstream.Reader, io.Closer, error) {
	i := len(f.calls)
	f.calls = append(f.calls, messages)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, nil, f.errs[i]
	}
	body := io.NopCloser(strings.NewReader(f.bodies[i]))
	return chatstream.NewReader(body), body, nil
}

func frames(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		fmt.Fprintf(&b, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", p)
	}
	b.WriteString("data: [DONE]\n\n")
	return b.String()
}

func TestRun_StreamsAndKeepsTranscript(t *testing.T) {
	relay := &fakeRelay{bodies: []string{frames("Hel", "lo"), frames("Squats.")}}
	var out bytes.Buffer

	err := run(context.Background(), relay, strings.NewReader("hi\nleg day?\n/quit\n"), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Hello\n")
	assert.Contains(t, out.String(), "Squats.\n")
	require.Len(t, relay.calls, 2)
	assert.Equal(t, []domain.Message{
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAssistant, Content: "Hello"},
		{Role: domain.RoleUser, Content: "leg day?"},
	}, relay.calls[1])
}

func TestRun_ClearResetsConversation(t *testing.T) {
	relay := &fakeRelay{bodies: []string{frames("a"), frames("b")}}

	err := run(context.Background(), relay, strings.NewReader("one\n/clear\ntwo\n"), io.Discard)
	require.NoError(t, err)

	require.Len(t, relay.calls, 2)
	assert.Equal(t, []domain.Message{{Role: domain.RoleUser, Content: "two"}}, relay.calls[1])
}

func TestRun_ReportsRelayErrors(t *testing.T) {
	relay := &fakeRelay{
		errs:   []error{fmt.Errorf("x: %w", domain.ErrRateLimited), fmt.Errorf("x: %w", domain.ErrPaymentRequired), assert.AnError},
		bodies: []string{"", "", ""},
	}
	var out bytes.Buffer

	err := run(context.Background(), relay, strings.NewReader("a\nb\nc\n"), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Rate limit exceeded. Please try again later.")
	assert.Contains(t, out.String(), "Payment required. Please add credits.")
	assert.Contains(t, out.String(), "Failed to get response")
}
