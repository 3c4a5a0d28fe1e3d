package sns

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/fitness-hub/core/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublishAPI struct{ mock.Mock }

func (m *mockPublishAPI) Publish(ctx context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, in)
	if out, _ := args.Get(0).(*sns.PublishOutput); out != nil {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestPublishEmailVerified(t *testing.T) {
	api := &mockPublishAPI{}
	var got *sns.PublishInput
	api.On("Publish", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(*sns.PublishInput) }).
		Return(&sns.PublishOutput{}, nil)

	evt := domain.EmailVerifiedEvent{
		Type:       domain.EventEmailVerified,
		Email:      "a@b.com",
		RecordID:   "01H",
		VerifiedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, NewPublisher(api, "arn:aws:sns:us-east-1:000000000000:events").PublishEmailVerified(context.Background(), evt))

	require.NotNil(t, got)
	assert.Equal(t, "arn:aws:sns:us-east-1:000000000000:events", *got.TopicArn)
	assert.Equal(t, "email.verified", *got.MessageAttributes["event_type"].StringValue)

	var decoded domain.EmailVerifiedEvent
	require.NoError(t, json.Unmarshal([]byte(*got.Message), &decoded))
	assert.Equal(t, evt, decoded)
}

func TestPublishEmailVerified_Error(t *testing.T) {
	api := &mockPublishAPI{}
	api.On("Publish", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	err := NewPublisher(api, "arn").PublishEmailVerified(context.Background(), domain.EmailVerifiedEvent{})
	assert.ErrorContains(t, err, "sns publish")
}
