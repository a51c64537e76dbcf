package eventbridge

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"ideavine-backend/domain/events"
)

type stubAPI struct {
	calls  []*awseventbridge.PutEventsInput
	output *awseventbridge.PutEventsOutput
}

func (s *stubAPI) PutEvents(ctx context.Context, params *awseventbridge.PutEventsInput, optFns ...func(*awseventbridge.Options)) (*awseventbridge.PutEventsOutput, error) {
	s.calls = append(s.calls, params)
	if s.output != nil {
		return s.output, nil
	}
	return &awseventbridge.PutEventsOutput{
		Entries: make([]types.PutEventsResultEntry, len(params.Entries)),
	}, nil
}

// unmarshalableEvent fails json.Marshal, standing in for a corrupt event.
type unmarshalableEvent struct {
	events.BaseEvent
	Payload chan int `json:"payload"`
}

func newPublisherForTest(stub *stubAPI, logger *zap.Logger) *Publisher {
	return &Publisher{client: stub, eventBusName: "test-bus", logger: logger}
}

func TestPublishBatch_Chunks(t *testing.T) {
	stub := &stubAPI{}
	p := newPublisherForTest(stub, zap.NewNop())

	batch := make([]events.DomainEvent, 23)
	for i := range batch {
		batch[i] = events.NewUserCreated("user-1", "alice@example.com")
	}
	require.NoError(t, p.PublishBatch(context.Background(), batch))

	require.Len(t, stub.calls, 3)
	assert.Len(t, stub.calls[0].Entries, 10)
	assert.Len(t, stub.calls[1].Entries, 10)
	assert.Len(t, stub.calls[2].Entries, 3)
}

func TestPublishBatch_AllUnmarshalableSkipsCall(t *testing.T) {
	stub := &stubAPI{}
	p := newPublisherForTest(stub, zap.NewNop())

	bad := unmarshalableEvent{BaseEvent: events.NewUserDeactivated("user-1").BaseEvent}
	require.NoError(t, p.PublishBatch(context.Background(), []events.DomainEvent{bad}))
	assert.Empty(t, stub.calls, "nothing marshaled, nothing sent")
}

func TestPublishBatch_RejectionLogsTheSentEvent(t *testing.T) {
	stub := &stubAPI{
		output: &awseventbridge.PutEventsOutput{
			FailedEntryCount: 1,
			Entries: []types.PutEventsResultEntry{
				{ErrorCode: aws.String("InternalFailure"), ErrorMessage: aws.String("boom")},
			},
		},
	}
	core, logs := observer.New(zap.ErrorLevel)
	p := newPublisherForTest(stub, zap.New(core))

	// The first event never reaches the bus; the rejection entry must be
	// attributed to the second event, not the skipped one.
	bad := unmarshalableEvent{BaseEvent: events.NewUserDeactivated("user-1").BaseEvent}
	sent := events.NewNodeCreated("node-1", "map-1", "user-1", "user_input")
	err := p.PublishBatch(context.Background(), []events.DomainEvent{bad, sent})
	require.Error(t, err)

	require.Len(t, stub.calls, 1)
	require.Len(t, stub.calls[0].Entries, 1)

	rejected := logs.FilterMessage("event rejected by EventBridge").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, "node.created", rejected[0].ContextMap()["event_type"])
}
