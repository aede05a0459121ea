package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKafkaPublisherSendsEvent(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mockConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var decoded Event
		if err := json.Unmarshal(value, &decoded); err != nil {
			return err
		}
		if decoded.EmployeeID != "emp-1" || decoded.Type != EventEmployeeDeleted {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	publisher := NewKafkaPublisher(producer, "orgchart.employees", zap.NewNop())
	err := publisher.Handle(context.Background(), Event{
		ID:         "evt-1",
		Type:       EventEmployeeDeleted,
		EmployeeID: "emp-1",
		Payload:    EmployeeDeletedPayload{DetachedReportIDs: []string{"emp-2"}},
	})
	require.NoError(t, err)
	require.NoError(t, publisher.Close())
}

func TestKafkaPublisherReportsFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mockConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := NewKafkaPublisher(producer, "orgchart.employees", zap.NewNop())
	err := publisher.Handle(context.Background(), Event{ID: "evt-2", Type: EventEmployeeCreated, EmployeeID: "emp-3"})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, publisher.Close())
}

func mockConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	return config
}
