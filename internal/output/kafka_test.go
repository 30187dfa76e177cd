package output

import (
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/chrisdamba/foodcloud/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaOutputKeysByOrder(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(pm *sarama.ProducerMessage) error {
		if pm.Topic != models.TopicOrderPlaced {
			return errors.New("unexpected topic " + pm.Topic)
		}
		key, err := pm.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "ORD64800123ABCD" {
			return errors.New("unexpected key " + string(key))
		}
		return nil
	})

	out := NewKafkaOutputWithProducer(producer)
	msg := encode(t, placedEvent())
	require.NoError(t, out.WriteMessage(msg.Topic, msg.Message))
	require.NoError(t, out.Close())
}

func TestKafkaOutputSendError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	out := NewKafkaOutputWithProducer(producer)
	msg := encode(t, statusEvent())
	assert.ErrorIs(t, out.WriteMessage(msg.Topic, msg.Message), sarama.ErrOutOfBrokers)
	require.NoError(t, out.Close())
}

func TestKafkaOutputClosed(t *testing.T) {
	out := NewKafkaOutputWithProducer(mocks.NewSyncProducer(t, nil))
	require.NoError(t, out.Close())
	assert.Error(t, out.WriteMessage("t", []byte(`{}`)))
	assert.NoError(t, out.Close())
}
