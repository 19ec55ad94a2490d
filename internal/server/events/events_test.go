package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	got []Event
	err error
}

func (r *recordingPublisher) Publish(_ context.Context, e Event) error {
	r.got = append(r.got, e)
	return r.err
}

func TestMulti(t *testing.T) {
	a := &recordingPublisher{}
	b := &recordingPublisher{err: errors.New("b down")}
	c := &recordingPublisher{}

	e := Event{Type: TypeProposalAnswered, ProposalID: "p-1"}
	err := Multi{a, b, c}.Publish(context.Background(), e)

	assert.EqualError(t, err, "b down")
	assert.Equal(t, []Event{e}, a.got)
	assert.Equal(t, []Event{e}, c.got, "a failing publisher does not stop the others")

	assert.NoError(t, Multi{}.Publish(context.Background(), e))
	assert.NoError(t, Nop{}.Publish(context.Background(), e))
}

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := newAMQPPublisher(ch, "proposal_events")
	at := time.Date(2026, 2, 14, 20, 0, 0, 0, time.UTC)

	e := Event{Type: TypeProposalAnswered, ProposalID: "p-1", SenderID: "u-1", Status: "accepted", At: at}
	require.NoError(t, p.Publish(context.Background(), e))

	assert.Equal(t, "", ch.exchange)
	assert.Equal(t, "proposal_events", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, "p-1", ch.msg.MessageId)

	var decoded Event
	require.NoError(t, json.Unmarshal(ch.msg.Body, &decoded))
	assert.Equal(t, e, decoded)
	assert.NoError(t, p.Close())
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	p := newAMQPPublisher(&fakeChannel{err: errors.New("channel closed")}, "q")

	err := p.Publish(context.Background(), Event{Type: TypeProposalAnswered})
	assert.ErrorContains(t, err, "publish proposal.answered: channel closed")
}
