package broker_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/myrjola/holocron/internal/broker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelBroker(t *testing.T) {
	type testCase struct {
		name     string
		testFunc func(b *broker.ChannelBroker[int, string])
	}
	tests := []testCase{
		{
			name: "subscriber receives content",
			testFunc: func(b *broker.ChannelBroker[int, string]) {
				id := 1
				channel := make(chan string)
				b.Publish(id, channel)
				go func() {
					channel <- "hello"
					close(channel)
					b.Unpublish(id)
				}()
				subscriptionChan := <-b.Subscribe(id)
				require.Equal(t, "hello", <-subscriptionChan, "subscriber did not receive content")
				msg, ok := <-subscriptionChan
				require.Empty(t, msg, "subscriber received content after producer closed")
				require.Falsef(t, ok, "channel not closed")
			},
		},
		{
			name: "subsequent subscribers block until producer is finished",
			testFunc: func(b *broker.ChannelBroker[int, string]) {
				id := 1
				channel := make(chan string)
				b.Publish(id, channel)
				producerFinished := atomic.Bool{}

				// First subscriber
				subscriptionChan := <-b.Subscribe(id)

				// Waiting subscriber
				waiting := b.Subscribe(id)
				released := make(chan struct{})
				go func() {
					defer close(released)
					next, ok := <-waiting
					assert.Nil(t, next, "subsequent subscriber received content")
					assert.False(t, ok, "channel not closed to signal producer is finished")
					assert.True(t, producerFinished.Load(), "subscriber unblocked before producer finished")
				}()

				go func() {
					channel <- "hello"
					close(channel)
					producerFinished.Store(true)
					b.Unpublish(id)
				}()
				require.Equal(t, "hello", <-subscriptionChan, "subscriber did not receive content")

				select {
				case <-released:
				case <-time.After(time.Second):
					t.Fatal("waiting subscriber was not released by unpublish")
				}

				// Late subscriber
				late, ok := <-b.Subscribe(id)
				require.Nil(t, late, "late subscriber received content")
				require.False(t, ok, "late subscriber channel not closed")
			},
		},
		{
			name: "unknown id closes right away",
			testFunc: func(b *broker.ChannelBroker[int, string]) {
				c, ok := <-b.Subscribe(42)
				require.Nil(t, c)
				require.False(t, ok)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			br := broker.NewChannelBroker[int, string]()
			go br.Start()
			t.Cleanup(func() {
				br.Stop()
			})
			tt.testFunc(br)
		})
	}
}

func TestChannelBroker_StopReleasesSubscribers(t *testing.T) {
	br := broker.NewChannelBroker[string, string]()
	go br.Start()

	br.Publish("turn", make(chan string))
	<-br.Subscribe("turn")
	waiting := br.Subscribe("turn")
	br.Stop()

	select {
	case _, ok := <-waiting:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("stop did not release waiting subscriber")
	}

	// Calls after Stop don't block.
	br.Publish("other", make(chan string))
	br.Unpublish("other")
	_, ok := <-br.Subscribe("other")
	require.False(t, ok)
}
