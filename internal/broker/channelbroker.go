package broker

type publishChannelContent[TID comparable, TPayload any] struct {
	ID      TID
	Channel chan TPayload
}

type subscribeChannelContent[TID comparable, TPayload any] struct {
	ID      TID
	Channel chan chan TPayload
}

// ChannelBroker passes a channel with ID from producer to the first consumer.
// The subsequent consumers block until the producer is finished so that they
// can resolve the situation themselves, e.g. by reading the finished result from the owner.
//
// The web host uses it to hand chat replies from the goroutine completing a turn to the
// request that renders the reply. Subsequent consumers are caused by retries and
// reconnects and read the reply from the chat session once the producer is done.
type ChannelBroker[TID comparable, TPayload any] struct {
	stopChannel      chan struct{}
	publishChannel   chan publishChannelContent[TID, TPayload]
	unpublishChannel chan TID
	subscribeChannel chan subscribeChannelContent[TID, TPayload]
}

// NewChannelBroker creates a new ChannelBroker. Call Start in a goroutine and Stop when done.
func NewChannelBroker[TID comparable, TPayload any]() *ChannelBroker[TID, TPayload] {
	broker := ChannelBroker[TID, TPayload]{
		stopChannel:      make(chan struct{}),
		publishChannel:   make(chan publishChannelContent[TID, TPayload]),
		unpublishChannel: make(chan TID),
		subscribeChannel: make(chan subscribeChannelContent[TID, TPayload]),
	}
	return &broker
}

// Start listening for publish, unpublish, and subscribe events. This function blocks until Stop() is called,
// so it should be called in a goroutine.
func (b *ChannelBroker[TID, TPayload]) Start() {
	publishedChannels := map[TID]chan TPayload{}
	subscriberLists := map[TID][]chan chan TPayload{}
	for {
		select {
		case <-b.stopChannel:
			for _, subscribers := range subscriberLists {
				closeAll(subscribers)
			}
			return

		case subscription := <-b.subscribeChannel:
			c := publishedChannels[subscription.ID]
			if c == nil {
				// Signal to the subscriber that the producer is finished (or hasn't started yet).
				close(subscription.Channel)
				break
			}
			subscribers, ok := subscriberLists[subscription.ID]
			if !ok {
				// First subscriber gets the channel from the producer. Its own channel is closed here, so only
				// the subsequent subscribers are tracked.
				subscriberLists[subscription.ID] = []chan chan TPayload{}
				subscription.Channel <- c
				close(subscription.Channel)
			} else {
				// Subsequent subscribers block until the producer is finished.
				subscriberLists[subscription.ID] = append(subscribers, subscription.Channel)
			}

		case publication := <-b.publishChannel:
			publishedChannels[publication.ID] = publication.Channel

		case id := <-b.unpublishChannel:
			closeAll(subscriberLists[id])
			delete(publishedChannels, id)
			delete(subscriberLists, id)
		}
	}
}

func closeAll[TPayload any](subscribers []chan chan TPayload) {
	for _, s := range subscribers {
		close(s)
	}
}

// Stop the goroutine that handles the broker. Waiting subscribers are released.
func (b *ChannelBroker[TID, TPayload]) Stop() {
	close(b.stopChannel)
}

// Subscribe to the channel with ID. Returns a channel that will receive the channel corresponding to the ID.
// If the channel is not published, the returned channel is closed right away.
// If there's already a subscriber, the returned channel is closed once the producer unpublishes.
func (b *ChannelBroker[TID, TPayload]) Subscribe(id TID) chan chan TPayload {
	channel := make(chan chan TPayload, 1)
	select {
	case b.subscribeChannel <- subscribeChannelContent[TID, TPayload]{ID: id, Channel: channel}:
	case <-b.stopChannel:
		close(channel)
	}
	return channel
}

// Publish the channel with ID. The channel will be sent to the first subscriber.
func (b *ChannelBroker[TID, TPayload]) Publish(id TID, channel chan TPayload) {
	select {
	case b.publishChannel <- publishChannelContent[TID, TPayload]{ID: id, Channel: channel}:
	case <-b.stopChannel:
	}
}

// Unpublish the channel with ID and release the subscribers waiting for it. The producer should use a
// buffered channel or a timeout so that it doesn't block forever when nobody subscribes.
func (b *ChannelBroker[TID, TPayload]) Unpublish(id TID) {
	select {
	case b.unpublishChannel <- id:
	case <-b.stopChannel:
	}
}
