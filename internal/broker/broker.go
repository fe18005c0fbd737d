package broker

type publication[TID comparable, TPayload any] struct {
	ID      TID
	Payload TPayload
}

type subscription[TID comparable, TPayload any] struct {
	ID      TID
	Channel chan TPayload
}

// Broker fans published payloads out to every live subscriber of the same ID.
// It backs the SSE stream of case events: each connected client subscribes to
// its case ID and the orchestrator publishes messages as work completes.
//
// Delivery is best effort. A subscriber that is not draining its channel has
// the payload dropped rather than blocking the publisher, because a stalled
// SSE client must never stall case processing. Clients recover by fetching
// the persisted message history on reconnect.
type Broker[TID comparable, TPayload any] struct {
	stopChannel        chan struct{}
	publishChannel     chan publication[TID, TPayload]
	subscribeChannel   chan subscription[TID, TPayload]
	unsubscribeChannel chan subscription[TID, TPayload]
}

// New creates a Broker. Call Start in a goroutine and Stop to tear it down.
func New[TID comparable, TPayload any]() *Broker[TID, TPayload] {
	return &Broker[TID, TPayload]{
		stopChannel:        make(chan struct{}),
		publishChannel:     make(chan publication[TID, TPayload]),
		subscribeChannel:   make(chan subscription[TID, TPayload]),
		unsubscribeChannel: make(chan subscription[TID, TPayload]),
	}
}

// Start listens for publish, subscribe, and unsubscribe events. It blocks
// until Stop is called, so it should run in a goroutine.
func (b *Broker[TID, TPayload]) Start() {
	subscribers := map[TID][]chan TPayload{}
	for {
		select {
		case <-b.stopChannel:
			for _, channels := range subscribers {
				for _, channel := range channels {
					close(channel)
				}
			}
			return

		case sub := <-b.subscribeChannel:
			subscribers[sub.ID] = append(subscribers[sub.ID], sub.Channel)

		case sub := <-b.unsubscribeChannel:
			channels := subscribers[sub.ID]
			for i, channel := range channels {
				if channel == sub.Channel {
					subscribers[sub.ID] = append(channels[:i], channels[i+1:]...)
					close(channel)
					break
				}
			}
			if len(subscribers[sub.ID]) == 0 {
				delete(subscribers, sub.ID)
			}

		case pub := <-b.publishChannel:
			for _, channel := range subscribers[pub.ID] {
				select {
				case channel <- pub.Payload:
				default:
					// Subscriber is not draining, drop for them.
				}
			}
		}
	}
}

// Stop shuts the broker down and closes every subscriber channel.
func (b *Broker[TID, TPayload]) Stop() {
	close(b.stopChannel)
}

// Subscribe registers a listener for ID. The returned cancel function must be
// called when the listener goes away, typically deferred in the SSE handler.
// Subscribing to a stopped broker returns an already-closed channel.
func (b *Broker[TID, TPayload]) Subscribe(id TID) (chan TPayload, func()) {
	channel := make(chan TPayload, 16)
	select {
	case b.subscribeChannel <- subscription[TID, TPayload]{ID: id, Channel: channel}:
	case <-b.stopChannel:
		close(channel)
	}
	cancel := func() {
		select {
		case b.unsubscribeChannel <- subscription[TID, TPayload]{ID: id, Channel: channel}:
		case <-b.stopChannel:
		}
	}
	return channel, cancel
}

// Publish delivers a payload to every current subscriber of ID.
func (b *Broker[TID, TPayload]) Publish(id TID, payload TPayload) {
	select {
	case b.publishChannel <- publication[TID, TPayload]{ID: id, Payload: payload}:
	case <-b.stopChannel:
	}
}
