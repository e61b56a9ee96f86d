package server

// Broker fans reload notifications out to every live-reload socket.
type Broker struct {
	stopCh    chan struct{}
	publishCh chan struct{}
	subCh     chan chan struct{}
	unsubCh   chan chan struct{}
}

func newBroker() *Broker {
	return &Broker{
		stopCh:    make(chan struct{}),
		publishCh: make(chan struct{}, 1),
		subCh:     make(chan chan struct{}, 1),
		unsubCh:   make(chan chan struct{}, 1),
	}
}

// Start runs the broker loop until Stop is called.
func (b *Broker) Start() {
	subs := map[chan struct{}]struct{}{}
	for {
		select {
		case <-b.stopCh:
			for ch := range subs {
				close(ch)
			}
			return
		case ch := <-b.subCh:
			subs[ch] = struct{}{}
		case ch := <-b.unsubCh:
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}
		case <-b.publishCh:
			for ch := range subs {
				// A subscriber with a pending notification doesn't need another.
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}
}

func (b *Broker) Stop() {
	close(b.stopCh)
}

func (b *Broker) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	select {
	case b.subCh <- ch:
	case <-b.stopCh:
		close(ch)
	}
	return ch
}

func (b *Broker) Unsubscribe(ch chan struct{}) {
	select {
	case b.unsubCh <- ch:
	case <-b.stopCh:
	}
}

func (b *Broker) Publish() {
	select {
	case b.publishCh <- struct{}{}:
	case <-b.stopCh:
	}
}
