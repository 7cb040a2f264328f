package notify

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const dispatchTimeout = 30 * time.Second

// Sender delivers one notification message.
type Sender interface {
	Send(ctx context.Context, message string) error
}

// Dispatcher fans notification messages out to background workers so the
// enclosing transaction never waits on (or fails because of) delivery.
type Dispatcher struct {
	sender     Sender
	logger     *logrus.Logger
	queue      chan string
	numWorkers int
	wg         sync.WaitGroup
	stopOnce   sync.Once
}

func NewDispatcher(sender Sender, numWorkers int, logger *logrus.Logger) *Dispatcher {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Dispatcher{
		sender:     sender,
		logger:     logger,
		queue:      make(chan string, 1000),
		numWorkers: numWorkers,
	}
}

func (d *Dispatcher) Start() {
	for i := 0; i < d.numWorkers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.run()
		}()
	}
}

// Stop closes the queue and waits for in-flight deliveries to finish.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.queue)
		d.wg.Wait()
	})
}

// Dispatch enqueues a message without blocking. A full queue drops the
// message; delivery is best effort either way.
func (d *Dispatcher) Dispatch(message string) {
	select {
	case d.queue <- message:
	default:
		d.logger.WithField("message", message).Warn("Dispatcher.Dispatch.queue full, dropping")
	}
}

func (d *Dispatcher) run() {
	for message := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		if err := d.sender.Send(ctx, message); err != nil {
			d.logger.WithError(err).WithField("message", message).Error("Dispatcher.Send.failed")
		}
		cancel()
	}
}
