package sdk

// queue runs submitted work on a single goroutine in submission order.
//
// The SDK is driven from several goroutines at once (socket callbacks,
// application calls, the telemetry loop). Pushing every state change through
// one queue keeps the nearby list and radius pointer consistent and preserves
// the receipt order of push events. Listener callbacks ride a second queue so
// a slow listener cannot stall state changes.
type queue struct {
	jobs chan func()
}

func newQueue(depth int) *queue {
	if depth <= 0 {
		depth = 256
	}
	q := &queue{jobs: make(chan func(), depth)}
	go q.drain()
	return q
}

func (q *queue) drain() {
	for job := range q.jobs {
		job()
	}
}

// post enqueues fire-and-forget work.
func (q *queue) post(job func()) {
	q.jobs <- job
}

// exec runs job on the queue and waits for its result.
func (q *queue) exec(job func() error) error {
	errc := make(chan error, 1)
	q.jobs <- func() { errc <- job() }
	return <-errc
}
