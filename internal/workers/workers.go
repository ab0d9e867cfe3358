package workers

// Workers runs a set of workers in order.
type Workers struct {
	workers []Worker
}

// NewWorkers aggregates ws into a single [Worker].
func NewWorkers(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

// Run starts every worker in the order they were added.
func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
