// Package workers provides background execution for batch vault
// operations. It defines the Worker interface, a Workers aggregate for
// starting several workers together, and a seal pool that seals many
// documents concurrently. Each job targets a distinct container file,
// so workers never contend on the same path.
package workers

// Worker is implemented by any background worker. Run starts the
// worker's execution; implementations block for the duration of their
// work or spawn goroutines internally.
type Worker interface {
	Run()
}
