package workers

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/dkurmanov/docvault/internal/crypto"
	"github.com/dkurmanov/docvault/internal/logger"
	"github.com/dkurmanov/docvault/internal/service"
	"github.com/dkurmanov/docvault/models"
)

// SealJob describes one file to seal into the vault.
type SealJob struct {
	// Name is the document name the container will be catalogued under.
	Name string

	// Source is the path of the plaintext file to seal.
	Source string

	// Password protects the document.
	Password string
}

// SealResult is the outcome of one [SealJob].
type SealResult struct {
	Name           string
	Document       models.Document
	RecoverySecret string
	Err            error
}

// SealPool seals queued documents with a fixed number of workers. Each
// job produces a distinct container file, so jobs run independently.
type SealPool struct {
	library service.LibraryService
	logger  *logger.Logger

	count   int
	jobs    chan SealJob
	results chan SealResult
	wg      sync.WaitGroup
	ctx     context.Context
}

// NewSealPool builds a pool of count workers sealing through lib.
func NewSealPool(ctx context.Context, lib service.LibraryService, count int, log *logger.Logger) *SealPool {
	if count < 1 {
		count = 1
	}
	return &SealPool{
		library: lib,
		logger:  log,
		count:   count,
		jobs:    make(chan SealJob),
		results: make(chan SealResult),
		ctx:     ctx,
	}
}

// Run implements [Worker]. It starts the pool's workers and returns;
// results arrive on [SealPool.Results] until every submitted job is
// done, after which the results channel is closed.
func (p *SealPool) Run() {
	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go p.work()
	}
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
}

// Submit queues one job. Submit must not be called after Close.
func (p *SealPool) Submit(job SealJob) {
	p.jobs <- job
}

// Close signals that no further jobs will be submitted.
func (p *SealPool) Close() {
	close(p.jobs)
}

// Results returns the channel job outcomes are delivered on.
func (p *SealPool) Results() <-chan SealResult {
	return p.results
}

func (p *SealPool) work() {
	defer p.wg.Done()
	for job := range p.jobs {
		p.results <- p.seal(job)
	}
}

func (p *SealPool) seal(job SealJob) SealResult {
	res := SealResult{Name: job.Name}

	if err := p.ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	plaintext, err := os.ReadFile(job.Source)
	if err != nil {
		res.Err = fmt.Errorf("read source file: %w", err)
		return res
	}
	defer crypto.Zero(plaintext)

	doc, secret, err := p.library.SealDocument(p.ctx, job.Name, plaintext, job.Password)
	if err != nil {
		p.logger.Err(err).Str("name", job.Name).Msg("seal job failed")
		res.Err = err
		return res
	}

	res.Document = doc
	res.RecoverySecret = secret
	return res
}
