package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xaenox/chatcore/internal/models"
	"go.uber.org/zap"
)

const defaultSaveTimeout = 10 * time.Second

// KnowledgeSaver writes a knowledge snapshot; failures are its own to log
type KnowledgeSaver interface {
	SaveKnowledge(ctx context.Context, key string, kb *models.KnowledgeBase)
}

// Persister is the single writer of the knowledge snapshot.
// Request never blocks: requests arriving while a write is pending collapse into it.
type Persister struct {
	saver    KnowledgeSaver
	key      string
	snapshot func() *models.KnowledgeBase
	logger   *zap.Logger
	timeout  time.Duration

	requests  chan struct{}
	stop      chan struct{}
	wg        sync.WaitGroup
	writeMu   sync.Mutex
	closeOnce sync.Once
	writes    atomic.Int64
}

// NewPersister starts the writer goroutine; snapshot is called for every write
func NewPersister(saver KnowledgeSaver, key string, snapshot func() *models.KnowledgeBase, logger *zap.Logger) *Persister {
	p := &Persister{
		saver:    saver,
		key:      key,
		snapshot: snapshot,
		logger:   logger,
		timeout:  defaultSaveTimeout,
		requests: make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}

	p.wg.Add(1)
	go p.run()

	return p
}

// Request schedules a snapshot write
func (p *Persister) Request() {
	select {
	case p.requests <- struct{}{}:
	default:
	}
}

// Writes is the number of snapshot writes performed so far
func (p *Persister) Writes() int64 {
	return p.writes.Load()
}

func (p *Persister) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stop:
			return
		case <-p.requests:
			ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
			p.Flush(ctx)
			cancel()
		}
	}
}

// Flush writes the current snapshot synchronously
func (p *Persister) Flush(ctx context.Context) {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	kb := p.snapshot()
	p.saver.SaveKnowledge(ctx, p.key, kb)
	p.writes.Add(1)

	p.logger.Debug("Knowledge snapshot persisted",
		zap.String("key", p.key),
		zap.Int("learned_words", len(kb.LearnedWords)))
}

// Close stops the writer and performs a final flush
func (p *Persister) Close(ctx context.Context) {
	p.closeOnce.Do(func() {
		close(p.stop)
		p.wg.Wait()
		p.Flush(ctx)
	})
}
