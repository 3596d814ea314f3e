package importer

import (
	"context"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/webshop-go/shop-backend/internal/catalog/domain"
)

// ProductWriter is the slice of the catalog service the processor needs.
type ProductWriter interface {
	CreateProduct(ctx context.Context, p domain.Product) (string, error)
}

// Notifier is told about every product the import created. The slog-backed
// implementation stands in for a pub/sub topic.
type Notifier interface {
	ProductCreated(ctx context.Context, id, title string, price float64)
}

// Processor drains queued CSV records with a bounded worker pool, writing
// product and stock rows through the catalog service. Invalid records are
// logged and skipped, never fatal; one bad row must not sink the batch.
type Processor struct {
	queue    chan Record
	writer   ProductWriter
	notifier Notifier
	log      *slog.Logger
	workers  int
}

func NewProcessor(writer ProductWriter, notifier Notifier, log *slog.Logger, workers int) *Processor {
	if workers <= 0 {
		workers = 4
	}
	return &Processor{
		queue:    make(chan Record, 256),
		writer:   writer,
		notifier: notifier,
		log:      log,
		workers:  workers,
	}
}

// Enqueue queues records for processing. It blocks when the queue is full
// and gives up when ctx is cancelled.
func (p *Processor) Enqueue(ctx context.Context, recs ...Record) error {
	for _, rec := range recs {
		select {
		case p.queue <- rec:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close stops intake. Run returns once the remaining records are drained.
func (p *Processor) Close() {
	close(p.queue)
}

// Run consumes the queue until Close is called or ctx is cancelled.
func (p *Processor) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		g.Go(func() error {
			for {
				select {
				case rec, ok := <-p.queue:
					if !ok {
						return nil
					}
					p.process(ctx, rec)
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		})
	}
	return g.Wait()
}

func (p *Processor) process(ctx context.Context, rec Record) {
	product, err := toProduct(rec)
	if err != nil {
		p.log.Error("invalid product row skipped", "title", rec.Title, "err", err)
		return
	}

	id, err := p.writer.CreateProduct(ctx, product)
	if err != nil {
		p.log.Error("create product failed", "title", product.Title, "err", err)
		return
	}

	p.log.Info("product imported", "id", id, "title", product.Title)
	p.notifier.ProductCreated(ctx, id, product.Title, product.Price)
}

func toProduct(rec Record) (domain.Product, error) {
	if rec.Title == "" {
		return domain.Product{}, errStrField("title")
	}
	price, err := strconv.ParseFloat(rec.Price, 64)
	if err != nil || price <= 0 {
		return domain.Product{}, errStrField("price")
	}
	count, err := strconv.Atoi(rec.Count)
	if err != nil || count < 0 {
		return domain.Product{}, errStrField("count")
	}
	return domain.Product{
		Title:       rec.Title,
		Description: rec.Description,
		Price:       price,
		Count:       count,
	}, nil
}

type errStrField string

func (e errStrField) Error() string { return "missing or invalid field: " + string(e) }
