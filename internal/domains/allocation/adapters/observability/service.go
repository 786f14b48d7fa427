package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/fulfilld/allocation/internal/domains/allocation/application"
	"github.com/fulfilld/allocation/internal/domains/allocation/domain"
	"github.com/fulfilld/allocation/internal/domains/allocation/ports"
)

const tracerName = "github.com/fulfilld/allocation/internal/domains/allocation/adapters/observability/service"

// Service decorates the allocation service with tracing, logging, and
// metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core allocation service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, order *domain.Order) error {
	attrs := []attribute.KeyValue{}
	if order != nil {
		attrs = append(attrs, attribute.Int("order.lines", len(order.Lines())))
	}
	ctx, span := s.tracer.Start(ctx, "AllocationService.PlaceOrder", trace.WithAttributes(attrs...))
	defer span.End()

	s.logInfo(ctx, "placing order")
	if err := s.inner.PlaceOrder(ctx, order); err != nil {
		if application.IsRejection(err) {
			span.SetAttributes(attribute.String("order.rejection", err.Error()))
			s.metrics.recordRejected(ctx, err)
			s.logInfo(ctx, "order rejected", slog.String("reason", err.Error()))
			return err
		}
		return s.handleError(ctx, span, err, "failed to place order")
	}
	s.metrics.recordAllocated(ctx)
	s.logInfo(ctx, "order allocated",
		slog.Float64("products_total", orderProductsTotal(order)),
		slog.Float64("services_total", orderServicesTotal(order)))
	return nil
}

func (s *Service) AddNewProducts(ctx context.Context, products []domain.Product) ([]domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "AllocationService.AddNewProducts",
		trace.WithAttributes(attribute.Int("products.requested", len(products))))
	defer span.End()

	added, err := s.inner.AddNewProducts(ctx, products)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add products")
	}
	span.SetAttributes(attribute.Int("products.added", len(added)))
	s.metrics.recordProductsAdded(ctx, len(added))
	s.logInfo(ctx, "products added", slog.Int("requested", len(products)), slog.Int("added", len(added)))
	return added, nil
}

func (s *Service) RegisterProvider(ctx context.Context, provider *domain.Provider) error {
	attrs := []attribute.KeyValue{}
	if provider != nil {
		attrs = append(attrs, attribute.Int("provider.id", provider.ID()))
	}
	ctx, span := s.tracer.Start(ctx, "AllocationService.RegisterProvider", trace.WithAttributes(attrs...))
	defer span.End()

	if err := s.inner.RegisterProvider(ctx, provider); err != nil {
		return s.handleError(ctx, span, err, "failed to register provider")
	}
	if provider != nil {
		s.logInfo(ctx, "provider registered", slog.Int("provider.id", provider.ID()))
	}
	return nil
}

func (s *Service) DiscontinueItem(ctx context.Context, item domain.Item) error {
	attrs := []attribute.KeyValue{}
	if item != nil {
		attrs = append(attrs,
			attribute.Int("item.number", item.ItemNumber()),
			attribute.String("item.kind", string(item.Kind())))
	}
	ctx, span := s.tracer.Start(ctx, "AllocationService.DiscontinueItem", trace.WithAttributes(attrs...))
	defer span.End()

	if err := s.inner.DiscontinueItem(ctx, item); err != nil {
		return s.handleError(ctx, span, err, "failed to discontinue item")
	}
	s.metrics.recordDiscontinued(ctx, item)
	if item != nil {
		s.logInfo(ctx, "item discontinued",
			slog.Int("item.number", item.ItemNumber()), slog.String("item.kind", string(item.Kind())))
	}
	return nil
}

func (s *Service) SetRestockTarget(ctx context.Context, productNumber, newTarget int) (int, error) {
	ctx, span := s.tracer.Start(ctx, "AllocationService.SetRestockTarget",
		trace.WithAttributes(attribute.Int("product.number", productNumber), attribute.Int("target", newTarget)))
	defer span.End()

	old, err := s.inner.SetRestockTarget(ctx, productNumber, newTarget)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to set restock target",
			slog.Int("product.number", productNumber))
	}
	s.logInfo(ctx, "restock target updated",
		slog.Int("product.number", productNumber), slog.Int("old", old), slog.Int("new", newTarget))
	return old, nil
}

func (s *Service) ProductCatalog(ctx context.Context) ([]domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "AllocationService.ProductCatalog")
	defer span.End()

	products, err := s.inner.ProductCatalog(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product catalog")
	}
	span.SetAttributes(attribute.Int("catalog.products", len(products)))
	return products, nil
}

func (s *Service) ProductStock(ctx context.Context, productNumber int) (int, error) {
	ctx, span := s.tracer.Start(ctx, "AllocationService.ProductStock",
		trace.WithAttributes(attribute.Int("product.number", productNumber)))
	defer span.End()

	level, err := s.inner.ProductStock(ctx, productNumber)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to read stock level",
			slog.Int("product.number", productNumber))
	}
	return level, nil
}

func (s *Service) OfferedServices(ctx context.Context) ([]domain.Service, error) {
	ctx, span := s.tracer.Start(ctx, "AllocationService.OfferedServices")
	defer span.End()

	services, err := s.inner.OfferedServices(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load offered services")
	}
	span.SetAttributes(attribute.Int("catalog.services", len(services)))
	return services, nil
}

func (s *Service) Providers(ctx context.Context) ([]domain.ProviderSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "AllocationService.Providers")
	defer span.End()

	providers, err := s.inner.Providers(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load providers")
	}
	span.SetAttributes(attribute.Int("providers.count", len(providers)))
	return providers, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func orderProductsTotal(order *domain.Order) float64 {
	if order == nil {
		return 0
	}
	return order.ProductsTotal()
}

func orderServicesTotal(order *domain.Order) float64 {
	if order == nil {
		return 0
	}
	return order.ServicesTotal()
}

type serviceMetrics struct {
	ordersAllocated   metric.Int64Counter
	ordersRejected    metric.Int64Counter
	productsAdded     metric.Int64Counter
	itemsDiscontinued metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	allocated, _ := m.Int64Counter("allocation.service.orders_allocated",
		metric.WithDescription("Number of orders fully allocated"))
	rejected, _ := m.Int64Counter("allocation.service.orders_rejected",
		metric.WithDescription("Number of orders rejected during validation"))
	added, _ := m.Int64Counter("allocation.service.products_added",
		metric.WithDescription("Number of products added to the catalog"))
	discontinued, _ := m.Int64Counter("allocation.service.items_discontinued",
		metric.WithDescription("Number of items discontinued"))
	return serviceMetrics{
		ordersAllocated:   allocated,
		ordersRejected:    rejected,
		productsAdded:     added,
		itemsDiscontinued: discontinued,
	}
}

func (m serviceMetrics) recordAllocated(ctx context.Context) {
	if m.ordersAllocated != nil {
		m.ordersAllocated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, err error) {
	if m.ordersRejected == nil {
		return
	}
	resource := "product"
	var serviceErr *application.ServiceUnavailableError
	if errors.As(err, &serviceErr) {
		resource = "service"
	}
	m.ordersRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("order.resource", resource)))
}

func (m serviceMetrics) recordProductsAdded(ctx context.Context, count int) {
	if m.productsAdded != nil && count > 0 {
		m.productsAdded.Add(ctx, int64(count))
	}
}

func (m serviceMetrics) recordDiscontinued(ctx context.Context, item domain.Item) {
	if m.itemsDiscontinued == nil || item == nil {
		return
	}
	m.itemsDiscontinued.Add(ctx, 1, metric.WithAttributes(attribute.String("item.kind", string(item.Kind()))))
}

var _ ports.Service = (*Service)(nil)
