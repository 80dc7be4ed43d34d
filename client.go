package edgardex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/filinglab/edgardex/internal/domain"
	"github.com/filinglab/edgardex/internal/pagination"
	"github.com/filinglab/edgardex/internal/store"
	"github.com/filinglab/edgardex/internal/store/file"
	"github.com/filinglab/edgardex/internal/store/memory"
	"github.com/filinglab/edgardex/internal/store/redis"
	healthuc "github.com/filinglab/edgardex/internal/usecase/health"
	searchuc "github.com/filinglab/edgardex/internal/usecase/search"
	statsuc "github.com/filinglab/edgardex/internal/usecase/stats"
	trackinguc "github.com/filinglab/edgardex/internal/usecase/tracking"
)

// Внутренние интерфейсы для подмены в тестах.
type trackingUseCase interface {
	TrackDocument(ctx context.Context, req trackinguc.TrackRequest) (string, error)
	MarkProcessed(ctx context.Context, url string, success bool, errorMessage string) error
	SaveContent(ctx context.Context, url, content string) error
	Unprocessed(ctx context.Context) ([]domain.DocumentRecord, error)
}

type searchUseCase interface {
	CompanySearch(ctx context.Context, req searchuc.CompanyRequest) (pagination.Page[searchuc.Result], error)
	FormSearch(ctx context.Context, req searchuc.FormRequest) (pagination.Page[searchuc.Result], error)
	ContentSearch(ctx context.Context, req searchuc.ContentRequest) (pagination.Page[searchuc.Result], error)
}

type statsUseCase interface {
	CrawlMetrics(ctx context.Context, companyName string) (domain.CrawlMetrics, error)
	YearlyMetrics(ctx context.Context) ([]domain.YearlyMetrics, error)
	CompanyYearlyMetrics(ctx context.Context, companyName string) ([]domain.YearlyMetrics, error)
	ProcessingErrorsPage(ctx context.Context, companyName string, page, pageSize int) (pagination.Page[domain.ProcessingError], error)
	CompanyBreakdown(ctx context.Context, page, pageSize int) (pagination.Page[domain.CompanyMetrics], error)
}

// Client is the edgardex SDK entry point.
type Client struct {
	store     store.Store
	trackSvc  trackingUseCase
	searchSvc searchUseCase
	statsSvc  statsUseCase
	healthSvc healthUseCase
	obs       *observer
}

// Open creates an edgardex Client and readies the storage backend.
// The provided context bounds the initial readiness wait.
func Open(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("edgardex: storage driver required (use WithMemory, WithDataDir or WithRedis)")
	}

	st, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := st.Initialize(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("edgardex: storage not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		st.Close()
		return nil, err
	}
	return wireClient(st, cfg, obs), nil
}

func createStore(cfg *clientConfig) (store.Store, error) {
	switch cfg.driver {
	case "memory":
		return memory.NewStore(memory.Config{Now: cfg.now}), nil
	case "file":
		s, err := file.NewStore(file.Config{
			Dir:    cfg.dir,
			Now:    cfg.now,
			Watch:  cfg.watch,
			Logger: cfg.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("edgardex: create file store: %w", err)
		}
		return s, nil
	case "redis":
		s, err := redis.NewStore(redis.Config{
			Addrs:        cfg.addrs,
			Password:     cfg.password,
			DB:           cfg.db,
			KeyPrefix:    cfg.keyPrefix,
			ReadyTimeout: cfg.readinessTimeout,
			Now:          cfg.now,
		})
		if err != nil {
			return nil, fmt.Errorf("edgardex: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("edgardex: unknown driver %q", cfg.driver)
	}
}

func wireClient(st store.Store, cfg *clientConfig, obs *observer) *Client {
	return &Client{
		store:     st,
		trackSvc:  trackinguc.New(st, cfg.logger),
		searchSvc: searchuc.New(st, st, st),
		statsSvc:  statsuc.New(st, st),
		healthSvc: healthuc.New(st),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks storage connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if !c.store.Healthy(ctx) {
		return fmt.Errorf("ping: %w", domain.ErrStorageUnavailable)
	}
	return nil
}

// Documents returns the crawler-facing write service.
func (c *Client) Documents() *DocumentService {
	return &DocumentService{svc: c.trackSvc, obs: c.obs}
}

// Search returns the search service.
func (c *Client) Search() *SearchService {
	return &SearchService{svc: c.searchSvc, obs: c.obs}
}

// Stats returns the crawl statistics service.
func (c *Client) Stats() *StatsService {
	return &StatsService{svc: c.statsSvc, obs: c.obs}
}
