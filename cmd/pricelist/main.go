// Package main provides the price-list pipeline entry point.
// Executes: catalog load → market matching → simulation → pricing → export.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"miner-econ-lab/internal/config"
	"miner-econ-lab/internal/domain"
	"miner-econ-lab/internal/observability"
	"miner-econ-lab/internal/orchestrator"
	"miner-econ-lab/internal/reporting"
	"miner-econ-lab/internal/storage"
	chstore "miner-econ-lab/internal/storage/clickhouse"
	"miner-econ-lab/internal/storage/memory"
	"miner-econ-lab/internal/storage/migrations"
	"miner-econ-lab/internal/storage/postgres"
)

type stores struct {
	profiles    storage.MinerProfileStore
	listings    storage.MarketListingStore
	summaries   storage.SimulationSummaryStore
	projections storage.ProjectionStore

	pgPool *postgres.Pool
	chConn *chstore.Conn
	memory bool
}

func main() {
	configPath := flag.String("config", "", "Directory containing config.yaml (optional)")
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	workers := flag.Int("workers", 0, "Worker pool size (0 uses the default)")
	mode := flag.String("mode", string(domain.ModeBTCTreasury), "Accounting mode for pipeline simulations")
	metricsAddr := flag.String("metrics-addr", "", "Address for the Prometheus endpoint (empty disables it)")
	flag.Parse()

	log := logrus.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling pipeline...\n", sig)
		cancel()
	}()

	var cfg config.Config
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			log.WithError(err).Fatal("load config")
		}
		cfg = loaded
	}

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("open stores")
	}
	defer st.close()

	if st.memory {
		if err := orchestrator.LoadFixtures(ctx, st.profiles, st.listings); err != nil {
			log.WithError(err).Fatal("load fixtures")
		}
		log.Info("no database configured, using in-memory stores with fixture data")
	}

	metricsAddrValue := *metricsAddr
	if metricsAddrValue == "" {
		metricsAddrValue = cfg.Metrics.Addr
	}
	var m *observability.Metrics
	if metricsAddrValue != "" {
		m = observability.NewMetrics("")
		go serveMetrics(metricsAddrValue, log)
	}

	terms, market := scenario(cfg)
	policyCfg := policyConfig(cfg)

	orch := orchestrator.New(orchestrator.Options{
		ProfileStore:    st.profiles,
		ListingStore:    st.listings,
		SummaryStore:    st.summaries,
		ProjectionStore: st.projections,
		Terms:           terms,
		Market:          market,
		Config: domain.SimulationConfig{
			StartDate: time.Now().UTC().Truncate(24 * time.Hour),
			Mode:      domain.AccountingMode(*mode),
		},
		PolicyConfig: policyCfg,
		Workers:      *workers,
		Logger:       log,
		Metrics:      m,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		log.WithError(err).Fatal("pipeline failed")
	}

	fmt.Println("=== Price List Pipeline ===")
	fmt.Printf("  Machines priced:    %d\n", result.ProfilesProcessed)
	fmt.Printf("  Machines skipped:   %d\n", result.ProfilesSkipped)
	fmt.Printf("  Listings considered: %d\n", result.ListingsConsidered)

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.WithError(err).Fatal("create output dir")
	}
	csvPath := filepath.Join(*outputDir, "price_list.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderPriceListCSV(result.Rows)), 0o644); err != nil {
		log.WithError(err).Fatal("write price list csv")
	}
	mdPath := filepath.Join(*outputDir, "price_list.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderPriceListMarkdown(result.Rows)), 0o644); err != nil {
		log.WithError(err).Fatal("write price list markdown")
	}
	fmt.Printf("\nPrice list written to %s and %s\n", csvPath, mdPath)
}

// openStores wires postgres/clickhouse stores when DSNs are configured and
// falls back to in-memory stores otherwise.
func openStores(ctx context.Context, cfg config.Config, log *logrus.Logger) (*stores, error) {
	if cfg.Database.PostgresDSN == "" {
		return &stores{
			profiles:    memory.NewMinerProfileStore(),
			listings:    memory.NewMarketListingStore(),
			summaries:   memory.NewSummaryStore(),
			projections: memory.NewProjectionStore(),
			memory:      true,
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.Database.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres migrations: %w", err)
	}

	st := &stores{
		profiles:  postgres.NewMinerProfileStore(pool),
		listings:  postgres.NewMarketListingStore(pool),
		summaries: postgres.NewSummaryStore(pool),
		pgPool:    pool,
	}

	if cfg.Database.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Database.ClickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		st.chConn = conn
		st.projections = chstore.NewProjectionStore(conn)
	} else {
		log.Warn("no clickhouse dsn configured, projections kept in memory")
		st.projections = memory.NewProjectionStore()
	}

	return st, nil
}

func (s *stores) close() {
	if s.pgPool != nil {
		s.pgPool.Close()
	}
	if s.chConn != nil {
		s.chConn.Close()
	}
}

func serveMetrics(addr string, log *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	log.WithField("addr", addr).Info("metrics endpoint listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Error("metrics endpoint failed")
	}
}

// scenario builds contract terms and market conditions from config,
// substituting the fixture scenario for anything left unset.
func scenario(cfg config.Config) (domain.ContractTerms, domain.MarketConditions) {
	terms := domain.ContractTerms{
		ElectricityRate: cfg.Contract.ElectricityRate,
		OpexRate:        cfg.Contract.OpexRate,
		PoolFeePct:      cfg.Contract.PoolFeePct,
		DurationYears:   cfg.Contract.DurationYears,
		AdvanceYears:    cfg.Contract.AdvanceYears,
		SetupFeeUSD:     cfg.Contract.SetupFeeUSD,
		SetupFeeBTCPct:  cfg.Contract.SetupFeeBTCPct,
		HardwareCostUSD: cfg.Contract.HardwareCostUSD,
		MarkupBTCPct:    cfg.Contract.MarkupBTCPct,
	}
	if terms.ElectricityRate <= 0 {
		terms.ElectricityRate = 0.065
	}
	if terms.DurationYears <= 0 {
		terms.DurationYears = 2
	}
	if terms.PoolFeePct <= 0 {
		terms.PoolFeePct = 1.0
	}

	market := domain.MarketConditions{
		BTCPriceUSD:           cfg.Market.BTCPriceUSD,
		Difficulty:            cfg.Market.Difficulty,
		BlockReward:           cfg.Market.BlockReward,
		MonthlyDiffGrowthPct:  cfg.Market.MonthlyDiffGrowthPct,
		MonthlyPriceGrowthPct: cfg.Market.MonthlyPriceGrowthPct,
	}
	if market.BTCPriceUSD <= 0 {
		market.BTCPriceUSD = 108000
	}
	if market.Difficulty <= 0 {
		market.Difficulty = 1.05e14
	}
	if market.BlockReward <= 0 {
		market.BlockReward = 3.125
	}
	if cfg.Market.HalvingDate != "" {
		if halving, err := time.Parse("2006-01-02", cfg.Market.HalvingDate); err == nil {
			market.HalvingDate = &halving
		}
	}
	return terms, market
}

func policyConfig(cfg config.Config) domain.PricingPolicyConfig {
	policy := domain.PricingPolicyConfig{
		PolicyType:   domain.PolicyType(cfg.Pricing.Policy),
		TargetMargin: cfg.Pricing.TargetMargin,
		Denomination: cfg.Pricing.Denomination,
	}
	if policy.PolicyType == "" {
		policy.PolicyType = domain.PolicyTwoPass
	}
	if policy.PolicyType == domain.PolicyTwoPass {
		if policy.TargetMargin <= 0 {
			policy.TargetMargin = 0.3
		}
		if policy.Denomination == "" {
			policy.Denomination = domain.DenomBTC
		}
	}
	return policy
}
