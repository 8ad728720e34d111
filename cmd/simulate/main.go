// Package main provides the single-machine simulator entry point.
// Runs one daily projection and prints the summary plus a CSV series.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"miner-econ-lab/internal/config"
	"miner-econ-lab/internal/domain"
	"miner-econ-lab/internal/idhash"
	"miner-econ-lab/internal/marketdata"
	"miner-econ-lab/internal/orchestrator"
	"miner-econ-lab/internal/reporting"
	"miner-econ-lab/internal/simulation"
)

func main() {
	configPath := flag.String("config", "", "Directory containing config.yaml (optional)")
	minerName := flag.String("miner", "Antminer S21 Pro", "Catalog machine to simulate")
	mode := flag.String("mode", string(domain.ModePlain), "Accounting mode: plain, cash_treasury, btc_treasury")
	capital := flag.Float64("capital", 0, "Initial capital in USD (0 uses the machine sale price)")
	outputDir := flag.String("output-dir", "docs", "Output directory for the projection CSV")
	live := flag.Bool("live", false, "Refresh market conditions from the ticker feed before the run")
	flag.Parse()

	log := logrus.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling...\n", sig)
		cancel()
	}()

	terms, market, feedEndpoint := defaultScenario()
	if *configPath != "" {
		cfg, err := config.LoadConfig(*configPath)
		if err != nil {
			log.WithError(err).Fatal("load config")
		}
		terms, market = scenarioFromConfig(cfg)
		feedEndpoint = cfg.Market.FeedEndpoint
	}

	if *live {
		if feedEndpoint == "" {
			log.Fatal("live mode requires a feed endpoint (market.feed_endpoint)")
		}
		if err := refreshMarket(ctx, feedEndpoint, &market, log); err != nil {
			log.WithError(err).Fatal("refresh market conditions")
		}
	}

	profile, ok := findProfile(*minerName)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown machine %q. Available:\n", *minerName)
		for _, p := range orchestrator.FixtureProfiles() {
			fmt.Fprintf(os.Stderr, "  %s\n", p.Name)
		}
		os.Exit(1)
	}

	initialCapital := *capital
	if initialCapital <= 0 {
		initialCapital = profile.SalePriceUSD
	}

	simCfg := domain.SimulationConfig{
		StartDate:      time.Now().UTC().Truncate(24 * time.Hour),
		InitialCapital: initialCapital,
		Mode:           domain.AccountingMode(*mode),
	}
	result := simulation.Run(simulation.Inputs{
		Profile: profile,
		Terms:   terms,
		Market:  market,
		Config:  simCfg,
	})
	result.Summary.RunID = idhash.ComputeRunID(profile.Name, simCfg.Mode, simCfg.StartDate, simCfg.InitialCapital)

	printSummary(result.Summary)

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.WithError(err).Fatal("create output dir")
	}
	csvPath := filepath.Join(*outputDir, projectionFileName(profile.Name))
	if err := os.WriteFile(csvPath, []byte(reporting.RenderProjectionCSV(result)), 0o644); err != nil {
		log.WithError(err).Fatal("write projection csv")
	}
	fmt.Printf("\nProjection series written to %s (%d days)\n", csvPath, len(result.Projections))
}

// refreshMarket takes the first live ticker and overlays its non-zero fields.
func refreshMarket(ctx context.Context, endpoint string, market *domain.MarketConditions, log *logrus.Logger) error {
	client, err := marketdata.NewClient(ctx, endpoint, nil, log)
	if err != nil {
		return err
	}
	defer client.Close()

	select {
	case tick := <-client.Updates():
		if tick.BTCPriceUSD > 0 {
			market.BTCPriceUSD = tick.BTCPriceUSD
		}
		if tick.Difficulty > 0 {
			market.Difficulty = tick.Difficulty
		}
		if tick.BlockReward > 0 {
			market.BlockReward = tick.BlockReward
		}
		return nil
	case <-time.After(15 * time.Second):
		return fmt.Errorf("no feed update within 15s")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func findProfile(name string) (domain.MinerProfile, bool) {
	for _, p := range orchestrator.FixtureProfiles() {
		if strings.EqualFold(p.Name, name) {
			return *p, true
		}
	}
	return domain.MinerProfile{}, false
}

func printSummary(s domain.Summary) {
	fmt.Println("=== Simulation Summary ===")
	fmt.Printf("Run ID:          %s\n", s.RunID)
	fmt.Printf("Machine:         %s\n", s.MinerName)
	fmt.Printf("Mode:            %s\n", s.Mode)
	fmt.Printf("Active days:     %d\n", s.ActiveDays)
	fmt.Printf("Net BTC mined:   %.8f\n", s.TotalNetBTC)
	fmt.Printf("Total cost:      $%.2f\n", s.TotalCostUSD)
	fmt.Printf("Total revenue:   $%.2f\n", s.TotalRevenueUSD)
	if s.BreakevenDate != nil {
		fmt.Printf("Breakeven:       %s\n", s.BreakevenDate.Format("2006-01-02"))
	} else {
		fmt.Println("Breakeven:       never")
	}
	if s.ShutdownDate != nil {
		fmt.Printf("Shutdown:        %s (%s)\n", s.ShutdownDate.Format("2006-01-02"), s.ShutdownReason)
	}
	fmt.Printf("Final treasury:  %.8f BTC / $%.2f\n", s.FinalTreasuryBTC, s.FinalTreasuryUSD)
	fmt.Printf("ROI:             %.2f%%\n", s.ROIPct)
	if s.Outcome != "" {
		fmt.Printf("Outcome:         %s\n", s.Outcome)
	}
	if s.AdvisoryMessage != "" {
		fmt.Printf("Advisory:        %s\n", s.AdvisoryMessage)
	}
}

func projectionFileName(miner string) string {
	slug := strings.ToLower(strings.ReplaceAll(miner, " ", "_"))
	return fmt.Sprintf("projection_%s.csv", slug)
}

// defaultScenario matches the fixture catalog: a two-year hosting contract
// at late-2026 network conditions.
func defaultScenario() (domain.ContractTerms, domain.MarketConditions, string) {
	terms := domain.ContractTerms{
		ElectricityRate: 0.065,
		OpexRate:        0.01,
		PoolFeePct:      1.0,
		DurationYears:   2,
		AdvanceYears:    0.5,
		SetupFeeUSD:     150,
		SetupFeeBTCPct:  50,
		HardwareCostUSD: 3800,
		MarkupBTCPct:    100,
	}
	market := domain.MarketConditions{
		BTCPriceUSD:           108000,
		Difficulty:            1.05e14,
		BlockReward:           3.125,
		MonthlyDiffGrowthPct:  2.0,
		MonthlyPriceGrowthPct: 1.5,
	}
	return terms, market, ""
}

func scenarioFromConfig(cfg config.Config) (domain.ContractTerms, domain.MarketConditions) {
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
	market := domain.MarketConditions{
		BTCPriceUSD:           cfg.Market.BTCPriceUSD,
		Difficulty:            cfg.Market.Difficulty,
		BlockReward:           cfg.Market.BlockReward,
		MonthlyDiffGrowthPct:  cfg.Market.MonthlyDiffGrowthPct,
		MonthlyPriceGrowthPct: cfg.Market.MonthlyPriceGrowthPct,
	}
	if cfg.Market.HalvingDate != "" {
		if halving, err := time.Parse("2006-01-02", cfg.Market.HalvingDate); err == nil {
			market.HalvingDate = &halving
		}
	}
	return terms, market
}
