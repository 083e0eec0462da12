// screen_portfolio - A utility to screen a single portfolio and report the
// option strategies and single-leg tags the service assigns to it.
// Reads a portfolio JSON file (or synthesizes one with -generate) and screens
// it either through a running service or in-process with -local.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/eddiefleurent/option_screener/internal/client"
	"github.com/eddiefleurent/option_screener/internal/config"
	"github.com/eddiefleurent/option_screener/internal/mock"
	"github.com/eddiefleurent/option_screener/internal/models"
	"github.com/eddiefleurent/option_screener/internal/screener"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "Path to configuration file")
		filePath   = flag.String("file", "", "Path to a portfolio JSON file")
		generate   = flag.Int("generate", 0, "Generate a mock portfolio with N structure groups instead of reading a file")
		local      = flag.Bool("local", false, "Screen in-process instead of calling the service")
		baseURL    = flag.String("base-url", "", "Service base URL (default derived from config)")
		jsonOutput = flag.Bool("json", false, "Output results as JSON")
		verbose    = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	portfolio, err := loadPortfolio(*filePath, *generate)
	if err != nil {
		log.Fatalf("Failed to load portfolio: %v", err)
	}
	// Validate up front so a malformed file fails here rather than as a 400
	// from the service.
	if err := portfolio.Validate(); err != nil {
		log.Fatalf("Invalid portfolio: %v", err)
	}

	if *verbose {
		fmt.Printf("Using config: %s\n", *configPath)
		fmt.Printf("Portfolio: %s (%d positions, %s)\n",
			portfolio.PortfolioID, len(portfolio.Positions), portfolio.PortfolioCurrency)
		if *local {
			fmt.Printf("Mode: local (in-process engine)\n")
		} else {
			fmt.Printf("Mode: remote (HTTP client)\n")
		}
		fmt.Printf("\n")
	}

	var results []models.ScreenResult
	if *local {
		engineCfg := screener.DefaultConfig()
		engineCfg.DistinctSingleLegTags = cfg.Screener.DistinctTags()
		eng := screener.New(engineCfg, log.New(os.Stderr, "[screener] ", log.LstdFlags))
		results = eng.Screen(portfolio)
	} else {
		url := *baseURL
		if url == "" {
			url = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
		}
		api := client.NewHTTPClient(url, cfg.Server.AuthToken)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		results, err = api.Screen(ctx, portfolio)
		if err != nil {
			log.Fatalf("Failed to screen portfolio: %v", err)
		}
	}

	// Output results
	if *jsonOutput {
		output, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			log.Fatalf("Failed to marshal JSON: %v", err)
		}
		fmt.Println(string(output))
		return
	}

	printReport(portfolio, results)
}

// loadPortfolio reads the portfolio from a JSON file, or synthesizes one
// with the mock generator when -generate is set.
func loadPortfolio(path string, groups int) (*models.Portfolio, error) {
	if groups > 0 {
		return mock.NewPortfolioGenerator().GeneratePortfolio("", groups), nil
	}
	if path == "" {
		return nil, fmt.Errorf("either -file or -generate is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var portfolio models.Portfolio
	if err := json.Unmarshal(data, &portfolio); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &portfolio, nil
}

// printReport prints a human-readable breakdown of the screening results.
func printReport(portfolio *models.Portfolio, results []models.ScreenResult) {
	options := portfolio.OptionPositions()

	fmt.Printf("=== SCREENING REPORT: %s ===\n", portfolio.PortfolioID)
	fmt.Printf("Currency: %s  Risk profile: %s  Horizon: %d year(s)\n",
		portfolio.PortfolioCurrency, portfolio.RiskProfile, portfolio.InvestmentHorizonYears)
	fmt.Printf("Positions: %d total, %d option leg(s)\n", len(portfolio.Positions), len(options))
	fmt.Printf("\n")

	var strategies []models.OptionStrategy
	var tagged []models.TaggedOptionPosition
	for _, r := range results {
		switch v := r.(type) {
		case models.OptionStrategy:
			strategies = append(strategies, v)
		case models.TaggedOptionPosition:
			tagged = append(tagged, v)
		}
	}

	if len(strategies) > 0 {
		fmt.Printf("STRATEGIES (%d):\n", len(strategies))
		for i, s := range strategies {
			fmt.Printf("  %d. %-22s %-6s exp %s  legs=%d  net premium %s\n",
				i+1, s.StrategyName, s.UnderlyingSymbol, s.ExpiryDate,
				len(s.Legs), formatPremium(s.NetPremiumPaidReceived))
		}
		fmt.Printf("\n")
	}

	if len(tagged) > 0 {
		fmt.Printf("SINGLE-LEG TAGS (%d):\n", len(tagged))
		for i, t := range tagged {
			line := fmt.Sprintf("  %d. %-6s %-5s %-5s strike %.2f  exp %s  -> %s",
				i+1, t.Symbol, t.Side, t.OptionType, t.Strike, t.Expiry, t.Tag)
			if t.Tag == models.TagPartiallyCoveredCall || t.Tag == models.TagPartiallyProtectivePut {
				line += fmt.Sprintf(" (%.2f%% covered)", t.CoveragePercent)
			}
			fmt.Println(line)
		}
		fmt.Printf("\n")
	}

	if len(results) == 0 {
		fmt.Printf("No option positions to screen.\n\n")
	}

	// Summary and risk callouts
	fmt.Printf("=== SUMMARY ===\n")
	legsInStrategies := 0
	for _, s := range strategies {
		legsInStrategies += len(s.Legs)
	}
	fmt.Printf("Option legs: %d total, %d in strategies, %d single-leg\n",
		len(options), legsInStrategies, len(tagged))
	if n := countTag(tagged, models.TagNaked); n > 0 {
		fmt.Printf("WARNING: %d naked short call(s) - unlimited upside risk\n", n)
	}
	if n := countTag(tagged, models.TagInvalid); n > 0 {
		fmt.Printf("WARNING: %d leg(s) tagged Invalid - check contracts and strikes\n", n)
	}
}

func countTag(tagged []models.TaggedOptionPosition, tag models.Tag) int {
	n := 0
	for _, t := range tagged {
		if t.Tag == tag {
			n++
		}
	}
	return n
}

// formatPremium renders net premium with an explicit sign: positive means
// premium paid, negative means premium received.
func formatPremium(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
