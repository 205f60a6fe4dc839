// Package setup provides the terminal configuration wizard.
package setup

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/leviob/dvabot/config"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// RunTUI launches the terminal configuration wizard and writes the resulting
// YAML config file.
func RunTUI() error {
	var (
		pair            string
		minPurchaseStr  string
		maxPurchaseStr  string
		goodRatioStr    string
		poorRatioStr    string
		dangerRatioStr  string
		windowStr       string
		runIntervalStr  string
		notifyTo        string
		smtpHost        string
		smtpPortStr     string
		confirm         bool
	)

	// defaults
	pair = "ETH_USD"
	minPurchaseStr = "5"
	maxPurchaseStr = "40"
	goodRatioStr = "0.85"
	poorRatioStr = "1.2"
	dangerRatioStr = "1.5"
	windowStr = "100"
	runIntervalStr = "72h"
	smtpPortStr = "587"

	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("DVABOT CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Let's get your buying bot configured.\n"))

	// asset
	fmt.Println(stepStyle.Render("STEP 1: ASSET"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Trading Pair").
				Description("Must contain underscore (e.g. ETH_USD)").
				Value(&pair).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("pair cannot be empty")
					}
					if !containsUnderscore(s) {
						return fmt.Errorf("invalid format: must be BASE_QUOTE (e.g. ETH_USD)")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	// purchase bounds
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("DVABOT CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: PURCHASE SIZING"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Minimum USD per run").
				Description("Spent when the price looks expensive").
				Value(&minPurchaseStr).
				Validate(validatePositiveDecimal),
			huh.NewInput().
				Title("Maximum USD per run").
				Description("Spent when the price looks cheap").
				Value(&maxPurchaseStr).
				Validate(validatePositiveDecimal),
		),
	).Run()
	if err != nil {
		return err
	}

	// valuation thresholds
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("DVABOT CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: VALUATION"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Good Ratio").
				Description("Price/average at or below this scores 1 (cheap)").
				Value(&goodRatioStr).
				Validate(validatePositiveDecimal),
			huh.NewInput().
				Title("Poor Ratio").
				Description("Price/average at or above this scores 0 (expensive)").
				Value(&poorRatioStr).
				Validate(validatePositiveDecimal),
			huh.NewInput().
				Title("Danger Ratio").
				Description("Price/average above this aborts the run").
				Value(&dangerRatioStr).
				Validate(validatePositiveDecimal),
			huh.NewInput().
				Title("Average Window").
				Description("Number of trailing candles to average").
				Value(&windowStr).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n <= 0 {
						return fmt.Errorf("must be a positive integer")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	// timing
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("DVABOT CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 4: TIMING"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Run Interval").
				Description("Duration string (e.g. 24h, 72h)").
				Value(&runIntervalStr).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	// notification
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("DVABOT CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 5: NOTIFICATIONS"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Notification Email").
				Description("Leave empty to disable failure emails").
				Value(&notifyTo),
			huh.NewInput().
				Title("SMTP Host").
				Value(&smtpHost),
			huh.NewInput().
				Title("SMTP Port").
				Value(&smtpPortStr),
		),
	).Run()
	if err != nil {
		return err
	}

	// confirmation
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("DVABOT CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Pair: %s\nPurchase: %s-%s USD\nRatios: %s / %s / %s\nWindow: %s\nInterval: %s\n",
		pair, minPurchaseStr, maxPurchaseStr, goodRatioStr, poorRatioStr, dangerRatioStr, windowStr, runIntervalStr,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	runInterval, _ := time.ParseDuration(runIntervalStr)
	smtpPort, _ := strconv.Atoi(smtpPortStr)

	cfgTmp := config.ConfigTmp{
		Pair:        pair,
		MinPurchase: minPurchaseStr,
		MaxPurchase: maxPurchaseStr,
		GoodRatio:   goodRatioStr,
		PoorRatio:   poorRatioStr,
		DangerRatio: dangerRatioStr,
		AverageWindow: func() int {
			n, _ := strconv.Atoi(windowStr)
			return n
		}(),
		RunInterval: runInterval,
	}
	if notifyTo != "" {
		cfgTmp.Notify = config.Notify{
			To:       notifyTo,
			From:     notifyTo,
			SMTPHost: smtpHost,
			SMTPPort: smtpPort,
		}
	}

	data, err := yaml.Marshal([]config.ConfigTmp{cfgTmp})
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	filename := "config.gen.yaml"
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s", filename)))
	return nil
}

func validatePositiveDecimal(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("must be positive")
	}
	return nil
}

func containsUnderscore(s string) bool {
	for _, r := range s {
		if r == '_' {
			return true
		}
	}
	return false
}
