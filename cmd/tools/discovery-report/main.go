// cmd/tools/discovery-report/main.go
//
// Formats discovery enrichment API output for analysis. Reads the JSON
// envelope from stdin and prints a human-readable stress test report.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		Entities    []entity `json:"entities"`
		DataQuality struct {
			SourcesUsed []string `json:"sourcesUsed"`
			SignalCount int      `json:"signalCount"`
		} `json:"dataQuality"`
	} `json:"data"`
}

type entity struct {
	Name           string             `json:"name"`
	Industry       string             `json:"industry"`
	Headcount      int                `json:"headcount"`
	Size           string             `json:"size"`
	City           string             `json:"city"`
	Score          float64            `json:"score"`
	ScoreBreakdown map[string]float64 `json:"scoreBreakdown"`
	Signals        []signal           `json:"signals"`
}

type signal struct {
	Type        string  `json:"type"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description"`
	Source      string  `json:"source"`
}

func main() {
	var env envelope
	if err := json.NewDecoder(os.Stdin).Decode(&env); err != nil {
		fmt.Printf("ERROR: invalid JSON input: %v\n", err)
		os.Exit(1)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "Unknown error"
		}
		fmt.Printf("ERROR: %s\n", msg)
		os.Exit(1)
	}

	entities := env.Data.Entities
	quality := env.Data.DataQuality

	rule := strings.Repeat("=", 80)
	fmt.Println(rule)
	fmt.Println("DISCOVERY ENGINE STRESS TEST - Employee Banking UAE")
	fmt.Println(rule)
	fmt.Println()
	fmt.Printf("Sources Used: %s\n", strings.Join(quality.SourcesUsed, ", "))
	fmt.Printf("Total Companies Discovered: %d\n", len(entities))
	fmt.Printf("Total Signals Detected: %d\n", quality.SignalCount)
	fmt.Println()
	fmt.Println(rule)
	fmt.Println("DISCOVERED COMPANIES & SIGNALS")
	fmt.Println(rule)

	for i, e := range entities {
		fmt.Println()
		fmt.Printf("#%d %s\n", i+1, e.Name)
		fmt.Println(strings.Repeat("-", 60))
		fmt.Printf("   Industry: %s\n", orNA(e.Industry))
		fmt.Printf("   Headcount: %d employees\n", e.Headcount)
		fmt.Printf("   Size: %s\n", orNA(e.Size))
		fmt.Printf("   City: %s\n", orNA(e.City))
		fmt.Printf("   Score: %.0f/100\n", e.Score)
		fmt.Println()

		if len(e.ScoreBreakdown) > 0 {
			fmt.Println("   Score Breakdown:")
			factors := make([]string, 0, len(e.ScoreBreakdown))
			for factor := range e.ScoreBreakdown {
				factors = append(factors, factor)
			}
			sort.Strings(factors)
			for _, factor := range factors {
				fmt.Printf("      - %s: %g\n", factor, e.ScoreBreakdown[factor])
			}
		}

		if len(e.Signals) > 0 {
			fmt.Println()
			fmt.Printf("   Discovery Signals (%d detected):\n", len(e.Signals))
			shown := e.Signals
			if len(shown) > 5 {
				shown = shown[:5]
			}
			for j, sig := range shown {
				fmt.Printf("   [%d] %s (confidence: %.0f%%)\n", j+1, sig.Type, sig.Confidence*100)
				desc := sig.Description
				if len(desc) > 100 {
					desc = desc[:100] + "..."
				}
				fmt.Printf("       %s\n", desc)
				fmt.Printf("       Source: %s\n", orNA(sig.Source))
			}
			if len(e.Signals) > 5 {
				fmt.Printf("   ... and %d more signals\n", len(e.Signals)-5)
			}
		}

		fmt.Println()
		fmt.Println("   WHY THIS MATTERS FOR EMPLOYEE BANKING:")
		if e.Headcount >= 1000 {
			fmt.Println("   * Large employer = high payroll volume opportunity")
		}
		if n := countType(e.Signals, "hiring-expansion"); n > 0 {
			fmt.Printf("   * %d hiring signals = growing workforce needs payroll accounts\n", n)
		}
		if countType(e.Signals, "office-opening") > 0 {
			fmt.Println("   * New office = new employee banking relationships")
		}
		if countType(e.Signals, "funding-round") > 0 {
			fmt.Println("   * Recent funding = cash flow needs, banking relationship opportunity")
		}
		if countType(e.Signals, "market-entry") > 0 {
			fmt.Println("   * Market entry = needs local banking partner")
		}
		if countType(e.Signals, "subsidiary-creation") > 0 {
			fmt.Println("   * New subsidiary = separate payroll/banking needs")
		}
	}

	fmt.Println()
	fmt.Println(rule)
	fmt.Println("SUMMARY")
	fmt.Println(rule)

	signalTypes := map[string]int{}
	for _, e := range entities {
		for _, sig := range e.Signals {
			signalTypes[sig.Type]++
		}
	}

	type typeCount struct {
		name  string
		count int
	}
	counts := make([]typeCount, 0, len(signalTypes))
	for name, count := range signalTypes {
		counts = append(counts, typeCount{name, count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].name < counts[j].name
	})

	fmt.Println()
	fmt.Println("Signal Type Distribution:")
	for _, tc := range counts {
		fmt.Printf("   %s: %d signals\n", tc.name, tc.count)
	}

	fmt.Println()
	fmt.Println("Top Companies by Score:")
	ranked := make([]entity, len(entities))
	copy(ranked, entities)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	for i, e := range ranked {
		fmt.Printf("   %d. %s - Score: %.0f, Signals: %d\n", i+1, e.Name, e.Score, len(e.Signals))
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func countType(signals []signal, signalType string) int {
	n := 0
	for _, s := range signals {
		if s.Type == signalType {
			n++
		}
	}
	return n
}
