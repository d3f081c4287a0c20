// cmd/tools/registry-validator/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"premiumradar-core/internal/agents"
	"premiumradar-core/pkg/registry"
)

func main() {
	path := flag.String("path", "configs/agent-registry.json", "Path to agent registry override file")
	report := flag.Bool("report", false, "Print the effective capability table after applying overrides")
	flag.Parse()

	reg := agents.NewRegistry()

	if _, err := os.Stat(*path); os.IsNotExist(err) {
		fmt.Printf("No override file at %s, built-in registry only.\n", *path)
		if *report {
			printReport(reg)
		}
		return
	}

	file, err := registry.Load(*path)
	if err != nil {
		fmt.Printf("Registry validation failed: %v\n", err)
		os.Exit(1)
	}
	if err := reg.ApplyOverrides(file.Overrides); err != nil {
		fmt.Printf("Registry validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Registry validation passed: %d override(s) applied.\n", len(file.Overrides))
	if *report {
		printReport(reg)
	}
}

func printReport(reg *agents.Registry) {
	names := reg.Agents()
	sort.Strings(names)

	fmt.Println()
	fmt.Printf("%-12s %-10s %-12s %-8s %s\n", "AGENT", "LATENCY", "SUCCESS", "CONC", "PRIMARY INTENTS")
	for _, name := range names {
		c, _ := reg.Capability(name)
		fmt.Printf("%-12s %-10s %-12s %-8d %s\n",
			c.Agent,
			fmt.Sprintf("%dms", c.AverageLatencyMs),
			fmt.Sprintf("%.2f", c.SuccessRate),
			c.MaxConcurrency,
			strings.Join(c.PrimaryIntents, ", "),
		)
	}
}
