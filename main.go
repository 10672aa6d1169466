package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"trust-shield/internal/cachecmd"
	"trust-shield/internal/evaluate"
	"trust-shield/internal/serve"
	"trust-shield/pkg/help"
)

func main() {
	app := &cli.App{
		Name:  "trust-shield",
		Usage: "score rental listings for scam and quality signals",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config YAML",
				Value:   "config.yaml",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP evaluation API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "listen", Usage: "listen address (overrides config)"},
					&cli.StringFlag{Name: "cache", Usage: "cache database path (overrides config)"},
					&cli.StringFlag{Name: "policy", Usage: "scoring policy version"},
					&cli.StringFlag{Name: "policy-file", Usage: "scoring policy YAML file"},
					&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "config.yaml"},
					&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}},
				},
				Action: serve.ServeAction,
			},
			{
				Name:      "evaluate",
				Usage:     "score a single listing and print the result",
				ArgsUsage: "<listing id or URL>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "hints", Usage: "JSON file with known listing fields"},
					&cli.StringFlag{Name: "policy", Usage: "scoring policy version"},
					&cli.StringFlag{Name: "policy-file", Usage: "scoring policy YAML file"},
					&cli.BoolFlag{Name: "no-cache", Usage: "skip the result cache"},
					&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "config.yaml"},
					&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}},
				},
				Action: evaluate.EvaluateAction,
			},
			{
				Name:  "cache",
				Usage: "inspect and maintain the result cache",
				Subcommands: []*cli.Command{
					{
						Name:  "stats",
						Usage: "print cache entry count",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "cache", Usage: "cache database path (overrides config)"},
							&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "config.yaml"},
							&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}},
						},
						Action: cachecmd.StatsAction,
					},
					{
						Name:  "purge",
						Usage: "delete entries older than a duration",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "older-than", Value: "24h", Usage: "age threshold"},
							&cli.StringFlag{Name: "cache", Usage: "cache database path (overrides config)"},
							&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "config.yaml"},
							&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}},
						},
						Action: cachecmd.PurgeAction,
					},
				},
			},
			{
				Name:  "quickstart",
				Usage: "print a machine-readable quick start guide",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
