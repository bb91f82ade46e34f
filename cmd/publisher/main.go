package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "publisher",
		Usage: "Concurrent Kafka publish pool",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Start the publish pool, send test messages, and shut down",
				Flags:  append(poolFlags(), runFlags()...),
				Action: run,
			},
			{
				Name:   "metadata",
				Usage:  "Report cluster, topic and partition state",
				Flags:  append(poolFlags(), metadataFlags()...),
				Action: metadata,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
