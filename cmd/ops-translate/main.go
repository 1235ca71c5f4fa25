package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:                  "ops-translate",
		Usage:                 "Translate vRO workflows into declarative automation tasks",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			NewConvertCommand(),
			NewIndexCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
