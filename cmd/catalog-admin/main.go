// Command catalog-admin manages the product catalog from the terminal.
package main

import (
	"context"
	"os"

	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	appkg "github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/app"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, m *app.Telemetry) error {
		cfg, err := appkg.LoadConfig()
		if err != nil {
			return err
		}

		n := newPrinter(os.Stderr)
		c, err := appkg.New(lg, m, cfg, n)
		if err != nil {
			return err
		}
		return newCLI(c, n, os.Stdin, os.Stdout).dispatch(ctx, os.Args[1:])
	})
}
