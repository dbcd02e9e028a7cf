package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Inventario-dashboard/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-dashboard/pkg/config"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Aplica las migraciones del esquema local (sesiones y espejo de productos)",
		Long:      "Sólo hace falta con SESSION_BACKEND=postgres o MIRROR_BACKEND=postgres. Sin --steps aplica (o revierte) todas.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

			if err := postgres.Migrate(cfg.DB.ConnectionString(), args[0], steps, log); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
			log.Info().Str("direction", args[0]).Int("steps", steps).Msg("migraciones aplicadas")
			return nil
		},
	}
	cmd.Flags().Int("steps", 0, "Número de migraciones a aplicar o revertir (0 = todas)")
	return cmd
}
