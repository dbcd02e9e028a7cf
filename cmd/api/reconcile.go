package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/ledger"
)

// newReconcileCmd simula un movimiento sin tocar la API remota (soporte y pruebas manuales).
//
//	dashboard reconcile --stock 10 --minimum 5 --kind SAIDA --quantity 7
func newReconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Concilia un movimiento localmente y muestra el stock resultante",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			rawStock, _ := flags.GetString("stock")
			rawMinimum, _ := flags.GetString("minimum")
			rawKind, _ := flags.GetString("kind")
			rawQty, _ := flags.GetString("quantity")

			stock, err := ledger.ParseQuantity(rawStock)
			if err != nil {
				return fmt.Errorf("--stock: %w", err)
			}
			minimum, err := ledger.ParseQuantity(rawMinimum)
			if err != nil {
				return fmt.Errorf("--minimum: %w", err)
			}
			kind, err := ledger.ParseKind(rawKind)
			if err != nil {
				return err
			}
			qty, err := ledger.ParseQuantity(rawQty)
			if err != nil {
				return fmt.Errorf("--quantity: %w", err)
			}

			res := ledger.Apply(entity.Product{CurrentStock: stock, MinimumStock: minimum}, kind, qty)
			out := cmd.OutOrStdout()
			if !res.OK() {
				fmt.Fprintf(out, "RECHAZADO %s: %s\n", res.Failure.Kind, res.Failure.Message)
				return res.Err()
			}
			fmt.Fprintf(out, "ACEPTADO %s %s: %s -> %s\n", kind, qty, res.Outcome.PreviousStock, res.Outcome.NewStock)
			if res.Outcome.BelowMinimum {
				fmt.Fprintf(out, "estoque bajo: %s < mínimo %s\n", res.Outcome.NewStock, minimum)
			}
			return nil
		},
	}
	cmd.Flags().String("stock", "0", "Stock actual del producto")
	cmd.Flags().String("minimum", "0", "Stock mínimo del producto")
	cmd.Flags().String("kind", "", "Tipo de movimiento: ENTRADA, SAIDA o AJUSTE")
	cmd.Flags().String("quantity", "", "Cantidad del movimiento")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("quantity")
	return cmd
}
