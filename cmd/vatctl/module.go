package main

import (
	"fmt"

	"order17vat/internal/module/order17vat"

	"github.com/spf13/cobra"
)

var dropTables bool

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Create the order17vat table",
	RunE:  runInstall,
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall the module, optionally dropping its table",
	RunE:  runUninstall,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete flag rows whose order no longer exists",
	RunE:  runSweep,
}

func init() {
	uninstallCmd.Flags().BoolVar(&dropTables, "drop-tables", false, "Drop the order17vat table and every stored flag")
}

func runInstall(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	if err := a.Module.Install(commandContext(cmd)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s installed\n", order17vat.Name, order17vat.Version)
	return nil
}

func runUninstall(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	if err := a.Module.Uninstall(commandContext(cmd), dropTables); err != nil {
		return err
	}
	if dropTables {
		fmt.Fprintf(cmd.OutOrStdout(), "%s uninstalled, table dropped\n", order17vat.Name)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s uninstalled, stored flags kept\n", order17vat.Name)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	removed, err := a.VatService.SweepOrphans(commandContext(cmd))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d orphaned rows\n", removed)
	return nil
}
