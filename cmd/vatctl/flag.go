package main

import (
	"fmt"
	"strconv"

	"order17vat/pkg/grid"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status ORDER_ID...",
	Short: "Print the VAT 17% flag of orders",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStatus,
}

var setCmd = &cobra.Command{
	Use:   "set ORDER_ID true|false",
	Short: "Set the VAT 17% flag of an order",
	Args:  cobra.ExactArgs(2),
	RunE:  runSet,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle ORDER_ID",
	Short: "Flip the VAT 17% flag of an order",
	Args:  cobra.ExactArgs(1),
	RunE:  runToggle,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ids := make([]uint, 0, len(args))
	for _, arg := range args {
		id, err := parseOrderArg(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	statuses, err := a.VatService.GetStatuses(commandContext(cmd), ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintf(cmd.OutOrStdout(), "order %d: is_vat_17=%t\n", id, statuses[id])
	}
	return nil
}

func runSet(cmd *cobra.Command, args []string) error {
	id, err := parseOrderArg(args[0])
	if err != nil {
		return err
	}
	value, err := grid.ParseBool(args[1])
	if err != nil {
		return fmt.Errorf("invalid flag value %q", args[1])
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	flag, err := a.VatService.SetStatus(commandContext(cmd), id, value)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "order %d: is_vat_17=%t\n", flag.OrderID, flag.IsVat17)
	return nil
}

func runToggle(cmd *cobra.Command, args []string) error {
	id, err := parseOrderArg(args[0])
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	flag, err := a.VatService.Toggle(commandContext(cmd), id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "order %d: is_vat_17=%t\n", flag.OrderID, flag.IsVat17)
	return nil
}

func parseOrderArg(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid order id %q", raw)
	}
	return uint(id), nil
}
