package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Inspect and tune search parameters",
	Long: `Search parameters control fusion weights, similarity
thresholds, and the adaptive judge. Changes persist in the settings
store and take effect on the next query.`,
}

var paramsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all search parameters",
	RunE:  runParamsList,
}

var paramsGetCmd = &cobra.Command{
	Use:   "get [name]",
	Short: "Show one search parameter",
	Args:  cobra.ExactArgs(1),
	RunE:  runParamsGet,
}

var paramsSetCmd = &cobra.Command{
	Use:   "set [name] [value]",
	Short: "Set a search parameter",
	Args:  cobra.ExactArgs(2),
	RunE:  runParamsSet,
}

func init() {
	paramsCmd.AddCommand(paramsListCmd, paramsGetCmd, paramsSetCmd)
	rootCmd.AddCommand(paramsCmd)
}

func runParamsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}
	if paramsService == nil {
		return errors.New("params service not configured")
	}

	values := paramsService.Snapshot().Values()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd.Printf("%-28s %g\n", name, values[name])
	}
	return nil
}

func runParamsGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}
	if paramsService == nil {
		return errors.New("params service not configured")
	}

	value, ok := paramsService.Snapshot().Values()[args[0]]
	if !ok {
		return fmt.Errorf("unknown parameter %q", args[0])
	}
	cmd.Printf("%g\n", value)
	return nil
}

func runParamsSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}
	if paramsService == nil {
		return errors.New("params service not configured")
	}

	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[1], err)
	}

	if err := paramsService.Set(ctx, args[0], value); err != nil {
		return fmt.Errorf("setting parameter: %w", err)
	}
	cmd.Printf("%s = %g\n", args[0], value)
	return nil
}
