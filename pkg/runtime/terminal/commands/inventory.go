package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/de-tools/account-scout/pkg/runtime/terminal/export"
	"github.com/de-tools/account-scout/pkg/services/inventory"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type InstanceTypesCmd struct {
	profile string
	outFile string
	output  io.Writer
}

func NewInventoryCmd(output io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Inventory reports",
	}

	cmd.AddCommand(newInstanceTypesCmd(output))

	return cmd
}

func newInstanceTypesCmd(output io.Writer) *cobra.Command {
	ic := &InstanceTypesCmd{output: output}
	cmd := &cobra.Command{
		Use:   "instance-types",
		Short: "Export unique EC2 instance types per region to CSV",
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.profile, "profile", "", "AWS shared config profile to use")
	cmd.Flags().StringVar(&ic.outFile, "output", "ec2_instance_types.csv", "Path of the CSV file to write")

	return cmd
}

func (ic *InstanceTypesCmd) run(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	explorer, err := inventory.ExplorerFactory(ctx, ic.profile)
	if err != nil {
		return fmt.Errorf("failed to initialize AWS clients: %w", err)
	}

	offerings, err := explorer.ListOfferings(ctx)
	if err != nil {
		return fmt.Errorf("failed to list instance type offerings: %w", err)
	}

	f, err := os.Create(ic.outFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", ic.outFile, err)
	}
	defer f.Close()

	if err := export.WriteInstanceTypeOfferings(f, offerings); err != nil {
		return fmt.Errorf("failed to write %s: %w", ic.outFile, err)
	}

	fmt.Fprintf(ic.output, "Instance type inventory saved to %s (%d rows)\n", ic.outFile, len(offerings))
	return nil
}
