package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/de-tools/account-scout/pkg/runtime/terminal/export"
	"github.com/de-tools/account-scout/pkg/services/regions"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type RegionsCmd struct {
	profile string
	output  io.Writer
}

// NewRegionsCmd reports every region holding billed or active resources,
// reconciled from Cost Explorer, Resource Explorer, and AWS Config. The
// command is an observability tool, not a gate: it always exits 0, even
// when every source fails.
func NewRegionsCmd(output io.Writer) *cobra.Command {
	rc := &RegionsCmd{output: output}
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List regions with active resources or billing",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.profile, "profile", "", "AWS shared config profile to use")

	return cmd
}

func (rc *RegionsCmd) run(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	fmt.Fprintln(rc.output, "Checking permissions and fetching active regions...")
	fmt.Fprintln(rc.output)

	reconciler, err := regions.ReconcilerFactory(ctx, rc.profile)
	if err != nil {
		fmt.Fprintf(rc.output, "Failed to initialize AWS clients: %v\n", err)
		return nil
	}

	report := reconciler.Reconcile(ctx)
	if err := export.NewRegionsReporter(rc.output).Handle(report); err != nil {
		logger.Error().Err(err).Msg("failed to print report")
	}
	return nil
}
