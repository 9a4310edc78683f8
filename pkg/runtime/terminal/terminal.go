package terminal

import (
	"io"
	"os"

	"github.com/de-tools/account-scout/pkg/runtime/terminal/commands"

	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{}
	cli.rootCmd = cli.newRootCmd(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd(output io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scout",
		Short: "AWS account audit and reporting tool",
	}

	cmd.AddCommand(commands.NewRegionsCmd(output))
	cmd.AddCommand(commands.NewInventoryCmd(output))
	cmd.AddCommand(commands.NewAuditCmd(output))

	return cmd
}
