package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/occupancy/pkg/export"
)

var hashCmd = &cobra.Command{
	Use:   "hash <cutoff> <input.csv>",
	Short: "Print the historical occupancy hash learned up to the cutoff",
	Args:  cobra.ExactArgs(2),
	RunE:  runHash,
}

func init() {
	rootCmd.AddCommand(hashCmd)
}

func runHash(cmd *cobra.Command, args []string) error {
	job, logg, err := newJob("hash")
	if err != nil {
		return err
	}
	defer func() {
		if err := job.Close(); err != nil {
			logg.Errorf("job close: %v", err)
		}
	}()
	hash, err := job.Learn(args[0], args[1])
	if err != nil {
		return err
	}
	return export.WriteHashCSV(cmd.OutOrStdout(), hash)
}
