package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/occupancy/app"
	_ "github.com/kilianp07/occupancy/app/plugins"
	"github.com/kilianp07/occupancy/config"
	"github.com/kilianp07/occupancy/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "occupancy <cutoff> <input.csv> <output.csv>",
	Short: "Forecast hourly meeting room occupancy",
	Long: `Forecast, for every configured room sensor, whether the room will be
occupied in each of the hourly slots following the cutoff timestamp.

The input log needs the columns time, device and device_activated. The
output lists time, device and device_activated for every slot.`,
	Example:       `  occupancy "2016-08-31 23:59:59" data/device_activations.csv data/predictions.csv`,
	Args:          cobra.ExactArgs(3),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func newJob(component string) (*app.Job, logger.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, nil, err
	}
	logg := logger.New(component)
	job, err := app.New(cfg, logg)
	if err != nil {
		return nil, nil, err
	}
	return job, logg, nil
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	job, logg, err := newJob("forecast")
	if err != nil {
		return err
	}
	defer func() {
		if err := job.Close(); err != nil {
			logg.Errorf("job close: %v", err)
		}
	}()
	_, err = job.Run(ctx, app.Request{Cutoff: args[0], Input: args[1], Output: args[2]})
	return err
}
