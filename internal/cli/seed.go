package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/powerwalk-app/powerwalk/internal/app/leaderboard"
	"github.com/powerwalk-app/powerwalk/internal/daemon"
)

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().Bool("force", false, "reseed even if competitors already exist")
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the leaderboard with sample competitors",
	Long: `Populate the leaderboard with the stock roster of 30 sample
competitors. Runs against the database directly; stop the daemon first.
With --force, existing competitors are wiped (your own entry survives)
and the roster is inserted fresh.`,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	d, err := daemon.New(cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	// daemon.New already seeds an empty roster. --force reseeds.
	force, _ := cmd.Flags().GetBool("force")
	if force {
		profile, err := d.Session().Profile()
		if err != nil {
			return err
		}
		if err := d.Leaderboard().SeedSampleData(profile.Name); err != nil {
			return err
		}
	}

	ranked, err := d.Leaderboard().Ranked(0)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✅ Leaderboard holds %d competitors (%d in the stock roster).\n",
		len(ranked), len(leaderboard.SampleCompetitors()))
	return nil
}
