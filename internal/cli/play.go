package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// ─── Gameplay Commands ──────────────────────────────────────────────────────
// Thin wrappers over the daemon's REST API.

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(walkCmd)
	rootCmd.AddCommand(claimCmd)
	rootCmd.AddCommand(drawCmd)
	rootCmd.AddCommand(arenaCmd)
	rootCmd.AddCommand(challengeCmd)
	rootCmd.AddCommand(leaderboardCmd)

	drawCmd.Flags().IntP("count", "n", 1, "number of draws (1 or 5)")
	leaderboardCmd.Flags().IntP("limit", "n", 10, "number of entries to show")
}

// ─── status ─────────────────────────────────────────────────────────────────

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show character, wallet, and step progress",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	char, err := apiGet(cmd, "/api/character")
	if err != nil {
		return err
	}
	wallet, err := apiGet(cmd, "/api/wallet")
	if err != nil {
		return err
	}

	profile, _ := char["profile"].(map[string]interface{})
	total, _ := char["total_stats"].(map[string]interface{})

	fmt.Fprintf(os.Stdout, "🏃 %s\n", asString(profile, "name"))
	fmt.Fprintf(os.Stdout, "   Coins:   %d (claimable: %d)\n", asInt(wallet, "coins"), asInt(wallet, "claimable"))
	fmt.Fprintf(os.Stdout, "   Steps:   %d today\n", asInt(wallet, "steps_today"))
	fmt.Fprintf(os.Stdout, "   Attack:  %d\n", asInt(total, "attack"))
	fmt.Fprintf(os.Stdout, "   Defense: %d\n", asInt(total, "defense"))
	fmt.Fprintf(os.Stdout, "   Health:  %d\n", asInt(total, "health"))
	if id := asString(profile, "equipped_item_id"); id != "" {
		fmt.Fprintf(os.Stdout, "   Equipped: %s\n", id)
	}
	if inventory, ok := char["items"].([]interface{}); ok {
		fmt.Fprintf(os.Stdout, "   Items:   %d owned\n", len(inventory))
	}
	return nil
}

// ─── walk ───────────────────────────────────────────────────────────────────

var walkCmd = &cobra.Command{
	Use:   "walk RAW_READING",
	Short: "Report a raw pedometer reading",
	Long: `Report a raw cumulative pedometer reading to the daemon. The first
reading after a restart only establishes the baseline; later readings add
the advance to today's step count.`,
	Args: cobra.ExactArgs(1),
	RunE: runWalk,
}

func runWalk(cmd *cobra.Command, args []string) error {
	raw, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || raw < 0 {
		return fmt.Errorf("raw reading must be a non-negative integer, got %q", args[0])
	}

	resp, err := apiPost(cmd, "/api/steps/sensor", map[string]int64{"raw": raw})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "👟 +%d steps (today: %d)\n", asInt(resp, "delta"), asInt(resp, "steps_today"))
	return nil
}

// ─── claim ──────────────────────────────────────────────────────────────────

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Convert walked steps into coins",
	RunE:  runClaim,
}

func runClaim(cmd *cobra.Command, args []string) error {
	resp, err := apiPost(cmd, "/api/wallet/claim", map[string]string{})
	if err != nil {
		return err
	}
	claimed := asInt(resp, "claimed")
	if claimed == 0 {
		fmt.Fprintln(os.Stdout, "Nothing to claim yet. Keep walking!")
		return nil
	}
	fmt.Fprintf(os.Stdout, "💰 Claimed %d coins (balance: %d)\n", claimed, asInt(resp, "coins"))
	return nil
}

// ─── draw ───────────────────────────────────────────────────────────────────

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Draw items from the shop",
	RunE:  runDraw,
}

func runDraw(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	resp, err := apiPost(cmd, "/api/shop/draw", map[string]int{"count": count})
	if err != nil {
		return err
	}

	drawn, _ := resp["items"].([]interface{})
	for _, it := range drawn {
		item, _ := it.(map[string]interface{})
		fmt.Fprintf(os.Stdout, "🎁 %s  atk +%v%%  def +%v%%  hp +%v%%\n",
			asString(item, "visual"),
			item["attack_bonus"], item["defense_bonus"], item["health_bonus"])
	}
	fmt.Fprintf(os.Stdout, "Coins left: %d\n", asInt(resp, "coins"))
	return nil
}

// ─── arena ──────────────────────────────────────────────────────────────────

var arenaCmd = &cobra.Command{
	Use:   "arena",
	Short: "Show battle attempts and nearby challengers",
	RunE:  runArena,
}

func runArena(cmd *cobra.Command, args []string) error {
	resp, err := apiGet(cmd, "/api/arena")
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "⚔️  Attempts left: %d (reset in %ds)\n",
		asInt(resp, "attempts_left"), asInt(resp, "reset_in_seconds"))
	fmt.Fprintf(os.Stdout, "   Your score: %d\n", asInt(resp, "my_score"))

	targets, _ := resp["challenge_targets"].([]interface{})
	if len(targets) == 0 {
		fmt.Fprintln(os.Stdout, "   No challengers in range right now.")
		return nil
	}
	fmt.Fprintln(os.Stdout, "   Challengers:")
	for _, tgt := range targets {
		c, _ := tgt.(map[string]interface{})
		fmt.Fprintf(os.Stdout, "     • %s (score %d)\n", asString(c, "name"), asInt(c, "score"))
	}
	return nil
}

// ─── challenge ──────────────────────────────────────────────────────────────

var challengeCmd = &cobra.Command{
	Use:   "challenge OPPONENT",
	Short: "Fight a nearby competitor",
	Args:  cobra.ExactArgs(1),
	RunE:  runChallenge,
}

func runChallenge(cmd *cobra.Command, args []string) error {
	resp, err := apiPost(cmd, "/api/arena/challenge", map[string]string{"opponent": args[0]})
	if err != nil {
		return err
	}

	result, _ := resp["result"].(map[string]interface{})
	ticks, _ := resp["ticks"].([]interface{})
	if victory, _ := result["victory"].(bool); victory {
		fmt.Fprintf(os.Stdout, "🏆 Victory over %s in %d rounds!\n", args[0], len(ticks))
	} else {
		fmt.Fprintf(os.Stdout, "💀 Defeated by %s after %d rounds.\n", args[0], len(ticks))
	}
	fmt.Fprintf(os.Stdout, "   Score: %d (%+d)  Attempts left: %d\n",
		asInt(resp, "my_score"), asInt(result, "score_delta"), asInt(resp, "attempts_left"))
	return nil
}

// ─── leaderboard ────────────────────────────────────────────────────────────

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the ranked competitor table",
	RunE:  runLeaderboard,
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	resp, err := apiGet(cmd, fmt.Sprintf("/api/leaderboard?limit=%d", limit))
	if err != nil {
		return err
	}

	competitors, _ := resp["competitors"].([]interface{})
	if len(competitors) == 0 {
		fmt.Fprintln(os.Stdout, "Leaderboard is empty. Run 'powerwalk seed' to populate it.")
		return nil
	}
	for i, entry := range competitors {
		c, _ := entry.(map[string]interface{})
		fmt.Fprintf(os.Stdout, "%3d. %-16s %d\n", i+1, asString(c, "name"), asInt(c, "score"))
	}
	return nil
}
