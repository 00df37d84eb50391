package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"topic-scout/internal/adapter/repository"
	"topic-scout/internal/domain"
	"topic-scout/internal/infra"
	"topic-scout/internal/infra/config"
	"topic-scout/internal/ingest"
	"topic-scout/internal/niche"
)

var (
	nicheFile string
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "nichectl",
	Short: "Administer the curated niche channel list and the video store",
	Long: `nichectl manages the curated channel list used for niche ranking and
gives operational access to the normalized video store.

Example usage:
  nichectl list                          # Show curated channels
  nichectl add --id @handle --category finance
  nichectl remove UC123
  nichectl reload                        # Tell a running server to reload
  nichectl cache-stats                   # Show video store statistics
  nichectl import-csv export.csv         # Import a research CSV export`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List curated channels",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		category, _ := cmd.Flags().GetString("category")
		channels := store.Channels(category)
		if len(channels) == 0 {
			fmt.Println("no curated channels")
			return nil
		}
		for _, ch := range channels {
			fmt.Printf("%-28s %-24s %s\n", ch.ChannelID, ch.ChannelName, ch.Category)
		}
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a curated channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		id, _ := cmd.Flags().GetString("id")
		name, _ := cmd.Flags().GetString("name")
		category, _ := cmd.Flags().GetString("category")
		if id == "" || category == "" {
			return fmt.Errorf("--id and --category are required")
		}

		if err := store.Add(domain.ChannelRef{ChannelID: id, ChannelName: name, Category: category}); err != nil {
			return err
		}
		fmt.Printf("added %s (%s)\n", id, category)
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <channel-id>",
	Short: "Remove a curated channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		if err := store.Remove(args[0]); err != nil {
			return err
		}
		fmt.Printf("removed %s\n", args[0])
		return nil
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Tell a running server to reload the niche list",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Post(serverURL+"/api/niche/reload", "application/json", nil)
		if err != nil {
			return fmt.Errorf("reload request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("reload failed: status %d", resp.StatusCode)
		}
		var body map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
			fmt.Printf("reloaded, %v channels active\n", body["channels"])
		} else {
			fmt.Println("reloaded")
		}
		return nil
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "cache-stats",
	Short: "Show video store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		stats, err := repository.NewVideoMetadataRepository(pool).Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("total videos:        %d\n", stats.TotalVideos)
		fmt.Printf("with transcript:     %d\n", stats.VideosWithTranscript)
		fmt.Printf("with comments:       %d\n", stats.VideosWithComments)
		return nil
	},
}

var importCSVCmd = &cobra.Command{
	Use:   "import-csv <file>",
	Short: "Import a research CSV export into the video store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open csv: %w", err)
		}
		defer f.Close()

		rows, err := ingest.ParseCSV(f)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		videoRepo := repository.NewVideoMetadataRepository(pool)
		txManager := repository.NewPostgresTransactionManager(pool)

		err = txManager.RunInTx(ctx, func(txCtx context.Context) error {
			for i := range rows {
				if err := videoRepo.Upsert(txCtx, &rows[i]); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		fmt.Printf("imported %d videos\n", len(rows))
		return nil
	},
}

func openStore() (*niche.Store, error) {
	path := nicheFile
	if path == "" {
		path = config.Load().NicheFile
	}
	return niche.NewStore(path)
}

func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg := config.Load()
	pool, err := infra.NewPostgresDB(ctx, cfg.DSN()+"?sslmode=disable")
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}
	return pool, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&nicheFile, "niche-file", "", "path to the niche channel file (default from env)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:9020", "base URL of a running server")

	listCmd.Flags().String("category", "", "filter by category")
	addCmd.Flags().String("id", "", "channel id or @handle")
	addCmd.Flags().String("name", "", "display name")
	addCmd.Flags().String("category", "", "niche category")

	rootCmd.AddCommand(listCmd, addCmd, removeCmd, reloadCmd, cacheStatsCmd, importCSVCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
