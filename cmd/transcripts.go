package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tapboard/internal/store"
)

var transcriptsCmd = &cobra.Command{
	Use:   "transcripts",
	Short: "Manage saved typing transcripts",
}

var transcriptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved transcripts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		repo, closeDB, err := openTranscripts()
		if err != nil {
			return err
		}
		defer closeDB()

		transcripts, err := repo.List(limit)
		if err != nil {
			return fmt.Errorf("listing transcripts: %w", err)
		}
		if len(transcripts) == 0 {
			fmt.Println("No transcripts saved yet.")
			return nil
		}

		fmt.Printf("%-36s  %-8s  %-6s  %-19s  %s\n", "GUID", "LAYOUT", "CHARS", "CREATED", "PREVIEW")
		for _, t := range transcripts {
			preview := strings.ReplaceAll(t.Content, "\n", "⏎")
			if len(preview) > 40 {
				preview = preview[:40] + "…"
			}
			fmt.Printf("%-36s  %-8s  %-6d  %-19s  %s\n",
				t.GUID, t.Layout, t.CharCount,
				t.CreatedAt.Format(time.DateTime), preview)
		}
		return nil
	},
}

var transcriptsShowCmd = &cobra.Command{
	Use:   "show <guid>",
	Short: "Print a transcript's full text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closeDB, err := openTranscripts()
		if err != nil {
			return err
		}
		defer closeDB()

		t, err := repo.FindByGUID(args[0])
		if err != nil {
			return err
		}
		fmt.Println(t.Content)
		return nil
	},
}

var transcriptsDeleteCmd = &cobra.Command{
	Use:   "delete <guid>",
	Short: "Delete a transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closeDB, err := openTranscripts()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := repo.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

// openTranscripts opens the transcript store from the loaded config.
func openTranscripts() (store.TranscriptRepository, func(), error) {
	db, err := store.NewDB(cfg.Transcript.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening transcript store: %w", err)
	}
	return store.NewTranscriptRepository(db), func() { _ = db.Close() }, nil
}

func init() {
	transcriptsListCmd.Flags().Int("limit", 20, "maximum transcripts to list (0 = all)")
	transcriptsCmd.AddCommand(transcriptsListCmd, transcriptsShowCmd, transcriptsDeleteCmd)
	rootCmd.AddCommand(transcriptsCmd)
}
