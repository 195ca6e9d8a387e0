package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trueloving/deskfolio/internal/admin"
	"github.com/trueloving/deskfolio/internal/db"
	"github.com/trueloving/deskfolio/internal/logging"
)

var (
	messagesLimit  int
	messagesOffset int
)

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "List contact form messages, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := db.OpenDir(cfg.Server.DataDir)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		store := createContactStoreFromConfig(cfg, database, logging.New(cfg.Env))
		if store == nil {
			return fmt.Errorf("contact backend %q is not configured", cfg.Contact.Backend)
		}

		offset := max(messagesOffset, 0)
		page, err := store.List(cmd.Context(), admin.ClampLimit(messagesLimit), offset)
		if err != nil {
			return fmt.Errorf("listing messages: %w", err)
		}

		if len(page.Messages) == 0 {
			fmt.Println("No messages.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RECEIVED\tNAME\tEMAIL\tMESSAGE")
		for _, m := range page.Messages {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				m.CreatedAt.Local().Format("2006-01-02 15:04"), m.Name, m.Email, preview(m.Message, 60))
		}
		w.Flush()
		fmt.Printf("\nShowing %d-%d of %d\n", offset+1, offset+len(page.Messages), page.Total)
		return nil
	},
}

// preview flattens msg onto one line and cuts it to n runes.
func preview(msg string, n int) string {
	msg = strings.Join(strings.Fields(msg), " ")
	r := []rune(msg)
	if len(r) <= n {
		return msg
	}
	return string(r[:n-1]) + "…"
}

func init() {
	messagesCmd.Flags().IntVar(&messagesLimit, "limit", 20, "maximum messages to show")
	messagesCmd.Flags().IntVar(&messagesOffset, "offset", 0, "messages to skip")
	rootCmd.AddCommand(messagesCmd)
}
