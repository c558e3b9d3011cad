package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/store"
)

func newSessionsCommand(o *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded sessions with their action counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withStore(func(st *store.Store) error {
				sessions, err := st.Sessions().List(limit)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tSTARTED\tDURATION\tSOURCE\tPROFILE\tACTIONS")
				for _, s := range sessions {
					duration := "running"
					if s.EndedAt != nil {
						duration = s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
						s.ID[:8], s.StartedAt.Format("2006-01-02 15:04:05"), duration, s.Source, s.Profile, s.Events)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of sessions to show (0 for all)")

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Print the actions of one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withStore(func(st *store.Store) error {
				id, err := resolveSession(st, args[0])
				if err != nil {
					return err
				}
				events, err := st.Sessions().Events(id)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "T\tMODE\tGESTURE\tACTION")
				for _, e := range events {
					fmt.Fprintf(w, "%.3f\t%s\t%s\t%s\n", e.Timestamp, e.Mode, e.Gesture, e.Action)
				}
				return w.Flush()
			})
		},
	}
	cmd.AddCommand(show)
	return cmd
}

// resolveSession accepts a full session id or a unique prefix of one.
func resolveSession(st *store.Store, prefix string) (string, error) {
	if s, err := st.Sessions().Get(prefix); err == nil {
		return s.ID, nil
	}
	sessions, err := st.Sessions().List(0)
	if err != nil {
		return "", err
	}
	var match string
	for _, s := range sessions {
		if strings.HasPrefix(s.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("session prefix %q is ambiguous", prefix)
			}
			match = s.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("session %q: %w", prefix, store.ErrNotFound)
	}
	return match, nil
}
