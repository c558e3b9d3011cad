package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/store"
)

func newProfileCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage tuning profiles",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved profiles",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return o.withStore(func(st *store.Store) error {
					profiles, err := st.Profiles().List()
					if err != nil {
						return err
					}
					active, err := st.Settings().Get(store.SettingActiveProfile)
					if err != nil && !errors.Is(err, store.ErrNotFound) {
						return err
					}

					w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "\tNAME\tUPDATED\tSETTINGS")
					for _, p := range profiles {
						mark := ""
						if p.Name == active {
							mark = "*"
						}
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, p.Name, p.UpdatedAt.Format("2006-01-02 15:04"), p.Settings)
					}
					return w.Flush()
				})
			},
		},
		&cobra.Command{
			Use:   "save NAME",
			Short: "Save the current tuning values as a profile",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				settings, err := json.Marshal(o.cfg.Tuning())
				if err != nil {
					return err
				}
				return o.withStore(func(st *store.Store) error {
					p := &store.Profile{Name: args[0], Settings: settings}
					if err := st.Profiles().Save(p); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "saved profile %s\n", p.Name)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "use NAME",
			Short: "Make a profile active for run and replay",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return o.withStore(func(st *store.Store) error {
					if _, err := st.Profiles().GetByName(args[0]); err != nil {
						return fmt.Errorf("profile %q: %w", args[0], err)
					}
					if err := st.Settings().Set(store.SettingActiveProfile, args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "active profile: %s\n", args[0])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "delete NAME",
			Short: "Delete a profile",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return o.withStore(func(st *store.Store) error {
					if err := st.Profiles().Delete(args[0]); err != nil {
						return fmt.Errorf("profile %q: %w", args[0], err)
					}
					active, err := st.Settings().Get(store.SettingActiveProfile)
					if err == nil && active == args[0] {
						if err := st.Settings().Delete(store.SettingActiveProfile); err != nil {
							return err
						}
					}
					fmt.Fprintf(cmd.OutOrStdout(), "deleted profile %s\n", args[0])
					return nil
				})
			},
		},
	)
	return cmd
}

// withStore opens the store for the duration of fn.
func (o *rootOptions) withStore(fn func(*store.Store) error) error {
	st, err := o.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}
