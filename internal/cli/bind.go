package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/store"
)

func newBindCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bind",
		Short: "Override entries of the action table",
	}

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List binding overrides, or the whole effective table with --all",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withStore(func(st *store.Store) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "MODE\tGESTURE\tTIMING\tACTION")

				if all {
					table, err := o.loadTable(st)
					if err != nil {
						return err
					}
					for _, b := range table.Bindings() {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.Mode, b.Gesture, b.Timing, b.Action)
					}
					return w.Flush()
				}

				rows, err := st.Bindings().List()
				if err != nil {
					return err
				}
				for _, r := range rows {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Mode, r.Gesture, r.Timing, r.Action)
				}
				return w.Flush()
			})
		},
	}
	list.Flags().BoolVar(&all, "all", false, "show the effective table including defaults")

	set := &cobra.Command{
		Use:   "set MODE GESTURE TIMING ACTION",
		Short: "Bind an action to a mode, gesture and timing class",
		Example: `  mudra bind set cursor pinch quick click-right
  mudra bind set shortcut fist hold none`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := parseBinding(args[0], args[1], args[2], args[3])
			if err != nil {
				return err
			}
			return o.withStore(func(st *store.Store) error {
				row := bindingRow(b)
				if err := st.Bindings().Set(row); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s -> %s\n", row.Mode, row.Gesture, row.Timing, row.Action)
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete MODE GESTURE TIMING",
		Short: "Remove an override, restoring the default",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := parseBinding(args[0], args[1], args[2], "none")
			if err != nil {
				return err
			}
			return o.withStore(func(st *store.Store) error {
				row := bindingRow(b)
				if err := st.Bindings().Delete(row.Mode, row.Gesture, row.Timing); err != nil {
					return fmt.Errorf("binding %s %s %s: %w", row.Mode, row.Gesture, row.Timing, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "restored %s %s %s\n", row.Mode, row.Gesture, row.Timing)
				return nil
			})
		},
	}

	cmd.AddCommand(list, set, del)
	return cmd
}

// bindingRow stores canonical upper-case names.
func bindingRow(b dispatch.Binding) *store.Binding {
	return &store.Binding{
		Mode:    b.Mode.String(),
		Gesture: b.Gesture.String(),
		Timing:  b.Timing.String(),
		Action:  b.Action.String(),
	}
}
