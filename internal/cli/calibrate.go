package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/mapping"
	"github.com/ayusman/mudra/internal/store"
)

func newCalibrateCommand(o *rootOptions) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "calibrate [X1 Y1 X2 Y2 X3 Y3 X4 Y4]",
		Short: "Store the camera positions of the four screen corners",
		Long: `Calibrate takes the normalized camera coordinates the index tip had when
pointing at the top-left, top-right, bottom-right and bottom-left corners
of the screen. Without a calibration the camera frame is scaled to the
screen.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if reset {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(8)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withStore(func(st *store.Store) error {
				if reset {
					err := st.Settings().Delete(store.SettingCalibration)
					if err != nil && !errors.Is(err, store.ErrNotFound) {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "calibration cleared")
					return nil
				}

				corners, err := parseCorners(args)
				if err != nil {
					return err
				}
				calib := mapping.NewCalibration(o.cfg.Display.Width, o.cfg.Display.Height)
				if err := calib.Calibrate(corners); err != nil {
					return err
				}
				data, err := json.Marshal(corners)
				if err != nil {
					return err
				}
				if err := st.Settings().Set(store.SettingCalibration, string(data)); err != nil {
					return err
				}

				cx, cy := calib.Apply(0.5, 0.5)
				fmt.Fprintf(cmd.OutOrStdout(), "calibration saved; camera centre maps to (%.0f, %.0f)\n", cx, cy)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&reset, "clear", false, "remove the stored calibration")
	return cmd
}

func parseCorners(args []string) ([]mapping.Point, error) {
	corners := make([]mapping.Point, 0, 4)
	for i := 0; i+1 < len(args); i += 2 {
		x, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, fmt.Errorf("corner %d: %w", i/2+1, err)
		}
		y, err := strconv.ParseFloat(args[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("corner %d: %w", i/2+1, err)
		}
		corners = append(corners, mapping.Point{X: x, Y: y})
	}
	return corners, nil
}
