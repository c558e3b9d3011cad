package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/capture"
)

func newCameraCommand(o *rootOptions) *cobra.Command {
	cfg := capture.DefaultProbeConfig()
	var device int

	cmd := &cobra.Command{
		Use:   "camera",
		Short: "Check that a webcam delivers frames and sees movement",
		Long: `Camera reads a few seconds of video from a webcam, reports its resolution
and frame rate and whether it saw movement. Wave a hand in front of the
camera while it runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("device") {
				device = o.cfg.Detector.Camera
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "reading %d frames from camera %d...\n", cfg.Frames, device)

			res, err := capture.Probe(cmd.Context(), capture.NewDevice(device), cfg)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "resolution: %dx%d\n", res.Width, res.Height)
			fmt.Fprintf(out, "frame rate: %.1f fps\n", res.FPS)
			if res.SeesMotion() {
				fmt.Fprintf(out, "motion:     yes (%d frames, peak %.1f%% of pixels)\n", res.MotionFrames, res.MaxChange*100)
			} else {
				fmt.Fprintln(out, "motion:     none seen; check lighting and that the camera faces you")
			}
			if cfg.Snapshot != "" {
				fmt.Fprintf(out, "snapshot:   %s\n", cfg.Snapshot)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&device, "device", 0, "camera index (default: detector.camera)")
	cmd.Flags().IntVar(&cfg.Frames, "frames", cfg.Frames, "frames to read")
	cmd.Flags().Float64Var(&cfg.MotionThreshold, "motion-threshold", cfg.MotionThreshold, "fraction of changed pixels counted as motion")
	cmd.Flags().StringVar(&cfg.Snapshot, "snapshot", "", "write the last frame to this image file")
	return cmd
}
