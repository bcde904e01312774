// Command hidinspect lists, dumps and watches USB HID devices' parsed
// report descriptors from the command line, the operator-facing surface
// spec.md's DeviceFacade was built to sit behind.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hidkit/hidkit"
	"github.com/hidkit/hidkit/internal/linuxhid"
	"github.com/hidkit/hidkit/internal/quirksdb"
	"github.com/hidkit/hidkit/report"
)

var (
	verbose    bool
	quirksPath string
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hidinspect",
		Short: "inspect and drive USB HID devices through their report descriptors",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = log.Logger.Level(level)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&quirksPath, "quirks", "", "path to a quirks YAML file")

	root.AddCommand(newListCmd(), newDumpCmd(), newWatchCmd())
	return root
}

func facade() (*hidkit.DeviceFacade, error) {
	opts := []hidkit.Option{}
	if quirksPath != "" {
		db, err := quirksdb.LoadFile(quirksPath)
		if err != nil {
			return nil, fmt.Errorf("loading quirks: %w", err)
		}
		opts = append(opts, hidkit.WithQuirks(db))
	}
	return hidkit.NewDeviceFacade(linuxhid.Opener{}, opts...), nil
}

func newListCmd() *cobra.Command {
	var vid, pid uint16
	cmd := &cobra.Command{
		Use:   "list",
		Short: "enumerate HID devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := facade()
			if err != nil {
				return err
			}
			devices, err := f.Enumerate(vid, pid)
			if err != nil {
				return err
			}
			for _, d := range devices {
				fmt.Printf("%s\t%04x:%04x\t%s %s\t%s\n", d.Path, d.VendorID, d.ProductID, d.Manufacturer, d.Product, d.Serial)
			}
			return nil
		},
	}
	cmd.Flags().Uint16Var(&vid, "vid", 0, "filter by vendor id")
	cmd.Flags().Uint16Var(&pid, "pid", 0, "filter by product id")
	return cmd
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <path>",
		Short: "print a device's parsed report descriptor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := facade()
			if err != nil {
				return err
			}
			dev, err := f.OpenByPath(args[0])
			if err != nil {
				return err
			}
			defer dev.Close()

			model := dev.Model()
			fmt.Printf("report ids: %v\n", model.ReportIDs)
			fmt.Printf("input lengths: %v  output lengths: %v  feature lengths: %v\n",
				model.InputLengths, model.ReportLengths, model.FeatureLengths)
			for _, e := range model.Elements {
				fmt.Printf("  [%s] report=%d usage=0x%04x:0x%04x size=%d count logical=[%d,%d]\n",
					e.IOType, e.ReportID, e.UsagePage, e.Usage, e.ReportSize, e.LogicalMin, e.LogicalMax)
			}
			return nil
		},
	}
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <path>",
		Short: "stream input report changes from a device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := facade()
			if err != nil {
				return err
			}
			dev, err := f.OpenByPath(args[0])
			if err != nil {
				return err
			}
			defer dev.Close()

			dev.OnElementChange(func(e *report.Element, _ interface{}) {
				fmt.Printf("report=%d usage=0x%04x:0x%04x value=%d\n", e.ReportID, e.UsagePage, e.Usage, e.Value)
			}, nil)
			dev.OnReadError(func(_ *hidkit.Device, err error, _ interface{}) {
				log.Error().Err(err).Msg("read loop stopped")
			}, nil)

			return dev.ReadLoop(64)
		},
	}
}
