// luxusb-grub computes multiboot partition layouts and generates the boot
// menu script for a LUXusb device.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/asafelobotomy/LUXusb-sub001/catalog"
	"github.com/asafelobotomy/LUXusb-sub001/config"
	"github.com/asafelobotomy/LUXusb-sub001/grubcfg"
	"github.com/asafelobotomy/LUXusb-sub001/humanize"
	"github.com/asafelobotomy/LUXusb-sub001/layout"
	"github.com/asafelobotomy/LUXusb-sub001/logging"
)

var (
	opts = config.Defaults()

	logLevel      string
	device        string
	capacityBytes uint64
	catalogPath   string
	outputPath    string
	dataMount     string
	efiMount      string

	log hclog.Logger

	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:           "luxusb-grub",
		Short:         "Generate multiboot layouts and boot menus",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log = logging.New("luxusb-grub", logLevel, nil)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (trace, debug, info, warn, error)")
	opts.RegisterPflags(rootCmd.PersistentFlags())

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute and print the partition layout for a device",
		RunE:  runPlan,
	}
	addDeviceFlags(planCmd)

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the boot menu script from a catalog file",
		RunE:  runGenerate,
	}
	addDeviceFlags(generateCmd)
	generateCmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog JSON file (required)")
	generateCmd.Flags().StringVar(&outputPath, "output", "", "where to write the script, - for stdout (required)")
	mustMarkRequired(generateCmd, "catalog", "output")

	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Rescan images on a mounted device and regenerate its menu",
		RunE:  runRefresh,
	}
	refreshCmd.Flags().StringVar(&device, "device", "", "block device, e.g. /dev/sdb (required)")
	refreshCmd.Flags().StringVar(&efiMount, "efi-mount", "", "mount point of the firmware-system partition (required)")
	refreshCmd.Flags().StringVar(&dataMount, "data-mount", "", "mount point of the data partition (required)")
	refreshCmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog JSON file with image metadata (required)")
	mustMarkRequired(refreshCmd, "device", "efi-mount", "data-mount", "catalog")

	rootCmd.AddCommand(planCmd, generateCmd, refreshCmd)
}

func addDeviceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&device, "device", "", "block device to size the layout for")
	cmd.Flags().Uint64Var(&capacityBytes, "capacity_bytes", 0, "device capacity, instead of probing --device")
}

func mustMarkRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func capacity() (uint64, error) {
	if capacityBytes > 0 {
		return capacityBytes, nil
	}
	if device == "" {
		return 0, errors.New("one of --device or --capacity_bytes is required")
	}
	return layout.DeviceCapacity(device)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cap, err := capacity()
	if err != nil {
		return err
	}
	l, err := layout.Plan(cap, opts)
	if err != nil {
		return err
	}
	fmt.Printf("device: %s\n", humanize.Bytes(l.DeviceBytes))
	for i, p := range l.Partitions {
		fs := p.Filesystem
		if fs == "" {
			fs = "unformatted"
		}
		label := p.Label
		if label == "" {
			label = "-"
		}
		fmt.Printf("%d: %-15s start %-12d size %-10s %-11s label %s\n",
			i+1, p.Role, p.StartBytes, humanize.Bytes(p.SizeBytes), fs, label)
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cap, err := capacity()
	if err != nil {
		return err
	}
	l, err := layout.Plan(cap, opts)
	if err != nil {
		return err
	}
	images, err := catalog.Load(catalogPath)
	if err != nil {
		return err
	}
	log.Info("generating boot menu", "images", len(images), "label", opts.VolumeLabel)
	script, err := grubcfg.Generate(l, images, opts)
	if err != nil {
		return err
	}
	if outputPath == "-" {
		_, err := os.Stdout.Write(script)
		return err
	}
	if err := grubcfg.WriteFile(outputPath, script); err != nil {
		return err
	}
	log.Info("wrote boot menu", "path", outputPath, "bytes", len(script))
	return nil
}

func runRefresh(cmd *cobra.Command, args []string) error {
	cap, err := layout.DeviceCapacity(device)
	if err != nil {
		return err
	}
	l, err := layout.Plan(cap, opts)
	if err != nil {
		return err
	}
	if err := layout.VerifyDevice(device, l); err != nil {
		if errors.Is(err, layout.ErrLayoutMismatch) {
			// A repartitioned or foreign device; regenerating a menu for
			// it would point at the wrong partition.
			return err
		}
		log.Warn("could not verify partition table", "err", err)
	}

	known, err := catalog.Load(catalogPath)
	if err != nil {
		return err
	}
	images, err := catalog.ScanMounted(dataMount, known)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		return errors.New("no images found on the data partition")
	}
	log.Info("found images", "count", len(images))

	script, err := grubcfg.Generate(l, images, opts)
	if err != nil {
		return err
	}
	target := filepath.Join(efiMount, "boot", "grub", "grub.cfg")
	if err := grubcfg.WriteFile(target, script); err != nil {
		return err
	}
	log.Info("refreshed boot menu", "path", target, "images", len(images))
	return nil
}
