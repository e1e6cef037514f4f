package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"fdc1797/diskimage"
	"fdc1797/dma"
	"fdc1797/drive"
	"fdc1797/fdc"
	"fdc1797/interrupt"
	"fdc1797/scheduler"
)

var (
	runCylinders  int
	runSides      int
	runSectors    int
	runSectorSize int
	runTargetTrk  int
	runTargetSec  int
	runVerbose    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Format an in-memory disk, then RESTORE, SEEK, and read one sector",
	Long: `run builds a blank in-memory disk of the given geometry, formats the
target track single-density, and drives the controller through a RESTORE,
a SEEK to the target track, and a full sector read via the DMA target
interface, printing the resulting status byte and sector bytes read.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDemo(); err != nil {
			fmt.Println("fdcdemo: error:", err)
		}
	},
}

func init() {
	runCmd.Flags().IntVar(&runCylinders, "cylinders", 80, "disk geometry: cylinder count")
	runCmd.Flags().IntVar(&runSides, "sides", 2, "disk geometry: side count")
	runCmd.Flags().IntVar(&runSectors, "sectors", 9, "sectors per track")
	runCmd.Flags().IntVar(&runSectorSize, "sector-size", 512, "bytes per sector")
	runCmd.Flags().IntVar(&runTargetTrk, "track", 2, "cylinder to seek to and read from")
	runCmd.Flags().IntVar(&runTargetSec, "sector", 1, "1-based sector number to read")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "log every controller step")
	rootCmd.AddCommand(runCmd)
}

func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	if !verbose {
		log.SetLevel(logrus.ErrorLevel)
	}
	return log
}

func runDemo() error {
	log := newLogger(runVerbose)

	disk := diskimage.New(runCylinders, runSides)
	if err := disk.FormatTrack(diskimage.FM500, runTargetTrk, 0, runSectors, runSectorSize); err != nil {
		return err
	}
	sector, err := disk.GetSector(runTargetTrk, 0, runTargetSec-1)
	if err != nil {
		return err
	}
	for i := range sector.Data {
		sector.Data[i] = byte(i)
	}

	d := drive.New(runCylinders - 1)
	d.LoadDisk(disk, runSides == 1, false)

	sched := scheduler.New()
	cpu := &interrupt.Counter{}
	engine := &dma.Engine{}
	cfg := fdc.DefaultConfig()
	ctrl := fdc.New(cfg, d, sched, cpu, engine, log)

	// Select the drive and assert chip-enable: this triggers a synthetic
	// RESTORE (§4.6).
	if err := ctrl.WritePort(fdc.PortExternalState, 1<<4|1<<5); err != nil {
		return err
	}
	sched.Advance(200_000_000)
	track, _ := ctrl.ReadPort(fdc.PortTrack)
	log.Infof("after RESTORE: track=%d interrupts=%d", track, cpu.Count)

	if err := ctrl.WritePort(fdc.PortData, byte(runTargetTrk)); err != nil {
		return err
	}
	if err := ctrl.WritePort(fdc.PortCommandStatus, 0x10); err != nil { // SEEK
		return err
	}
	sched.Advance(200_000_000)
	track, _ = ctrl.ReadPort(fdc.PortTrack)
	log.Infof("after SEEK: track=%d interrupts=%d", track, cpu.Count)

	if err := ctrl.WritePort(fdc.PortSector, byte(runTargetSec)); err != nil {
		return err
	}
	if err := ctrl.WritePort(fdc.PortCommandStatus, 0x80); err != nil { // READ-SECTOR single, side 0
		return err
	}
	sched.Advance(cfg.CommandAcceptLatency.Nanoseconds())

	out := make([]byte, runSectorSize)
	if err := engine.Transfer(ctrl, out, false, 4*cfg.DRQPacingCount); err != nil {
		return err
	}

	status, err := ctrl.ReadPort(fdc.PortCommandStatus)
	if err != nil {
		return err
	}

	fmt.Printf("status=0x%02X bytes_read=%d first_bytes=% X\n", status, len(out), out[:8])
	return nil
}
