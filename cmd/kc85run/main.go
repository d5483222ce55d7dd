// Command kc85run is a headless harness for the kc85 package: it boots a
// System against supplied ROM images, loads a raw memory image at a given
// address, and runs it for a fixed number of CPU ticks (see z80.CPU.Ticks)
// or until a
// watchpoint address is reached. It has no framebuffer presentation, no
// keyboard, and no cassette loader — wiring those up is a host's job, not
// this core's.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kc85emu/core/errors"
	"github.com/kc85emu/core/kc85"
)

func main() {
	var (
		modelFlag   string
		caosPath    string
		basicPath   string
		loadPath    string
		loadAddr    uint16
		ticks       int
		watch       int
		watchSet    bool
	)

	root := &cobra.Command{
		Use:   "kc85run",
		Short: "run a KC85 memory image headlessly for a fixed number of cycles",
		RunE: func(cmd *cobra.Command, args []string) error {
			watchSet = cmd.Flags().Changed("watch")

			model, err := parseModel(modelFlag)
			if err != nil {
				return err
			}

			caos, err := os.ReadFile(caosPath)
			if err != nil {
				return errors.Errorf(errors.ROMLoadError, err)
			}

			var basic []uint8
			if basicPath != "" {
				basic, err = os.ReadFile(basicPath)
				if err != nil {
					return errors.Errorf(errors.ROMLoadError, err)
				}
			}

			sys := kc85.NewSystem(model, caos, basic)

			if loadPath != "" {
				img, err := os.ReadFile(loadPath)
				if err != nil {
					return errors.Errorf(errors.ImageLoadError, err)
				}
				for i, b := range img {
					sys.Mem.Write(loadAddr+uint16(i), b)
				}
				sys.CPU.R.PC = loadAddr
			}

			elapsed := 0
			for elapsed < ticks {
				elapsed += sys.Step()
				if watchSet && int(sys.CPU.R.PC) == watch {
					fmt.Printf("watchpoint hit at PC=%04x after %d ticks\n", watch, elapsed)
					return nil
				}
			}

			fmt.Printf("ran %d ticks, PC=%04x A=%02x\n", elapsed, sys.CPU.R.PC, sys.CPU.R.A)
			return nil
		},
	}

	flags := root.Flags()
	flags.StringVar(&modelFlag, "model", "kc85/3", "KC85 model: kc85/2, kc85/3 or kc85/4")
	flags.StringVar(&caosPath, "caos", "", "path to CAOS ROM image (required)")
	flags.StringVar(&basicPath, "basic", "", "path to BASIC ROM image (kc85/3 and kc85/4 only)")
	flags.StringVar(&loadPath, "load", "", "path to a raw memory image to load before running")
	flags.Uint16Var(&loadAddr, "load-addr", 0x0300, "address to load --load at, and the starting PC")
	flags.IntVar(&ticks, "ticks", 1000000, "number of CPU ticks to run")
	flags.IntVar(&watch, "watch", 0, "stop early once PC reaches this address")
	root.MarkFlagRequired("caos")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseModel(s string) (kc85.Model, error) {
	switch s {
	case "kc85/2":
		return kc85.Model2, nil
	case "kc85/3":
		return kc85.Model3, nil
	case "kc85/4":
		return kc85.Model4, nil
	default:
		return 0, errors.Errorf(errors.UnknownModel, s)
	}
}
