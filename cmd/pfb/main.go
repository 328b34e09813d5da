// Command pfb inspects, reads, clips, distributes, and diffs ParFlow
// Binary files.
//
// Usage:
//
//	pfb header <file>
//	pfb read <file>
//	pfb clip <file> <x0> <y0> <nx> <ny>
//	pfb dist <file> <P> <Q> <R> <out>
//	pfb diff <a> <b>
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hydroframe/pfbio"
	"github.com/hydroframe/pfbio/internal/config"
	"github.com/hydroframe/pfbio/internal/logging"
)

var (
	cfgFile string
	workers int
	logLvl  string
)

func main() {
	root := &cobra.Command{
		Use:           "pfb",
		Short:         "Inspect and manipulate ParFlow Binary (PFB) grid files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a pfb.yaml config file")
	root.PersistentFlags().IntVar(&workers, "workers", 0, "worker count for threaded reads (0 = use config default)")
	root.PersistentFlags().StringVar(&logLvl, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(headerCmd(), readCmd(), clipCmd(), distCmd(), diffCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pfb: %v\n", err)
		os.Exit(1)
	}
}

func setup() (config.Config, *logrus.Logger) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		cfg = config.Config{Workers: 4, LogLevel: "info"}
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if logLvl != "" {
		cfg.LogLevel = logLvl
	}
	return cfg, logging.New(cfg.LogLevel)
}

func headerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "header <file>",
		Short: "Print a PFB file's geometry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log := setup()
			g := pfb.Open(args[0])
			if err := g.LoadHeader(); err != nil {
				return err
			}
			geom := g.Geometry()
			log.Infof("loaded header for %s", args[0])
			fmt.Printf("extents:   (%d, %d, %d)\n", geom.NX, geom.NY, geom.NZ)
			fmt.Printf("origin:    (%g, %g, %g)\n", geom.OriginX, geom.OriginY, geom.OriginZ)
			fmt.Printf("spacing:   (%g, %g, %g)\n", geom.DX, geom.DY, geom.DZ)
			return nil
		},
	}
}

func readCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <file>",
		Short: "Load a PFB file's data and print summary statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log := setup()
			g := pfb.Open(args[0])
			if err := g.LoadHeader(); err != nil {
				return err
			}
			if err := g.LoadPQR(); err != nil {
				return err
			}
			log.Infof("loading %s with %d workers", args[0], cfg.Workers)
			if err := g.LoadDataThreaded(context.Background(), cfg.Workers); err != nil {
				return err
			}
			vals := g.ViewDataArray()
			min, max, sum := vals[0], vals[0], 0.0
			for _, v := range vals {
				if v < min {
					min = v
				}
				if v > max {
					max = v
				}
				sum += v
			}
			fmt.Printf("cells: %d  min: %g  max: %g  mean: %g\n", len(vals), min, max, sum/float64(len(vals)))
			return nil
		},
	}
}

func clipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clip <file> <x0> <y0> <nx> <ny>",
		Short: "Read a rectangular sub-region without loading the whole grid",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log := setup()
			x0, y0, nx, ny, err := parseClipArgs(args[1:])
			if err != nil {
				return err
			}
			g := pfb.Open(args[0])
			if err := g.LoadHeader(); err != nil {
				return err
			}
			clip, err := g.LoadClipOfData(x0, y0, nx, ny)
			if err != nil {
				return err
			}
			log.Infof("clipped %s to (%d,%d,%d,%d)", args[0], x0, y0, nx, ny)
			geom := clip.Geometry()
			fmt.Printf("clip extents: (%d, %d, %d)\n", geom.NX, geom.NY, geom.NZ)
			return nil
		},
	}
}

func distCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dist <file> <P> <Q> <R> <out>",
		Short: "Redistribute a PFB file into a P*Q*R partitioned copy plus a .dist sidecar",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log := setup()
			p, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid P %q: %w", args[1], err)
			}
			q, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid Q %q: %w", args[2], err)
			}
			r, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("invalid R %q: %w", args[3], err)
			}
			g := pfb.Open(args[0])
			if err := g.DistFile(context.Background(), p, q, r, args[4]); err != nil {
				return err
			}
			log.Infof("wrote %s and %s.dist", args[4], args[4])
			return nil
		},
	}
}

func diffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <a> <b>",
		Short: "Compare two PFB files structurally and cell-wise",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log := setup()
			a, b := pfb.Open(args[0]), pfb.Open(args[1])
			for _, g := range []*pfb.Grid{a, b} {
				if err := g.LoadHeader(); err != nil {
					return err
				}
				if err := g.LoadData(); err != nil {
					return err
				}
			}
			result := pfb.Compare(a, b)
			log.Infof("compared %s and %s", args[0], args[1])
			if result.Kind == pfb.DiffNone {
				fmt.Println("identical")
				return nil
			}
			if result.Kind == pfb.DiffData {
				fmt.Printf("differ at cell (x=%d, y=%d, z=%d)\n", result.X, result.Y, result.Z)
				return nil
			}
			fmt.Printf("differ: %s\n", result.Kind)
			return nil
		},
	}
}

func parseClipArgs(args []string) (x0, y0, nx, ny int, err error) {
	vals := make([]int, 4)
	for i, a := range args {
		v, convErr := strconv.Atoi(a)
		if convErr != nil {
			return 0, 0, 0, 0, fmt.Errorf("invalid integer %q: %w", a, convErr)
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}
