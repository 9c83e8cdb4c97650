package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/CrawX/snapraid/array"
	"github.com/CrawX/snapraid/internal/blockid"
	"github.com/CrawX/snapraid/internal/parity"
	"github.com/CrawX/snapraid/internal/scan"
)

func main() {
	disksFlag := flag.String("disks", "", "comma-separated name=root pairs, e.g. d1=/mnt/d1,d2=/mnt/d2")
	parityFlag := flag.String("parity", "", "path to the parity file")
	blockSizeFlag := flag.Int64("block-size", 256*1024, "block size in bytes")
	blockStartFlag := flag.Uint("block-start", 0, "first parity position to process")
	blockCountFlag := flag.Uint("block-count", 0, "number of parity positions to process (0 means to end)")
	forceZeroFlag := flag.Bool("force-zero", false, "allow a file that shrank to zero bytes in place")
	forceEmptyFlag := flag.Bool("force-empty", false, "allow a disk with no equal/moved files and at least one removal")
	verboseFlag := flag.Bool("verbose", false, "print excluded-path messages during scan")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: %s [flags] <scan|dry|check|sync|fix>", os.Args[0])
	}
	command := flag.Arg(0)

	disks, err := parseDisks(*disksFlag)
	if err != nil {
		log.Fatalf("Error parsing -disks: %s", err)
	}

	cfg := array.Config{
		Disks:      disks,
		BlockSize:  *blockSizeFlag,
		ParityPath: *parityFlag,
		ForceZero:  *forceZeroFlag,
		ForceEmpty: *forceEmptyFlag,
		Verbose:    *verboseFlag,
	}

	a, err := array.Open(cfg)
	if err != nil {
		log.Fatalf("Error opening array: %s", err)
	}

	blockStart := blockid.ParityPos(*blockStartFlag)
	blockMax := blockStart + blockid.ParityPos(*blockCountFlag)
	if *blockCountFlag == 0 {
		blockMax = a.AllocatedSize()
	}

	exitCode, err := run(a, command, blockStart, blockMax)
	if err != nil {
		log.Printf("Error running %s: %s", command, err)
	}
	os.Exit(exitCode)
}

func run(a *array.Array, command string, blockStart, blockMax blockid.ParityPos) (int, error) {
	switch command {
	case "scan":
		results, err := a.Scan()
		if err != nil {
			var fatal *scan.FatalError
			if errors.As(err, &fatal) {
				return 2, err
			}
			return 1, err
		}
		for _, r := range results {
			log.Printf("%s: equal=%d moved=%d change=%d remove=%d insert=%d",
				r.Disk, r.Equal, r.Moved, r.Change, r.Remove, r.Insert)
		}
		return 0, nil

	case "dry":
		stats, err := a.Dry(blockStart, blockMax)
		return parityExit(stats, err)

	case "check":
		stats, err := a.Check(blockStart, blockMax)
		return parityExit(stats, err)

	case "sync":
		stats, err := a.Sync(blockStart, blockMax)
		return parityExit(stats, err)

	case "fix":
		stats := a.Fix(blockStart, blockMax)
		log.Printf("fix: repaired=%d failed=%d", len(stats.Repaired), len(stats.Failed))
		if len(stats.Failed) > 0 {
			return 1, fmt.Errorf("%d position(s) could not be reconstructed", len(stats.Failed))
		}
		return 0, nil

	default:
		return 2, fmt.Errorf("unknown command %q", command)
	}
}

func parityExit(stats parity.Stats, err error) (int, error) {
	if err != nil {
		return 2, err
	}
	if stats.Catastrophic != nil {
		return 1, stats.Catastrophic
	}
	if stats.BlockErrorCount > 0 || stats.ParityErrorCount > 0 {
		return 1, fmt.Errorf("%d block error(s), %d parity error(s)", stats.BlockErrorCount, stats.ParityErrorCount)
	}
	return 0, nil
}

func parseDisks(spec string) ([]array.DiskConfig, error) {
	if spec == "" {
		return nil, fmt.Errorf("at least one disk is required")
	}
	var out []array.DiskConfig
	for _, pair := range strings.Split(spec, ",") {
		nameRoot := strings.SplitN(pair, "=", 2)
		if len(nameRoot) != 2 || nameRoot[0] == "" || nameRoot[1] == "" {
			return nil, fmt.Errorf("malformed disk entry %q, want name=root", pair)
		}
		out = append(out, array.DiskConfig{Name: nameRoot[0], Root: nameRoot[1]})
	}
	return out, nil
}
