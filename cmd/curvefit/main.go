package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/meenmo/mcurve/cmd/curvefit/internal/fit"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	switch cmd := strings.ToLower(strings.TrimSpace(args[0])); cmd {
	case fit.CmdBootstrap, fit.CmdCalibrate, fit.CmdRisk:
		return fit.Run(cmd, args[1:], stdout, stderr)
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: curvefit <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  bootstrap  Bootstrap discount, 3M and 6M curves and reprice the market")
	fmt.Fprintln(w, "  calibrate  Refit the discount curve with Gauss-Newton and reprice the market")
	fmt.Fprintln(w, "  risk       Calibrate, then print bucketed risk against every curve")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run `curvefit <command> -h` for command-specific help.")
}
