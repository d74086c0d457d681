package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(nil, &stdout, &stderr); code != 2 {
		t.Fatalf("no args: exit %d", code)
	}
	if !strings.Contains(stderr.String(), "Usage: curvefit") {
		t.Fatalf("usage missing: %s", stderr.String())
	}

	stdout.Reset()
	if code := run([]string{"help"}, &stdout, &stderr); code != 0 || !strings.Contains(stdout.String(), "calibrate") {
		t.Fatalf("help: exit %d, out %s", code, stdout.String())
	}

	stderr.Reset()
	if code := run([]string{"price"}, &stdout, &stderr); code != 2 || !strings.Contains(stderr.String(), `unknown command "price"`) {
		t.Fatalf("unknown command: exit %d, err %s", code, stderr.String())
	}
}

func TestRun_Bootstrap(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"bootstrap", "-log-level", "error"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{"Curve discount:", "Curve 3m:", "Curve 6m:", "BASIS63"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_CalibrateCSVAndStore(t *testing.T) {
	var stdout, stderr bytes.Buffer
	args := []string{"calibrate", "-log-level", "error", "-format", "csv", "-store", "-name", "test"}
	if code := run(args, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.HasPrefix(out, "curve,knot,node,zero,factor\n") {
		t.Fatalf("csv output should start with the node header:\n%s", out)
	}
	if !strings.Contains(out, "instrument,maturity,model,quote,diff\n") {
		t.Fatalf("repricing section missing:\n%s", out)
	}
}

func TestRun_Risk(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"risk", "-log-level", "error"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if n := strings.Count(stdout.String(), "Bucketed risk"); n != 3 {
		t.Fatalf("expected 3 risk tables, got %d", n)
	}
}

func TestRun_Errors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"bootstrap", "-format", "xml"}, &stdout, &stderr); code != 2 {
		t.Fatalf("bad format: exit %d", code)
	}

	stderr.Reset()
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	if code := run([]string{"bootstrap", "-market", missing}, &stdout, &stderr); code != 1 {
		t.Fatalf("missing market: exit %d", code)
	}
	if !strings.HasPrefix(stderr.String(), "error: read market file") {
		t.Fatalf("error message: %s", stderr.String())
	}

	stderr.Reset()
	bad := filepath.Join(t.TempDir(), "market.yaml")
	body := "discount:\n  knots: [0, 1]\n  ois: [{tenor: 1Y, rate: 3}]\nforward3m:\n  knots: [0, 1]\n  irs: []\nforward6m:\n  knots: [0, 1]\n"
	if err := os.WriteFile(bad, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if code := run([]string{"calibrate", "-market", bad, "-log-level", "error"}, &stdout, &stderr); code != 1 {
		t.Fatalf("invalid market: exit %d", code)
	}
	if !strings.Contains(stderr.String(), "invalid market data") {
		t.Fatalf("error message: %s", stderr.String())
	}

	if code := run([]string{"risk", "-h"}, &stdout, &stderr); code != 0 {
		t.Fatalf("-h: exit %d", code)
	}
}
