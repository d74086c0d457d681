package fit_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/meenmo/mcurve/cmd/curvefit/internal/fit"
	"github.com/meenmo/mcurve/store"
	"github.com/meenmo/mcurve/swap/calibration"
	"github.com/meenmo/mcurve/swap/config"
)

func TestRunWithStore_SavesThreeSnapshots(t *testing.T) {
	mem := store.NewMemoryStore()
	var opened config.StoreConfig
	open := func(_ context.Context, cfg config.StoreConfig) (store.Store, error) {
		opened = cfg
		return mem, nil
	}

	var stdout, stderr bytes.Buffer
	args := []string{"-log-level", "error", "-store", "-name", "eod"}
	if code := fit.RunWithStore(fit.CmdCalibrate, args, &stdout, &stderr, open); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if opened.Backend != config.BackendMemory {
		t.Fatalf("store opened with backend %q", opened.Backend)
	}

	for _, name := range []string{"eod/discount", "eod/3m", "eod/6m"} {
		s, err := mem.Latest(context.Background(), name)
		if err != nil {
			t.Fatalf("%s: Latest error: %v", name, err)
		}
		if s.CurveDate.Format("2006-01-02") != "2025-11-21" {
			t.Fatalf("%s: curve date %v", name, s.CurveDate)
		}
		c, err := s.Curve()
		if err != nil {
			t.Fatalf("%s: Curve error: %v", name, err)
		}
		if c.Len() < 2 || len(s.Nodes) != c.Len() {
			t.Fatalf("%s: %d knots, %d nodes", name, c.Len(), len(s.Nodes))
		}
		if s.Status != calibration.Converged.String() && s.Status != calibration.MaxIterationsReached.String() {
			t.Fatalf("%s: status %q", name, s.Status)
		}
	}
	if !strings.Contains(stdout.String(), "Gauss-Newton: status=") {
		t.Fatalf("calibration summary missing:\n%s", stdout.String())
	}
}

func TestRunWithStore_NotOpenedWithoutFlag(t *testing.T) {
	open := func(context.Context, config.StoreConfig) (store.Store, error) {
		t.Fatalf("store opened without -store")
		return nil, nil
	}
	var stdout, stderr bytes.Buffer
	if code := fit.RunWithStore(fit.CmdRisk, []string{"-log-level", "error"}, &stdout, &stderr, open); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
}

func TestRunWithStore_OpenError(t *testing.T) {
	open := func(context.Context, config.StoreConfig) (store.Store, error) {
		return nil, errors.New("connection refused")
	}
	var stdout, stderr bytes.Buffer
	if code := fit.RunWithStore(fit.CmdCalibrate, []string{"-log-level", "error", "-store"}, &stdout, &stderr, open); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "error: connection refused") {
		t.Fatalf("stderr: %s", stderr.String())
	}
}
