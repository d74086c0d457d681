// Package fit implements the curvefit subcommands.
package fit

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/meenmo/mcurve/marketdata"
	"github.com/meenmo/mcurve/store"
	"github.com/meenmo/mcurve/swap/calibration"
	"github.com/meenmo/mcurve/swap/config"
	"github.com/meenmo/mcurve/swap/curve"
	"github.com/meenmo/mcurve/swap/report"
	"go.uber.org/zap"
)

// Subcommand names.
const (
	CmdBootstrap = "bootstrap"
	CmdCalibrate = "calibrate"
	CmdRisk      = "risk"
)

const (
	formatText = "text"
	formatCSV  = "csv"
)

// Opener opens the snapshot store described by cfg.
type Opener func(ctx context.Context, cfg config.StoreConfig) (store.Store, error)

type env struct {
	cfg    config.Config
	logger *zap.Logger
	market marketdata.Market
	format string
	save   bool
	prefix string
	open   Opener
}

// Run parses flags for cmd and executes it. It returns the process exit code.
func Run(cmd string, args []string, stdout, stderr io.Writer) int {
	return RunWithStore(cmd, args, stdout, stderr, store.Open)
}

// RunWithStore is Run with -store snapshots written through open.
func RunWithStore(cmd string, args []string, stdout, stderr io.Writer, open Opener) int {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML config path (optional; defaults plus MCURVE_* env)")
	marketPath := fs.String("market", "", "YAML market file (optional; defaults to the built-in sample market)")
	logLevel := fs.String("log-level", "", "log level override (debug, info, warn, error)")
	format := fs.String("format", formatText, "output format: text, csv")
	save := fs.Bool("store", false, "persist calibrated curves to the configured store (calibrate, risk)")
	prefix := fs.String("name", "", "snapshot name prefix (defaults to the curve date)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return 2
	}
	if *format != formatText && *format != formatCSV {
		fmt.Fprintf(stderr, "invalid -format %q (want text or csv)\n", *format)
		return 2
	}

	e, err := setup(*configPath, *marketPath, *logLevel)
	if err != nil {
		return fail(stderr, err)
	}
	defer func() { _ = e.logger.Sync() }()
	e.format, e.save, e.prefix, e.open = *format, *save, *prefix, open

	switch cmd {
	case CmdBootstrap:
		err = runBootstrap(e, stdout)
	case CmdCalibrate:
		err = runCalibrate(e, stdout)
	case CmdRisk:
		err = runRisk(e, stdout)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		e.logger.Error("command failed", zap.String("command", cmd), zap.Error(err))
		return fail(stderr, err)
	}
	return 0
}

func setup(configPath, marketPath, logLevel string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := config.NewLogger(cfg.Logging, logLevel)
	if err != nil {
		return nil, err
	}

	m := marketdata.Sample()
	if marketPath != "" {
		if m, err = marketdata.Load(marketPath); err != nil {
			return nil, err
		}
	}
	logger.Debug("market loaded",
		zap.String("curve_date", m.CurveDate.Format("2006-01-02")),
		zap.Int("instruments", m.Data.Len()),
	)
	return &env{cfg: cfg, logger: logger, market: m}, nil
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "error: %v\n", err)
	return 1
}

func runBootstrap(e *env, stdout io.Writer) error {
	opts := e.cfg.BootstrapOptions()
	theta, err := calibration.InitialTheta(e.market.Data, opts)
	if err != nil {
		return err
	}
	mc, err := calibration.BuildAll(e.market.Data, theta, opts)
	if err != nil {
		return err
	}
	if err := e.writeCurves(stdout, mc); err != nil {
		return err
	}
	return e.writeRepricing(stdout, mc)
}

func runCalibrate(e *env, stdout io.Writer) error {
	res, mc, err := e.calibrate()
	if err != nil {
		return err
	}
	if e.format == formatText {
		fmt.Fprintf(stdout, "Gauss-Newton: status=%s iterations=%d ||r||^2=%.6e\n\n", res.Status, res.ReportedIterations(), res.FinalNorm)
	}
	if err := e.writeCurves(stdout, mc); err != nil {
		return err
	}
	return e.writeRepricing(stdout, mc)
}

func runRisk(e *env, stdout io.Writer) error {
	_, mc, err := e.calibrate()
	if err != nil {
		return err
	}
	m := e.market.Data

	jd, res := calibration.DiscountJacobian(m, mc)
	j3, _ := calibration.ForwardJacobian(m, mc, calibration.Tenor3M)
	j6, _ := calibration.ForwardJacobian(m, mc, calibration.Tenor6M)
	tables := []report.RiskTable{
		report.NewRiskTable("discount", mc.Discount.Knots(), jd, res),
		report.NewRiskTable("3m", mc.F3M.Knots(), j3, res),
		report.NewRiskTable("6m", mc.F6M.Knots(), j6, res),
	}
	for _, t := range tables {
		var err error
		if e.format == formatCSV {
			err = t.WriteCSV(stdout)
		} else {
			err = t.WriteText(stdout)
			fmt.Fprintln(stdout)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// calibrate bootstraps the initial discount nodes, refits them and optionally persists the result.
func (e *env) calibrate() (calibration.Result, calibration.ModelCurves, error) {
	opts := e.cfg.CalibrationOptions()
	m := e.market.Data

	theta0, err := calibration.InitialTheta(m, opts.Bootstrap)
	if err != nil {
		return calibration.Result{}, calibration.ModelCurves{}, err
	}
	res, err := calibration.GaussNewton(e.logger, m, theta0, opts)
	if err != nil {
		return calibration.Result{}, calibration.ModelCurves{}, err
	}
	mc, err := calibration.BuildAll(m, res.Theta, opts.Bootstrap)
	if err != nil {
		return calibration.Result{}, calibration.ModelCurves{}, err
	}
	e.logger.Info("calibration finished",
		zap.Stringer("status", res.Status),
		zap.Int("iterations", res.ReportedIterations()),
		zap.Float64("norm_sq", res.FinalNorm),
	)

	if e.save {
		if err := e.persist(res, mc); err != nil {
			return calibration.Result{}, calibration.ModelCurves{}, err
		}
	}
	return res, mc, nil
}

func (e *env) persist(res calibration.Result, mc calibration.ModelCurves) error {
	ctx := context.Background()
	st, err := e.open(ctx, e.cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()
	if _, ok := st.(*store.MemoryStore); ok {
		e.logger.Warn("memory store keeps snapshots only for the life of this process")
	}

	prefix := e.prefix
	if prefix == "" {
		prefix = e.market.CurveDate.Format("2006-01-02")
	}
	for _, c := range curvesOf(mc) {
		s := store.NewSnapshot(prefix+"/"+c.name, e.market.CurveDate, c.c, res)
		if err := st.Save(ctx, &s); err != nil {
			return fmt.Errorf("save %s: %w", s.Name, err)
		}
		e.logger.Info("snapshot saved",
			zap.String("name", s.Name),
			zap.String("id", s.ID.String()),
			zap.String("backend", e.cfg.Store.Backend),
		)
	}
	return nil
}

type namedCurve struct {
	name string
	c    *curve.Curve
}

func curvesOf(mc calibration.ModelCurves) []namedCurve {
	return []namedCurve{
		{"discount", mc.Discount},
		{"3m", mc.F3M},
		{"6m", mc.F6M},
	}
}

func (e *env) writeCurves(w io.Writer, mc calibration.ModelCurves) error {
	write := report.WriteNodesText
	if e.format == formatCSV {
		write = report.WriteNodesCSV
	}
	for _, c := range curvesOf(mc) {
		if err := write(w, c.name, c.c); err != nil {
			return err
		}
	}
	return nil
}

func (e *env) writeRepricing(w io.Writer, mc calibration.ModelCurves) error {
	rows := report.Repricing(e.market.Data, mc)
	if e.format == formatCSV {
		return report.WriteRepricingCSV(w, rows)
	}
	return report.WriteRepricingText(w, rows)
}
