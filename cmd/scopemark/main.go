// Command scopemark drives the annotation engine headless: it loads a
// marks file describing per-image calibrations and target points, runs
// every entry through the same command dispatcher a GUI front end would
// use, and exports the resulting album report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/scopemark/scopemark/internal/album"
	"github.com/scopemark/scopemark/internal/api"
	"github.com/scopemark/scopemark/internal/config"
	"github.com/scopemark/scopemark/internal/dispatcher"
	"github.com/scopemark/scopemark/internal/geo"
	"github.com/scopemark/scopemark/internal/handlers"
	"github.com/scopemark/scopemark/internal/logging"
	"github.com/scopemark/scopemark/internal/metrics"
	"github.com/scopemark/scopemark/internal/report"
	"github.com/scopemark/scopemark/internal/store"
	"github.com/scopemark/scopemark/internal/worker"
)

func main() {
	var (
		configDir = flag.String("config", ".", "directory containing scopemark.cfg.json")
		marksPath = flag.String("marks", "", "marks file to process")
		title     = flag.String("title", "Annotation album", "report title")
	)
	flag.Parse()

	if err := run(*configDir, *marksPath, *title); err != nil {
		fmt.Fprintln(os.Stderr, "scopemark:", err)
		os.Exit(1)
	}
}

func run(configDir, marksPath, title string) error {
	if err := config.Load(configDir); err != nil {
		return err
	}

	logLevel := config.GetString("logLevel")
	logsDir := config.GetString("logsDir")
	var logFile *os.File
	if logsDir != "" {
		if err := os.MkdirAll(logsDir, 0755); err == nil {
			logFile, _ = os.OpenFile(
				filepath.Join(logsDir, "scopemark.log"),
				os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644,
			)
		}
	}
	if logFile != nil {
		defer logFile.Close()
	}

	logManager := logging.NewManager()
	graylogAddr := ""
	if config.GetBool("graylog.enabled") {
		graylogAddr = config.GetString("graylog.address")
	}
	logManager.Setup(logFile, logLevel, graylogAddr)
	log := logManager.Logger()
	zlog := logging.NewZerolog(os.Stderr, logLevel)

	st, err := store.NewStore(config.GetStorageConfig(), zlog)
	if err != nil {
		return err
	}
	if err := st.Init(); err != nil {
		return err
	}
	defer st.Close()

	var metricsManager *metrics.Manager
	if config.GetBool("influx.enabled") {
		metricsManager = metrics.NewManager(zlog)
		if err := metricsManager.Connect(); err != nil {
			log.Warn("metrics disabled", "error", err)
			metricsManager = nil
		} else {
			defer metricsManager.Close()
		}
	}

	reportCfg := config.GetReportConfig()
	writer := &report.JSONWriter{
		OutputDir: reportCfg.OutputDir,
		Compress:  reportCfg.CompressOutput,
		UnitLabel: reportCfg.UnitLabel,
	}
	if siteCfg := config.GetSiteConfig(); siteCfg.Enabled {
		site, err := geo.SiteFromString(siteCfg.Position)
		if err != nil {
			log.Warn("geo-referencing disabled", "position", siteCfg.Position, "error", err)
		} else {
			writer.Site = &site
			writer.MetersPerUnit = siteCfg.MetersPerUnit
		}
	}

	var uploader worker.Uploader
	if config.GetBool("api.uploadEnabled") {
		uploader = api.New(config.GetString("api.serverUrl"), config.GetString("api.apiKey"))
	}

	exporter := worker.NewManager(worker.Dependencies{
		Writer:   writer,
		Metrics:  metricsManager,
		Uploader: uploader,
		Log:      log,
	})

	batch := album.NewBatch()
	service := handlers.NewService(handlers.Dependencies{
		Store:    st,
		Batch:    batch,
		Exporter: exporter,
		Metrics:  metricsManager,
		Log:      log,
		PageSize: reportCfg.PageSize,
	})

	eventDispatcher, err := dispatcher.New(logging.NewDispatcherLogger(zlog))
	if err != nil {
		return err
	}
	service.RegisterHandlers(eventDispatcher)

	if marksPath == "" {
		return fmt.Errorf("no marks file given (use -marks)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return processMarks(ctx, eventDispatcher, exporter, batch, title, marksPath, reportCfg.PageSize, log)
}
