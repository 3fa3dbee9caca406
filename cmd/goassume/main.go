package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"gorm.io/datatypes"

	"goassume"
	"goassume/internal/config"
	"goassume/internal/dataset"
	"goassume/internal/logger"
	"goassume/internal/report"
	"goassume/internal/store"
	"goassume/internal/store/model"
	"goassume/internal/store/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := flag.String("config", "", "path to the YAML config (default $GOASSUME_CONFIG)")
	dataPath := flag.String("data", "", "CSV dataset path (overrides config)")
	target := flag.String("target", "", "target column (overrides config)")
	mode := flag.String("mode", "", "display mode: inline, external or snapshot (overrides config)")
	flag.Parse()

	if *cfgPath == "" {
		*cfgPath = os.Getenv("GOASSUME_CONFIG")
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("loading config failed: %v", err)
	}
	if *dataPath != "" {
		cfg.Data.Path = *dataPath
	}
	if *target != "" {
		cfg.Data.Target = *target
	}
	if *mode != "" {
		cfg.Report.Mode = *mode
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logFile, err := setupLogOutput(cfg.App.LogPath)
	if err != nil {
		log.Fatalf("initializing log file failed: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger.SetLevel(cfg.App.LogLevel)

	var runs store.Store
	if cfg.Store.Enabled {
		s, err := sqlite.NewSqliteStore(cfg.Store.Path)
		if err != nil {
			log.Fatalf("opening run history failed: %v", err)
		}
		defer s.Close()
		runs = s
	}

	if cfg.Watch {
		if cfg.Report.Mode == "external" {
			log.Fatalf("watch mode cannot be combined with the external display mode")
		}
		if cfg.Data.Path == "" {
			log.Fatalf("watch mode needs data.path, the toy dataset never changes")
		}
		if err := watchAndRun(ctx, cfg, runs); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
		return
	}

	if err := runOnce(ctx, cfg, runs); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}

func runOnce(ctx context.Context, cfg *config.Config, runs store.Store) error {
	frame, name, err := loadFrame(cfg)
	if err != nil {
		return err
	}
	logger.Infof("dataset %s loaded: %d rows, %d columns", name, frame.Rows(), frame.NumCols())

	check := goassume.Check{
		Frame:               frame,
		DatasetName:         name,
		Target:              cfg.Data.Target,
		Task:                cfg.Data.Task,
		Predictors:          cfg.Data.Predictors,
		Drop:                cfg.Data.Predictors != nil && !cfg.Data.Keep,
		CategoricalFeatures: cfg.Data.CategoricalFeatures,
		CategoricalEncoder:  cfg.Data.CategoricalEncoder,
		SigLevel:            cfg.Checks.SigLevel,
		VIFThreshold:        cfg.Checks.VIFThreshold,
	}
	rep, err := check.Run(ctx)
	if err != nil {
		return err
	}

	if runs != nil {
		if err := persistRun(ctx, runs, rep, name); err != nil {
			logger.Warnf("saving run history failed: %v", err)
		}
	}

	return goassume.Display(ctx, rep, goassume.DisplayOptions{
		Mode:         cfg.Report.Mode,
		Output:       cfg.Report.Output,
		SnapshotPath: cfg.Report.Snapshot,
		Addr:         cfg.Report.Addr,
	})
}

func loadFrame(cfg *config.Config) (frame *dataset.Frame, name string, err error) {
	if cfg.Data.Path == "" {
		logger.Infof("no dataset configured, using the bundled toy dataset")
		if cfg.Data.Target == "" {
			cfg.Data.Target = "mpg"
		}
		return dataset.Toy(), "toy_cars", nil
	}
	f, err := os.Open(cfg.Data.Path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	frame, err = dataset.ReadCSV(f, dataset.ReadOptions{
		SampleSize:       cfg.Data.SampleSize,
		ForceCategorical: cfg.Data.ForceCategorical,
	})
	if err != nil {
		return nil, "", err
	}
	name = cfg.Data.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(cfg.Data.Path), filepath.Ext(cfg.Data.Path))
	}
	return frame, name, nil
}

func persistRun(ctx context.Context, runs store.Store, rep *report.Report, name string) error {
	verdicts, err := json.Marshal(rep.Verdicts())
	if err != nil {
		return err
	}
	return runs.SaveRun(ctx, &model.Run{
		ID:         rep.RunID,
		Dataset:    name,
		Target:     rep.Target,
		Task:       rep.Task,
		SigLevel:   rep.SigLevel,
		Violations: rep.Violations(),
		ChecksRun:  len(rep.Checks),
		Verdicts:   datatypes.JSON(verdicts),
		CreatedAt:  rep.GeneratedAt,
	})
}

// watchAndRun reruns the battery whenever the dataset file changes.
// Events are debounced: editors fire several writes per save.
func watchAndRun(ctx context.Context, cfg *config.Config, runs store.Store) error {
	if err := runOnce(ctx, cfg, runs); err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(cfg.Data.Path)); err != nil {
		return err
	}
	logger.Infof("watching %s for changes", cfg.Data.Path)

	const debounce = 500 * time.Millisecond
	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(cfg.Data.Path) {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("watcher error: %v", err)
		case <-fire:
			logger.Infof("dataset changed, rerunning checks")
			if err := runOnce(ctx, cfg, runs); err != nil {
				logger.Errorf("rerun failed: %v", err)
			}
		}
	}
}

func setupLogOutput(path string) (*os.File, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	dir := filepath.Dir(trimmed)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	mw := io.MultiWriter(os.Stdout, file)
	log.SetOutput(mw)
	logger.SetOutput(mw)
	return file, nil
}
