package main

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/tournament-ledger-poc/internal/ledger/repo"
	"github.com/radieske/tournament-ledger-poc/internal/mirror"
	"github.com/radieske/tournament-ledger-poc/internal/shared/config"
	"github.com/radieske/tournament-ledger-poc/internal/shared/kafka"
	"github.com/radieske/tournament-ledger-poc/internal/shared/logger"
	"github.com/radieske/tournament-ledger-poc/internal/shared/metrics"
)

// mirror-worker consome os eventos do ledger e reescreve o espelho tabular
// fora do processo do serviço. O espelho é derivado: qualquer evento só
// dispara uma releitura completa dos documentos
func main() {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "mirror-worker"
	}
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.KafkaBrokers == "" {
		log.Fatal("KAFKA_BROKERS is required for the mirror worker")
	}

	files := repo.NewFiles(cfg.DataDir)
	csv := mirror.New(cfg.MirrorDir)

	refreshed := prometheus.NewCounter(prometheus.CounterOpts{Name: "mirror_refreshes_total", Help: "reescritas do espelho tabular"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "mirror_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(refreshed, failures)

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		_, err := files.LoadAll()
		return err
	})

	log.Info("mirror-worker started",
		zap.String("data_dir", cfg.DataDir),
		zap.String("mirror_dir", cfg.MirrorDir),
	)

	ctx := context.Background()

	betReader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetPlaced, "mirror-worker")
	defer betReader.Close()
	settledReader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicMatchSettled, "mirror-worker")
	defer settledReader.Close()

	// os dois loops de consumo compartilham o refresh; serializa a escrita
	var refreshMu sync.Mutex
	refresh := func(trigger string) {
		refreshMu.Lock()
		defer refreshMu.Unlock()

		ds, err := files.LoadAll()
		if err != nil {
			failures.WithLabelValues("load").Inc()
			log.Error("load ledger", zap.String("trigger", trigger), zap.Error(err))
			return
		}
		if err := csv.Export(ds); err != nil {
			failures.WithLabelValues("export").Inc()
			log.Error("export mirror", zap.String("trigger", trigger), zap.Error(err))
			return
		}
		refreshed.Inc()
		log.Info("mirror refreshed", zap.String("trigger", trigger))
	}

	go func() {
		for {
			if _, _, err := kafka.ReadNext(ctx, settledReader); err != nil {
				log.Warn("kafka read", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}
			refresh("match_settled")
		}
	}()

	for {
		if _, _, err := kafka.ReadNext(ctx, betReader); err != nil {
			log.Warn("kafka read", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		refresh("bet_placed")
	}
}
