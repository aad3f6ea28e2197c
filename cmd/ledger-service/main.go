package main

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	lhttp "github.com/radieske/tournament-ledger-poc/internal/ledger/http"
	"github.com/radieske/tournament-ledger-poc/internal/ledger/producer"
	"github.com/radieske/tournament-ledger-poc/internal/ledger/proposal"
	"github.com/radieske/tournament-ledger-poc/internal/ledger/repo"
	"github.com/radieske/tournament-ledger-poc/internal/ledger/store"
	"github.com/radieske/tournament-ledger-poc/internal/mirror"
	"github.com/radieske/tournament-ledger-poc/internal/remote"
	"github.com/radieske/tournament-ledger-poc/internal/shared/cache"
	"github.com/radieske/tournament-ledger-poc/internal/shared/config"
	skafka "github.com/radieske/tournament-ledger-poc/internal/shared/kafka"
	"github.com/radieske/tournament-ledger-poc/internal/shared/logger"
	"github.com/radieske/tournament-ledger-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "ledger-service"
	}
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Documentos locais: fonte da verdade
	files := repo.NewFiles(cfg.DataDir)

	// Espelho remoto é opcional; sem credenciais o serviço roda só local
	var rc *remote.Client
	if cfg.RemoteEnabled() {
		rc = remote.New(remote.Config{
			BaseURL:  cfg.RemoteBaseURL,
			Repo:     cfg.RemoteRepo,
			Branch:   cfg.RemoteBranch,
			Token:    cfg.RemoteToken,
			WriteRPS: cfg.RemoteWriteRPS,
		})
		log.Info("remote mirror enabled", zap.String("repo", cfg.RemoteRepo), zap.String("branch", cfg.RemoteBranch))
	} else {
		log.Warn("remote mirror disabled: REMOTE_REPO/REMOTE_TOKEN not set")
	}

	// Propostas de resultado: Redis com TTL quando configurado, memória
	// caso contrário (suficiente pro modelo de escritor único local)
	var props proposal.Store = proposal.NewMemory()
	if cfg.RedisAddr != "" {
		rdb, err := cache.ConnectRedis(cfg.RedisAddr)
		if err != nil {
			log.Fatal("redis", zap.Error(err))
		}
		defer rdb.Close()
		props = proposal.NewRedis(rdb)
	}

	// Eventos de domínio: opcionais, fire-and-forget
	var publ store.Publisher
	if cfg.KafkaBrokers != "" {
		writer := skafka.NewEventWriter(cfg.KafkaBrokers)
		defer writer.Close()
		publ = producer.NewKafkaPublisher(writer)
	}

	st := store.New(log, files, rc, props, mirror.New(cfg.MirrorDir), publ, cfg.ProposalTTL)

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, st.Health)

	api := lhttp.NewServer(log, st)
	apiSrv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("ledger-service listening",
		zap.String("addr", apiSrv.Addr),
		zap.String("data_dir", cfg.DataDir),
	)
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
