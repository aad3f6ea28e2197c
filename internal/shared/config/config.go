package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	ctopics "github.com/radieske/tournament-ledger-poc/pkg/contracts/topics"
)

// Config centraliza variáveis de ambiente e parâmetros de execução dos serviços
// Inclui diretórios de dados, credenciais do espelho remoto, tópicos e portas
type Config struct {
	Env         string `toml:"env"`          // "local", "dev", "prod"
	ServiceName string `toml:"service_name"` // ex: "ledger-service", "mirror-worker"

	// Documentos locais (fonte da verdade)
	DataDir   string `toml:"data_dir"`
	MirrorDir string `toml:"mirror_dir"` // espelho tabular (CSV), derivado

	// Espelho remoto (API de conteúdo versionado por hash)
	RemoteBaseURL  string  `toml:"remote_base_url"`
	RemoteRepo     string  `toml:"remote_repo"` // "owner/name"
	RemoteBranch   string  `toml:"remote_branch"`
	RemoteToken    string  `toml:"remote_token"`
	RemoteWriteRPS float64 `toml:"remote_write_rps"` // pacing entre escritas

	// Infra opcional
	KafkaBrokers string `toml:"kafka_brokers"` // vazio desabilita eventos
	RedisAddr    string `toml:"redis_addr"`    // vazio usa store de propostas em memória

	// Tópicos
	TopicBetPlaced    string `toml:"topic_bet_placed"`
	TopicMatchSettled string `toml:"topic_match_settled"`
	TopicLedgerSynced string `toml:"topic_ledger_synced"`

	// Portas do serviço atual
	HTTPPort    string `toml:"http_port"`    // API pública
	MetricsPort string `toml:"metrics_port"` // exclusiva para /metrics e /healthz

	// Janela de validade de uma proposta de resultado não confirmada
	ProposalTTL time.Duration `toml:"-"`
}

// Load carrega um arquivo TOML opcional (CONFIG_FILE), depois .env, e por fim
// aplica variáveis de ambiente por cima. Defaults resolvidos pelo SERVICE_NAME
func Load() Config {
	// .env é opcional; silenciosamente ignorado se ausente
	_ = godotenv.Load()

	var cfg Config
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		// erro de parse aqui é fatal só mais adiante, quando faltar um campo;
		// o arquivo é conveniência de ambiente local
		_, _ = toml.DecodeFile(path, &cfg)
	}

	svc := getEnv("SERVICE_NAME", cfg.ServiceName)
	env := getEnv("ENV", defStr(cfg.Env, "local"))

	cfg.Env = env
	cfg.ServiceName = svc

	cfg.DataDir = getEnv("DATA_DIR", defStr(cfg.DataDir, "data"))
	cfg.MirrorDir = getEnv("MIRROR_DIR", defStr(cfg.MirrorDir, "data/mirror"))

	cfg.RemoteBaseURL = getEnv("REMOTE_BASE_URL", defStr(cfg.RemoteBaseURL, "https://api.github.com"))
	cfg.RemoteRepo = getEnv("REMOTE_REPO", cfg.RemoteRepo)
	cfg.RemoteBranch = getEnv("REMOTE_BRANCH", defStr(cfg.RemoteBranch, "main"))
	cfg.RemoteToken = getEnv("REMOTE_TOKEN", cfg.RemoteToken)
	cfg.RemoteWriteRPS = getFloat("REMOTE_WRITE_RPS", defFloat(cfg.RemoteWriteRPS, 2))

	cfg.KafkaBrokers = getEnv("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)

	cfg.TopicBetPlaced = getEnv("KAFKA_TOPIC_BET_PLACED", defStr(cfg.TopicBetPlaced, ctopics.BetPlaced))
	cfg.TopicMatchSettled = getEnv("KAFKA_TOPIC_MATCH_SETTLED", defStr(cfg.TopicMatchSettled, ctopics.MatchSettled))
	cfg.TopicLedgerSynced = getEnv("KAFKA_TOPIC_LEDGER_SYNCED", defStr(cfg.TopicLedgerSynced, ctopics.LedgerSynced))

	cfg.ProposalTTL = getDuration("PROPOSAL_TTL", 2*time.Minute)

	// Define portas padrão para cada serviço
	switch svc {
	case "ledger-service":
		cfg.HTTPPort = getEnv("HTTP_PORT_LEDGER", defStr(cfg.HTTPPort, "8084"))
		cfg.MetricsPort = getEnv("METRICS_PORT_LEDGER", defStr(cfg.MetricsPort, "9100"))
	case "mirror-worker":
		cfg.HTTPPort = getEnv("HTTP_PORT_MIRROR", "") // worker não expõe HTTP público
		cfg.MetricsPort = getEnv("METRICS_PORT_MIRROR", defStr(cfg.MetricsPort, "9101"))
	default:
		cfg.HTTPPort = getEnv("HTTP_PORT", defStr(cfg.HTTPPort, "8084"))
		cfg.MetricsPort = getEnv("METRICS_PORT", defStr(cfg.MetricsPort, "9100"))
	}

	return cfg
}

// RemoteEnabled indica se o espelho remoto foi configurado
func (c Config) RemoteEnabled() bool {
	return c.RemoteRepo != "" && c.RemoteToken != ""
}

// getEnv retorna o valor da variável de ambiente ou o default
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func defStr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func defFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
