package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// AppName é o nome do aplicativo
	AppName = "CoinVoyage"

	// AppVersion é a versão atual
	AppVersion = "1.0.0"

	// AppBundleID é o bundle identifier (também usado como serviço no Keychain)
	AppBundleID = "com.coinvoyage.budgettracking"

	// DBFileName é o nome do arquivo SQLite
	DBFileName = "coinvoyage_data.db"

	// ResolverBaseURL é o endpoint consultado uma única vez no bootstrap
	ResolverBaseURL = "https://gtappinfo.site/ios-coinvoyage-budgettracking/server.php"

	// PartnerKey é a chave pré-compartilhada enviada no parâmetro "p"
	PartnerKey = "Bs2675kDjkb5Ga"

	// CacheKeyToken e CacheKeyLink são as chaves persistidas do modo browser
	CacheKeyToken = "coinvoyage_token"
	CacheKeyLink  = "coinvoyage_link"

	// InstallIDKey guarda o identificador de atribuição da instalação
	InstallIDKey = "coinvoyage_install_id"

	// DefaultAttributionGrace é a espera antes de consultar o endpoint (autorização de rastreamento)
	DefaultAttributionGrace = 5 * time.Second

	// DefaultMonthlyBudget é o orçamento mensal inicial do modo local
	DefaultMonthlyBudget = 5000.0

	// Backends de cache suportados
	CacheBackendSQLite   = "sqlite"
	CacheBackendKeychain = "keychain"
)

// Runtime agrupa os valores resolvidos a partir do ambiente no startup.
type Runtime struct {
	DBPath           string
	ResolverURL      string
	CacheBackend     string
	AttributionGrace time.Duration
}

// Load lê overrides de ambiente. Valores inválidos caem no padrão.
func Load() Runtime {
	return loadFrom(os.Getenv)
}

func loadFrom(getenv func(string) string) Runtime {
	rt := Runtime{
		DBPath:           strings.TrimSpace(getenv("COINVOYAGE_DB_PATH")),
		ResolverURL:      ResolverBaseURL,
		CacheBackend:     CacheBackendSQLite,
		AttributionGrace: DefaultAttributionGrace,
	}

	if override := strings.TrimSpace(getenv("COINVOYAGE_RESOLVER_URL")); override != "" {
		rt.ResolverURL = override
	}

	switch backend := strings.ToLower(strings.TrimSpace(getenv("COINVOYAGE_CACHE_BACKEND"))); backend {
	case "", CacheBackendSQLite:
	case CacheBackendKeychain:
		rt.CacheBackend = CacheBackendKeychain
	default:
		log.Printf("[CONFIG] Unknown cache backend %q, using %s", backend, CacheBackendSQLite)
	}

	if raw := strings.TrimSpace(getenv("COINVOYAGE_ATTRIBUTION_GRACE")); raw != "" {
		grace, err := time.ParseDuration(raw)
		if err != nil || grace < 0 {
			log.Printf("[CONFIG] Invalid attribution grace %q, using %s", raw, DefaultAttributionGrace)
		} else {
			rt.AttributionGrace = grace
		}
	}

	return rt
}

// DataDir retorna o diretório raiz de dados do app
func DataDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "."+strings.ToLower(AppName))
}

// DBPath retorna o caminho do arquivo SQLite
func DBPath() string {
	return filepath.Join(DataDir(), DBFileName)
}

// LogDir retorna o diretório de logs
func LogDir() string {
	return filepath.Join(DataDir(), "logs")
}

// EnsureDataDirs cria os diretórios necessários se não existirem
func EnsureDataDirs() error {
	for _, dir := range []string{DataDir(), LogDir()} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	return nil
}
