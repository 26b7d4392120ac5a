package database

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"coinvoyage/internal/config"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Service encapsula o acesso ao SQLite via GORM
type Service struct {
	db *gorm.DB
}

var ErrNotFound = errors.New("record not found")

// NewService cria e inicializa o serviço de banco de dados.
// override (COINVOYAGE_DB_PATH) tem prioridade sobre os caminhos padrão.
func NewService(override string) (*Service, error) {
	dbPath, db, err := openWritableDatabase(override)
	if err != nil {
		return nil, err
	}

	svc, err := newMigratedService(db)
	if err != nil {
		return nil, err
	}

	// Definir permissão 0600 no arquivo do banco
	os.Chmod(dbPath, 0600)

	log.Printf("[DB] Database initialized at %s", dbPath)
	return svc, nil
}

// Open abre um DSN sqlite específico (ex.: "file:x?mode=memory&cache=shared") e migra os models.
func Open(dsn string) (*Service, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newMigratedService(db)
}

func newMigratedService(db *gorm.DB) (*Service, error) {
	// Auto-migrate todos os models
	if err := db.AutoMigrate(
		&Setting{},
		&UserConfig{},
		&FinancialGoal{},
		&FinancialIsland{},
		&Mission{},
	); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate: %w", err)
	}
	return &Service{db: db}, nil
}

func openWritableDatabase(override string) (string, *gorm.DB, error) {
	candidates := make([]string, 0, 4)
	if path := strings.TrimSpace(override); path != "" {
		candidates = append(candidates, path)
	}
	candidates = append(candidates, config.DBPath())

	if cwd, err := os.Getwd(); err == nil && strings.TrimSpace(cwd) != "" {
		candidates = append(candidates, filepath.Join(cwd, ".coinvoyage", config.DBFileName))
	}
	candidates = append(candidates, filepath.Join(os.TempDir(), config.AppName, config.DBFileName))

	var lastErr error
	for _, candidate := range candidates {
		path := strings.TrimSpace(candidate)
		if path == "" {
			continue
		}

		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			lastErr = err
			continue
		}

		if !isLikelyWritable(path) {
			lastErr = fmt.Errorf("path not writable: %s", path)
			continue
		}

		db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			lastErr = err
			continue
		}

		sqlDB, err := db.DB()
		if err != nil {
			lastErr = err
			continue
		}

		sqlDB.Exec("PRAGMA journal_mode=WAL")
		sqlDB.Exec("PRAGMA busy_timeout=5000")
		sqlDB.Exec("PRAGMA synchronous=NORMAL")

		// Probe de escrita para evitar abrir DB readonly em ambientes sandbox.
		probeErr := db.Exec("CREATE TABLE IF NOT EXISTS _coinvoyage_write_probe (id INTEGER PRIMARY KEY AUTOINCREMENT)").Error
		if probeErr == nil {
			probeErr = db.Exec("INSERT INTO _coinvoyage_write_probe DEFAULT VALUES").Error
		}
		if probeErr == nil {
			_ = db.Exec("DELETE FROM _coinvoyage_write_probe").Error
		}

		if probeErr != nil {
			lastErr = probeErr
			_ = sqlDB.Close()
			continue
		}

		return path, db, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no database path candidates available")
	}

	return "", nil, fmt.Errorf("failed to open writable database: %w", lastErr)
}

func isLikelyWritable(path string) bool {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// Close fecha a conexão com o banco
func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// === Settings (chave/valor) ===

// GetSetting retorna o valor de uma chave; ok=false quando ausente.
func (s *Service) GetSetting(key string) (string, bool, error) {
	values, err := s.GetSettings(key)
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

// GetSettings lê várias chaves numa única consulta. Chaves ausentes não aparecem no mapa.
func (s *Service) GetSettings(keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return values, nil
	}

	var rows []Setting
	if err := s.db.Where("`key` IN ?", keys).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

// SetSetting grava uma única chave.
func (s *Service) SetSetting(key, value string) error {
	return s.SetSettings(map[string]string{key: value})
}

// SetSettings grava todas as chaves numa transação: nenhum leitor observa escrita parcial.
func (s *Service) SetSettings(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			if strings.TrimSpace(key) == "" {
				return fmt.Errorf("setting key cannot be empty")
			}
			row := Setting{Key: key, Value: value}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteSettings remove as chaves numa transação.
func (s *Service) DeleteSettings(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Where("`key` IN ?", keys).Delete(&Setting{}).Error
	})
}

// === UserConfig ===

// GetConfig retorna a configuração do usuário (ou cria uma padrão)
func (s *Service) GetConfig() (*UserConfig, error) {
	var cfg UserConfig
	result := s.db.First(&cfg)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			cfg = UserConfig{
				UserID:        "local",
				Theme:         "system",
				MonthlyBudget: config.DefaultMonthlyBudget,
			}
			if err := s.db.Create(&cfg).Error; err != nil {
				return nil, err
			}
			return &cfg, nil
		}
		return nil, result.Error
	}
	return &cfg, nil
}

// UpdateTheme persiste o tema escolhido
func (s *Service) UpdateTheme(theme string) error {
	cfg, err := s.GetConfig()
	if err != nil {
		return err
	}
	return s.db.Model(&UserConfig{}).Where("id = ?", cfg.ID).Update("theme", theme).Error
}

// UpdateMonthlyBudget persiste o orçamento mensal
func (s *Service) UpdateMonthlyBudget(amount float64) error {
	cfg, err := s.GetConfig()
	if err != nil {
		return err
	}
	return s.db.Model(&UserConfig{}).Where("id = ?", cfg.ID).Update("monthly_budget", amount).Error
}

// === FinancialGoal CRUD ===

// ListGoals retorna as metas na ordem de criação
func (s *Service) ListGoals() ([]FinancialGoal, error) {
	var goals []FinancialGoal
	err := s.db.Order("created_at ASC, id ASC").Find(&goals).Error
	return goals, err
}

// GetGoal retorna uma meta pelo UUID
func (s *Service) GetGoal(id string) (*FinancialGoal, error) {
	var goal FinancialGoal
	if err := s.db.Where("uuid = ?", id).First(&goal).Error; err != nil {
		return nil, notFound(err)
	}
	return &goal, nil
}

// CreateGoal cria uma nova meta
func (s *Service) CreateGoal(goal *FinancialGoal) error {
	if goal == nil {
		return fmt.Errorf("goal cannot be nil")
	}
	if goal.UUID == "" {
		goal.UUID = uuid.NewString()
	}
	return s.db.Create(goal).Error
}

// UpdateGoalAmount define o valor acumulado de uma meta
func (s *Service) UpdateGoalAmount(id string, amount float64) (*FinancialGoal, error) {
	result := s.db.Model(&FinancialGoal{}).Where("uuid = ?", id).Update("current_amount", amount)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetGoal(id)
}

// DeleteGoal remove uma meta
func (s *Service) DeleteGoal(id string) error {
	result := s.db.Where("uuid = ?", id).Delete(&FinancialGoal{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// === FinancialIsland CRUD ===

// ListIslands retorna as ilhas na ordem de criação
func (s *Service) ListIslands() ([]FinancialIsland, error) {
	var islands []FinancialIsland
	err := s.db.Order("created_at ASC, id ASC").Find(&islands).Error
	return islands, err
}

// CreateIsland cria uma nova ilha de gastos
func (s *Service) CreateIsland(island *FinancialIsland) error {
	if island == nil {
		return fmt.Errorf("island cannot be nil")
	}
	if island.UUID == "" {
		island.UUID = uuid.NewString()
	}
	return s.db.Create(island).Error
}

// AddIslandSpending soma delta ao total gasto da ilha
func (s *Service) AddIslandSpending(id string, delta float64) (*FinancialIsland, error) {
	var island FinancialIsland
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uuid = ?", id).First(&island).Error; err != nil {
			return notFound(err)
		}
		island.TotalSpent += delta
		return tx.Model(&FinancialIsland{}).Where("id = ?", island.ID).Update("total_spent", island.TotalSpent).Error
	})
	if err != nil {
		return nil, err
	}
	return &island, nil
}

// DeleteIsland remove uma ilha
func (s *Service) DeleteIsland(id string) error {
	result := s.db.Where("uuid = ?", id).Delete(&FinancialIsland{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// === Mission CRUD ===

// ListMissions retorna as missões ativas ou concluídas, na ordem em que entraram na lista
func (s *Service) ListMissions(completed bool) ([]Mission, error) {
	var missions []Mission
	err := s.db.Where("is_completed = ?", completed).Order("sort_order ASC, id ASC").Find(&missions).Error
	return missions, err
}

// CreateMission adiciona uma missão ao fim da lista ativa
func (s *Service) CreateMission(mission *Mission) error {
	if mission == nil {
		return fmt.Errorf("mission cannot be nil")
	}
	if mission.UUID == "" {
		mission.UUID = uuid.NewString()
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		next, err := nextMissionSortOrderTx(tx, mission.IsCompleted)
		if err != nil {
			return err
		}
		mission.SortOrder = next
		return tx.Create(mission).Error
	})
}

// ToggleMission move a missão entre as listas ativa e concluída.
// Concluir fixa progress=1; reativar mantém o progresso.
func (s *Service) ToggleMission(id string) (*Mission, error) {
	var mission Mission
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uuid = ?", id).First(&mission).Error; err != nil {
			return notFound(err)
		}

		mission.IsCompleted = !mission.IsCompleted
		updates := map[string]interface{}{
			"is_completed": mission.IsCompleted,
		}
		if mission.IsCompleted {
			now := time.Now()
			mission.Progress = 1.0
			mission.CompletedAt = &now
			updates["progress"] = mission.Progress
			updates["completed_at"] = mission.CompletedAt
		} else {
			mission.CompletedAt = nil
			updates["completed_at"] = nil
		}

		next, err := nextMissionSortOrderTx(tx, mission.IsCompleted)
		if err != nil {
			return err
		}
		mission.SortOrder = next
		updates["sort_order"] = next

		return tx.Model(&Mission{}).Where("id = ?", mission.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &mission, nil
}

// DeleteMission remove uma missão de qualquer lista
func (s *Service) DeleteMission(id string) error {
	result := s.db.Where("uuid = ?", id).Delete(&Mission{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func nextMissionSortOrderTx(tx *gorm.DB, completed bool) (int, error) {
	var maxOrder int
	if err := tx.Model(&Mission{}).
		Where("is_completed = ?", completed).
		Select("COALESCE(MAX(sort_order), -1)").
		Row().
		Scan(&maxOrder); err != nil {
		return 0, err
	}
	return maxOrder + 1, nil
}
