package tracking

import (
	"fmt"
	"log"
	"math"
	"slices"
	"strings"

	"coinvoyage/internal/database"
)

// Service implementa o modo local (metas, ilhas, missões, preferências) sobre o SQLite.
type Service struct {
	db   *database.Service
	emit func(eventName string, data interface{})
}

func NewService(db *database.Service, emit func(eventName string, data interface{})) *Service {
	return &Service{db: db, emit: emit}
}

// === Goals ===

// Overview retorna metas, total poupado e orçamento mensal
func (s *Service) Overview() (*GoalsOverview, error) {
	goals, err := s.db.ListGoals()
	if err != nil {
		return nil, err
	}
	cfg, err := s.db.GetConfig()
	if err != nil {
		return nil, err
	}

	overview := &GoalsOverview{
		Goals:         make([]Goal, 0, len(goals)),
		MonthlyBudget: cfg.MonthlyBudget,
	}
	for _, g := range goals {
		overview.Goals = append(overview.Goals, toGoal(g))
		overview.TotalSaved += g.CurrentAmount
	}
	return overview, nil
}

// AddGoal cria uma meta
func (s *Service) AddGoal(title string, target, current float64, imageName string) (*Goal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if target <= 0 || current < 0 {
		return nil, ErrInvalidAmount
	}

	goal := &database.FinancialGoal{
		Title:         title,
		TargetAmount:  target,
		CurrentAmount: current,
		ImageName:     strings.TrimSpace(imageName),
	}
	if err := s.db.CreateGoal(goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	s.changed("goals")
	out := toGoal(*goal)
	return &out, nil
}

// UpdateGoalAmount define o valor acumulado
func (s *Service) UpdateGoalAmount(id string, amount float64) (*Goal, error) {
	if amount < 0 {
		return nil, ErrInvalidAmount
	}
	goal, err := s.db.UpdateGoalAmount(id, amount)
	if err != nil {
		return nil, err
	}

	s.changed("goals")
	out := toGoal(*goal)
	return &out, nil
}

// DeleteGoal remove uma meta
func (s *Service) DeleteGoal(id string) error {
	if err := s.db.DeleteGoal(id); err != nil {
		return err
	}
	s.changed("goals")
	return nil
}

// === Islands ===

// Islands lista as ilhas de gastos
func (s *Service) Islands() ([]Island, error) {
	islands, err := s.db.ListIslands()
	if err != nil {
		return nil, err
	}
	out := make([]Island, 0, len(islands))
	for _, i := range islands {
		out = append(out, toIsland(i))
	}
	return out, nil
}

// AddIsland cria uma ilha
func (s *Service) AddIsland(name, category string, budget float64, color Color) (*Island, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTitleRequired
	}
	category = strings.ToLower(strings.TrimSpace(category))
	if !slices.Contains(Categories, category) {
		return nil, ErrInvalidCategory
	}
	if budget <= 0 {
		return nil, ErrInvalidAmount
	}

	island := &database.FinancialIsland{
		Name:          name,
		Category:      category,
		MonthlyBudget: budget,
		ColorRed:      clampUnit(color.Red),
		ColorGreen:    clampUnit(color.Green),
		ColorBlue:     clampUnit(color.Blue),
	}
	if err := s.db.CreateIsland(island); err != nil {
		return nil, fmt.Errorf("failed to create island: %w", err)
	}

	s.changed("islands")
	out := toIsland(*island)
	return &out, nil
}

// AddSpending registra um gasto na ilha
func (s *Service) AddSpending(id string, amount float64) (*Island, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	island, err := s.db.AddIslandSpending(id, amount)
	if err != nil {
		return nil, err
	}

	s.changed("islands")
	out := toIsland(*island)
	return &out, nil
}

// DeleteIsland remove uma ilha
func (s *Service) DeleteIsland(id string) error {
	if err := s.db.DeleteIsland(id); err != nil {
		return err
	}
	s.changed("islands")
	return nil
}

// === Missions ===

// Missions retorna as listas ativa e concluída
func (s *Service) Missions() (*Missions, error) {
	active, err := s.db.ListMissions(false)
	if err != nil {
		return nil, err
	}
	completed, err := s.db.ListMissions(true)
	if err != nil {
		return nil, err
	}
	return &Missions{Active: active, Completed: completed}, nil
}

// AddMission cria uma missão ativa
func (s *Service) AddMission(title, description string, reward float64) (*database.Mission, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if reward < 0 {
		return nil, ErrInvalidAmount
	}

	mission := &database.Mission{
		Title:       title,
		Description: strings.TrimSpace(description),
		Reward:      reward,
	}
	if err := s.db.CreateMission(mission); err != nil {
		return nil, fmt.Errorf("failed to create mission: %w", err)
	}

	s.changed("missions")
	return mission, nil
}

// ToggleMission conclui ou reativa uma missão
func (s *Service) ToggleMission(id string) (*database.Mission, error) {
	mission, err := s.db.ToggleMission(id)
	if err != nil {
		return nil, err
	}
	s.changed("missions")
	return mission, nil
}

// DeleteMission remove uma missão
func (s *Service) DeleteMission(id string) error {
	if err := s.db.DeleteMission(id); err != nil {
		return err
	}
	s.changed("missions")
	return nil
}

// === Settings ===

// SetMonthlyBudget atualiza o orçamento mensal
func (s *Service) SetMonthlyBudget(amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if err := s.db.UpdateMonthlyBudget(amount); err != nil {
		return err
	}
	s.changed("settings")
	return nil
}

// Theme retorna o tema salvo
func (s *Service) Theme() (string, error) {
	cfg, err := s.db.GetConfig()
	if err != nil {
		return "", err
	}
	return cfg.Theme, nil
}

// SetTheme persiste o tema
func (s *Service) SetTheme(theme string) error {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if !slices.Contains(Themes, theme) {
		return ErrInvalidTheme
	}
	if err := s.db.UpdateTheme(theme); err != nil {
		return err
	}
	s.changed("settings")
	return nil
}

func (s *Service) changed(scope string) {
	log.Printf("[TRACKING] %s changed", scope)
	if s.emit != nil {
		s.emit(EventChanged, map[string]string{"scope": scope})
	}
}

func toGoal(g database.FinancialGoal) Goal {
	return Goal{FinancialGoal: g, Progress: ratio(g.CurrentAmount, g.TargetAmount)}
}

func toIsland(i database.FinancialIsland) Island {
	return Island{
		FinancialIsland: i,
		Progress:        ratio(i.TotalSpent, i.MonthlyBudget),
		Remaining:       math.Max(i.MonthlyBudget-i.TotalSpent, 0),
	}
}

// ratio retorna min(part/whole, 1); whole <= 0 conta como 0.
func ratio(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Min(part/whole, 1)
}

func clampUnit(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
