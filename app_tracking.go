package main

import (
	"fmt"

	"coinvoyage/internal/database"
	"coinvoyage/internal/tracking"
)

// Bindings do modo local. Todas falham com erro explícito quando o banco
// não abriu; o frontend mostra o estado vazio nesse caso.

func (a *App) trackingService() (*tracking.Service, error) {
	if a.tracking == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return a.tracking, nil
}

// ListGoals retorna metas, total poupado e orçamento mensal
func (a *App) ListGoals() (*tracking.GoalsOverview, error) {
	svc, err := a.trackingService()
	if err != nil {
		return nil, err
	}
	return svc.Overview()
}

// AddGoal cria uma meta de economia
func (a *App) AddGoal(title string, targetAmount float64, currentAmount float64, imageName string) (*tracking.Goal, error) {
	svc, err := a.trackingService()
	if err != nil {
		return nil, err
	}
	return svc.AddGoal(title, targetAmount, currentAmount, imageName)
}

// UpdateGoalAmount define o valor acumulado de uma meta
func (a *App) UpdateGoalAmount(id string, amount float64) (*tracking.Goal, error) {
	svc, err := a.trackingService()
	if err != nil {
		return nil, err
	}
	return svc.UpdateGoalAmount(id, amount)
}

// DeleteGoal remove uma meta
func (a *App) DeleteGoal(id string) error {
	svc, err := a.trackingService()
	if err != nil {
		return err
	}
	return svc.DeleteGoal(id)
}

// ListIslands lista as ilhas de gastos
func (a *App) ListIslands() ([]tracking.Island, error) {
	svc, err := a.trackingService()
	if err != nil {
		return nil, err
	}
	return svc.Islands()
}

// AddIsland cria uma ilha de gastos
func (a *App) AddIsland(name string, category string, monthlyBudget float64, color tracking.Color) (*tracking.Island, error) {
	svc, err := a.trackingService()
	if err != nil {
		return nil, err
	}
	return svc.AddIsland(name, category, monthlyBudget, color)
}

// AddIslandSpending registra um gasto
func (a *App) AddIslandSpending(id string, amount float64) (*tracking.Island, error) {
	svc, err := a.trackingService()
	if err != nil {
		return nil, err
	}
	return svc.AddSpending(id, amount)
}

// DeleteIsland remove uma ilha
func (a *App) DeleteIsland(id string) error {
	svc, err := a.trackingService()
	if err != nil {
		return err
	}
	return svc.DeleteIsland(id)
}

// ListMissions retorna as missões ativas e concluídas
func (a *App) ListMissions() (*tracking.Missions, error) {
	svc, err := a.trackingService()
	if err != nil {
		return nil, err
	}
	return svc.Missions()
}

// AddMission cria uma missão
func (a *App) AddMission(title string, description string, reward float64) (*database.Mission, error) {
	svc, err := a.trackingService()
	if err != nil {
		return nil, err
	}
	return svc.AddMission(title, description, reward)
}

// ToggleMission conclui ou reativa uma missão
func (a *App) ToggleMission(id string) (*database.Mission, error) {
	svc, err := a.trackingService()
	if err != nil {
		return nil, err
	}
	return svc.ToggleMission(id)
}

// DeleteMission remove uma missão
func (a *App) DeleteMission(id string) error {
	svc, err := a.trackingService()
	if err != nil {
		return err
	}
	return svc.DeleteMission(id)
}

// SetMonthlyBudget atualiza o orçamento mensal
func (a *App) SetMonthlyBudget(amount float64) error {
	svc, err := a.trackingService()
	if err != nil {
		return err
	}
	return svc.SetMonthlyBudget(amount)
}

// GetTheme retorna o tema salvo
func (a *App) GetTheme() (string, error) {
	svc, err := a.trackingService()
	if err != nil {
		return "", err
	}
	return svc.Theme()
}

// SetTheme persiste o tema (system | light | dark)
func (a *App) SetTheme(theme string) error {
	svc, err := a.trackingService()
	if err != nil {
		return err
	}
	return svc.SetTheme(theme)
}
