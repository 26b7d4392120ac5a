package tracking

import (
	"errors"

	"coinvoyage/internal/database"
)

// EventChanged é emitido após qualquer escrita do modo local
const EventChanged = "tracking:changed"

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidCategory = errors.New("unknown expense category")
	ErrInvalidTheme    = errors.New("unknown theme")
)

// Categorias de gasto aceitas pelas ilhas
var Categories = []string{"food", "entertainment", "transport", "shopping", "other"}

// Temas aceitos
var Themes = []string{"system", "light", "dark"}

// Goal é a meta com os campos derivados usados pela tela
type Goal struct {
	database.FinancialGoal
	Progress float64 `json:"progress"`
}

// GoalsOverview é o resumo da tela inicial
type GoalsOverview struct {
	Goals         []Goal  `json:"goals"`
	TotalSaved    float64 `json:"totalSaved"`
	MonthlyBudget float64 `json:"monthlyBudget"`
}

// Island é a ilha de gastos com progresso e saldo restante
type Island struct {
	database.FinancialIsland
	Progress  float64 `json:"progress"`
	Remaining float64 `json:"remaining"`
}

// Missions agrupa as listas ativa e concluída
type Missions struct {
	Active    []database.Mission `json:"active"`
	Completed []database.Mission `json:"completed"`
}

// Color é a cor RGB (0..1) de uma ilha
type Color struct {
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
}
