package database

import "time"

// Setting é uma linha chave/valor plana (credencial do bootstrap, install id)
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserConfig armazena preferências do modo local
type UserConfig struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        string    `gorm:"uniqueIndex;not null" json:"userId"`
	Theme         string    `gorm:"default:system" json:"theme"` // "system" | "light" | "dark"
	MonthlyBudget float64   `gorm:"default:5000" json:"monthlyBudget"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FinancialGoal representa uma meta de poupança
type FinancialGoal struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	UUID          string    `gorm:"uniqueIndex;not null" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	TargetAmount  float64   `gorm:"not null" json:"targetAmount"`
	CurrentAmount float64   `gorm:"default:0" json:"currentAmount"`
	ImageName     string    `json:"imageName"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FinancialIsland agrupa gastos de uma categoria contra um orçamento mensal
type FinancialIsland struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	UUID          string    `gorm:"uniqueIndex;not null" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Category      string    `gorm:"not null;default:other" json:"category"` // "food" | "entertainment" | "transport" | "shopping" | "other"
	TotalSpent    float64   `gorm:"default:0" json:"totalSpent"`
	MonthlyBudget float64   `gorm:"not null" json:"monthlyBudget"`
	ColorRed      float64   `json:"colorRed"`
	ColorGreen    float64   `json:"colorGreen"`
	ColorBlue     float64   `json:"colorBlue"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Mission é um desafio financeiro com recompensa
type Mission struct {
	ID          uint       `gorm:"primaryKey" json:"-"`
	UUID        string     `gorm:"uniqueIndex;not null" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Reward      float64    `gorm:"default:0" json:"reward"`
	Progress    float64    `gorm:"default:0" json:"progress"`
	IsCompleted bool       `gorm:"index;default:false" json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	SortOrder   int        `gorm:"default:0" json:"sortOrder"` // posição dentro da lista ativa/concluída
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
