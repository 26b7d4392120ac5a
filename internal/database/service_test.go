package database

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func newInMemoryDatabaseService(t *testing.T) *Service {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	svc, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestSetSettingsWritesAllKeys(t *testing.T) {
	svc := newInMemoryDatabaseService(t)

	if err := svc.SetSettings(map[string]string{"a": "1", "b": "2"}); err != nil {
		t.Fatalf("SetSettings() error = %v", err)
	}

	values, err := svc.GetSettings("a", "b", "missing")
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if len(values) != 2 || values["a"] != "1" || values["b"] != "2" {
		t.Fatalf("unexpected settings: %#v", values)
	}
	if _, ok := values["missing"]; ok {
		t.Fatalf("missing key should not be present")
	}
}

func TestSetSettingsOverwritesExistingKey(t *testing.T) {
	svc := newInMemoryDatabaseService(t)

	if err := svc.SetSetting("a", "old"); err != nil {
		t.Fatalf("SetSetting() error = %v", err)
	}
	if err := svc.SetSetting("a", "new"); err != nil {
		t.Fatalf("SetSetting() overwrite error = %v", err)
	}

	value, ok, err := svc.GetSetting("a")
	if err != nil || !ok {
		t.Fatalf("GetSetting() = %q, %v, %v", value, ok, err)
	}
	if value != "new" {
		t.Fatalf("value = %q, want new", value)
	}
}

func TestSetSettingsRejectsEmptyKeyWithoutPartialWrite(t *testing.T) {
	svc := newInMemoryDatabaseService(t)

	err := svc.SetSettings(map[string]string{"a": "1", " ": "2"})
	if err == nil {
		t.Fatalf("expected error for empty key")
	}

	if _, ok, _ := svc.GetSetting("a"); ok {
		t.Fatalf("transaction should have rolled back key a")
	}
}

func TestDeleteSettingsRemovesKeys(t *testing.T) {
	svc := newInMemoryDatabaseService(t)

	if err := svc.SetSettings(map[string]string{"a": "1", "b": "2", "c": "3"}); err != nil {
		t.Fatalf("SetSettings() error = %v", err)
	}
	if err := svc.DeleteSettings("a", "b"); err != nil {
		t.Fatalf("DeleteSettings() error = %v", err)
	}

	values, err := svc.GetSettings("a", "b", "c")
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if len(values) != 1 || values["c"] != "3" {
		t.Fatalf("unexpected settings after delete: %#v", values)
	}
}

func TestGetConfigCreatesDefaults(t *testing.T) {
	svc := newInMemoryDatabaseService(t)

	cfg, err := svc.GetConfig()
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if cfg.Theme != "system" || cfg.MonthlyBudget != 5000 {
		t.Fatalf("unexpected default config: %+v", cfg)
	}

	if err := svc.UpdateMonthlyBudget(1200); err != nil {
		t.Fatalf("UpdateMonthlyBudget() error = %v", err)
	}
	if err := svc.UpdateTheme("dark"); err != nil {
		t.Fatalf("UpdateTheme() error = %v", err)
	}

	cfg, err = svc.GetConfig()
	if err != nil {
		t.Fatalf("GetConfig() reload error = %v", err)
	}
	if cfg.Theme != "dark" || cfg.MonthlyBudget != 1200 {
		t.Fatalf("config not persisted: %+v", cfg)
	}
}

func TestGoalLifecycle(t *testing.T) {
	svc := newInMemoryDatabaseService(t)

	goal := &FinancialGoal{Title: "Trip", TargetAmount: 1000, ImageName: "airplane"}
	if err := svc.CreateGoal(goal); err != nil {
		t.Fatalf("CreateGoal() error = %v", err)
	}
	if goal.UUID == "" {
		t.Fatalf("CreateGoal() did not assign uuid")
	}

	updated, err := svc.UpdateGoalAmount(goal.UUID, 250)
	if err != nil {
		t.Fatalf("UpdateGoalAmount() error = %v", err)
	}
	if updated.CurrentAmount != 250 {
		t.Fatalf("CurrentAmount = %v, want 250", updated.CurrentAmount)
	}

	if _, err := svc.UpdateGoalAmount("missing", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateGoalAmount(missing) error = %v, want ErrNotFound", err)
	}

	if err := svc.DeleteGoal(goal.UUID); err != nil {
		t.Fatalf("DeleteGoal() error = %v", err)
	}
	goals, err := svc.ListGoals()
	if err != nil {
		t.Fatalf("ListGoals() error = %v", err)
	}
	if len(goals) != 0 {
		t.Fatalf("expected no goals, got %d", len(goals))
	}
}

func TestAddIslandSpendingAccumulates(t *testing.T) {
	svc := newInMemoryDatabaseService(t)

	island := &FinancialIsland{Name: "Groceries", Category: "food", MonthlyBudget: 400}
	if err := svc.CreateIsland(island); err != nil {
		t.Fatalf("CreateIsland() error = %v", err)
	}

	if _, err := svc.AddIslandSpending(island.UUID, 50); err != nil {
		t.Fatalf("AddIslandSpending() error = %v", err)
	}
	updated, err := svc.AddIslandSpending(island.UUID, 25.5)
	if err != nil {
		t.Fatalf("AddIslandSpending() second error = %v", err)
	}
	if updated.TotalSpent != 75.5 {
		t.Fatalf("TotalSpent = %v, want 75.5", updated.TotalSpent)
	}

	if _, err := svc.AddIslandSpending("missing", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("AddIslandSpending(missing) error = %v, want ErrNotFound", err)
	}
}

func TestToggleMissionMovesBetweenLists(t *testing.T) {
	svc := newInMemoryDatabaseService(t)

	first := &Mission{Title: "No coffee week", Reward: 20, Progress: 0.4}
	second := &Mission{Title: "Cook at home", Reward: 35}
	for _, m := range []*Mission{first, second} {
		if err := svc.CreateMission(m); err != nil {
			t.Fatalf("CreateMission() error = %v", err)
		}
	}
	if first.SortOrder != 0 || second.SortOrder != 1 {
		t.Fatalf("unexpected sort orders: %d %d", first.SortOrder, second.SortOrder)
	}

	completed, err := svc.ToggleMission(first.UUID)
	if err != nil {
		t.Fatalf("ToggleMission() error = %v", err)
	}
	if !completed.IsCompleted || completed.Progress != 1 || completed.CompletedAt == nil {
		t.Fatalf("mission not completed: %+v", completed)
	}

	active, err := svc.ListMissions(false)
	if err != nil {
		t.Fatalf("ListMissions(false) error = %v", err)
	}
	if len(active) != 1 || active[0].UUID != second.UUID {
		t.Fatalf("unexpected active missions: %+v", active)
	}

	reactivated, err := svc.ToggleMission(first.UUID)
	if err != nil {
		t.Fatalf("ToggleMission() reactivate error = %v", err)
	}
	if reactivated.IsCompleted || reactivated.Progress != 1 {
		t.Fatalf("reactivated mission should keep progress: %+v", reactivated)
	}

	active, err = svc.ListMissions(false)
	if err != nil {
		t.Fatalf("ListMissions(false) error = %v", err)
	}
	if len(active) != 2 || active[1].UUID != first.UUID {
		t.Fatalf("reactivated mission should be appended to the active list: %+v", active)
	}

	if _, err := svc.ToggleMission("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ToggleMission(missing) error = %v, want ErrNotFound", err)
	}
}
