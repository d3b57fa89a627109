package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_Healthy(t *testing.T) {
	targets := healthyTargets()

	health := Evaluate(targets.ID, targets, healthyAggregates(), testNow)

	assert.Equal(t, TrafficLightGreen, health.Status)
	assert.Empty(t, health.Reasons)
	assert.Nil(t, health.NextAction)
	require.NotNil(t, health.Economy.GrossProfit)
	assert.Equal(t, 7000.0, *health.Economy.GrossProfit)
	assert.Equal(t, 70, *health.Economy.GrossMarginPct)
	assert.Equal(t, testNow, health.ComputedAt)
}

func TestEvaluate_NewProject(t *testing.T) {
	id := uuid.New()
	targets := Targets{ID: id, Name: "New inquiry", Status: StatusInquiry}

	health := Evaluate(id, targets, Aggregates{}, testNow)

	assert.Equal(t, TrafficLightYellow, health.Status)
	assert.Len(t, health.Reasons, 3)
	require.NotNil(t, health.NextAction)
	assert.Equal(t, NextActionSetTargets, health.NextAction.Key)
	assert.Nil(t, health.Economy.TargetRevenue)
}

func TestEvaluate_CriticalOverrun(t *testing.T) {
	targets := healthyTargets()

	health := Evaluate(targets.ID, targets, NewAggregates(130, 3000, false), testNow)

	assert.Equal(t, TrafficLightRed, health.Status)
	require.Len(t, health.Reasons, 1)
	assert.Equal(t, ReasonTimeOverPlanned, health.Reasons[0].Code)
	assert.Nil(t, health.NextAction)
}

func TestEvaluate_CompletedWithoutInvoice(t *testing.T) {
	targets := healthyTargets()
	targets.Status = StatusCompleted

	health := Evaluate(targets.ID, targets, healthyAggregates(), testNow)

	assert.Equal(t, TrafficLightYellow, health.Status)
	require.NotNil(t, health.NextAction)
	assert.Equal(t, NextActionCreateInvoice, health.NextAction.Key)
	assert.Equal(t, "/invoices/new?project="+targets.ID.String(), health.NextAction.CTARoute)
}

func TestEvaluate_Idempotent(t *testing.T) {
	targets := healthyTargets()
	targets.EndDate = Date(testNow.AddDate(0, 0, 2))
	targets.ProjectManagerID = nil
	aggregates := NewAggregates(110, 10500, false)
	later := testNow.Add(5 * time.Hour)

	first := Evaluate(targets.ID, targets, aggregates, testNow)
	second := Evaluate(targets.ID, targets, aggregates, later)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Reasons, second.Reasons)
	assert.Equal(t, first.NextAction, second.NextAction)
	assert.Equal(t, first.Economy, second.Economy)
}

func TestNotFoundHealth(t *testing.T) {
	health := NotFoundHealth(testNow)

	assert.Equal(t, TrafficLightYellow, health.Status)
	require.Len(t, health.Reasons, 1)
	assert.Equal(t, ReasonMissingTargets, health.Reasons[0].Code)
	assert.Equal(t, SeverityYellow, health.Reasons[0].Severity)
	assert.Equal(t, "Project not found", health.Reasons[0].Title)
	assert.Nil(t, health.NextAction)
	assert.Nil(t, health.Economy.TargetRevenue)
	assert.Nil(t, health.Economy.GrossProfit)
	assert.Nil(t, health.Economy.GrossMarginPct)
	assert.Equal(t, 0.0, health.Economy.ActualCosts)
	assert.True(t, health.IsNotFound())

	assert.False(t, Evaluate(uuid.New(), Targets{}, Aggregates{}, testNow).IsNotFound())
}
