package domain_test

import (
	"testing"

	"talenthub-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestLifecycleEnforced(t *testing.T) {
	lc := domain.Lifecycle{EnforceGraph: true}

	allowed := [][2]domain.ApplicationStatus{
		{domain.ApplicationStatusApplied, domain.ApplicationStatusShortlisted},
		{domain.ApplicationStatusApplied, domain.ApplicationStatusRejected},
		{domain.ApplicationStatusShortlisted, domain.ApplicationStatusInterviewed},
		{domain.ApplicationStatusShortlisted, domain.ApplicationStatusRejected},
		{domain.ApplicationStatusInterviewed, domain.ApplicationStatusHired},
		{domain.ApplicationStatusInterviewed, domain.ApplicationStatusRejected},
		{domain.ApplicationStatusRejected, domain.ApplicationStatusApplied},
		{domain.ApplicationStatusHired, domain.ApplicationStatusHired},
	}
	for _, p := range allowed {
		assert.True(t, lc.CanTransition(p[0], p[1]), "%s -> %s", p[0], p[1])
	}

	denied := [][2]domain.ApplicationStatus{
		{domain.ApplicationStatusApplied, domain.ApplicationStatusHired},
		{domain.ApplicationStatusHired, domain.ApplicationStatusRejected},
		{domain.ApplicationStatusHired, domain.ApplicationStatusApplied},
		{domain.ApplicationStatusInterviewed, domain.ApplicationStatusShortlisted},
		{domain.ApplicationStatusRejected, domain.ApplicationStatusHired},
	}
	for _, p := range denied {
		assert.False(t, lc.CanTransition(p[0], p[1]), "%s -> %s", p[0], p[1])
	}

	assert.Empty(t, lc.Next(domain.ApplicationStatusHired))
}

func TestLifecycleOpen(t *testing.T) {
	lc := domain.Lifecycle{EnforceGraph: false}

	assert.True(t, lc.CanTransition(domain.ApplicationStatusHired, domain.ApplicationStatusApplied))
	assert.True(t, lc.CanTransition(domain.ApplicationStatusApplied, domain.ApplicationStatusHired))
	assert.False(t, lc.CanTransition(domain.ApplicationStatusApplied, "archived"))
	assert.Len(t, lc.Next(domain.ApplicationStatusApplied), 4)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Shortlisted", domain.ApplicationStatusShortlisted.Label())
	assert.True(t, domain.IsReconsider(domain.ApplicationStatusRejected, domain.ApplicationStatusApplied))
	assert.False(t, domain.IsReconsider(domain.ApplicationStatusApplied, domain.ApplicationStatusRejected))
}

func TestSalaryInverted(t *testing.T) {
	lo, hi := 1000.0, 500.0
	assert.True(t, domain.Salary{Min: &lo, Max: &hi}.Inverted())
	assert.False(t, domain.Salary{Min: &hi, Max: &lo}.Inverted())
	assert.False(t, domain.Salary{Min: &lo}.Inverted())
}
