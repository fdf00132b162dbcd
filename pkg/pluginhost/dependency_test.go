package pluginhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildDependencyReport_LinearOrder(t *testing.T) {
	depends := map[string][]string{
		"plg1": {"plg2"},
		"plg2": {},
	}

	report := buildDependencyReport(depends)
	assert.Equal(t, []string{"plg2", "plg1"}, report.LoadOrder)
	assert.Empty(t, report.Cycle)
	assert.Empty(t, report.Unsatisfied)
}

func TestBuildDependencyReport_UnsatisfiedMissingDependency(t *testing.T) {
	depends := map[string][]string{
		"plg1": {"ghost"},
	}

	report := buildDependencyReport(depends)
	assert.Equal(t, []string{"plg1"}, report.LoadOrder)
	assert.Equal(t, []string{"ghost"}, report.Unsatisfied["plg1"])
}

func TestBuildDependencyReport_DetectsCycle(t *testing.T) {
	depends := map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {"a"},
	}

	report := buildDependencyReport(depends)
	assert.Empty(t, report.LoadOrder)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, report.Cycle)
}

func TestBuildDependencyReport_DeterministicTieBreak(t *testing.T) {
	depends := map[string][]string{
		"z": {},
		"a": {},
		"m": {},
	}

	report := buildDependencyReport(depends)
	assert.Equal(t, []string{"a", "m", "z"}, report.LoadOrder)
}

func TestBuildDependencyReport_Empty(t *testing.T) {
	report := buildDependencyReport(map[string][]string{})
	assert.Empty(t, report.LoadOrder)
	assert.Empty(t, report.Cycle)
	assert.Empty(t, report.Unsatisfied)
}
