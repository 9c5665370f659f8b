package workflow

import "testing"

func TestPlanStepLookup(t *testing.T) {
	plan := &Plan{Steps: []Step{
		{ID: "s1", Tool: "document"},
		{ID: "s2", Tool: "filesystem"},
	}}

	step, ok := plan.StepByID("s2")
	if !ok || step.Tool != "filesystem" {
		t.Fatalf("StepByID(s2) = %+v, %v", step, ok)
	}
	if _, ok := plan.StepByID("ghost"); ok {
		t.Error("StepByID(ghost) should not be found")
	}

	ids := plan.StepIDs()
	if len(ids) != 2 || ids[0] != "s1" || ids[1] != "s2" {
		t.Errorf("StepIDs() = %v", ids)
	}
}
