package testutil

import "testing"

// Step is one named part of a scenario.
type Step struct {
	Name string
	Run  func(t *testing.T)
}

func Given(desc string, fn func(t *testing.T)) Step {
	return Step{Name: "Given " + desc, Run: fn}
}

func When(desc string, fn func(t *testing.T)) Step {
	return Step{Name: "When " + desc, Run: fn}
}

func Then(desc string, fn func(t *testing.T)) Step {
	return Step{Name: "Then " + desc, Run: fn}
}

func And(desc string, fn func(t *testing.T)) Step {
	return Step{Name: "And " + desc, Run: fn}
}

// Scenario runs steps in order as subtests of name. Later steps depend on
// earlier ones, so the first failing step ends the scenario.
func Scenario(t *testing.T, name string, steps ...Step) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		for _, s := range steps {
			if !t.Run(s.Name, s.Run) {
				t.FailNow()
			}
		}
	})
}
