package bdd

import (
	"testing"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/mediator-go/test/bdd/steps"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/mediator", "features/orders"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	// Dispatch steps registered first so their error assertions take precedence
	steps.InitializeDispatchScenario(sc)
	steps.InitializeRegistrationScenario(sc)
	steps.InitializeOrderWorkflowScenario(sc)
}
