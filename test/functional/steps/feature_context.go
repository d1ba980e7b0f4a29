package steps

import (
	"context"
	"encoding/json"
	"io"
	"nami-server/test/functional/driver"
	"net/http"

	"github.com/cucumber/godog"
	"github.com/stretchr/testify/require"
)

type FeatureContext struct {
	env          *driver.Environment
	apiDriver    *driver.APIDriver
	robots       map[string]*driver.Robot
	response     *http.Response
	responseData map[string]any
	listData     []map[string]any
	commandIDs   []string
	claimedID    string
	require      *require.Assertions
	t            godog.TestingT
}

func NewFeatureContext() *FeatureContext {
	return &FeatureContext{}
}

func (fc *FeatureContext) RegisterSteps(ctx *godog.ScenarioContext) {
	// Probe steps
	ctx.When(`^I call the (healthz|readyz) endpoint$`, fc.iCallTheProbe)
	ctx.Then(`^the response status code should be (\d+)$`, fc.theResponseStatusCodeShouldBe)
	ctx.Then(`^the response should contain status information$`, fc.theResponseShouldContainStatusInformation)

	// Queue steps
	ctx.Given(`^intents "([^"]*)" require confirmation$`, fc.intentsRequireConfirmation)
	ctx.When(`^staff submits a "([^"]*)" command to "([^"]*)"$`, fc.staffSubmitsACommandTo)
	ctx.When(`^staff submits a "([^"]*)" command to "([^"]*)" scheduled "([^"]*)" at "([^"]*)"$`, fc.staffSubmitsAScheduledCommandTo)
	ctx.When(`^staff submits a medicine delivery of "([^"]*)" for "([^"]*)" to room "([^"]*)"$`, fc.staffSubmitsAMedicineDelivery)
	ctx.When(`^staff submits a robot control "([^"]*)" command$`, fc.staffSubmitsARobotControlCommand)
	ctx.When(`^staff confirms the last command$`, fc.staffConfirmsTheLastCommand)
	ctx.When(`^staff cancels the last command$`, fc.staffCancelsTheLastCommand)
	ctx.When(`^staff cancels the last command because "([^"]*)"$`, fc.staffCancelsTheLastCommandBecause)
	ctx.When(`^I peek at the next command$`, fc.iPeekAtTheNextCommand)
	ctx.When(`^I list commands with status "([^"]*)"$`, fc.iListCommandsWithStatus)
	ctx.Then(`^the list should contain (\d+) commands?$`, fc.theListShouldContainCommands)
	ctx.Then(`^the response should target "([^"]*)"$`, fc.theResponseShouldTarget)

	// Claim steps
	ctx.When(`^robot "([^"]*)" claims the next command$`, fc.robotClaimsTheNextCommand)
	ctx.When(`^robot "([^"]*)" claims command number (\d+)$`, fc.robotClaimsCommandNumber)
	ctx.When(`^robot "([^"]*)" reports success for the claimed command$`, fc.robotReportsSuccess)
	ctx.When(`^robot "([^"]*)" reports failure "([^"]*)" for the claimed command$`, fc.robotReportsFailure)
	ctx.Then(`^the claimed command should target "([^"]*)"$`, fc.theClaimedCommandShouldTarget)
	ctx.Then(`^no command should be available$`, fc.noCommandShouldBeAvailable)

	// Lifecycle steps
	ctx.Then(`^command number (\d+) should be "([^"]*)"$`, fc.commandNumberShouldBe)
	ctx.Then(`^command number (\d+) should have retry count (\d+)$`, fc.commandNumberShouldHaveRetryCount)
	ctx.Then(`^command number (\d+) should fail with a message containing "([^"]*)"$`, fc.commandNumberShouldFailWithMessage)
	ctx.When(`^(\d+) minutes pass$`, fc.minutesPass)
	ctx.When(`^the claim timeout sweep runs$`, fc.theClaimTimeoutSweepRuns)

	// Robot steps
	ctx.Given(`^robot "([^"]*)" is online$`, fc.robotIsOnline)
	ctx.Given(`^robot "([^"]*)" is online and cannot reach "([^"]*)"$`, fc.robotIsOnlineAndCannotReach)
	ctx.When(`^robot "([^"]*)" polls once$`, fc.robotPollsOnce)
	ctx.Then(`^robot "([^"]*)" should be "([^"]*)" at "([^"]*)"$`, fc.robotShouldBeAt)
	ctx.Then(`^the reported status of robot "([^"]*)" should be "([^"]*)" at "([^"]*)"$`, fc.theReportedStatusShouldBe)

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		fc.t = godog.T(ctx)
		fc.require = require.New(fc.t)

		return ctx, fc.reset()
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		fc.teardown()
		return ctx, err
	})
}

func (fc *FeatureContext) reset() error {
	fc.teardown()

	env, err := driver.NewEnvironment()
	if err != nil {
		return err
	}
	fc.env = env
	fc.apiDriver = driver.NewAPIDriver(env.Server.URL)
	fc.robots = map[string]*driver.Robot{}
	fc.response = nil
	fc.responseData = nil
	fc.listData = nil
	fc.commandIDs = nil
	fc.claimedID = ""
	return nil
}

func (fc *FeatureContext) teardown() {
	for _, robot := range fc.robots {
		robot.Stop()
	}
	if fc.env != nil {
		fc.env.Close()
		fc.env = nil
	}
}

func (fc *FeatureContext) decodeBody(body io.ReadCloser, target any) error {
	defer body.Close()
	return json.NewDecoder(body).Decode(target)
}
