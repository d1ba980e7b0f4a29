package steps

import (
	"context"
	"fmt"
	"nami-server/internal/shared_kernel/domain"
	"nami-server/test/functional/driver"
	"net/http"
	"net/url"
	"strings"
	"time"
)

func (fc *FeatureContext) intentsRequireConfirmation(list string) error {
	var intents []domain.Intent
	for _, value := range strings.Split(list, ",") {
		intent, err := domain.ParseIntent(value)
		if err != nil {
			return err
		}
		intents = append(intents, intent)
	}

	fc.teardown()
	env, err := driver.NewEnvironment(intents...)
	if err != nil {
		return err
	}
	fc.env = env
	fc.apiDriver = driver.NewAPIDriver(env.Server.URL)
	return nil
}

func (fc *FeatureContext) submit(body map[string]any) error {
	response, err := fc.apiDriver.CreateCommand(body)
	if err != nil {
		return err
	}
	fc.response = response
	if response.StatusCode != http.StatusCreated {
		return nil
	}

	var data map[string]any
	fc.require.NoError(fc.decodeBody(response.Body, &data))
	fc.require.NotEmpty(data["id"])
	fc.require.Equal("pending", data["status"])
	fc.commandIDs = append(fc.commandIDs, data["id"].(string))
	fc.responseData = data
	return nil
}

func (fc *FeatureContext) staffSubmitsACommandTo(intent, target string) error {
	return fc.submit(map[string]any{"intent": intent, "target": target})
}

func (fc *FeatureContext) staffSubmitsAScheduledCommandTo(intent, target, date, clock string) error {
	return fc.submit(map[string]any{"intent": intent, "target": target, "date": date, "time": clock})
}

func (fc *FeatureContext) staffSubmitsAMedicineDelivery(medicine, patient, room string) error {
	return fc.submit(map[string]any{
		"intent": string(domain.IntentMedicineDelivery),
		"target": room,
		"details": map[string]any{
			"medicine": medicine,
			"patient":  patient,
			"dosage":   "1 tablet",
			"room":     room,
		},
	})
}

func (fc *FeatureContext) staffSubmitsARobotControlCommand(action string) error {
	return fc.submit(map[string]any{"intent": string(domain.IntentRobotControl), "action": action})
}

func (fc *FeatureContext) lastCommandID() string {
	fc.require.NotEmpty(fc.commandIDs, "no command was submitted")
	return fc.commandIDs[len(fc.commandIDs)-1]
}

func (fc *FeatureContext) commandID(number int) string {
	fc.require.GreaterOrEqual(number, 1)
	fc.require.LessOrEqual(number, len(fc.commandIDs), "command %d was never submitted", number)
	return fc.commandIDs[number-1]
}

func (fc *FeatureContext) staffConfirmsTheLastCommand() error {
	response, err := fc.apiDriver.ConfirmCommand(fc.lastCommandID())
	if err != nil {
		return err
	}
	fc.response = response
	return nil
}

func (fc *FeatureContext) staffCancelsTheLastCommand() error {
	return fc.cancelLastCommand("")
}

func (fc *FeatureContext) staffCancelsTheLastCommandBecause(reason string) error {
	return fc.cancelLastCommand(reason)
}

func (fc *FeatureContext) cancelLastCommand(reason string) error {
	response, err := fc.apiDriver.CancelCommand(fc.lastCommandID(), reason)
	if err != nil {
		return err
	}
	fc.response = response
	return nil
}

func (fc *FeatureContext) iPeekAtTheNextCommand() error {
	response, err := fc.apiDriver.PeekNextCommand()
	if err != nil {
		return err
	}
	fc.response = response
	if response.StatusCode == http.StatusOK {
		fc.responseData = map[string]any{}
		fc.require.NoError(fc.decodeBody(response.Body, &fc.responseData))
	}
	return nil
}

func (fc *FeatureContext) iListCommandsWithStatus(status string) error {
	response, err := fc.apiDriver.ListCommands(url.Values{"status": []string{status}})
	if err != nil {
		return err
	}
	fc.response = response
	fc.require.Equal(http.StatusOK, response.StatusCode)

	var data struct {
		Commands []map[string]any `json:"commands"`
	}
	fc.require.NoError(fc.decodeBody(response.Body, &data))
	fc.listData = data.Commands
	return nil
}

func (fc *FeatureContext) theListShouldContainCommands(count int) error {
	fc.require.Len(fc.listData, count)
	return nil
}

func (fc *FeatureContext) theResponseShouldTarget(target string) error {
	fc.require.Equal(target, fc.responseData["target"])
	return nil
}

func (fc *FeatureContext) storeClaim() error {
	switch fc.response.StatusCode {
	case http.StatusOK:
		var data map[string]any
		fc.require.NoError(fc.decodeBody(fc.response.Body, &data))
		fc.responseData = data
		fc.claimedID = data["id"].(string)
	case http.StatusNoContent:
		fc.responseData = nil
		fc.claimedID = ""
	}
	return nil
}

func (fc *FeatureContext) robotClaimsTheNextCommand(robotID string) error {
	response, err := fc.apiDriver.ClaimCommand(robotID)
	if err != nil {
		return err
	}
	fc.response = response
	return fc.storeClaim()
}

func (fc *FeatureContext) robotClaimsCommandNumber(robotID string, number int) error {
	response, err := fc.apiDriver.ExecuteCommand(fc.commandID(number), robotID)
	if err != nil {
		return err
	}
	fc.response = response
	return fc.storeClaim()
}

func (fc *FeatureContext) robotReportsSuccess(robotID string) error {
	fc.require.NotEmpty(fc.claimedID, "no command was claimed")
	response, err := fc.apiDriver.CompleteCommand(fc.claimedID, robotID, true, "")
	if err != nil {
		return err
	}
	fc.response = response
	return nil
}

func (fc *FeatureContext) robotReportsFailure(robotID, message string) error {
	fc.require.NotEmpty(fc.claimedID, "no command was claimed")
	response, err := fc.apiDriver.CompleteCommand(fc.claimedID, robotID, false, message)
	if err != nil {
		return err
	}
	fc.response = response
	return nil
}

func (fc *FeatureContext) theClaimedCommandShouldTarget(target string) error {
	fc.require.Equal(http.StatusOK, fc.response.StatusCode)
	fc.require.Equal(target, fc.responseData["target"])
	fc.require.Equal("executing", fc.responseData["status"])
	return nil
}

func (fc *FeatureContext) noCommandShouldBeAvailable() error {
	fc.require.Equal(http.StatusNoContent, fc.response.StatusCode)
	return nil
}

func (fc *FeatureContext) fetchCommand(number int) map[string]any {
	response, err := fc.apiDriver.GetCommand(fc.commandID(number))
	fc.require.NoError(err)
	fc.require.Equal(http.StatusOK, response.StatusCode)

	var data map[string]any
	fc.require.NoError(fc.decodeBody(response.Body, &data))
	return data
}

func (fc *FeatureContext) commandNumberShouldBe(number int, status string) error {
	data := fc.fetchCommand(number)
	fc.require.Equal(status, data["status"])

	terminal := domain.CommandStatus(status).IsTerminal()
	if terminal {
		fc.require.NotNil(data["completed_at"], "terminal commands carry completed_at")
	} else {
		fc.require.Nil(data["completed_at"], "open commands have no completed_at")
	}
	return nil
}

func (fc *FeatureContext) commandNumberShouldHaveRetryCount(number, retries int) error {
	data := fc.fetchCommand(number)
	fc.require.EqualValues(retries, data["retry_count"])
	return nil
}

func (fc *FeatureContext) commandNumberShouldFailWithMessage(number int, fragment string) error {
	data := fc.fetchCommand(number)
	fc.require.Equal("failed", data["status"])
	message, ok := data["error_message"].(string)
	fc.require.True(ok, "error_message should be a string")
	fc.require.Contains(message, fragment)
	return nil
}

func (fc *FeatureContext) minutesPass(minutes int) error {
	fc.env.Clock.Advance(time.Duration(minutes) * time.Minute)
	return nil
}

func (fc *FeatureContext) theClaimTimeoutSweepRuns() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := fc.env.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("sweeping stalled claims: %w", err)
	}
	fc.require.Positive(result.Requeued+result.Failed, "the sweep should touch a stalled command")
	return nil
}
