package steps

import (
	"context"
	"net/http"
	"time"
)

func (fc *FeatureContext) robotIsOnline(robotID string) error {
	return fc.robotIsOnlineAndCannotReach(robotID, "")
}

func (fc *FeatureContext) robotIsOnlineAndCannotReach(robotID, location string) error {
	var unreachable []string
	if location != "" {
		unreachable = append(unreachable, location)
	}

	robot, err := fc.env.NewRobot(robotID, unreachable...)
	if err != nil {
		return err
	}
	fc.robots[robotID] = robot
	return nil
}

func (fc *FeatureContext) robotPollsOnce(robotID string) error {
	robot, ok := fc.robots[robotID]
	fc.require.True(ok, "robot %s is not online", robotID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	robot.PollOnce(ctx)
	return nil
}

func (fc *FeatureContext) robotShouldBeAt(robotID, status, location string) error {
	robot, ok := fc.robots[robotID]
	fc.require.True(ok, "robot %s is not online", robotID)

	state := robot.State.Snapshot()
	fc.require.Equal(status, string(state.Status))
	fc.require.Equal(location, state.Location.String())
	return nil
}

func (fc *FeatureContext) theReportedStatusShouldBe(robotID, status, location string) error {
	response, err := fc.apiDriver.GetRobotStatus(robotID)
	if err != nil {
		return err
	}
	fc.response = response
	fc.require.Equal(http.StatusOK, response.StatusCode)

	var data map[string]any
	fc.require.NoError(fc.decodeBody(response.Body, &data))
	fc.require.Equal(robotID, data["robot_id"])
	fc.require.Equal(status, data["status"])
	fc.require.Equal(location, data["location"])
	return nil
}
