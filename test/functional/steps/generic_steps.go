package steps

import "fmt"

func (fc *FeatureContext) iCallTheProbe(probe string) error {
	var err error
	switch probe {
	case "healthz":
		fc.response, err = fc.apiDriver.GetHealthz()
	case "readyz":
		fc.response, err = fc.apiDriver.GetReadyz()
	default:
		return fmt.Errorf("unknown probe %q", probe)
	}
	return err
}

func (fc *FeatureContext) theResponseStatusCodeShouldBe(code int) error {
	fc.require.NotNil(fc.response, "no request was made")
	fc.require.Equal(code, fc.response.StatusCode, "unexpected status code")
	return nil
}

func (fc *FeatureContext) theResponseShouldContainStatusInformation() error {
	var data map[string]any
	fc.require.NoError(fc.decodeBody(fc.response.Body, &data))
	fc.require.Equal("success", data["status"])
	fc.responseData = data
	return nil
}
