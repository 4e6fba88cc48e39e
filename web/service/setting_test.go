package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScanSkewDefaultAndOverride(t *testing.T) {
	setup()
	defer teardown()

	settingService := SettingService{}

	skew, err := settingService.GetScanSkew()
	assert.NoError(t, err)
	assert.Equal(t, 2*time.Second, skew)

	err = settingService.SetScanSkew(5 * time.Second)
	assert.NoError(t, err)

	skew, err = settingService.GetScanSkew()
	assert.NoError(t, err)
	assert.Equal(t, 5*time.Second, skew)
}

func TestResetSettingsRestoresDefaults(t *testing.T) {
	setup()
	defer teardown()

	settingService := SettingService{}
	assert.NoError(t, settingService.SetScanSkew(9*time.Second))
	assert.NoError(t, settingService.ResetSettings())

	skew, err := settingService.GetScanSkew()
	assert.NoError(t, err)
	assert.Equal(t, 2*time.Second, skew)
}

func TestUnknownSettingKeyFails(t *testing.T) {
	setup()
	defer teardown()

	settingService := SettingService{}
	_, err := settingService.getString("noSuchKey")
	assert.Error(t, err)
}
