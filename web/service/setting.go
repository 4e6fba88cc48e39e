package service

import (
	"strconv"
	"time"

	"github.com/AlvanCjh/paddock-panel/database"
	"github.com/AlvanCjh/paddock-panel/database/model"
	"github.com/AlvanCjh/paddock-panel/logger"
	"github.com/AlvanCjh/paddock-panel/util/common"
	"github.com/AlvanCjh/paddock-panel/util/random"
)

var defaultValueMap = map[string]string{
	"webListen":           "",
	"webDomain":           "",
	"webPort":             "8080",
	"webBasePath":         "/",
	"sessionMaxAge":       "60",
	"secret":              random.Seq(32),
	"scanSkewMs":          "2000",
	"staleSweepCron":      "@every 5m",
	"staleAlertThreshold": "5",
	"tgBotEnable":         "false",
	"tgBotToken":          "",
	"tgBotChatId":         "",
	"tgLang":              "en-US",
	"auditRetentionDays":  "30",
	"timeLocation":        "Europe/London",
}

type SettingService struct{}

func (s *SettingService) getSetting(key string) (*model.Setting, error) {
	db := database.GetDB()
	setting := &model.Setting{}
	err := db.Model(model.Setting{}).Where("key = ?", key).First(setting).Error
	if err != nil {
		return nil, err
	}
	return setting, nil
}

func (s *SettingService) saveSetting(key string, value string) error {
	setting, err := s.getSetting(key)
	db := database.GetDB()
	if database.IsNotFound(err) {
		return db.Create(&model.Setting{
			Key:   key,
			Value: value,
		}).Error
	} else if err != nil {
		return err
	}
	setting.Key = key
	setting.Value = value
	return db.Save(setting).Error
}

func (s *SettingService) getString(key string) (string, error) {
	setting, err := s.getSetting(key)
	if database.IsNotFound(err) {
		value, ok := defaultValueMap[key]
		if !ok {
			return "", common.NewErrorf("key <%v> not in defaultValueMap", key)
		}
		return value, nil
	} else if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func (s *SettingService) setString(key string, value string) error {
	return s.saveSetting(key, value)
}

func (s *SettingService) getInt(key string) (int, error) {
	str, err := s.getString(key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(str)
}

func (s *SettingService) getBool(key string) (bool, error) {
	str, err := s.getString(key)
	if err != nil {
		return false, err
	}
	return strconv.ParseBool(str)
}

func (s *SettingService) GetListen() (string, error) {
	return s.getString("webListen")
}

func (s *SettingService) GetWebDomain() (string, error) {
	return s.getString("webDomain")
}

func (s *SettingService) GetPort() (int, error) {
	return s.getInt("webPort")
}

func (s *SettingService) GetBasePath() (string, error) {
	basePath, err := s.getString("webBasePath")
	if err != nil {
		return "", err
	}
	if basePath == "" {
		basePath = "/"
	}
	return basePath, nil
}

func (s *SettingService) GetSessionMaxAge() (int, error) {
	return s.getInt("sessionMaxAge")
}

func (s *SettingService) GetSecret() ([]byte, error) {
	secret, err := s.getString("secret")
	if secret == defaultValueMap["secret"] {
		// persist the generated secret so sessions survive a restart
		if err := s.saveSetting("secret", secret); err != nil {
			logger.Warning("save secret failed:", err)
		}
	}
	return []byte(secret), err
}

// GetScanSkew returns the staleness tolerance between an edit write and its
// last scan. Stored in milliseconds so the moderation service owner can
// tune it without a rebuild.
func (s *SettingService) GetScanSkew() (time.Duration, error) {
	ms, err := s.getInt("scanSkewMs")
	if err != nil {
		return 0, err
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func (s *SettingService) GetStaleSweepCron() (string, error) {
	return s.getString("staleSweepCron")
}

func (s *SettingService) GetStaleAlertThreshold() (int, error) {
	return s.getInt("staleAlertThreshold")
}

func (s *SettingService) GetTgBotEnable() (bool, error) {
	return s.getBool("tgBotEnable")
}

func (s *SettingService) GetTgBotToken() (string, error) {
	return s.getString("tgBotToken")
}

func (s *SettingService) GetTgBotChatId() (string, error) {
	return s.getString("tgBotChatId")
}

func (s *SettingService) GetTgLang() (string, error) {
	return s.getString("tgLang")
}

func (s *SettingService) GetAuditRetentionDays() (int, error) {
	return s.getInt("auditRetentionDays")
}

func (s *SettingService) GetTimeLocation() (*time.Location, error) {
	l, err := s.getString("timeLocation")
	if err != nil {
		return nil, err
	}
	location, err := time.LoadLocation(l)
	if err != nil {
		return nil, err
	}
	return location, nil
}

func (s *SettingService) SetScanSkew(skew time.Duration) error {
	return s.setString("scanSkewMs", strconv.FormatInt(skew.Milliseconds(), 10))
}

// ResetSettings drops every stored setting, falling back to defaults.
func (s *SettingService) ResetSettings() error {
	db := database.GetDB()
	return db.Where("1 = 1").Delete(model.Setting{}).Error
}
