package config

import (
	"github.com/spf13/viper"
)

// DispatchMode values: what the server does with a composed requisition
// email — return it as a downloadable .eml or relay it over SMTP.
const (
	ModeDownload = "download"
	ModeSMTP     = "smtp"
)

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type MailConfig struct {
	// Mode is "download" or "smtp".
	Mode string `mapstructure:"mode"`
	From string `mapstructure:"from"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Mail   MailConfig   `mapstructure:"mail"`
	SMTP   SMTPConfig   `mapstructure:"smtp"`
}

// LoadConfig reads config.yaml from path and overlays environment
// variables. A missing file is fine: the defaults plus environment are
// enough to run. The SMTP defaults point at the Ethereal development
// relay, which is where messages go when nothing real is configured.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.port", "3000")
	viper.SetDefault("mail.mode", ModeDownload)
	viper.SetDefault("mail.from", `"Sistema ESOM" <no-reply@esom-system.com>`)
	viper.SetDefault("smtp.host", "smtp.ethereal.email")
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("smtp.user", "ethereal_user")
	viper.SetDefault("smtp.password", "ethereal_pass")

	viper.AutomaticEnv()
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("mail.mode", "MAIL_MODE")
	viper.BindEnv("mail.from", "MAIL_FROM")
	viper.BindEnv("smtp.host", "SMTP_HOST")
	viper.BindEnv("smtp.port", "SMTP_PORT")
	viper.BindEnv("smtp.user", "SMTP_USER")
	viper.BindEnv("smtp.password", "SMTP_PASS")

	err = viper.ReadInConfig()
	if err != nil {
		// Running without a config file is supported; only surface real errors.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}
