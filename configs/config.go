package configs

import (
	"errors"
	"log"
	"strings"
	"time"

	"golang-logserver/pkg/validator"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config struct
type Config struct {
	App      `mapstructure:"app"`
	Server   `mapstructure:"server"`
	Store    `mapstructure:"store"`
	Postgres `mapstructure:"postgres"`
	Admin    `mapstructure:"admin"`
}

// App struct
type App struct {
	Debug bool   `mapstructure:"debug"`
	Env   string `mapstructure:"env"`
	Port  string `mapstructure:"port" validate:"required,numeric"`
}

// Server struct - worker pool and session settings
type Server struct {
	PoolSize    int           `mapstructure:"pool_size" validate:"gte=1"`
	QueueSize   int           `mapstructure:"queue_size" validate:"gte=0"`
	ReadTimeout time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	Greeting    string        `mapstructure:"greeting" validate:"required"`
	// ShutdownTimeout bounds the wait for in-flight sessions on stop
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// Store struct
type Store struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=file memory bolt postgres"`
	Path   string `mapstructure:"path" validate:"required_if=Driver file,required_if=Driver bolt"`
}

// Postgres struct
type Postgres struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DbName   string `mapstructure:"database"`
	SSLMode  bool   `mapstructure:"sslmode"`
}

// Admin struct - optional HTTP admin API
type Admin struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    string `mapstructure:"port" validate:"numeric"`
}

var config Config

// InitViper func
func InitViper(path, env string) {
	getConfig(path, env)
}

// GetViper func
func GetViper() *Config {
	return &config
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	return validator.New().ValidateStruct(c)
}

func setDefaults() {
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.env", "local")
	viper.SetDefault("app.port", "12345")
	viper.SetDefault("server.pool_size", 10)
	viper.SetDefault("server.queue_size", 64)
	viper.SetDefault("server.read_timeout", "0s")
	viper.SetDefault("server.greeting", "Hello, you have connected to the server.")
	viper.SetDefault("server.shutdown_timeout", "10s")
	viper.SetDefault("store.driver", "file")
	viper.SetDefault("store.path", "output.txt")
	viper.SetDefault("admin.enabled", false)
	viper.SetDefault("admin.port", "9089")
}

func getConfig(path, env string) {
	config = Config{}
	setDefaults()
	viper.SetConfigName("config")
	viper.AddConfigPath(path)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}
	if env != "" {
		// config.<env>.yaml overrides the base file when present
		viper.SetConfigName("config." + env)
		err = viper.MergeInConfig()
		var notFound viper.ConfigFileNotFoundError
		if err != nil && !errors.As(err, &notFound) {
			panic(err)
		}
	}
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		log.Println("Config file has changed: ", e.Name)
	})
	err = viper.Unmarshal(&config)
	if err != nil {
		log.Fatalln(err)
	}
}
