package config

import (
	_ "embed"
	"os"

	"bammbuu-live/biz/infrastructure/util/log"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/service"
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

// //go:embed config.local.yaml
var embeddedConfig []byte

var config *Config

type Auth struct {
	SecretKey    string
	PublicKey    string
	AccessExpire int64
}

// Stream Stream Video/Chat 应用凭证, 学生端通话与聊天频道使用
type Stream struct {
	AppKey    string
	AppSecret string
	BaseURL   string
}

// Zego ZegoCloud 应用凭证, 导师端通话使用
type Zego struct {
	AppId        int64
	ServerSecret string
}

type Config struct {
	service.ServiceConf
	ListenOn string
	State    string
	Auth     Auth
	Mongo    struct {
		URL string
		DB  string
	}
	MySQL struct {
		DSN string
	}
	Cache  cache.CacheConf
	Redis  *redis.RedisConf
	Stream Stream
	Zego   Zego
	Api    API
	Log    LogConfig
}

type LogConfig struct {
	NoLogPaths []string
}

type API struct {
	PlatfromURL  string
	RecordingURL string
}

func NewConfig() (*Config, error) {
	c := new(Config)

	if len(embeddedConfig) == 0 {
		path := os.Getenv("CONFIG_PATH")
		log.Info("NewConfig load config from path: %s", path)
		err := conf.Load(path, c)
		if err != nil {
			return nil, err
		}
	} else {
		err := conf.LoadFromYamlBytes(embeddedConfig, c)
		if err != nil {
			return nil, err
		}
	}

	err := c.SetUp()
	if err != nil {
		return nil, err
	}
	config = c
	return c, nil
}

func GetConfig() *Config {
	return config
}
