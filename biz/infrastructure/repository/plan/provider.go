package plan

import (
	"bammbuu-live/biz/infrastructure/config"
	"bammbuu-live/biz/infrastructure/util/log"

	"github.com/go-sql-driver/mysql"
)

// NewMySQLMapperFromConfig 创建 MySQL 映射器
// DSN里带凭证, 日志只输出地址与库名
func NewMySQLMapperFromConfig(config *config.Config) (*MySQLMapper, error) {
	if cfg, err := mysql.ParseDSN(config.MySQL.DSN); err == nil {
		log.Info("Creating MySQL mapper, addr: %s, db: %s", cfg.Addr, cfg.DBName)
	}
	return NewMySQLMapper(config.MySQL.DSN)
}
