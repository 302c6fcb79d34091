package plan

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"bammbuu-live/biz/application/dto/bammbuu/live"
	"bammbuu-live/biz/infrastructure/util/log"

	_ "github.com/go-sql-driver/mysql"
)

type MySQLMapper struct {
	db *sql.DB
}

// Plan 对应数据库中的 Plans 表
// class_types 为逗号分隔的课程类型列表
type Plan struct {
	ID         int64  `db:"id"`
	Code       string `db:"code"`
	Name       string `db:"name"`
	PriceCents int64  `db:"price_cents"`
	PeriodDays int64  `db:"period_days"`
	ClassTypes string `db:"class_types"`
	Enabled    bool   `db:"enabled"`
}

func NewMySQLMapper(dsn string) (*MySQLMapper, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql connection: %w", err)
	}

	// 测试连接
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping mysql: %w", err)
	}

	log.Info("MySQL connection established successfully")
	return &MySQLMapper{db: db}, nil
}

func (m *MySQLMapper) Close() error {
	return m.db.Close()
}

// ListPlans 获取上架的订阅套餐列表
func (m *MySQLMapper) ListPlans(ctx context.Context) ([]*live.PlanInfo, int64, error) {
	query := "SELECT id, code, name, price_cents, period_days, class_types FROM Plans WHERE enabled = 1 ORDER BY price_cents ASC"

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var plans []*live.PlanInfo
	for rows.Next() {
		var p Plan
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.PriceCents, &p.PeriodDays, &p.ClassTypes); err != nil {
			return nil, 0, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, &live.PlanInfo{
			Id:         p.ID,
			Code:       p.Code,
			Name:       p.Name,
			PriceCents: p.PriceCents,
			PeriodDays: p.PeriodDays,
			ClassTypes: splitClassTypes(p.ClassTypes),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return plans, int64(len(plans)), nil
}

// FindOneByCode 按套餐code查找
func (m *MySQLMapper) FindOneByCode(ctx context.Context, code string) (*live.PlanInfo, error) {
	query := "SELECT id, code, name, price_cents, period_days, class_types FROM Plans WHERE code = ? AND enabled = 1"

	var p Plan
	err := m.db.QueryRowContext(ctx, query, code).
		Scan(&p.ID, &p.Code, &p.Name, &p.PriceCents, &p.PeriodDays, &p.ClassTypes)
	if err != nil {
		return nil, err
	}

	return &live.PlanInfo{
		Id:         p.ID,
		Code:       p.Code,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		PeriodDays: p.PeriodDays,
		ClassTypes: splitClassTypes(p.ClassTypes),
	}, nil
}

// CoversClassType 判断套餐是否覆盖指定课程类型
func CoversClassType(p *live.PlanInfo, classType string) bool {
	for _, t := range p.ClassTypes {
		if t == classType {
			return true
		}
	}
	return false
}

func splitClassTypes(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
