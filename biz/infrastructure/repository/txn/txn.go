package txn

import (
	"context"

	"bammbuu-live/biz/infrastructure/config"
	"bammbuu-live/biz/infrastructure/util/log"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Runner 多文档事务执行器
// monc映射器面向单集合, 级联写(删课程同时清理小组/用户上的冗余引用)
// 必须跨集合原子提交, 因此这里直接持有官方驱动的客户端
type Runner struct {
	client *mongo.Client
	db     string
}

func NewRunner(config *config.Config) (*Runner, error) {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(config.Mongo.URL))
	if err != nil {
		return nil, err
	}
	log.Info("NewTxnRunner connected, db: %s", config.Mongo.DB)
	return &Runner{
		client: client,
		db:     config.Mongo.DB,
	}, nil
}

// Collection 获取事务中要操作的集合
func (r *Runner) Collection(name string) *mongo.Collection {
	return r.client.Database(r.db).Collection(name)
}

// WithTransaction 在单个事务中执行fn, fn内的所有写操作要么全部提交要么全部回滚
func (r *Runner) WithTransaction(ctx context.Context, fn func(tx Ops) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(&mongoOps{sess: sessCtx, r: r})
	})
	return err
}
