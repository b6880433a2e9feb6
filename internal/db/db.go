package db

import (
	"context"
	"database/sql"
	"time"

	"restaurant-chatbot/internal/config"
	"restaurant-chatbot/internal/models"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

// Conversation is one stored chat exchange. Rows are append-only from the
// serving path and never mutated after write.
type Conversation struct {
	bun.BaseModel `bun:"table:conversations,alias:c"`

	ID                string                   `bun:"id,pk"`
	UserID            string                   `bun:"user_id,notnull"`
	SessionID         string                   `bun:"session_id,notnull"`
	UserMessage       string                   `bun:"user_message,notnull"`
	AssistantResponse string                   `bun:"assistant_response,notnull"`
	Intent            string                   `bun:"intent,notnull"`
	SuggestedActions  []models.SuggestedAction `bun:"suggested_actions,type:jsonb"`
	CreatedAt         time.Time                `bun:"created_at,notnull,default:current_timestamp"`
}

func ConnectDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	opts := []pgdriver.Option{pgdriver.WithDSN(cfg.DSN)}
	if cfg.Password != "" {
		opts = append(opts, pgdriver.WithPassword(cfg.Password))
	}
	return sql.OpenDB(pgdriver.NewConnector(opts...)), nil
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

func InitDB(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*Conversation)(nil)).IfNotExists().Exec(ctx)
	return err
}

// StoreConversation appends one exchange. History durability is best-effort:
// callers log failures and still return the already-computed reply.
func StoreConversation(ctx context.Context, db *bun.DB, conversation *Conversation) error {
	_, err := db.NewInsert().Model(conversation).Exec(ctx)
	return err
}
