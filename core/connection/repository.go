package connection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-sync/core/platform"
	"catalog-sync/core/platform/shopify"
	"catalog-sync/core/platform/woocommerce"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is the persisted form of a Connection.
type Record struct {
	Platform   string `gorm:"column:platform;primaryKey;size:32"`
	Connected  bool   `gorm:"column:connected"`
	Endpoint   string `gorm:"column:endpoint;size:255"`
	Key        string `gorm:"column:api_key;size:255"`
	Secret     string `gorm:"column:api_secret;size:255"`
	APIVersion string `gorm:"column:api_version;size:16"`
	BlogID     string `gorm:"column:blog_id;size:128"`
	UpdatedAt  time.Time
}

// TableName overrides the table name used by Record.
func (Record) TableName() string {
	return "connections"
}

func (r Record) toConnection() *Connection {
	conn := &Connection{Platform: platform.Platform(r.Platform), Connected: r.Connected}
	switch conn.Platform {
	case platform.WooCommerce:
		conn.WooCommerce = woocommerce.Config{
			URL:            r.Endpoint,
			ConsumerKey:    r.Key,
			ConsumerSecret: r.Secret,
			TimeoutSeconds: 30,
		}
	case platform.Shopify:
		conn.Shopify = shopify.Config{
			Shop:           r.Endpoint,
			AccessToken:    r.Key,
			APIVersion:     r.APIVersion,
			BlogID:         r.BlogID,
			TimeoutSeconds: 30,
		}
	}
	return conn
}

func toRecord(c *Connection) Record {
	r := Record{Platform: string(c.Platform), Connected: c.Connected}
	switch c.Platform {
	case platform.WooCommerce:
		r.Endpoint = c.WooCommerce.URL
		r.Key = c.WooCommerce.ConsumerKey
		r.Secret = c.WooCommerce.ConsumerSecret
	case platform.Shopify:
		r.Endpoint = c.Shopify.Shop
		r.Key = c.Shopify.AccessToken
		r.APIVersion = c.Shopify.APIVersion
		r.BlogID = c.Shopify.BlogID
	}
	return r
}

// Repository stores connections in the database.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository over db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the connections table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&Record{})
}

func (r *Repository) Get(ctx context.Context, p platform.Platform) (*Connection, error) {
	var rec Record
	err := r.db.WithContext(ctx).Where("platform = ?", string(p)).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", p, ErrNotConnected)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load connection for %s: %w", p, err)
	}
	if !rec.Connected {
		return nil, fmt.Errorf("%s: %w", p, ErrNotConnected)
	}
	return rec.toConnection(), nil
}

// Save inserts or replaces the connection of its platform.
func (r *Repository) Save(ctx context.Context, c *Connection) error {
	if !c.Platform.IsValid() {
		return fmt.Errorf("unknown platform %q", c.Platform)
	}
	if c.Connected {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	rec := toRecord(c)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to save connection for %s: %w", c.Platform, err)
	}
	return nil
}

// Disconnect marks the platform as not connected without dropping its credentials.
func (r *Repository) Disconnect(ctx context.Context, p platform.Platform) error {
	res := r.db.WithContext(ctx).Model(&Record{}).Where("platform = ?", string(p)).Update("connected", false)
	if res.Error != nil {
		return fmt.Errorf("failed to disconnect %s: %w", p, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", p, ErrNotConnected)
	}
	return nil
}
