package mysql

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/rebook/internal/infrastructure/config"
	"github.com/xiebiao/rebook/pkg/logger"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(logLevel),
		NowFunc: time.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	logger.Get().Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("db", cfg.Database.DBName).
		Msg("mysql connected")

	// 生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&CategoryModel{},
		&AuthorModel{},
		&BookModel{},
	)
}

// UserModel GORM用户模型
// domain/user/entity.go是领域实体，不依赖GORM，Repository负责两者之间的转换
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex:idx_users_email;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Name      string         `gorm:"size:100;not null;comment:全名"`
	Username  string         `gorm:"uniqueIndex:idx_users_username;size:32;not null;comment:用户名"`
	Contacts  string         `gorm:"size:200;comment:联系方式"`
	Auth      string         `gorm:"size:20;not null;default:Reader;comment:角色（Reader、Librarian）"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

func (UserModel) TableName() string {
	return "users"
}

// CategoryModel GORM分类模型
type CategoryModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex:idx_categories_name;size:50;not null;comment:分类名称"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (CategoryModel) TableName() string {
	return "categories"
}

// AuthorModel GORM作者模型，图书入库时按名字查找或创建
type AuthorModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex:idx_authors_name;size:100;not null;comment:作者名"`
}

func (AuthorModel) TableName() string {
	return "authors"
}

// BookModel GORM图书模型
// 状态不落库，由available推导
type BookModel struct {
	ID         uint           `gorm:"primaryKey"`
	Title      string         `gorm:"index:idx_title;size:200;not null;comment:书名"`
	AuthorID   uint           `gorm:"index;not null;comment:作者ID"`
	Author     AuthorModel    `gorm:"foreignKey:AuthorID"`
	CategoryID *uint          `gorm:"index;comment:分类ID"`
	Category   *CategoryModel `gorm:"foreignKey:CategoryID"`
	Available  int            `gorm:"not null;default:0;comment:可借数量"`
	Total      int            `gorm:"not null;default:0;comment:馆藏总数"`
	Cover      string         `gorm:"size:255;comment:封面文件引用"`
	CreatedAt  time.Time      `gorm:"index;comment:创建时间"` // ?sort=latest
	UpdatedAt  time.Time      `gorm:"comment:更新时间"`
	DeletedAt  gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

func (BookModel) TableName() string {
	return "books"
}
