package models

import (
	"log"
	"os"
	"path/filepath"

	"github.com/GrainArc/GeoTopo/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

func InitDB() {
	var err error
	if config.DSN != "" {
		DB, err = gorm.Open(postgres.Open(config.DSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
	} else {
		// 未配置主库时退化为DataDir下的本地sqlite
		if mkErr := os.MkdirAll(config.DataDir, os.ModePerm); mkErr != nil {
			log.Fatalf("创建数据目录失败: %v", mkErr)
		}
		dbPath := filepath.Join(config.DataDir, "geotopo.db")
		log.Printf("数据库路径: %s", dbPath)
		DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// 设置命名策略
	DB.NamingStrategy = schema.NamingStrategy{
		SingularTable: true,
	}

	// 批量迁移所有表
	if err := migrateAllTables(DB); err != nil {
		log.Printf("Failed to migrate tables: %v", err)
	}

	makeLayerIndex(DB)
}

// migrateAllTables 批量迁移所有表
func migrateAllTables(db *gorm.DB) error {
	tables := []interface{}{
		&TopoLayer{},
		&TopoOperation{},
		&TopoTask{},
	}

	return db.AutoMigrate(tables...)
}

// makeLayerIndex 保证图层uid上有索引
func makeLayerIndex(db *gorm.DB) {
	sql := `CREATE INDEX IF NOT EXISTS idx_topo_layer_uid ON topo_layer (uid)`
	if err := db.Exec(sql).Error; err != nil {
		log.Printf("Error creating index: %v", err)
	}
}

func GetDB() *gorm.DB {
	return DB
}
