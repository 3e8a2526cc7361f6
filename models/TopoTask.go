package models

import "gorm.io/datatypes"

// 长任务记录，与websocket任务管理器对应
type TopoTask struct {
	ID        int64          `gorm:"primary_key;autoIncrement"`
	TaskId    string         `gorm:"type:varchar(255)"`
	SessionId string         `gorm:"type:varchar(255)"`
	TaskType  string         `gorm:"type:varchar(255)"`
	Status    string         `gorm:"type:varchar(255)"`
	Result    datatypes.JSON `gorm:"type:jsonb"`
	StartDate string         `gorm:"type:varchar(255)"`
	EndDate   string         `gorm:"type:varchar(255)"`
}
