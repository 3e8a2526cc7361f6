package models

import "gorm.io/datatypes"

// 操作流水，记录会话上每次拓扑编辑的参数与结果规模
type TopoOperation struct {
	ID          int64          `gorm:"primary_key;autoIncrement"`
	SessionId   string         `gorm:"type:varchar(255)"`
	Op          string         `gorm:"type:varchar(255)"`
	Params      datatypes.JSON `gorm:"type:jsonb"`
	VertexCount int
	EdgeCount   int
	FaceCount   int
	DurationMs  int64
	Date        string `gorm:"type:varchar(255)"`
}
