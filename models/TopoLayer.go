package models

import (
	"encoding/hex"
	"log"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"gorm.io/datatypes"
)

// 图层库，拓扑导出的要素集以GeoJSON整体存储，范围以WKB十六进制存储
type TopoLayer struct {
	ID          int64          `gorm:"primary_key;autoIncrement"`
	Uid         string         `gorm:"type:varchar(255)"`
	LayerName   string         `gorm:"type:varchar(255)"`
	GeoJson     datatypes.JSON `gorm:"type:jsonb"`
	Bounds      string         `gorm:"type:varchar(512)"`
	VertexCount int
	EdgeCount   int
	FaceCount   int
	UpdatedDate string `gorm:"type:varchar(255)"`
}

// BoundsToWKB 将图层范围转换为WKB十六进制串
func BoundsToWKB(b orb.Bound) string {
	if b.IsEmpty() {
		return ""
	}
	wkbBytes, err := wkb.Marshal(b.ToPolygon())
	if err != nil {
		log.Printf("Error converting bounds to WKB: %v", err)
		return ""
	}
	return hex.EncodeToString(wkbBytes)
}

// BoundsFromWKB 从WKB十六进制串还原图层范围
func BoundsFromWKB(s string) orb.Bound {
	empty := orb.Bound{Min: orb.Point{1, 1}, Max: orb.Point{-1, -1}}
	if s == "" {
		return empty
	}
	wkbBytes, err := hex.DecodeString(s)
	if err != nil {
		return empty
	}
	geom, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return empty
	}
	return geom.Bound()
}
