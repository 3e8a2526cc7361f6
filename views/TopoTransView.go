package views

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/GrainArc/GeoTopo/Topology"
	"github.com/GrainArc/GeoTopo/Transformer"
	"github.com/GrainArc/GeoTopo/methods"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
)

// buildGraphFromDir 在目录中找第一个可识别的图形文件并建图
// 识别顺序: shp、dxf、txt、geojson
func buildGraphFromDir(dir string, pm Topology.Precision) (*Topology.HalfedgeGraph, error) {
	if shp := methods.FindShpFile(dir, ".shp"); shp != nil {
		return Transformer.ShpToTopology(*shp, pm)
	}
	// 压缩包里可能带子目录，退回递归查找
	if files := Transformer.FindFiles(dir, "shp"); len(files) > 0 {
		return Transformer.ShpToTopology(files[0], pm)
	}
	if files := Transformer.FindFiles(dir, "dxf"); len(files) > 0 {
		return Transformer.CADToTopology(files[0], pm)
	}
	if files := Transformer.FindFiles(dir, "txt"); len(files) > 0 {
		return Transformer.TxtToTopology(files[0], pm)
	}
	if files := Transformer.FindFiles(dir, "geojson"); len(files) > 0 {
		raw, err := os.ReadFile(files[0])
		if err != nil {
			return nil, err
		}
		fc, err := geojson.UnmarshalFeatureCollection(raw)
		if err != nil {
			return nil, fmt.Errorf("GeoJSON解析失败: %w", err)
		}
		return Transformer.GeoJsonToTopology(fc, pm)
	}
	return nil, fmt.Errorf("未找到可识别的图形文件")
}

// UploadLayer 上传图形文件并创建会话，支持zip、rar压缩包与shp、dxf、txt、geojson
func (uc *UserController) UploadLayer(c *gin.Context) {
	name := c.PostForm("name")
	scale, _ := strconv.ParseFloat(c.DefaultPostForm("scale", "0"), 64)

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "文件上传失败: " + err.Error()})
		return
	}
	if name == "" {
		name = strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
	}

	taskid := uuid.New().String()
	path, err := filepath.Abs("./TempFile/" + taskid + "/" + file.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}
	dirpath := filepath.Dir(path)
	if err := os.MkdirAll(dirpath, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}
	defer func() {
		if err := os.RemoveAll(dirpath); err != nil {
			log.Printf("临时目录清理失败: %v", err)
		}
	}()

	if err := c.SaveUploadedFile(file, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "文件保存失败: " + err.Error()})
		return
	}

	ext := strings.ToLower(filepath.Ext(path))
	if methods.IsStringInSlice(ext, []string{".zip", ".rar"}) {
		if err := methods.Unzip(path); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "解压失败: " + err.Error()})
			return
		}
	}

	g, err := buildGraphFromDir(dirpath, precisionOf(scale))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": err.Error()})
		return
	}

	s := uc.manager.AdoptGraph(name, g)
	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "上传成功", "data": sessionSummary(s)})
}

// ExportShp 导出会话图形为shp压缩包
func (uc *UserController) ExportShp(c *gin.Context) {
	s, ok := uc.getSession(c, c.Query("session_id"))
	if !ok {
		return
	}

	taskid := uuid.New().String()
	dirpath, err := filepath.Abs("./TempFile/" + taskid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}
	if err := os.MkdirAll(dirpath, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}
	defer func() {
		if err := os.RemoveAll(dirpath); err != nil {
			log.Printf("临时目录清理失败: %v", err)
		}
	}()

	s.Lock()
	err = Transformer.TopologyToShp(s.Graph, filepath.Join(dirpath, s.Name+".shp"))
	s.Unlock()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "导出失败: " + err.Error()})
		return
	}

	data, err := methods.ZipFileOut(dirpath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "打包失败: " + err.Error()})
		return
	}
	sendAttachment(c, s.Name+".zip", "application/zip", data)
}

// ExportDxf 导出会话图形为dxf文件
func (uc *UserController) ExportDxf(c *gin.Context) {
	s, ok := uc.getSession(c, c.Query("session_id"))
	if !ok {
		return
	}

	taskid := uuid.New().String()
	dirpath, err := filepath.Abs("./TempFile/" + taskid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}
	if err := os.MkdirAll(dirpath, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}
	defer func() {
		if err := os.RemoveAll(dirpath); err != nil {
			log.Printf("临时目录清理失败: %v", err)
		}
	}()

	dxfPath := filepath.Join(dirpath, s.Name+".dxf")
	s.Lock()
	err = Transformer.TopologyToCAD(s.Graph, dxfPath)
	s.Unlock()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "导出失败: " + err.Error()})
		return
	}

	data, err := os.ReadFile(dxfPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}
	sendAttachment(c, s.Name+".dxf", "application/octet-stream", data)
}

// ExportGeoJson 导出会话图形为geojson文件下载
func (uc *UserController) ExportGeoJson(c *gin.Context) {
	s, ok := uc.getSession(c, c.Query("session_id"))
	if !ok {
		return
	}

	s.Lock()
	fc := Transformer.TopologyToGeoJson(s.Graph, map[string]interface{}{"layername": s.Name})
	s.Unlock()

	data, err := fc.MarshalJSON()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}
	sendAttachment(c, s.Name+".geojson", "application/geo+json", data)
}
