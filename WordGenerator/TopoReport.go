package WordGenerator

import (
	"fmt"
	"time"

	"gitee.com/gooffice/gooffice/common"
	"gitee.com/gooffice/gooffice/document"
	"gitee.com/gooffice/gooffice/measurement"
	"gitee.com/gooffice/gooffice/schema/soo/wml"
	"github.com/GrainArc/GeoTopo/ImgHandler"
	"github.com/GrainArc/GeoTopo/Topology"
)

// TopoReport 生成拓扑检查报告文档
// 内容包括要素统计、面量算、校验结论与图形预览
func TopoReport(g *Topology.HalfedgeGraph, name string) (*document.Document, error) {
	doc := document.New()

	AddHeading1(doc, name+"拓扑检查报告")
	AddText(doc, "生成时间："+time.Now().Format("2006-01-02 15:04:05"), false)

	AddHeading2(doc, "一、要素统计")
	CountsTable(doc, g)

	AddHeading2(doc, "二、面量算")
	FaceTable(doc, g)

	AddHeading2(doc, "三、拓扑校验")
	if err := g.VerifyTopology(); err != nil {
		AddTextBlod(doc, "校验未通过："+err.Error(), false)
	} else {
		AddText(doc, "校验通过，半边结构自洽。", false)
	}

	AddHeading2(doc, "四、图形预览")
	opts := ImgHandler.DefaultRenderOptions()
	opts.ShowLabels = false
	if data, err := ImgHandler.GraphRender(g, opts); err != nil {
		AddText(doc, "图为空，无图形预览。", false)
	} else {
		if err := embedImage(doc, data); err != nil {
			AddText(doc, "预览图插入失败。", false)
		}
	}

	return doc, nil
}

// embedImage 把图片字节插入文档并按页宽缩放
func embedImage(doc *document.Document, data []byte) error {
	img, err := common.ImageFromBytes(data)
	if err != nil {
		return fmt.Errorf("解析图片失败: %w", err)
	}
	pic, err := doc.AddImage(img)
	if err != nil {
		return fmt.Errorf("添加图片失败: %w", err)
	}

	para := doc.AddParagraph()
	para.Properties().SetAlignment(wml.ST_JcCenter)
	anchored, err := para.AddRun().AddDrawingInline(pic)
	if err != nil {
		return fmt.Errorf("插入图片失败: %w", err)
	}

	ow := img.Size.X
	oh := img.Size.Y
	scaleFactor := 15 * measurement.Inch / 2.54 / float64(ow)
	newHeight := measurement.Distance(float64(oh) * scaleFactor)
	anchored.SetSize(15*measurement.Inch/2.54, newHeight)
	return nil
}

// SaveTopoReport 生成报告并写入磁盘
func SaveTopoReport(g *Topology.HalfedgeGraph, name string, outPath string) error {
	doc, err := TopoReport(g, name)
	if err != nil {
		return err
	}
	return doc.SaveToFile(outPath)
}
