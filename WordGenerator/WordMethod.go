package WordGenerator

import (
	"fmt"

	"gitee.com/gooffice/gooffice/color"
	"gitee.com/gooffice/gooffice/document"
	"gitee.com/gooffice/gooffice/measurement"
	"gitee.com/gooffice/gooffice/schema/soo/wml"
	"github.com/GrainArc/GeoTopo/Topology"
	"github.com/paulmach/orb/planar"
)

// 插入一级标题
func AddHeading1(doc *document.Document, text string) {
	para := doc.AddParagraph()
	para.SetOutlineLvl(1)
	run := para.AddRun()
	run.Properties().SetSize(22)
	run.Properties().SetFontFamily("仿宋")
	run.Properties().SetBold(true)
	run.AddText(text)
	para.SetStyle("标题 1")
	para.Properties().SetHeadingLevel(1)
}

// 插入二级标题
func AddHeading2(doc *document.Document, text string) {
	para := doc.AddParagraph()
	para.SetOutlineLvl(2)
	run := para.AddRun()
	run.Properties().SetSize(16)
	run.Properties().SetFontFamily("仿宋")
	run.Properties().SetBold(true)
	run.AddText(text)
	para.SetStyle("标题 2")
	para.Properties().SetHeadingLevel(2)
}

// 插入正文
func AddText(doc *document.Document, text string, iscenter bool) {
	para := doc.AddParagraph()
	if iscenter {
		para.Properties().SetAlignment(wml.ST_JcCenter)
	}
	run := para.AddRun()
	run.Properties().SetSize(14)

	run.AddText(text)
}

func AddTextBlod(doc *document.Document, text string, iscenter bool) {
	para := doc.AddParagraph()
	if iscenter {
		para.Properties().SetAlignment(wml.ST_JcCenter)
	}
	run := para.AddRun()
	run.Properties().SetSize(14)
	run.Properties().SetBold(true)
	run.AddText(text)
}

func newReportTable(doc *document.Document) document.Table {
	table := doc.AddTable()
	table.Properties().SetAlignment(wml.ST_JcTableCenter)
	table.Properties().SetWidthPercent(100)
	borders := table.Properties().Borders()
	borders.SetAll(wml.ST_BorderSingle, color.Auto, 1*measurement.Point)
	return table
}

func addCellText(row document.Row, text string, bold bool) {
	paragraph := row.AddCell().AddParagraph()
	paragraph.Properties().SetAlignment(wml.ST_JcCenter)
	run := paragraph.AddRun()
	if bold {
		run.Properties().SetBold(true)
	}
	run.Properties().SetSize(12)
	run.AddText(text)
}

// CountsTable 要素统计表格
func CountsTable(doc *document.Document, g *Topology.HalfedgeGraph) {
	table := newReportTable(doc)

	row := table.AddRow()
	addCellText(row, "项目", true)
	addCellText(row, "数量", true)

	row = table.AddRow()
	addCellText(row, "顶点", false)
	addCellText(row, fmt.Sprintf("%d", g.VertexCount()), false)
	row = table.AddRow()
	addCellText(row, "边", false)
	addCellText(row, fmt.Sprintf("%d", g.EdgeCount()), false)
	row = table.AddRow()
	addCellText(row, "半边", false)
	addCellText(row, fmt.Sprintf("%d", g.HalfedgeCount()), false)
	row = table.AddRow()
	addCellText(row, "面", false)
	addCellText(row, fmt.Sprintf("%d", g.FaceCount()), false)
}

// FaceTable 面量算表格，末行给出面积合计
func FaceTable(doc *document.Document, g *Topology.HalfedgeGraph) {
	table := newReportTable(doc)

	row := table.AddRow()
	addCellText(row, "面句柄", true)
	addCellText(row, "面积（平方米）", true)
	addCellText(row, "周长（米）", true)
	addCellText(row, "洞数", true)

	totalArea := 0.0
	for _, f := range g.Faces() {
		poly := f.ToOrb()
		area := planar.Area(poly)
		totalArea += area

		row = table.AddRow()
		addCellText(row, fmt.Sprintf("%d", int(f.ID())), false)
		addCellText(row, fmt.Sprintf("%.2f", area), false)
		addCellText(row, fmt.Sprintf("%.2f", planar.Length(poly)), false)
		addCellText(row, fmt.Sprintf("%d", len(poly)-1), false)
	}

	row = table.AddRow()
	addCellText(row, "合计", true)
	addCellText(row, fmt.Sprintf("%.2f", totalArea), true)
	addCellText(row, "", true)
	addCellText(row, "", true)
}
