package Transformer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func writeTxt(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "界址点.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestConvertTxtToGeoJSONSinglePlot(t *testing.T) {
	path := writeTxt(t, `[属性描述]
格式版本号=1.0
D001,100.5,GD,0101,4,H49,M,20250101@
1,1,0.0,0.0
2,1,0.0,10.0
3,1,10.0,10.0
4,1,10.0,0.0
`)
	fc, err := ConvertTxtToGeoJSON(path)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)

	poly, ok := fc.Features[0].Geometry.(orb.Polygon)
	require.True(t, ok)
	require.Len(t, poly, 1)
	require.Len(t, poly[0], 4)
	// 第四列是x、第三列是y
	require.Equal(t, orb.Point{0, 0}, poly[0][0])
	require.Equal(t, orb.Point{10, 0}, poly[0][1])

	props := fc.Features[0].Properties
	require.Equal(t, "D001", props["地块编号"])
	require.Equal(t, "100.5", props["地块面积"])
}

// 第二列环编号不同的点分到不同的环
func TestConvertTxtToGeoJSONHoleRings(t *testing.T) {
	path := writeTxt(t, `头部
D002,96,GD,0101,8,H49,M,20250101@
1,1,0.0,0.0
2,1,0.0,10.0
3,1,10.0,10.0
4,1,10.0,0.0
5,2,2.0,2.0
6,2,2.0,3.0
7,2,3.0,3.0
8,2,3.0,2.0
`)
	fc, err := ConvertTxtToGeoJSON(path)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)

	poly := fc.Features[0].Geometry.(orb.Polygon)
	require.Len(t, poly, 2)
	require.Len(t, poly[0], 4)
	require.Len(t, poly[1], 4)
}

func TestConvertTxtToGeoJSONNoPlots(t *testing.T) {
	path := writeTxt(t, "1,1,0.0,0.0\n2,1,0.0,10.0\n")
	_, err := ConvertTxtToGeoJSON(path)
	require.Error(t, err)
}

// 整个文件是GBK编码时属性要转回UTF-8
func TestConvertTxtToGeoJSONGbkFile(t *testing.T) {
	content := "国土调查坐标文件属性描述头部信息，用于编码探测的中文样本文字。\n" +
		"D001,100.5,耕地,0101,4,H49,面状,20250101@\n" +
		"1,1,0.0,0.0\n2,1,0.0,10.0\n3,1,10.0,10.0\n4,1,10.0,0.0\n"
	path := filepath.Join(t.TempDir(), "gbk.txt")
	require.NoError(t, os.WriteFile(path, Utf8ToGbk(content), 0644))

	fc, err := ConvertTxtToGeoJSON(path)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	require.Equal(t, "耕地", fc.Features[0].Properties["地块用途"])
}

func TestTxtToTopology(t *testing.T) {
	path := writeTxt(t, `头部
D001,100,GD,0101,4,H49,M,20250101@
1,1,0.0,0.0
2,1,0.0,10.0
3,1,10.0,10.0
4,1,10.0,0.0
`)
	g, err := TxtToTopology(path, nil)
	require.NoError(t, err)
	require.Equal(t, 1, g.FaceCount())
	require.Equal(t, 4, g.VertexCount())
	require.NoError(t, g.VerifyTopology())
}

func TestDetectEncoding(t *testing.T) {
	sample := "国土调查地块属性描述信息样本，编码探测需要足够长的中文文本内容。" +
		"地块编号地块面积地块用途地类编码界址点数图幅号图形属性生产时间。"
	require.Contains(t, DetectEncoding(Utf8ToGbk(sample)), "GB")
}
