package routers

import (
	"github.com/GrainArc/GeoTopo/views"
	"github.com/gin-gonic/gin"
)

func TopoRouters(r *gin.Engine) {
	UserController := views.NewUserController()
	mapRouter := r.Group("/topo")
	{
		mapRouter.GET(":session_id/:z/:x/:y.pbf", UserController.OutMVT)

		mapRouter.POST("/CreateSession", UserController.CreateSession)
		mapRouter.GET("/ListSessions", UserController.ListSessions)
		mapRouter.GET("/GetSession", UserController.GetSession)
		mapRouter.GET("/DropSession", UserController.DropSession)
		mapRouter.GET("/Status", UserController.Status)

		mapRouter.POST("/AddPolygon", UserController.AddPolygon)
		mapRouter.POST("/MergePolygon", UserController.MergePolygon)
		mapRouter.POST("/MergeGraph", UserController.MergeGraph)
		mapRouter.POST("/AddPoint", UserController.AddPoint)
		mapRouter.POST("/RemoveVertex", UserController.RemoveVertex)
		mapRouter.POST("/ClearSession", UserController.ClearSession)
		mapRouter.GET("/VerifyTopology", UserController.VerifyTopology)

		mapRouter.GET("/GetGeoJson", UserController.GetGeoJson)
		mapRouter.GET("/GetEdges", UserController.GetEdges)
		mapRouter.GET("/GetFaceAt", UserController.GetFaceAt)
		mapRouter.GET("/GetNearestEdge", UserController.GetNearestEdge)
		mapRouter.GET("/Preview", UserController.Preview)
		mapRouter.GET("/Legend", UserController.Legend)
		mapRouter.GET("/Report", UserController.Report)

		mapRouter.GET("/AdjacencyGraph", UserController.AdjacencyGraph)
		mapRouter.GET("/FacePath", UserController.FacePath)
		mapRouter.GET("/FaceComponents", UserController.FaceComponents)
		mapRouter.GET("/FaceMaxFlow", UserController.FaceMaxFlow)

		mapRouter.POST("/SaveLayer", UserController.SaveLayer)
		mapRouter.POST("/LoadLayer", UserController.LoadLayer)
		mapRouter.GET("/ListLayers", UserController.ListLayers)
		mapRouter.GET("/DeleteLayer", UserController.DeleteLayer)
		mapRouter.GET("/ListOperations", UserController.ListOperations)

		mapRouter.POST("/UploadLayer", UserController.UploadLayer)
		mapRouter.GET("/ExportShp", UserController.ExportShp)
		mapRouter.GET("/ExportDxf", UserController.ExportDxf)
		mapRouter.GET("/ExportGeoJson", UserController.ExportGeoJson)
	}
}
