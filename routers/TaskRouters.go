package routers

import (
	"github.com/GrainArc/GeoTopo/TopoView"
	"github.com/gin-gonic/gin"
)

func TaskRouters(r *gin.Engine) {
	UserController := &TopoView.UserController{}
	mapRouter := r.Group("/topo")
	{
		// POST用于提交批量合并任务配置
		mapRouter.POST("/batchmerge/start", UserController.StartBatchMerge)
		// GET用于WebSocket连接
		mapRouter.GET("/batchmerge/ws/:taskId", UserController.BatchMergeWebSocket)
		// GET用于查询任务状态（可选）
		mapRouter.GET("/batchmerge/status/:taskId", UserController.GetBatchMergeTaskStatus)
	}
	{
		// POST用于提交图合并任务配置
		mapRouter.POST("/mergegraph/start", UserController.StartMergeGraph)
		// GET用于WebSocket连接
		mapRouter.GET("/mergegraph/ws/:taskId", UserController.MergeGraphWebSocket)
		// GET用于查询任务状态（可选）
		mapRouter.GET("/mergegraph/status/:taskId", UserController.GetMergeGraphTaskStatus)
	}
}
