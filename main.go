package main

import (
	"log"
	"net/http"
	"os"

	"github.com/GrainArc/GeoTopo/config"
	"github.com/GrainArc/GeoTopo/methods"
	"github.com/GrainArc/GeoTopo/models"
	"github.com/GrainArc/GeoTopo/routers"
	"github.com/gin-gonic/gin"
)

// Cors 跨域中间件
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, AccessToken, X-CSRF-Token, Authorization, Token")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE, PUT")
		c.Header("Access-Control-Expose-Headers", "Content-Length, Access-Control-Allow-Origin, Access-Control-Allow-Headers, Content-Type")
		c.Header("Access-Control-Allow-Credentials", "true")

		if method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func main() {
	models.InitDB()

	// 清掉上次运行残留的上传临时文件
	if _, err := os.Stat("./TempFile"); err == nil {
		if err := methods.DeleteFiles("./TempFile"); err != nil {
			log.Printf("临时目录清理失败: %v", err)
		}
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	r.Use(Cors())

	routers.TopoRouters(r)
	routers.TaskRouters(r)

	log.Printf("拓扑服务启动于 %s", config.MainRouter)
	if err := r.Run(config.MainRouter); err != nil {
		log.Fatalf("服务启动失败: %v", err)
	}
}
