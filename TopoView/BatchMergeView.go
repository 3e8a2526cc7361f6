package TopoView

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/GrainArc/GeoTopo/Topology"
	"github.com/GrainArc/GeoTopo/models"
	"github.com/GrainArc/GeoTopo/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"gorm.io/datatypes"
)

// 任务状态枚举
type TaskStatus string
type UserController struct{}

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
	TaskStatusCancelled TaskStatus = "cancelled"
)

// WebSocket消息结构体
type ProgressMessage struct {
	Type       string `json:"type"`
	Percentage int    `json:"percentage,omitempty"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"`
}

type ClientMessage struct {
	Action string `json:"action"`
}

// 批量合并请求参数结构体
type BatchMergeRequest struct {
	SessionId string                     `json:"session_id" binding:"required"`
	Features  *geojson.FeatureCollection `json:"features" binding:"required"`
}

// 批量合并结果
type BatchMergeResult struct {
	Merged  int `json:"merged"`
	Skipped int `json:"skipped"`
}

// 批量合并任务信息结构体
type BatchMergeTaskInfo struct {
	ID        string             `json:"id"`
	Status    TaskStatus         `json:"status"`
	Request   BatchMergeRequest  `json:"-"`
	CreatedAt time.Time          `json:"created_at"`
	StartedAt *time.Time         `json:"started_at,omitempty"`
	EndedAt   *time.Time         `json:"ended_at,omitempty"`
	Error     string             `json:"error,omitempty"`
	Result    *BatchMergeResult  `json:"-"`
	Context   context.Context    `json:"-"`
	Cancel    context.CancelFunc `json:"-"`
	mutex     sync.RWMutex       `json:"-"`
}

// 批量合并任务管理器
type BatchTaskManager struct {
	tasks map[string]*BatchMergeTaskInfo
	mutex sync.RWMutex
}

var batchTaskManager = &BatchTaskManager{
	tasks: make(map[string]*BatchMergeTaskInfo),
}

// 添加任务
func (tm *BatchTaskManager) AddTask(task *BatchMergeTaskInfo) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()
	tm.tasks[task.ID] = task
}

// 获取任务
func (tm *BatchTaskManager) GetTask(taskID string) (*BatchMergeTaskInfo, bool) {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()
	task, exists := tm.tasks[taskID]
	return task, exists
}

// 删除任务
func (tm *BatchTaskManager) RemoveTask(taskID string) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()
	if task, exists := tm.tasks[taskID]; exists {
		if task.Cancel != nil {
			task.Cancel()
		}
		delete(tm.tasks, taskID)
	}
}

// 更新任务状态
func (task *BatchMergeTaskInfo) UpdateStatus(status TaskStatus) {
	task.mutex.Lock()
	defer task.mutex.Unlock()
	task.Status = status
	now := time.Now()

	switch status {
	case TaskStatusRunning:
		task.StartedAt = &now
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusCancelled:
		task.EndedAt = &now
	}
}

// recordTask 任务结束后写流水，库未初始化时跳过
func recordTask(taskId, sessionId, taskType string, status TaskStatus, createdAt time.Time, result interface{}) {
	if models.DB == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil || result == nil {
		raw = []byte("{}")
	}
	row := models.TopoTask{
		TaskId:    taskId,
		SessionId: sessionId,
		TaskType:  taskType,
		Status:    string(status),
		Result:    datatypes.JSON(raw),
		StartDate: createdAt.Format("2006-01-02 15:04:05"),
		EndDate:   time.Now().Format("2006-01-02 15:04:05"),
	}
	if err := models.DB.Create(&row).Error; err != nil {
		log.Printf("任务流水写入失败: %v", err)
	}
}

// featurePolygon 把GeoJSON面要素转成拓扑输入多边形
func featurePolygon(feat *geojson.Feature) (Topology.Polygon, error) {
	if feat == nil || feat.Geometry == nil {
		return Topology.Polygon{}, errors.New("要素缺少几何")
	}
	switch gm := feat.Geometry.(type) {
	case orb.Polygon:
		return Topology.PolygonFromOrb(gm), nil
	case orb.Ring:
		return Topology.PolygonFromOrb(orb.Polygon{gm}), nil
	}
	return Topology.Polygon{}, fmt.Errorf("几何类型%s不是面", feat.Geometry.GeoJSONType())
}

// 参数验证函数
func validateBatchMergeParams(req *BatchMergeRequest) error {
	if req.SessionId == "" {
		return fmt.Errorf("session_id不能为空")
	}
	if req.Features == nil || len(req.Features.Features) == 0 {
		return fmt.Errorf("features不能为空")
	}
	return nil
}

// runBatchMerge 逐要素合并，几何不合法的要素跳过，拓扑损坏则中止
func runBatchMerge(ctx context.Context, s *services.GraphSession, fc *geojson.FeatureCollection, progress func(float64, string) bool) (*BatchMergeResult, error) {
	result := &BatchMergeResult{}
	total := len(fc.Features)

	for i, feat := range fc.Features {
		select {
		case <-ctx.Done():
			return nil, context.Canceled
		default:
		}

		poly, err := featurePolygon(feat)
		if err != nil {
			result.Skipped++
			continue
		}

		s.Lock()
		_, err = s.Graph.MergePolygon(poly)
		s.Unlock()
		if err != nil {
			var topoErr *Topology.TopologyError
			if errors.As(err, &topoErr) {
				return nil, err
			}
			result.Skipped++
			continue
		}
		result.Merged++

		if !progress(float64(i+1)/float64(total), fmt.Sprintf("已合并%d/%d个面要素", i+1, total)) {
			return nil, context.Canceled
		}
	}

	s.Touch()
	return result, nil
}

// StartBatchMerge 创建并初始化批量合并任务
func (uc *UserController) StartBatchMerge(c *gin.Context) {
	// 解析请求参数
	var req BatchMergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	if err := validateBatchMergeParams(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	if _, err := services.GetGraphManager().GetSession(req.SessionId); err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}

	// 创建任务
	taskID := uuid.New().String()
	ctx, cancel := context.WithCancel(context.Background())

	task := &BatchMergeTaskInfo{
		ID:        taskID,
		Status:    TaskStatusPending,
		Request:   req,
		CreatedAt: time.Now(),
		Context:   ctx,
		Cancel:    cancel,
	}

	// 添加到任务管理器
	batchTaskManager.AddTask(task)

	// 返回任务ID
	c.JSON(200, gin.H{
		"task_id": taskID,
		"status":  task.Status,
		"message": "批量合并任务已创建，请使用WebSocket连接开始执行",
		"ws_url":  fmt.Sprintf("/topo/batchmerge/ws/%s", taskID),
	})
}

// BatchMergeWebSocket 处理WebSocket连接并执行批量合并任务
func (uc *UserController) BatchMergeWebSocket(c *gin.Context) {
	taskID := c.Param("taskId")

	// 获取任务信息
	task, exists := batchTaskManager.GetTask(taskID)
	if !exists {
		c.JSON(404, gin.H{"error": "任务不存在"})
		return
	}

	// 检查任务状态
	task.mutex.RLock()
	if task.Status != TaskStatusPending {
		task.mutex.RUnlock()
		c.JSON(400, gin.H{"error": "任务已经开始或已完成"})
		return
	}
	task.mutex.RUnlock()

	manager := services.GetGraphManager()
	s, err := manager.GetSession(task.Request.SessionId)
	if err != nil {
		task.UpdateStatus(TaskStatusFailed)
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}

	// 升级到WebSocket连接
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(500, gin.H{"error": "WebSocket升级失败"})
		return
	}
	defer ws.Close()

	// 更新任务状态为运行中
	task.UpdateStatus(TaskStatusRunning)

	// 用于协调取消操作的通道
	cancelChan := make(chan bool, 1)

	// 启动goroutine监听客户端取消消息
	go func() {
		for {
			var msg ClientMessage
			err := ws.ReadJSON(&msg)
			if err != nil {
				// WebSocket连接断开或读取错误
				fmt.Printf("WebSocket读取错误: %v\n", err)
				cancelChan <- true
				return
			}

			if msg.Action == "cancel" {
				fmt.Printf("收到批量合并任务 %s 的取消请求\n", taskID)
				cancelChan <- true
				task.Cancel()
				return
			}
		}
	}()

	progressCallback := func(complete float64, message string) bool {
		// 检查context是否被取消
		select {
		case <-task.Context.Done():
			return false
		default:
		}

		percentage := int(complete * 100)

		// 通过WebSocket发送进度消息
		progressMsg := ProgressMessage{
			Type:       "progress",
			Percentage: percentage,
			Message:    message,
			Timestamp:  time.Now().UnixMilli(),
		}

		if err := ws.WriteJSON(progressMsg); err != nil {
			fmt.Printf("发送进度消息失败: %v\n", err)
			return false
		}
		return true
	}

	// 添加计时器
	startTime := time.Now()

	// 在goroutine中执行合并，以便能够响应取消操作
	resultChan := make(chan *BatchMergeResult, 1)
	errorChan := make(chan error, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				errorChan <- fmt.Errorf("批量合并发生panic: %v", r)
			}
		}()

		result, err := runBatchMerge(task.Context, s, task.Request.Features, progressCallback)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				// 取消分支由外层select处理
				return
			}
			errorChan <- err
			return
		}
		resultChan <- result
	}()

	// 等待结果或取消信号
	select {
	case <-cancelChan:
		// 操作被取消
		task.UpdateStatus(TaskStatusCancelled)
		cancelMsg := ProgressMessage{
			Type:      "cancelled",
			Message:   fmt.Sprintf("批量合并任务 %s 已被用户取消", taskID),
			Timestamp: time.Now().UnixMilli(),
		}
		ws.WriteJSON(cancelMsg)
		recordTask(taskID, task.Request.SessionId, "BatchMerge", TaskStatusCancelled, task.CreatedAt, nil)
		return

	case <-task.Context.Done():
		// Context被取消
		task.UpdateStatus(TaskStatusCancelled)
		cancelMsg := ProgressMessage{
			Type:      "cancelled",
			Message:   fmt.Sprintf("批量合并任务 %s 已被取消", taskID),
			Timestamp: time.Now().UnixMilli(),
		}
		ws.WriteJSON(cancelMsg)
		recordTask(taskID, task.Request.SessionId, "BatchMerge", TaskStatusCancelled, task.CreatedAt, nil)
		return

	case err := <-errorChan:
		// 合并过程中出错
		task.UpdateStatus(TaskStatusFailed)
		task.mutex.Lock()
		task.Error = err.Error()
		task.mutex.Unlock()

		errorMsg := ProgressMessage{
			Type:      "error",
			Message:   "批量合并失败: " + err.Error(),
			Timestamp: time.Now().UnixMilli(),
		}
		ws.WriteJSON(errorMsg)
		recordTask(taskID, task.Request.SessionId, "BatchMerge", TaskStatusFailed, task.CreatedAt, gin.H{"error": err.Error()})
		return

	case result := <-resultChan:
		// 合并成功完成
		// 检查是否在最后时刻被取消
		select {
		case <-task.Context.Done():
			task.UpdateStatus(TaskStatusCancelled)
			cancelMsg := ProgressMessage{
				Type:      "cancelled",
				Message:   fmt.Sprintf("批量合并任务 %s 已被用户取消", taskID),
				Timestamp: time.Now().UnixMilli(),
			}
			ws.WriteJSON(cancelMsg)
			recordTask(taskID, task.Request.SessionId, "BatchMerge", TaskStatusCancelled, task.CreatedAt, nil)
			return
		default:
		}

		// 保存结果到任务中
		task.mutex.Lock()
		task.Result = result
		task.mutex.Unlock()
		task.UpdateStatus(TaskStatusCompleted)

		manager.InvalidateTiles(task.Request.SessionId)
		recordTask(taskID, task.Request.SessionId, "BatchMerge", TaskStatusCompleted, task.CreatedAt, result)

		// 计算并发送完成消息
		elapsedTime := time.Since(startTime)
		completionMsg := ProgressMessage{
			Type:       "complete",
			Percentage: 100,
			Message:    fmt.Sprintf("批量合并完成，耗时: %v，合并%d个面要素，跳过%d个", elapsedTime, result.Merged, result.Skipped),
			Timestamp:  time.Now().UnixMilli(),
		}
		ws.WriteJSON(completionMsg)
	}
}

// GetBatchMergeTaskStatus 查询批量合并任务状态
func (uc *UserController) GetBatchMergeTaskStatus(c *gin.Context) {
	taskID := c.Param("taskId")

	task, exists := batchTaskManager.GetTask(taskID)
	if !exists {
		c.JSON(404, gin.H{"error": "任务不存在"})
		return
	}

	task.mutex.RLock()
	defer task.mutex.RUnlock()

	response := gin.H{
		"task_id":    task.ID,
		"status":     task.Status,
		"created_at": task.CreatedAt,
		"started_at": task.StartedAt,
		"ended_at":   task.EndedAt,
	}

	if task.Error != "" {
		response["error"] = task.Error
	}

	c.JSON(200, response)
}
