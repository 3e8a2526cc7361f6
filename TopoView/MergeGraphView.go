package TopoView

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/GrainArc/GeoTopo/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// 图合并请求参数结构体
type MergeGraphRequest struct {
	SessionId      string `json:"session_id" binding:"required"`
	OtherSessionId string `json:"other_session_id" binding:"required"`
}

// 图合并结果
type MergeGraphResult struct {
	VertexCount int    `json:"vertex_count"`
	EdgeCount   int    `json:"edge_count"`
	FaceCount   int    `json:"face_count"`
	Valid       bool   `json:"valid"`
	Message     string `json:"message,omitempty"`
}

// 图合并任务信息结构体
type GraphMergeTaskInfo struct {
	ID        string             `json:"id"`
	Status    TaskStatus         `json:"status"`
	Request   MergeGraphRequest  `json:"merge_request"`
	CreatedAt time.Time          `json:"created_at"`
	StartedAt *time.Time         `json:"started_at,omitempty"`
	EndedAt   *time.Time         `json:"ended_at,omitempty"`
	Error     string             `json:"error,omitempty"`
	Result    *MergeGraphResult  `json:"-"`
	Context   context.Context    `json:"-"`
	Cancel    context.CancelFunc `json:"-"`
	mutex     sync.RWMutex       `json:"-"`
}

// 图合并任务管理器
type GraphTaskManager struct {
	tasks map[string]*GraphMergeTaskInfo
	mutex sync.RWMutex
}

var graphTaskManager = &GraphTaskManager{
	tasks: make(map[string]*GraphMergeTaskInfo),
}

// 添加图合并任务
func (gtm *GraphTaskManager) AddTask(task *GraphMergeTaskInfo) {
	gtm.mutex.Lock()
	defer gtm.mutex.Unlock()
	gtm.tasks[task.ID] = task
}

// 获取图合并任务
func (gtm *GraphTaskManager) GetTask(taskID string) (*GraphMergeTaskInfo, bool) {
	gtm.mutex.RLock()
	defer gtm.mutex.RUnlock()
	task, exists := gtm.tasks[taskID]
	return task, exists
}

// 删除图合并任务
func (gtm *GraphTaskManager) RemoveTask(taskID string) {
	gtm.mutex.Lock()
	defer gtm.mutex.Unlock()
	if task, exists := gtm.tasks[taskID]; exists {
		if task.Cancel != nil {
			task.Cancel()
		}
		delete(gtm.tasks, taskID)
	}
}

// 更新图合并任务状态
func (task *GraphMergeTaskInfo) UpdateStatus(status TaskStatus) {
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

// 图合并参数验证函数
func validateMergeGraphParams(req *MergeGraphRequest) error {
	if req.SessionId == "" {
		return fmt.Errorf("session_id不能为空")
	}
	if req.OtherSessionId == "" {
		return fmt.Errorf("other_session_id不能为空")
	}
	if req.SessionId == req.OtherSessionId {
		return fmt.Errorf("不能与自身合并")
	}
	return nil
}

// StartMergeGraph 创建并初始化图合并任务
func (uc *UserController) StartMergeGraph(c *gin.Context) {
	// 解析请求参数
	var req MergeGraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	if err := validateMergeGraphParams(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	manager := services.GetGraphManager()
	if _, err := manager.GetSession(req.SessionId); err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}
	if _, err := manager.GetSession(req.OtherSessionId); err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}

	// 创建任务
	taskID := uuid.New().String()
	ctx, cancel := context.WithCancel(context.Background())

	task := &GraphMergeTaskInfo{
		ID:        taskID,
		Status:    TaskStatusPending,
		Request:   req,
		CreatedAt: time.Now(),
		Context:   ctx,
		Cancel:    cancel,
	}

	// 添加到任务管理器
	graphTaskManager.AddTask(task)

	// 返回任务ID
	c.JSON(200, gin.H{
		"task_id": taskID,
		"status":  task.Status,
		"message": "图合并任务已创建，请使用WebSocket连接开始执行",
		"ws_url":  fmt.Sprintf("/topo/mergegraph/ws/%s", taskID),
	})
}

// MergeGraphWebSocket 处理WebSocket连接并执行图合并任务
func (uc *UserController) MergeGraphWebSocket(c *gin.Context) {
	taskID := c.Param("taskId")

	// 获取任务信息
	task, exists := graphTaskManager.GetTask(taskID)
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
	other, err := manager.GetSession(task.Request.OtherSessionId)
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
				fmt.Printf("WebSocket读取错误: %v\n", err)
				cancelChan <- true
				return
			}

			if msg.Action == "cancel" {
				fmt.Printf("收到图合并任务 %s 的取消请求\n", taskID)
				cancelChan <- true
				task.Cancel()
				return
			}
		}
	}()

	progressCallback := func(complete float64, message string) bool {
		select {
		case <-task.Context.Done():
			return false
		default:
		}

		progressMsg := ProgressMessage{
			Type:       "progress",
			Percentage: int(complete * 100),
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

	// 在goroutine中执行图合并，以便能够响应取消操作
	resultChan := make(chan *MergeGraphResult, 1)
	errorChan := make(chan error, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				errorChan <- fmt.Errorf("图合并发生panic: %v", r)
			}
		}()

		if !progressCallback(0.1, "开始合并图形") {
			return
		}

		// 固定按会话号顺序加锁，避免互相合并时死锁
		first, second := s, other
		if second.Uid < first.Uid {
			first, second = second, first
		}
		first.Lock()
		second.Lock()
		mergeErr := s.Graph.MergeGraph(other.Graph)
		var result *MergeGraphResult
		if mergeErr == nil {
			verifyErr := s.Graph.VerifyTopology()
			result = &MergeGraphResult{
				VertexCount: s.Graph.VertexCount(),
				EdgeCount:   s.Graph.EdgeCount(),
				FaceCount:   s.Graph.FaceCount(),
				Valid:       verifyErr == nil,
			}
			if verifyErr != nil {
				result.Message = verifyErr.Error()
			}
		}
		second.Unlock()
		first.Unlock()

		if mergeErr != nil {
			errorChan <- mergeErr
			return
		}

		s.Touch()
		progressCallback(0.9, "合并完成，正在校验拓扑")
		resultChan <- result
	}()

	// 等待结果或取消信号
	select {
	case <-cancelChan:
		task.UpdateStatus(TaskStatusCancelled)
		cancelMsg := ProgressMessage{
			Type:      "cancelled",
			Message:   fmt.Sprintf("图合并任务 %s 已被用户取消", taskID),
			Timestamp: time.Now().UnixMilli(),
		}
		ws.WriteJSON(cancelMsg)
		recordTask(taskID, task.Request.SessionId, "MergeGraph", TaskStatusCancelled, task.CreatedAt, nil)
		return

	case <-task.Context.Done():
		task.UpdateStatus(TaskStatusCancelled)
		cancelMsg := ProgressMessage{
			Type:      "cancelled",
			Message:   fmt.Sprintf("图合并任务 %s 已被取消", taskID),
			Timestamp: time.Now().UnixMilli(),
		}
		ws.WriteJSON(cancelMsg)
		recordTask(taskID, task.Request.SessionId, "MergeGraph", TaskStatusCancelled, task.CreatedAt, nil)
		return

	case err := <-errorChan:
		task.UpdateStatus(TaskStatusFailed)
		task.mutex.Lock()
		task.Error = err.Error()
		task.mutex.Unlock()

		errorMsg := ProgressMessage{
			Type:      "error",
			Message:   "图合并失败: " + err.Error(),
			Timestamp: time.Now().UnixMilli(),
		}
		ws.WriteJSON(errorMsg)
		recordTask(taskID, task.Request.SessionId, "MergeGraph", TaskStatusFailed, task.CreatedAt, gin.H{"error": err.Error()})
		return

	case result := <-resultChan:
		// 保存结果到任务中
		task.mutex.Lock()
		task.Result = result
		task.mutex.Unlock()
		task.UpdateStatus(TaskStatusCompleted)

		manager.InvalidateTiles(task.Request.SessionId)
		recordTask(taskID, task.Request.SessionId, "MergeGraph", TaskStatusCompleted, task.CreatedAt, result)

		// 计算并发送完成消息
		elapsedTime := time.Since(startTime)
		completionMsg := ProgressMessage{
			Type:       "complete",
			Percentage: 100,
			Message:    fmt.Sprintf("图合并完成，耗时: %v，当前图共%d个面", elapsedTime, result.FaceCount),
			Timestamp:  time.Now().UnixMilli(),
		}
		ws.WriteJSON(completionMsg)
	}
}

// GetMergeGraphTaskStatus 查询图合并任务状态
func (uc *UserController) GetMergeGraphTaskStatus(c *gin.Context) {
	taskID := c.Param("taskId")

	task, exists := graphTaskManager.GetTask(taskID)
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
