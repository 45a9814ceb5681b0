package controller

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tnqbao/gau-drop-service/entity"
	"github.com/tnqbao/gau-drop-service/utils"
)

type createLoginLogRequest struct {
	Username            string `json:"username"`
	Password            string `json:"password"`
	Platform            string `json:"platform"`
	Language            string `json:"language"`
	Online              bool   `json:"online"`
	ScreenWidth         int    `json:"screen_width"`
	ScreenHeight        int    `json:"screen_height"`
	CookiesEnabled      bool   `json:"cookies_enabled"`
	HardwareConcurrency int    `json:"hardware_concurrency"`
	DeviceMemory        int    `json:"device_memory"`
	Brands              string `json:"brands"`
	Mobile              bool   `json:"mobile"`
}

func (ctrl *Controller) CreateLoginLog(c *gin.Context) {
	ctx := c.Request.Context()

	var req createLoginLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request body: "+err.Error())
		return
	}

	logEntry := &entity.LoginLog{
		ID:                  uuid.New(),
		Username:            req.Username,
		Password:            req.Password,
		IP:                  c.ClientIP(),
		LoginTime:           time.Now(),
		Platform:            req.Platform,
		Language:            req.Language,
		Online:              req.Online,
		ScreenWidth:         req.ScreenWidth,
		ScreenHeight:        req.ScreenHeight,
		CookiesEnabled:      req.CookiesEnabled,
		HardwareConcurrency: req.HardwareConcurrency,
		DeviceMemory:        req.DeviceMemory,
		Brands:              req.Brands,
		Mobile:              req.Mobile,
	}

	if err := ctrl.Repository.LoginLogRepo.Create(logEntry); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[LoginLog] Failed to store login log")
		utils.JSON500(c, "Failed to store login log")
		return
	}

	utils.JSON201(c, logEntry)
}

func (ctrl *Controller) ListLoginLogs(c *gin.Context) {
	ctx := c.Request.Context()

	logs, err := ctrl.Repository.LoginLogRepo.FindAll()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[LoginLog] Failed to list login logs")
		utils.JSON500(c, "Failed to list login logs")
		return
	}

	utils.JSON200(c, logs)
}
