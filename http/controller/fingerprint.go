package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/tnqbao/gau-drop-service/service"
	"github.com/tnqbao/gau-drop-service/utils"
)

func (ctrl *Controller) ListFingerprints(c *gin.Context) {
	ctx := c.Request.Context()

	fps, err := ctrl.Service.Guard.List(ctx)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Fingerprint] Failed to list fingerprints")
		utils.JSON500(c, "Failed to list fingerprints")
		return
	}

	utils.JSON200(c, fps)
}

func (ctrl *Controller) ToggleBlockFingerprint(c *gin.Context) {
	ctx := c.Request.Context()

	token := c.Param("fingerprint")
	if token == "" {
		utils.JSON400(c, "fingerprint is required")
		return
	}

	fp, err := ctrl.Service.Guard.ToggleBlock(ctx, token)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Fingerprint] Toggle on unseen fingerprint %s", token)
			utils.JSON404(c, "Fingerprint not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Fingerprint] Failed to toggle block on %s", token)
		utils.JSON500(c, "Failed to toggle block")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Fingerprint] Toggled block on %s (is_blocked=%t)", token, fp.IsBlocked)
	utils.JSON200(c, fp)
}
