package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/missionboard/metrics"
	"github.com/cppla/missionboard/middleware"
	"github.com/cppla/missionboard/services"
	"github.com/cppla/missionboard/utils"
)

// MissionController serves the catalog and the daily completion toggle.
type MissionController struct {
	missions *services.MissionService
}

// NewMissionController creates a MissionController.
func NewMissionController(db *gorm.DB) *MissionController {
	return &MissionController{missions: services.NewMissionService(db)}
}

// List returns the catalog with today's completion flags.
func (m *MissionController) List(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "인증 토큰이 필요합니다.")
		return
	}

	missions, err := m.missions.ListWithStatus(ctx.Request.Context(), userID)
	if err != nil {
		utils.Sugar.Errorw("list missions failed", "user_id", userID, "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50010, "미션 목록을 가져오는 중 오류가 발생했습니다.")
		return
	}

	utils.Success(ctx, gin.H{"missions": missions})
}

// Toggle completes or cancels a mission for today.
func (m *MissionController) Toggle(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "인증 토큰이 필요합니다.")
		return
	}

	missionID, err := strconv.ParseUint(ctx.Param("missionId"), 10, 64)
	if err != nil || missionID == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40010, "유효하지 않은 미션 ID입니다.")
		return
	}

	res, err := m.missions.Toggle(ctx.Request.Context(), userID, uint(missionID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissionNotFound):
			utils.Error(ctx, http.StatusNotFound, 40410, "미션을 찾을 수 없습니다.")
		case errors.Is(err, services.ErrUserNotFound):
			utils.Error(ctx, http.StatusNotFound, 40411, "사용자를 찾을 수 없습니다.")
		default:
			utils.Sugar.Errorw("toggle mission failed", "user_id", userID, "mission_id", missionID, "error", err)
			utils.Error(ctx, http.StatusInternalServerError, 50011, "미션 처리 중 오류가 발생했습니다.")
		}
		return
	}

	metrics.RecordToggle(res.Completed)
	utils.InvalidateRankings(ctx.Request.Context())

	utils.Success(ctx, gin.H{
		"success":   true,
		"points":    res.Points,
		"completed": res.Completed,
		"user":      res.User,
	})
}

// Completed returns the user's full completion history, newest first.
func (m *MissionController) Completed(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "인증 토큰이 필요합니다.")
		return
	}

	logs, err := m.missions.History(ctx.Request.Context(), userID)
	if err != nil {
		utils.Sugar.Errorw("mission history failed", "user_id", userID, "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50012, "완료한 미션 목록을 가져오는 중 오류가 발생했습니다.")
		return
	}

	utils.Success(ctx, gin.H{"completedMissions": logs})
}
