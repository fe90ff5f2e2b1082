package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/missionboard/middleware"
	"github.com/cppla/missionboard/services"
	"github.com/cppla/missionboard/utils"
)

// UserController serves the personal dashboard.
type UserController struct {
	mypage *services.MyPageService
}

// NewUserController creates a UserController.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{mypage: services.NewMyPageService(db)}
}

// MyPage returns profile, grouped history and ranks for the caller.
func (u *UserController) MyPage(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "인증 토큰이 필요합니다.")
		return
	}

	page, err := u.mypage.Get(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "사용자를 찾을 수 없습니다.")
			return
		}
		utils.Sugar.Errorw("mypage failed", "user_id", userID, "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50030, "마이페이지 정보를 가져오는 중 오류가 발생했습니다.")
		return
	}

	utils.Success(ctx, page)
}
