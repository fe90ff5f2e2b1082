package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/missionboard/middleware"
	"github.com/cppla/missionboard/models"
	"github.com/cppla/missionboard/utils"
)

// AuthController handles registration, login and the current profile.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

type authResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Register creates an account and returns it with a fresh token.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Nickname   string `json:"nickname"`
		Password   string `json:"password"`
		Department string `json:"department"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "잘못된 요청입니다.")
		return
	}

	if strings.TrimSpace(req.Nickname) == "" || req.Password == "" || req.Department == "" {
		utils.Error(ctx, http.StatusBadRequest, 40002, "닉네임, 비밀번호, 부서를 모두 입력해주세요.")
		return
	}
	if !utils.PasswordLongEnough(req.Password) {
		utils.Error(ctx, http.StatusBadRequest, 40003, "비밀번호는 4자 이상이어야 합니다.")
		return
	}
	department := models.Department(req.Department)
	if !department.Valid() {
		utils.Error(ctx, http.StatusBadRequest, 40004, "유효한 부서를 선택해주세요.")
		return
	}
	nickname, ok := utils.CleanNickname(req.Nickname)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40005, "사용할 수 없는 닉네임입니다.")
		return
	}

	var existing models.User
	if err := a.db.Where("nickname = ?", nickname).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusBadRequest, 40006, "이미 사용 중인 닉네임입니다.")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Sugar.Errorw("register lookup failed", "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50001, "회원가입 중 오류가 발생했습니다.")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "회원가입 중 오류가 발생했습니다.")
		return
	}

	user := models.User{
		Nickname:     nickname,
		PasswordHash: hash,
		Department:   department,
	}
	if err := a.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusBadRequest, 40006, "이미 사용 중인 닉네임입니다.")
			return
		}
		utils.Sugar.Errorw("register create failed", "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50003, "회원가입 중 오류가 발생했습니다.")
		return
	}

	token, err := utils.GenerateToken(user.ID, utils.TokenTTL())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "회원가입 중 오류가 발생했습니다.")
		return
	}

	// a new member shows up on every leaderboard
	utils.InvalidateRankings(ctx.Request.Context())
	utils.Sugar.Infow("user registered", "user_id", user.ID, "department", user.Department)
	utils.Created(ctx, authResponse{User: user, Token: token})
}

// Login verifies credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Nickname string `json:"nickname"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Nickname) == "" || req.Password == "" {
		utils.Error(ctx, http.StatusBadRequest, 40007, "닉네임과 비밀번호를 입력해주세요.")
		return
	}

	var user models.User
	if err := a.db.Where("nickname = ?", strings.TrimSpace(req.Nickname)).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Sugar.Errorw("login lookup failed", "error", err)
			utils.Error(ctx, http.StatusInternalServerError, 50005, "로그인 중 오류가 발생했습니다.")
			return
		}
		utils.Error(ctx, http.StatusUnauthorized, 40106, "닉네임 또는 비밀번호가 올바르지 않습니다.")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "닉네임 또는 비밀번호가 올바르지 않습니다.")
		return
	}

	token, err := utils.GenerateToken(user.ID, utils.TokenTTL())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50006, "로그인 중 오류가 발생했습니다.")
		return
	}

	utils.Success(ctx, authResponse{User: user, Token: token})
}

// Me returns the current authenticated user's profile.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "인증 토큰이 필요합니다.")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "사용자를 찾을 수 없습니다.")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50007, "사용자 정보를 가져오는 중 오류가 발생했습니다.")
		return
	}

	utils.Success(ctx, gin.H{"user": user})
}

// Logout revokes the presented token until it would have expired anyway.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	value, _ := ctx.Get(middleware.ContextTokenExpiryKey)
	expiresAt, _ := value.(time.Time)
	if token == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "인증 토큰이 필요합니다.")
		return
	}

	utils.BlacklistToken(ctx.Request.Context(), token, expiresAt)
	utils.Success(ctx, gin.H{"success": true})
}
