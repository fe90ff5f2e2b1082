package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/missionboard/config"
	"github.com/cppla/missionboard/models"
	"github.com/cppla/missionboard/services"
	"github.com/cppla/missionboard/utils"
)

// RankingController serves the public leaderboards. Responses are cached in
// redis when configured; writes that change rankings invalidate the cache.
type RankingController struct {
	rankings *services.RankingService
}

// NewRankingController creates a RankingController.
func NewRankingController(db *gorm.DB) *RankingController {
	return &RankingController{rankings: services.NewRankingService(db)}
}

func cacheTTL() time.Duration {
	return time.Duration(config.Get().RankingCacheTTLSeconds) * time.Second
}

// serveCached writes the cached body for key if present, otherwise builds the
// payload, caches it and writes it.
func serveCached(ctx *gin.Context, key string, build func() (interface{}, error)) error {
	if b, ok := utils.CacheGetBytes(ctx.Request.Context(), key); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return nil
	}
	payload, err := build()
	if err != nil {
		return err
	}
	utils.CacheSetJSON(ctx.Request.Context(), key, payload, cacheTTL())
	utils.Success(ctx, payload)
	return nil
}

// All returns total, department and per-category rankings in one payload.
func (r *RankingController) All(ctx *gin.Context) {
	err := serveCached(ctx, utils.RankingCachePrefix+"all", func() (interface{}, error) {
		return r.rankings.All(ctx.Request.Context())
	})
	if err != nil {
		utils.Sugar.Errorw("all rankings failed", "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50020, "랭킹을 가져오는 중 오류가 발생했습니다.")
	}
}

// Total returns users ordered by lifetime points.
func (r *RankingController) Total(ctx *gin.Context) {
	err := serveCached(ctx, utils.RankingCachePrefix+"total", func() (interface{}, error) {
		users, err := r.rankings.TotalUsers(ctx.Request.Context())
		if err != nil {
			return nil, err
		}
		return gin.H{"ranking": users}, nil
	})
	if err != nil {
		utils.Sugar.Errorw("total ranking failed", "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50021, "랭킹을 가져오는 중 오류가 발생했습니다.")
	}
}

// Department returns the per-department sums.
func (r *RankingController) Department(ctx *gin.Context) {
	err := serveCached(ctx, utils.RankingCachePrefix+"department", func() (interface{}, error) {
		ranking, err := r.rankings.Departments(ctx.Request.Context())
		if err != nil {
			return nil, err
		}
		return gin.H{"ranking": ranking}, nil
	})
	if err != nil {
		utils.Sugar.Errorw("department ranking failed", "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50022, "부서별 랭킹을 가져오는 중 오류가 발생했습니다.")
	}
}

// Category returns the ranking for one mission category.
func (r *RankingController) Category(ctx *gin.Context) {
	category := models.Category(ctx.Param("category"))
	if !category.Valid() {
		utils.Error(ctx, http.StatusBadRequest, 40020, "유효하지 않은 카테고리입니다.")
		return
	}

	err := serveCached(ctx, utils.RankingCachePrefix+"category:"+string(category), func() (interface{}, error) {
		ranking, err := r.rankings.Category(ctx.Request.Context(), category)
		if err != nil {
			return nil, err
		}
		return gin.H{"ranking": ranking, "category": category}, nil
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCategory) {
			utils.Error(ctx, http.StatusBadRequest, 40020, "유효하지 않은 카테고리입니다.")
			return
		}
		utils.Sugar.Errorw("category ranking failed", "category", category, "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50023, "카테고리별 랭킹을 가져오는 중 오류가 발생했습니다.")
	}
}
