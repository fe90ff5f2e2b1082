package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/missionboard/models"
	"github.com/cppla/missionboard/utils"
)

// MetaController exposes the closed enumerations so the client does not hard-code them.
type MetaController struct{}

func NewMetaController() *MetaController { return &MetaController{} }

// GetEnums returns departments and categories in display order.
func (m *MetaController) GetEnums(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"departments": models.Departments(),
		"categories":  models.Categories(),
	})
}
