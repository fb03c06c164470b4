package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"pusula/internal/service/schedule"
	sessionstore "pusula/internal/service/store"
)

// respondError 将领域错误映射为 HTTP 状态码
func respondError(c *gin.Context, err error) {
	if le, ok := schedule.AsLoadError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": le.Message, "kind": le.Kind})
		return
	}
	switch {
	case errors.Is(err, sessionstore.ErrNoCurrent):
		c.JSON(http.StatusConflict, gin.H{"error": "Önce güncel program dosyasını yükleyin.", "kind": "no_current"})
	case errors.Is(err, sessionstore.ErrNoBaseline):
		c.JSON(http.StatusConflict, gin.H{"error": "Karşılaştırma için baseline dosyası yükleyin.", "kind": "no_baseline"})
	default:
		log.Printf("api: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
