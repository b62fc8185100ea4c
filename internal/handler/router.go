package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/interworky/error-tracker/internal/logging"
)

// RouterConfig - 라우터 구성 요소
type RouterConfig struct {
	Ingest             *IngestHandler
	Incidents          *IncidentHandler
	Logger             zerolog.Logger
	CORSAllowedOrigins []string
}

// NewRouter - 전체 라우트 등록
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), logging.GinMiddleware(cfg.Logger))

	// 건강 체크 및 문서
	router.GET("/ping", Ping)
	router.GET("/", Root)
	router.GET("/openapi.json", OpenAPIDoc)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")

	// 수집 엔드포인트는 테넌트 웹사이트에서 직접 호출
	errorsGroup := api.Group("/errors")
	errorsGroup.Use(CORSMiddleware(cfg.CORSAllowedOrigins, false))
	errorsGroup.POST("", cfg.Ingest.IngestError)
	errorsGroup.OPTIONS("", func(*gin.Context) {})
	errorsGroup.POST("/batch", cfg.Ingest.IngestBatch)
	errorsGroup.OPTIONS("/batch", func(*gin.Context) {})

	api.GET("/incidents", cfg.Incidents.ListIncidents)
	api.GET("/incidents/:id", cfg.Incidents.GetIncident)
	api.POST("/incidents/:id/remediation", cfg.Incidents.CompleteRemediation)
	api.POST("/incidents/:id/resolve", cfg.Incidents.Resolve)
	api.POST("/incidents/:id/ignore", cfg.Incidents.Ignore)
	api.POST("/incidents/:id/duplicate", cfg.Incidents.MarkDuplicate)

	api.DELETE("/organizations/:org/fingerprints/:fingerprint", cfg.Incidents.DeleteByFingerprint)
	api.GET("/organizations/:org/remediation-config", cfg.Incidents.GetRemediationConfig)
	api.PUT("/organizations/:org/remediation-config", cfg.Incidents.PutRemediationConfig)

	return router
}
