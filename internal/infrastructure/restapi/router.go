package restapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// RouterOptions configures the optional parts of the router.
type RouterOptions struct {
	AllowedOrigins []string // empty allows all origins
	SwaggerEnabled bool
	SwaggerPath    string // route prefix of the swagger UI, e.g. "/swagger"
	SwaggerSpec    string // file served as the OpenAPI document
	MetricsEnabled bool
}

const swaggerSpecRoute = "/docs/swagger.yaml"

// SetupRouter builds the gin engine serving the page API.
func SetupRouter(h *Handler, zapLogger *zap.Logger, opts RouterOptions) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	if len(opts.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))
	router.Use(ZapLoggerMiddleware(zapLogger))
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/state", h.GetState)
		v1.GET("/events", h.StreamEvents)

		v1.GET("/networks", h.ListNetworks)
		v1.POST("/networks/:network/select", h.SelectNetwork)

		v1.GET("/wallets", h.ListWallets)
		v1.POST("/wallets/:wallet/connect", h.ConnectWallet)
		v1.POST("/wallet/disconnect", h.DisconnectWallet)
		v1.GET("/wallet/balance", h.GetBalance)

		v1.POST("/theme/toggle", h.ToggleTheme)

		v1.POST("/modals/:modal/toggle", h.ToggleModal)
		v1.POST("/modals/:modal/close", h.CloseModal)
		v1.POST("/modals/close", h.CloseAllModals)

		v1.GET("/tokens", h.ListTokens)
		v1.POST("/tokens/:symbol/select", h.SelectToken)
		v1.POST("/token-modal/:target/toggle", h.ToggleTokenModal)
		v1.GET("/prices/:network/:symbol", h.GetPrice)

		v1.POST("/banner/close", h.CloseBanner)
		v1.POST("/swap", h.Swap)

		v1.POST("/provider/:connector/events", h.RelayProviderEvent)
	}

	if opts.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	if opts.SwaggerEnabled && opts.SwaggerSpec != "" {
		path := opts.SwaggerPath
		if path == "" {
			path = "/swagger"
		}
		router.StaticFile(swaggerSpecRoute, opts.SwaggerSpec)
		router.GET(path+"/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL(swaggerSpecRoute)))
		zapLogger.Info("Swagger UI enabled", zap.String("path", path+"/index.html"))
	}

	return router
}
