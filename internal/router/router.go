package router

import (
	"time"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/config"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/handler"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/middleware"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/repository"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/service"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	herramientaRepo := repository.NewHerramientaRepository(db)
	transaccionRepo := repository.NewTransaccionRepository(db)
	operarioRepo := repository.NewOperarioRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	movimientoSvc := service.NewMovimientoService(herramientaRepo, transaccionRepo, operarioRepo, rdb, dispatcher)
	reconciliacionSvc := service.NewReconciliacionService(herramientaRepo, transaccionRepo)
	herramientaSvc := service.NewHerramientaService(herramientaRepo, transaccionRepo, categoriaRepo, rdb)
	transaccionSvc := service.NewTransaccionService(transaccionRepo, dispatcher)
	operarioSvc := service.NewOperarioService(operarioRepo, transaccionRepo, cfg.AccessCodeLength)
	categoriaSvc := service.NewCategoriaService(categoriaRepo, herramientaRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	movimientosH := handler.NewMovimientosHandler(movimientoSvc)
	consultaH := handler.NewConsultaStockHandler(herramientaRepo, rdb)
	herramientasH := handler.NewHerramientasHandler(herramientaSvc, reconciliacionSvc)
	transaccionesH := handler.NewTransaccionesHandler(transaccionSvc)
	operariosH := handler.NewOperariosHandler(operarioSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	adminH := handler.NewAdminHandler(rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Kiosk endpoints — no JWT. The movement endpoints authenticate per call
	// with the operario access code; the tighter limiter throttles PIN
	// guessing per IP.
	kiosco := r.Group("/v1", middleware.RateLimiter(60, time.Minute))
	{
		kiosco.GET("/stock/:id", consultaH.GetStock)
		kiosco.POST("/movimientos/retiro", movimientosH.Retiro)
		kiosco.POST("/movimientos/devolucion", movimientosH.Devolucion)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: panolero, supervisor, administrador — declared per-endpoint
		lectura := middleware.RequireRole("panolero", "supervisor", "administrador")

		v1.GET("/herramientas", lectura, herramientasH.Listar)
		v1.GET("/herramientas/:id", lectura, herramientasH.ObtenerPorID)
		v1.GET("/herramientas/alertas", lectura, herramientasH.Alertas)
		// Stock surgery — supervisor or administrador
		v1.PATCH("/herramientas/:id/stock", middleware.RequireRole("supervisor", "administrador"), herramientasH.AjustarStock)
		v1.POST("/herramientas/:id/reconciliar", middleware.RequireRole("supervisor", "administrador"), herramientasH.Reconciliar)
		// Write operations — administrador only
		herr := v1.Group("/herramientas", middleware.RequireRole("administrador"))
		{
			herr.POST("", herramientasH.Crear)
			herr.PUT("/:id", herramientasH.Actualizar)
			herr.DELETE("/:id", herramientasH.Eliminar)
		}

		v1.GET("/transacciones", lectura, transaccionesH.Listar)
		v1.GET("/transacciones/recientes", lectura, transaccionesH.Recientes)
		v1.GET("/transacciones/resumen", lectura, transaccionesH.Resumen)
		v1.POST("/transacciones/reporte", middleware.RequireRole("supervisor", "administrador"), transaccionesH.SolicitarReporte)

		operarios := v1.Group("/operarios", middleware.RequireRole("administrador"))
		{
			operarios.POST("", operariosH.Crear)
			operarios.GET("", operariosH.Listar)
			operarios.GET("/:id", operariosH.ObtenerPorID)
			operarios.PUT("/:id", operariosH.Actualizar)
			operarios.POST("/:id/regenerar-codigo", operariosH.RegenerarCodigo)
			operarios.DELETE("/:id", operariosH.Eliminar)
		}

		// Categorías — administrador can write, all authenticated can read
		v1.GET("/categorias", lectura, categoriasH.Listar)
		categorias := v1.Group("/categorias", middleware.RequireRole("administrador"))
		{
			categorias.POST("", categoriasH.Crear)
			categorias.PUT("/:id", categoriasH.Actualizar)
			categorias.DELETE("/:id", categoriasH.Desactivar)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}

		v1.GET("/admin/dlq", middleware.RequireRole("administrador"), adminH.DLQ)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
